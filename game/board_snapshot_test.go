package game

import (
	"strings"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	board := boardFromGlyphs(t, Win7,
		"O#O##",
		"#####",
		"####O",
	)
	board.Reveal(2, 0)
	board.ToggleFlag(0, 2)
	board.ToggleFlag(1, 4)

	serialized, err := board.Snapshot().Serialize()
	if err != nil {
		t.Fatal(err)
	}
	snapshot, err := LoadSnapshot(serialized)
	if err != nil {
		t.Fatal(err)
	}

	if snapshot.Mode != Win7 || snapshot.Seed != board.Seed() {
		t.Errorf("loaded snapshot = %+v", snapshot)
	}

	restored, err := snapshot.CreateBoard(BoardConfig{Logger: quietLogger()}, false)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := restored.Snapshot().SerializedBoard, board.Snapshot().SerializedBoard; got != want {
		t.Errorf("restored board:\n%s\nexpected:\n%s", got, want)
	}
	if restored.NumRevealed() != board.NumRevealed() || restored.NumFlags() != 2 {
		t.Errorf("restored counters: revealed %d flags %d", restored.NumRevealed(), restored.NumFlags())
	}
	checkAdjacency(t, restored)
}

func TestSnapshotFreshKeepsOnlyMines(t *testing.T) {
	snapshot := &BoardSnapshot{Seed: 9, SerializedBoard: "*f.\n.F#\n#O#"}

	board, err := snapshot.CreateBoard(BoardConfig{Logger: quietLogger()}, true)
	if err != nil {
		t.Fatal(err)
	}

	if got := board.Snapshot().SerializedBoard; got != "O##\n#O#\n#O#" {
		t.Errorf("fresh board:\n%s", got)
	}
	if board.NumRevealed() != 0 || board.NumFlags() != 0 || board.State() != Ongoing {
		t.Errorf("fresh board has progress: %+v", board.View())
	}
	if board.Seed() != 9 {
		t.Errorf("seed = %d, expected snapshot seed", board.Seed())
	}
}

func TestSnapshotRestoresLostGame(t *testing.T) {
	snapshot := &BoardSnapshot{Seed: 1, SerializedBoard: "*.#\n...\n#O#"}

	board, err := snapshot.CreateBoard(BoardConfig{Logger: quietLogger()}, false)
	if err != nil {
		t.Fatal(err)
	}

	if board.State() != Lost {
		t.Fatalf("state = %v, expected lost", board.State())
	}
	if got := board.View().Cells[2][1].State; got != Mine {
		t.Errorf("other mine shown as %v", got)
	}
}

func TestSnapshotRejectsBadBoards(t *testing.T) {
	tests := map[string]string{
		"ragged":      "O##\n##",
		"bad glyph":   "O#?\n###",
		"no mines":    "###\n###",
		"too crowded": "OOO\nOO#",
	}

	for name, serialized := range tests {
		t.Run(name, func(t *testing.T) {
			snapshot := &BoardSnapshot{SerializedBoard: serialized}
			if _, err := snapshot.CreateBoard(BoardConfig{Logger: quietLogger()}, false); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadSnapshotRejectsBadMode(t *testing.T) {
	_, err := LoadSnapshot("seed: 1\nmode: minesweeper2000\nboard: O##\n")
	if err == nil || !strings.Contains(err.Error(), "invalid game mode") {
		t.Errorf("err = %v", err)
	}
}
