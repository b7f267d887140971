package random

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/they4kman/gosweep/v2/game"
)

func TestDirectorFinishesGames(t *testing.T) {
	logger, _ := test.NewNullLogger()

	for seed := int64(1); seed <= 20; seed++ {
		config := game.NewGameConfig().WithDifficulty(game.Difficulties["easy"])
		config.Seed = seed
		config.Logger = logger

		session, err := game.NewGame(config)
		if err != nil {
			t.Fatal(err)
		}

		state := session.Play(New(seed))
		if !state.IsTerminal() {
			t.Errorf("seed %d: game still %v after random play", seed, state)
		}
	}
}

func TestDirectorOnlyClicksHiddenCells(t *testing.T) {
	logger, _ := test.NewNullLogger()
	snapshot := &game.BoardSnapshot{Seed: 1, SerializedBoard: "O.f\n..#"}
	board, err := snapshot.CreateBoard(game.BoardConfig{Logger: logger}, false)
	if err != nil {
		t.Fatal(err)
	}

	director := New(3)
	director.Init(board.View())
	defer director.End()

	seen := map[game.Coord]bool{}
	for {
		action, ok := director.Act(board.View())
		if !ok {
			break
		}
		if action.Action != game.Click {
			t.Errorf("unexpected action %v", action.Action)
		}
		seen[action.Coord] = true
	}

	expected := map[game.Coord]bool{{Row: 0, Col: 0}: true, {Row: 1, Col: 2}: true}
	if len(seen) != len(expected) {
		t.Errorf("clicked %v, expected %v", seen, expected)
	}
	for coord := range expected {
		if !seen[coord] {
			t.Errorf("%v never clicked", coord)
		}
	}
}
