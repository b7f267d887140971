package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

// BoardSnapshot records a board's mine layout and progress, one glyph per
// cell:
//
//	*  detonated mine    F  flagged mine    O  mine
//	f  flagged cell      .  revealed cell   #  hidden cell
type BoardSnapshot struct {
	Seed            int64    `yaml:"seed"`
	Mode            GameMode `yaml:"mode"`
	SerializedBoard string   `yaml:"board,flow"`
}

func (board *Board) Snapshot() *BoardSnapshot {
	var serialized strings.Builder
	for row := range board.cells {
		if row > 0 {
			serialized.WriteByte('\n')
		}
		for col := range board.cells[row] {
			serialized.WriteString(board.cells[row][col].serialize())
		}
	}

	return &BoardSnapshot{
		Seed:            board.seed,
		Mode:            board.mode,
		SerializedBoard: serialized.String(),
	}
}

func (snapshot *BoardSnapshot) Serialize() (string, error) {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("serializing snapshot: %w", err)
	}
	return string(out), nil
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return &snapshot, nil
}

// CreateBoard rebuilds the snapshotted board. Dimensions and mine count come
// from the snapshot; the rest of config is used as given, falling back to the
// snapshot's seed. A fresh board keeps only the mine layout.
func (snapshot *BoardSnapshot) CreateBoard(config BoardConfig, fresh bool) (*Board, error) {
	rows := strings.Split(strings.TrimRight(snapshot.SerializedBoard, "\n"), "\n")

	config.Rows = len(rows)
	config.Cols = len(rows[0])
	config.NumMines = strings.Count(snapshot.SerializedBoard, "*") +
		strings.Count(snapshot.SerializedBoard, "F") +
		strings.Count(snapshot.SerializedBoard, "O")
	config.Mode = snapshot.Mode
	if config.Seed == 0 {
		config.Seed = snapshot.Seed
	}

	for y, row := range rows {
		if len(row) != config.Cols {
			return nil, fmt.Errorf("snapshot row %d has %d cells, expected %d", y, len(row), config.Cols)
		}
	}

	board, err := createBoard(config)
	if err != nil {
		return nil, err
	}

	var losingMine *Cell
	for y, row := range rows {
		for x, c := range row {
			cell := &board.cells[y][x]
			if !cell.deserialize(c, fresh) {
				return nil, fmt.Errorf("invalid snapshot glyph %q at %v", c, cell.Coord())
			}

			if cell.isRevealed {
				board.numRevealed++
			}
			if cell.isFlagged {
				board.numFlags++
			}
			if cell.isLosingMine {
				losingMine = cell
			}
		}
	}

	board.computeAdjacency()

	switch {
	case losingMine != nil:
		board.lose(losingMine, newChangeSet())
	case board.numRevealed > 0 && board.NumCells()-board.numRevealed == board.numMines:
		board.win(newChangeSet())
	}

	return board, nil
}
