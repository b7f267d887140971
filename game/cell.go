package game

import (
	"fmt"
)

type Coord struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (coord Coord) String() string {
	return fmt.Sprintf("(%d, %d)", coord.Row, coord.Col)
}

func (coord Coord) Add(other Coord) Coord {
	return Coord{coord.Row + other.Row, coord.Col + other.Col}
}

func (coord Coord) Click() CellAction {
	return CellAction{Coord: coord, Action: Click}
}

func (coord Coord) RightClick() CellAction {
	return CellAction{Coord: coord, Action: RightClick}
}

func (coord Coord) MiddleClick() CellAction {
	return CellAction{Coord: coord, Action: MiddleClick}
}

type Cell struct {
	row, col int
	numMines int

	isMine, isRevealed, isFlagged bool
	isLosingMine                  bool
}

func (cell *Cell) String() string {
	return fmt.Sprintf("Cell(%v, %v)", cell.row, cell.col)
}

func (cell *Cell) Row() int {
	return cell.row
}

func (cell *Cell) Col() int {
	return cell.col
}

func (cell *Cell) Coord() Coord {
	return Coord{cell.row, cell.col}
}

func (cell *Cell) IsRevealed() bool {
	return cell.isRevealed
}

func (cell *Cell) IsFlagged() bool {
	return cell.isFlagged
}

// NumMines is the number of mines adjacent to the cell. It is always 0 for
// mines.
func (cell *Cell) NumMines() int {
	return cell.numMines
}

func (cell *Cell) state(boardState BoardState) CellState {
	switch {
	case cell.isFlagged:
		if boardState == Lost && !cell.isMine {
			return FlagWrong
		}
		return Flag
	case !cell.isRevealed:
		return Unrevealed
	case cell.isLosingMine:
		return MineLosing
	case cell.isMine:
		return Mine
	default:
		return CellState(cell.numMines)
	}
}

func (cell *Cell) serialize() string {
	switch {
	case cell.isMine:
		switch {
		case cell.isLosingMine:
			return "*"
		case cell.isFlagged:
			return "F"
		default:
			return "O"
		}
	case cell.isFlagged:
		return "f"
	case cell.isRevealed:
		return "."
	default:
		return "#"
	}
}

func (cell *Cell) deserialize(c rune, fresh bool) bool {
	switch c {
	case '*', 'F', 'O':
		cell.isMine = true

		if fresh {
			break
		}
		switch c {
		case '*':
			cell.isLosingMine = true
			cell.isRevealed = true
		case 'F':
			cell.isFlagged = true
		}
	case 'f':
		cell.isFlagged = !fresh
	case '.':
		cell.isRevealed = !fresh
	case '#':
	default:
		return false
	}

	return true
}
