package game

type Action int

const (
	Click Action = iota
	RightClick
	MiddleClick
)

var actionNames = map[Action]string{
	Click:       "click",
	RightClick:  "right_click",
	MiddleClick: "middle_click",
}

func (action Action) String() string {
	return actionNames[action]
}

type CellAction struct {
	Coord  Coord
	Action Action
}

// Result of a reveal-producing command. Changed lists every cell whose
// visible state changed, end-of-game sweeps included.
type Result struct {
	Changed []Coord    `json:"changed"`
	State   BoardState `json:"state"`
}

type FlagResult struct {
	Flagged bool       `json:"flagged"`
	Changed bool       `json:"changed"`
	State   BoardState `json:"state"`
}

func (board *Board) result(changes *changeSet) Result {
	result := Result{State: board.state}
	if changes != nil {
		result.Changed = changes.coords
	}
	return result
}

// Reveal opens the cell at row, col. Clicking an already revealed number
// chords it. Out of bounds, flagged cells and finished games are no-ops.
func (board *Board) Reveal(row, col int) Result {
	cell := board.CellAt(row, col)
	if cell == nil || !board.canPlay() || cell.isFlagged {
		return board.result(nil)
	}

	if cell.isRevealed {
		return board.chord(cell)
	}

	if board.numRevealed == 0 {
		board.clearFirstClick(cell)
	}

	changes := newChangeSet()
	board.revealCell(cell, changes)
	board.settle(cell, changes)

	return board.result(changes)
}

// Chord reveals every unflagged neighbour of a revealed number whose flag
// count matches it.
func (board *Board) Chord(row, col int) Result {
	cell := board.CellAt(row, col)
	if cell == nil || !board.canPlay() || !cell.isRevealed {
		return board.result(nil)
	}
	return board.chord(cell)
}

// chord walks neighbours in direction order. The first mine it meets ends
// the game; neighbours opened before that stay open.
func (board *Board) chord(cell *Cell) Result {
	if cell.isMine || cell.numMines == 0 {
		return board.result(nil)
	}

	neighbors := board.Neighbors(cell)
	numFlaggedNeighbors := 0
	for _, neighbor := range neighbors {
		if neighbor.isFlagged {
			numFlaggedNeighbors++
		}
	}
	if numFlaggedNeighbors != cell.numMines {
		return board.result(nil)
	}

	changes := newChangeSet()
	for _, neighbor := range neighbors {
		if neighbor.isFlagged || neighbor.isRevealed {
			continue
		}

		if neighbor.isMine {
			board.markRevealed(neighbor, changes)
			board.lose(neighbor, changes)
			return board.result(changes)
		}
		board.revealCell(neighbor, changes)
	}
	board.settle(cell, changes)

	return board.result(changes)
}

func (board *Board) revealCell(cell *Cell, changes *changeSet) {
	if cell.isRevealed {
		return
	}

	board.markRevealed(cell, changes)

	if !cell.isMine && cell.numMines == 0 {
		board.cascadeEmpty(cell, changes)
	}
}

// markRevealed reveals a single cell, dropping any flag on it
func (board *Board) markRevealed(cell *Cell, changes *changeSet) {
	if cell.isFlagged {
		cell.isFlagged = false
		board.numFlags--
	}
	cell.isRevealed = true
	board.numRevealed++
	changes.add(cell)
}

// ToggleFlag flips the flag on an unrevealed cell of an ongoing game
func (board *Board) ToggleFlag(row, col int) FlagResult {
	cell := board.CellAt(row, col)
	if cell == nil {
		return FlagResult{State: board.state}
	}
	if !board.canPlay() || cell.isRevealed {
		return FlagResult{Flagged: cell.isFlagged, State: board.state}
	}

	cell.setFlagged(board, !cell.isFlagged)

	return FlagResult{Flagged: cell.isFlagged, Changed: true, State: board.state}
}

func (cell *Cell) setFlagged(board *Board, isFlagged bool) {
	if cell.isFlagged == isFlagged {
		return
	}
	cell.isFlagged = isFlagged

	if cell.isFlagged {
		board.numFlags++
	} else {
		board.numFlags--
	}
}

// Apply performs a CellAction, reporting flag changes as a Result
func (board *Board) Apply(action CellAction) Result {
	switch action.Action {
	case RightClick:
		flagResult := board.ToggleFlag(action.Coord.Row, action.Coord.Col)
		result := Result{State: flagResult.State}
		if flagResult.Changed {
			result.Changed = []Coord{action.Coord}
		}
		return result
	case MiddleClick:
		return board.Chord(action.Coord.Row, action.Coord.Col)
	default:
		return board.Reveal(action.Coord.Row, action.Coord.Col)
	}
}
