package game

// CellView is what collaborators may see of a cell. Mine identity is only
// exposed once the cell is revealed or the game is over, and counts only for
// revealed cells.
type CellView struct {
	Row      int       `json:"row"`
	Col      int       `json:"col"`
	State    CellState `json:"state"`
	Revealed bool      `json:"revealed"`
	Flagged  bool      `json:"flagged"`
	IsMine   bool      `json:"is_mine"`
	NumMines int       `json:"count"`
}

func (view CellView) Coord() Coord {
	return Coord{view.Row, view.Col}
}

// IsHidden reports whether the cell is neither revealed nor flagged
func (view CellView) IsHidden() bool {
	return !view.Revealed && !view.Flagged
}

type View struct {
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	NumMines       int          `json:"mines"`
	NumRevealed    int          `json:"revealed"`
	NumFlags       int          `json:"flags"`
	MinesRemaining int          `json:"mines_remaining"`
	State          BoardState   `json:"state"`
	Cells          [][]CellView `json:"cells"`
}

// View takes a read-only snapshot of the board
func (board *Board) View() View {
	view := View{
		Rows:           board.rows,
		Cols:           board.cols,
		NumMines:       board.numMines,
		NumRevealed:    board.numRevealed,
		NumFlags:       board.numFlags,
		MinesRemaining: board.MinesRemaining(),
		State:          board.state,
		Cells:          make([][]CellView, board.rows),
	}

	terminal := board.state.IsTerminal()
	for row := range board.cells {
		view.Cells[row] = make([]CellView, board.cols)
		for col := range board.cells[row] {
			cell := &board.cells[row][col]
			cellView := CellView{
				Row:      row,
				Col:      col,
				State:    cell.state(board.state),
				Revealed: cell.isRevealed,
				Flagged:  cell.isFlagged,
			}
			if cell.isRevealed || terminal {
				cellView.IsMine = cell.isMine
			}
			if cell.isRevealed && !cell.isMine {
				cellView.NumMines = cell.numMines
			}
			view.Cells[row][col] = cellView
		}
	}

	return view
}

// At returns the cell at row, col, and false when out of bounds
func (view View) At(row, col int) (CellView, bool) {
	if row < 0 || col < 0 || row >= view.Rows || col >= view.Cols {
		return CellView{}, false
	}
	return view.Cells[row][col], true
}

func (view View) Neighbors(coord Coord) []CellView {
	neighbors := make([]CellView, 0, len(directions))
	for _, offset := range directions {
		pos := coord.Add(offset)
		if neighbor, ok := view.At(pos.Row, pos.Col); ok {
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

// Hidden returns the coordinates of all cells neither revealed nor flagged
func (view View) Hidden() []Coord {
	var hidden []Coord
	for _, row := range view.Cells {
		for _, cell := range row {
			if cell.IsHidden() {
				hidden = append(hidden, cell.Coord())
			}
		}
	}
	return hidden
}
