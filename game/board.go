package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/they4kman/gosweep/v2/util/collections"
)

type BoardConfig struct {
	Rows, Cols int
	NumMines   int
	Mode       GameMode

	// Seed for mine placement; 0 picks one from the clock
	Seed int64

	Logger logrus.FieldLogger
}

type InvalidBoardError struct {
	Rows, Cols, NumMines int
}

func (err *InvalidBoardError) Error() string {
	switch {
	case err.Rows <= 0:
		return fmt.Sprintf("cannot create a board with %d rows", err.Rows)
	case err.Cols <= 0:
		return fmt.Sprintf("cannot create a board with %d columns", err.Cols)
	case err.NumMines <= 0:
		return fmt.Sprintf("cannot create a board with %d mines", err.NumMines)
	default:
		return fmt.Sprintf(
			"not enough space for %d mines on a %dx%d board (at most %d leaves a safe first click)",
			err.NumMines, err.Rows, err.Cols, err.Rows*err.Cols-2,
		)
	}
}

// Validate checks the board dimensions. At least two cells must be free of
// mines, so that a mine under the first click always has somewhere to go.
func (config BoardConfig) Validate() error {
	if config.Rows <= 0 || config.Cols <= 0 || config.NumMines <= 0 || config.NumMines > config.Rows*config.Cols-2 {
		return &InvalidBoardError{Rows: config.Rows, Cols: config.Cols, NumMines: config.NumMines}
	}
	return nil
}

type Board struct {
	rows, cols int
	numMines   int
	cells      [][]Cell
	mode       GameMode

	state       BoardState
	numRevealed int
	numFlags    int

	seed int64
	rand *rand.Rand
	log  logrus.FieldLogger
}

// NewBoard creates a board with its mines already placed
func NewBoard(config BoardConfig) (*Board, error) {
	board, err := createBoard(config)
	if err != nil {
		return nil, err
	}

	board.placeMines(board.numMines, nil)
	board.computeAdjacency()

	board.log.WithFields(logrus.Fields{
		"rows":  board.rows,
		"cols":  board.cols,
		"mines": board.numMines,
		"mode":  board.mode,
		"seed":  board.seed,
	}).Debug("created board")

	return board, nil
}

// createBoard allocates an empty board, with no mines placed
func createBoard(config BoardConfig) (*Board, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	board := &Board{
		rows:     config.Rows,
		cols:     config.Cols,
		numMines: config.NumMines,
		mode:     config.Mode,
		cells:    make([][]Cell, config.Rows),
		state:    Ongoing,
		seed:     seed,
		rand:     rand.New(rand.NewSource(seed)),
		log:      logger,
	}

	for row := 0; row < board.rows; row++ {
		board.cells[row] = make([]Cell, board.cols)
		for col := 0; col < board.cols; col++ {
			cell := &board.cells[row][col]
			cell.row, cell.col = row, col
		}
	}

	return board, nil
}

func (board *Board) Rows() int {
	return board.rows
}

func (board *Board) Cols() int {
	return board.cols
}

func (board *Board) NumCells() int {
	return board.rows * board.cols
}

func (board *Board) NumMines() int {
	return board.numMines
}

func (board *Board) NumRevealed() int {
	return board.numRevealed
}

func (board *Board) NumFlags() int {
	return board.numFlags
}

// MinesRemaining is the displayed mine counter. It goes negative when more
// cells are flagged than there are mines.
func (board *Board) MinesRemaining() int {
	return board.numMines - board.numFlags
}

func (board *Board) State() BoardState {
	return board.state
}

func (board *Board) Mode() GameMode {
	return board.mode
}

func (board *Board) Seed() int64 {
	return board.seed
}

// CellAt returns nil for coordinates outside the board
func (board *Board) CellAt(row, col int) *Cell {
	if row >= 0 && col >= 0 && row < board.rows && col < board.cols {
		return &board.cells[row][col]
	}
	return nil
}

// Neighbors returns the in-bounds cells around cell, in chord order
func (board *Board) Neighbors(cell *Cell) []*Cell {
	neighbors := make([]*Cell, 0, len(directions))
	for _, offset := range directions {
		pos := cell.Coord().Add(offset)
		if neighbor := board.CellAt(pos.Row, pos.Col); neighbor != nil {
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

func (board *Board) canPlay() bool {
	return board.state == Ongoing
}

func (board *Board) computeAdjacency() {
	for row := range board.cells {
		for col := range board.cells[row] {
			cell := &board.cells[row][col]
			cell.numMines = 0
			if cell.isMine {
				continue
			}
			for _, neighbor := range board.Neighbors(cell) {
				if neighbor.isMine {
					cell.numMines++
				}
			}
		}
	}
}

// placeMines turns count cells not already mines, and not in excluded, into
// mines. Callers must ensure enough eligible cells exist.
func (board *Board) placeMines(count int, excluded collections.Set[Coord]) {
	placed, rejections := 0, 0

	for placed < count {
		if rejections >= maxRejections {
			placed += board.placeMinesShuffled(count-placed, excluded)
			break
		}

		cell := &board.cells[board.rand.Intn(board.rows)][board.rand.Intn(board.cols)]
		if cell.isMine || excluded.Contains(cell.Coord()) {
			rejections++
			continue
		}

		cell.isMine = true
		placed++
		rejections = 0
	}

	if placed < count {
		board.log.WithFields(logrus.Fields{
			"wanted": count,
			"placed": placed,
		}).Warn("ran out of cells while placing mines")
	}
}

func (board *Board) placeMinesShuffled(count int, excluded collections.Set[Coord]) int {
	eligible := make([]*Cell, 0, board.NumCells())
	for row := range board.cells {
		for col := range board.cells[row] {
			cell := &board.cells[row][col]
			if !cell.isMine && !excluded.Contains(cell.Coord()) {
				eligible = append(eligible, cell)
			}
		}
	}

	board.rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	if count > len(eligible) {
		count = len(eligible)
	}
	for _, cell := range eligible[:count] {
		cell.isMine = true
	}

	board.log.WithFields(logrus.Fields{
		"placed":   count,
		"eligible": len(eligible),
	}).Debug("placed remaining mines by shuffle")

	return count
}

func (board *Board) countCells(matches func(cell *Cell) bool) int {
	count := 0
	for row := range board.cells {
		for col := range board.cells[row] {
			if matches(&board.cells[row][col]) {
				count++
			}
		}
	}
	return count
}

// relocateMines clears the given mines and places the same number again,
// outside excluded
func (board *Board) relocateMines(mines []*Cell, excluded collections.Set[Coord]) {
	for _, cell := range mines {
		cell.isMine = false
	}
	board.placeMines(len(mines), excluded)
	board.computeAdjacency()
}

// clearFirstClick makes sure the first revealed cell is not a mine. In Win7
// mode the whole neighbourhood is cleared when the rest of the board can take
// its mines.
func (board *Board) clearFirstClick(cell *Cell) {
	if board.mode == Win7 {
		neighborhood := collections.NewSet(cell.Coord())
		var mines []*Cell
		if cell.isMine {
			mines = append(mines, cell)
		}
		for _, neighbor := range board.Neighbors(cell) {
			neighborhood.Add(neighbor.Coord())
			if neighbor.isMine {
				mines = append(mines, neighbor)
			}
		}

		free := board.countCells(func(other *Cell) bool {
			return !other.isMine && !neighborhood.Contains(other.Coord())
		})
		if len(mines) > 0 && free >= len(mines) {
			board.relocateMines(mines, neighborhood)
			board.log.WithFields(logrus.Fields{
				"cell":  cell.Coord(),
				"mines": len(mines),
			}).Debug("cleared mines around first click")
			return
		}
	}

	if cell.isMine {
		board.relocateMines([]*Cell{cell}, collections.NewSet(cell.Coord()))
		board.log.WithField("cell", cell.Coord()).Debug("relocated mine under first click")
	}
}

func (board *Board) lose(losingMine *Cell, changes *changeSet) {
	board.state = Lost
	losingMine.isLosingMine = true

	// Mines are shown without counting as revealed. Flags stay put, so
	// wrong ones can be told apart.
	for row := range board.cells {
		for col := range board.cells[row] {
			cell := &board.cells[row][col]
			switch {
			case cell.isFlagged:
				if !cell.isMine {
					changes.add(cell)
				}
			case cell.isMine && !cell.isRevealed:
				cell.isRevealed = true
				changes.add(cell)
			}
		}
	}

	board.log.WithFields(logrus.Fields{
		"cell":     losingMine.Coord(),
		"revealed": board.numRevealed,
	}).Debug("game lost")
}

func (board *Board) win(changes *changeSet) {
	board.state = Won

	for row := range board.cells {
		for col := range board.cells[row] {
			cell := &board.cells[row][col]
			if cell.isMine && !cell.isFlagged {
				cell.isFlagged = true
				changes.add(cell)
			}
		}
	}
	board.numFlags = board.numMines

	board.log.WithField("revealed", board.numRevealed).Debug("game won")
}

// settle checks for a terminal state after a reveal triggered at cell
func (board *Board) settle(trigger *Cell, changes *changeSet) {
	if !board.canPlay() {
		return
	}
	if trigger.isMine && trigger.isRevealed {
		board.lose(trigger, changes)
	} else if board.NumCells()-board.numRevealed == board.numMines {
		board.win(changes)
	}
}
