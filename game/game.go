package game

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Difficulty struct {
	Name       string
	Rows, Cols int
	NumMines   int
}

var Difficulties = map[string]Difficulty{
	"easy":   {Name: "easy", Rows: 9, Cols: 9, NumMines: 10},
	"medium": {Name: "medium", Rows: 16, Cols: 16, NumMines: 40},
	"expert": {Name: "expert", Rows: 16, Cols: 30, NumMines: 99},
}

func ParseDifficulty(name string) (Difficulty, error) {
	if difficulty, ok := Difficulties[strings.ToLower(name)]; ok {
		return difficulty, nil
	}

	names := make([]string, 0, len(Difficulties))
	for known := range Difficulties {
		names = append(names, known)
	}
	sort.Strings(names)
	return Difficulty{}, fmt.Errorf("unknown difficulty %q (expected one of %s)", name, strings.Join(names, ", "))
}

type GameConfig struct {
	Width, Height int
	NumMines      int
	Mode          GameMode

	Seed int64

	// Snapshot to load board configuration from
	Snapshot *BoardSnapshot
	// Whether to set all cells as unrevealed when loading the Snapshot
	LoadSnapshotFresh bool

	// Path to directory where final snapshots of boards should be saved
	SavedSnapshotsDir string

	Logger logrus.FieldLogger
}

func NewGameConfig() GameConfig {
	expert := Difficulties["expert"]
	return GameConfig{
		Width:             expert.Cols,
		Height:            expert.Rows,
		NumMines:          expert.NumMines,
		Mode:              Classic,
		LoadSnapshotFresh: true,
	}
}

func (config GameConfig) WithDifficulty(difficulty Difficulty) GameConfig {
	config.Width = difficulty.Cols
	config.Height = difficulty.Rows
	config.NumMines = difficulty.NumMines
	return config
}

func (config GameConfig) logger() logrus.FieldLogger {
	if config.Logger == nil {
		return logrus.StandardLogger()
	}
	return config.Logger
}

func (config GameConfig) boardConfig() BoardConfig {
	return BoardConfig{
		Rows:     config.Height,
		Cols:     config.Width,
		NumMines: config.NumMines,
		Mode:     config.Mode,
		Seed:     config.Seed,
		Logger:   config.logger(),
	}
}

func (config GameConfig) createBoard() (*Board, error) {
	if config.Snapshot == nil {
		return NewBoard(config.boardConfig())
	}
	return config.Snapshot.CreateBoard(
		BoardConfig{Seed: config.Seed, Logger: config.logger()},
		config.LoadSnapshotFresh,
	)
}

type EventKind int

const (
	EventReveal EventKind = iota
	EventChord
	EventFlag
	EventReset
)

// Event is handed to listeners once a command has finished
type Event struct {
	Kind   EventKind
	Action CellAction
	Result Result
	View   View
}

type Listener interface {
	BoardChanged(Event)
}

type ListenerFunc func(Event)

func (fn ListenerFunc) BoardChanged(event Event) {
	fn(event)
}

// Game is a play session: the current board plus whoever watches it. It is
// not safe for concurrent use.
type Game struct {
	config    GameConfig
	board     *Board
	listeners []Listener

	rand *rand.Rand
	log  logrus.FieldLogger
}

func NewGame(config GameConfig) (*Game, error) {
	board, err := config.createBoard()
	if err != nil {
		return nil, err
	}

	return &Game{
		config: config,
		board:  board,
		rand:   rand.New(rand.NewSource(board.Seed())),
		log:    config.logger(),
	}, nil
}

func (game *Game) Board() *Board {
	return game.board
}

func (game *Game) View() View {
	return game.board.View()
}

// Subscribe registers a listener for every command that changes the board
func (game *Game) Subscribe(listener Listener) {
	game.listeners = append(game.listeners, listener)
}

func (game *Game) Reveal(row, col int) Result {
	return game.Apply(Coord{row, col}.Click())
}

func (game *Game) Chord(row, col int) Result {
	return game.Apply(Coord{row, col}.MiddleClick())
}

func (game *Game) ToggleFlag(row, col int) FlagResult {
	wasOngoing := game.board.canPlay()
	result := game.board.ToggleFlag(row, col)
	if result.Changed {
		game.after(EventFlag, Coord{row, col}.RightClick(), Result{
			Changed: []Coord{{row, col}},
			State:   result.State,
		}, wasOngoing)
	}
	return result
}

func (game *Game) Apply(action CellAction) Result {
	if action.Action == RightClick {
		flagResult := game.ToggleFlag(action.Coord.Row, action.Coord.Col)
		result := Result{State: flagResult.State}
		if flagResult.Changed {
			result.Changed = []Coord{action.Coord}
		}
		return result
	}

	wasOngoing := game.board.canPlay()
	result := game.board.Apply(action)

	kind := EventReveal
	if action.Action == MiddleClick {
		kind = EventChord
	}
	if len(result.Changed) > 0 {
		game.after(kind, action, result, wasOngoing)
	}
	return result
}

// Reset throws the current board away and starts a fresh one. On error the
// current board is kept.
func (game *Game) Reset(rows, cols, numMines int) error {
	config := game.config.boardConfig()
	config.Rows, config.Cols, config.NumMines = rows, cols, numMines
	config.Seed = game.nextSeed()

	board, err := NewBoard(config)
	if err != nil {
		return err
	}
	game.board = board

	game.log.WithFields(logrus.Fields{
		"rows":  rows,
		"cols":  cols,
		"mines": numMines,
	}).Debug("reset board")

	game.notify(Event{Kind: EventReset, Result: Result{State: board.state}, View: board.View()})
	return nil
}

// NewRound resets to a board of the same size
func (game *Game) NewRound() error {
	return game.Reset(game.board.rows, game.board.cols, game.board.numMines)
}

func (game *Game) nextSeed() int64 {
	seed := game.rand.Int63()
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Play lets director make moves until the game ends or it runs out of ideas
func (game *Game) Play(director Director) BoardState {
	director.Init(game.View())
	defer director.End()

	maxMoves := game.board.NumCells() * 3
	for moves := 0; game.board.canPlay() && moves < maxMoves; moves++ {
		action, ok := director.Act(game.View())
		if !ok {
			break
		}
		game.Apply(action)
	}

	return game.board.state
}

func (game *Game) after(kind EventKind, action CellAction, result Result, wasOngoing bool) {
	game.notify(Event{Kind: kind, Action: action, Result: result, View: game.board.View()})

	if wasOngoing && result.State.IsTerminal() {
		game.onGameEnd()
	}
}

func (game *Game) notify(event Event) {
	for _, listener := range game.listeners {
		listener.BoardChanged(event)
	}
}

func (game *Game) onGameEnd() {
	game.log.WithFields(logrus.Fields{
		"state":    game.board.state,
		"revealed": game.board.numRevealed,
		"seed":     game.board.seed,
	}).Info("game over")

	if game.config.SavedSnapshotsDir != "" {
		if path, err := game.saveSnapshot(time.Now()); err != nil {
			game.log.WithError(err).Warn("could not save snapshot")
		} else {
			game.log.WithField("path", path).Debug("saved snapshot")
		}
	}
}

func (game *Game) saveSnapshot(t time.Time) (string, error) {
	dir := game.config.SavedSnapshotsDir

	stat, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	case !stat.Mode().IsDir():
		return "", fmt.Errorf("%s is not a directory; cannot save snapshots to it", dir)
	}

	serialized, err := game.board.Snapshot().Serialize()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, generateReplayFilename(game.board, t))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(serialized); err != nil {
		return "", err
	}
	return path, nil
}

func generateReplayFilename(board *Board, t time.Time) string {
	filenameBuilder := strings.Builder{}

	filenameBuilder.WriteString(t.Format("20060102_150405_"))
	fmt.Fprintf(&filenameBuilder, "%d_", board.seed)

	var stateStr string
	switch board.state {
	case Won:
		stateStr = "win"
	case Lost:
		stateStr = "loss"
	default:
		stateStr = "other"
	}
	filenameBuilder.WriteString(stateStr)

	filenameBuilder.WriteString(".yaml")

	return filenameBuilder.String()
}
