package game

import (
	"fmt"
	"strconv"
)

// CellState is what a renderer should draw for a cell. Empty through Number8
// equal the cell's adjacent mine count.
type CellState int
type BoardState int
type GameMode int

const (
	Unrevealed CellState = iota - 1
	Empty
	Number1
	Number2
	Number3
	Number4
	Number5
	Number6
	Number7
	Number8
	Flag
	FlagWrong
	Mine
	MineLosing
)

var CellStates = []CellState{
	Unrevealed,
	Empty,
	Number1,
	Number2,
	Number3,
	Number4,
	Number5,
	Number6,
	Number7,
	Number8,
	Flag,
	FlagWrong,
	Mine,
	MineLosing,
}

var cellStateNames = map[CellState]string{
	Unrevealed: "hidden",
	Flag:       "flag",
	FlagWrong:  "flag_wrong",
	Mine:       "mine",
	MineLosing: "mine_losing",
}

func (state CellState) String() string {
	if state >= Empty && state <= Number8 {
		return strconv.Itoa(int(state))
	}
	if name, ok := cellStateNames[state]; ok {
		return name
	}
	return fmt.Sprintf("CellState(%d)", int(state))
}

func (state CellState) MarshalText() ([]byte, error) {
	return []byte(state.String()), nil
}

// IsNumber reports whether the state shows an adjacent mine count (including 0)
func (state CellState) IsNumber() bool {
	return state >= Empty && state <= Number8
}

const (
	Lost BoardState = iota
	Won
	Ongoing
)

var boardStateNames = map[BoardState]string{
	Lost:    "lost",
	Won:     "won",
	Ongoing: "ongoing",
}

func (state BoardState) String() string {
	if name, ok := boardStateNames[state]; ok {
		return name
	}
	return fmt.Sprintf("BoardState(%d)", int(state))
}

func (state BoardState) MarshalText() ([]byte, error) {
	return []byte(state.String()), nil
}

func (state BoardState) IsTerminal() bool {
	return state == Won || state == Lost
}

const (
	// Classic relocates a mine under the first click to a random free cell
	Classic GameMode = iota
	// Win7 clears every mine around the first click, when there is room for them
	Win7
)

var GameModes = map[string]GameMode{
	"classic": Classic,
	"win7":    Win7,
}

func ParseGameMode(name string) (GameMode, error) {
	if mode, isValid := GameModes[name]; isValid {
		return mode, nil
	}
	return Classic, fmt.Errorf("invalid game mode %q", name)
}

func (mode GameMode) String() string {
	for name, other := range GameModes {
		if mode == other {
			return name
		}
	}
	return fmt.Sprintf("GameMode(%d)", int(mode))
}

func (mode GameMode) MarshalText() ([]byte, error) {
	return []byte(mode.String()), nil
}

func (mode *GameMode) UnmarshalText(text []byte) error {
	parsed, err := ParseGameMode(string(text))
	if err != nil {
		return err
	}
	*mode = parsed
	return nil
}

// Consecutive rejected picks before mine placement falls back to shuffling
// the remaining eligible cells
const maxRejections = 64

// Neighbour offsets, in the order chords process them
var directions = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}
