package random

import (
	"math/rand"

	"github.com/they4kman/gosweep/v2/game"
)

// Director clicks hidden cells in a random order
type Director struct {
	rand  *rand.Rand
	order []game.Coord
}

func New(seed int64) *Director {
	return &Director{rand: rand.New(rand.NewSource(seed))}
}

func (director *Director) Init(view game.View) {
	if director.rand == nil {
		director.rand = rand.New(rand.NewSource(1))
	}

	director.order = make([]game.Coord, 0, view.Rows*view.Cols)
	for row := 0; row < view.Rows; row++ {
		for col := 0; col < view.Cols; col++ {
			director.order = append(director.order, game.Coord{Row: row, Col: col})
		}
	}

	director.rand.Shuffle(len(director.order), func(i, j int) {
		director.order[i], director.order[j] = director.order[j], director.order[i]
	})
}

func (director *Director) Act(view game.View) (game.CellAction, bool) {
	for len(director.order) > 0 {
		coord := director.order[0]
		director.order = director.order[1:]

		if cell, ok := view.At(coord.Row, coord.Col); ok && cell.IsHidden() {
			return coord.Click(), true
		}
	}
	return game.CellAction{}, false
}

// Pick chooses a random hidden cell among candidates, without touching the
// click order
func (director *Director) Pick(candidates []game.Coord) (game.Coord, bool) {
	if len(candidates) == 0 {
		return game.Coord{}, false
	}
	return candidates[director.rand.Intn(len(candidates))], true
}

func (director *Director) End() {
	director.order = nil
}
