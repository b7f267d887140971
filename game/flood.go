package game

import (
	"github.com/gammazero/deque"

	"github.com/they4kman/gosweep/v2/util/collections"
)

// cascadeEmpty reveals the connected region of zero-count cells around
// origin, plus the numbered cells bordering it. Only zero-count cells
// propagate, so mines are never reached.
func (board *Board) cascadeEmpty(origin *Cell, changes *changeSet) {
	visited := collections.NewSet(origin.Coord())
	visitQueue := deque.New[*Cell]()
	visitQueue.PushBack(origin)

	for visitQueue.Len() > 0 {
		cell := visitQueue.PopFront()
		if cell.isMine || cell.numMines != 0 {
			continue
		}

		for _, neighbor := range board.Neighbors(cell) {
			if visited.Contains(neighbor.Coord()) {
				continue
			}
			visited.Add(neighbor.Coord())
			visitQueue.PushBack(neighbor)

			if !neighbor.isRevealed {
				board.markRevealed(neighbor, changes)
			}
		}
	}
}

// changeSet collects the cells a command changed, in the order they changed
type changeSet struct {
	coords []Coord
	seen   collections.Set[Coord]
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(collections.Set[Coord])}
}

func (changes *changeSet) add(cell *Cell) {
	coord := cell.Coord()
	if changes.seen.Contains(coord) {
		return
	}
	changes.seen.Add(coord)
	changes.coords = append(changes.coords, coord)
}
