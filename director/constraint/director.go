package constraint

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/they4kman/gosweep/v2/director/random"
	"github.com/they4kman/gosweep/v2/game"
	"github.com/they4kman/gosweep/v2/util/collections"
)

// Director plays from what the board shows: certain moves first, then the
// least likely mine, then a random cell
type Director struct {
	random  *random.Director
	pending []game.CellAction

	log logrus.FieldLogger
}

// Observation states that exactly numMines of cells are mines
type Observation struct {
	origin   *game.Coord
	numMines int
	cells    collections.Set[game.Coord]
}

func (observation Observation) String() string {
	coords := make([]string, 0, len(observation.cells))
	for _, cell := range sortedCoords(observation.cells) {
		coords = append(coords, cell.String())
	}

	originRepr := "?"
	if observation.origin != nil {
		originRepr = observation.origin.String()
	}

	return fmt.Sprintf("Obs[%8s, %d ε %s]", originRepr, observation.numMines, strings.Join(coords, ", "))
}

func (observation Observation) MineProbability() float64 {
	return float64(observation.numMines) / float64(len(observation.cells))
}

func New(seed int64, logger logrus.FieldLogger) *Director {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Director{
		random: random.New(seed),
		log:    logger,
	}
}

func (director *Director) Init(view game.View) {
	director.random.Init(view)
	director.pending = nil
}

func (director *Director) End() {
	director.random.End()
	director.pending = nil
}

func (director *Director) Act(view game.View) (game.CellAction, bool) {
	if action, ok := director.nextPending(view); ok {
		return action, true
	}

	observations := observe(view)
	for i := 0; i < 4; i++ {
		if !observations.simplify() {
			break
		}
	}

	director.pending = observations.deliberateActions()
	if action, ok := director.nextPending(view); ok {
		director.log.WithFields(logrus.Fields{
			"cell":    action.Coord,
			"action":  action.Action,
			"pending": len(director.pending),
		}).Debug("deliberate move")
		return action, true
	}

	if action, ok := director.actLowestProbability(view, observations); ok {
		return action, true
	}

	return director.random.Act(view)
}

// nextPending pops queued actions until one still applies
func (director *Director) nextPending(view game.View) (game.CellAction, bool) {
	for len(director.pending) > 0 {
		action := director.pending[0]
		director.pending = director.pending[1:]

		if cell, ok := view.At(action.Coord.Row, action.Coord.Col); ok && cell.IsHidden() {
			return action, true
		}
	}
	return game.CellAction{}, false
}

func (director *Director) actLowestProbability(view game.View, observations *observationSet) (game.CellAction, bool) {
	cellProbabilities := make(map[game.Coord]float64)
	for _, observation := range observations.list {
		probability := observation.MineProbability()
		for cell := range observation.cells {
			if past, ok := cellProbabilities[cell]; !ok || probability > past {
				cellProbabilities[cell] = probability
			}
		}
	}
	if len(cellProbabilities) == 0 {
		return game.CellAction{}, false
	}

	hidden := view.Hidden()
	if len(hidden) == 0 {
		return game.CellAction{}, false
	}
	density := float64(view.MinesRemaining) / float64(len(hidden))

	lowestProbability := math.Inf(1)
	var lowestProbabilityCells []game.Coord
	for _, cell := range hidden {
		probability, ok := cellProbabilities[cell]
		if !ok {
			probability = density
		}

		switch {
		case probability < lowestProbability:
			lowestProbability = probability
			lowestProbabilityCells = []game.Coord{cell}
		case probability == lowestProbability:
			lowestProbabilityCells = append(lowestProbabilityCells, cell)
		}
	}

	cell, ok := director.random.Pick(lowestProbabilityCells)
	if !ok {
		return game.CellAction{}, false
	}

	director.log.WithFields(logrus.Fields{
		"cell":        cell,
		"probability": lowestProbability,
		"candidates":  len(lowestProbabilityCells),
	}).Debug("guessing lowest probability cell")

	return cell.Click(), true
}

type observationSet struct {
	list []*Observation
}

// observe builds an observation for every revealed number with hidden
// neighbours
func observe(view game.View) *observationSet {
	observations := &observationSet{}

	for _, row := range view.Cells {
		for _, cell := range row {
			if !cell.Revealed || !cell.State.IsNumber() {
				continue
			}

			origin := cell.Coord()
			observation := Observation{
				origin:   &origin,
				numMines: cell.NumMines,
				cells:    make(collections.Set[game.Coord]),
			}
			for _, neighbor := range view.Neighbors(origin) {
				switch {
				case neighbor.Flagged:
					observation.numMines--
				case !neighbor.Revealed:
					observation.cells.Add(neighbor.Coord())
				}
			}

			observations.add(&observation)
		}
	}

	return observations
}

// add keeps non-vacuous observations over a set of cells not seen yet
func (observations *observationSet) add(observation *Observation) bool {
	if len(observation.cells) == 0 || observation.numMines < 0 || observation.numMines > len(observation.cells) {
		return false
	}
	for _, other := range observations.list {
		if other.cells.Equal(observation.cells) {
			return false
		}
	}
	observations.list = append(observations.list, observation)
	return true
}

// simplify derives observations from overlapping pairs, reporting whether
// anything new was found
func (observations *observationSet) simplify() bool {
	changed := false
	current := append([]*Observation(nil), observations.list...)

	for _, observation := range current {
		for _, intersectingObs := range current {
			if intersectingObs == observation {
				continue
			}

			sharedCells, isSubset := observation.cells.IntersectionEx(intersectingObs.cells)
			if len(sharedCells) == 0 {
				continue
			}

			if isSubset {
				splitObs := &Observation{
					numMines: intersectingObs.numMines - observation.numMines,
					cells:    intersectingObs.cells.Difference(observation.cells),
				}
				changed = observations.add(splitObs) || changed
				continue
			}

			// At most this many of intersectingObs's mines can hide in the
			// shared cells; if the rest exactly fill its other cells, those
			// are all mines
			leftOnlyCells := intersectingObs.cells.Difference(sharedCells)
			occludedMines := intersectingObs.numMines - min(observation.numMines, len(sharedCells))
			if occludedMines > 0 && occludedMines == len(leftOnlyCells) {
				changed = observations.add(&Observation{numMines: occludedMines, cells: leftOnlyCells}) || changed
			}
		}
	}

	return changed
}

func (observations *observationSet) deliberateActions() []game.CellAction {
	var actions []game.CellAction
	queued := make(collections.Set[game.Coord])

	for _, observation := range observations.list {
		var toAction func(game.Coord) game.CellAction
		switch {
		case observation.numMines == len(observation.cells):
			toAction = game.Coord.RightClick
		case observation.numMines == 0:
			toAction = game.Coord.Click
		default:
			continue
		}

		for _, cell := range sortedCoords(observation.cells) {
			if queued.Contains(cell) {
				continue
			}
			queued.Add(cell)
			actions = append(actions, toAction(cell))
		}
	}

	return actions
}

func sortedCoords(cells collections.Set[game.Coord]) []game.Coord {
	coords := make([]game.Coord, 0, len(cells))
	for cell := range cells {
		coords = append(coords, cell)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}
