package constraint

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/sweepcore/director/random"
	"github.com/they4kman/sweepcore/game"
	"github.com/they4kman/sweepcore/util/collections"
)

// Director deduces safe cells from the revealed hints. When nothing is
// certain it clicks the cell least likely to hold a hazard, and falls back to
// a random hidden cell.
type Director struct {
	seed   uint64
	game   *game.Game
	rand   *rand.Rand
	random *random.Director

	hazards collections.Set[int] // deduced, never clicked
	safe    collections.Set[int] // deduced, not yet clicked
}

type Observation struct {
	origin     int // -1 when derived from two other observations
	numHazards int
	cells      collections.Set[int]
}

func (observation Observation) String() string {
	cells := collections.Sorted(observation.cells)
	cellsRepr := make([]string, len(cells))
	for i, idx := range cells {
		cellsRepr[i] = fmt.Sprint(idx)
	}

	originRepr := "?"
	if observation.origin >= 0 {
		originRepr = fmt.Sprint(observation.origin)
	}

	return fmt.Sprintf("Obs[%4s, %d ε %s]", originRepr, observation.numHazards, strings.Join(cellsRepr, ", "))
}

func (observation Observation) HazardProbability() float64 {
	return float64(observation.numHazards) / float64(observation.cells.Len())
}

func New(seed uint64) *Director {
	return &Director{
		seed:   seed,
		random: random.New(seed),
	}
}

func (director *Director) Init(g *game.Game) {
	director.game = g
	director.rand = rand.New(rand.NewPCG(director.seed, g.RoundSeed()))
	director.random.Init(g)
	director.hazards = collections.NewSet[int]()
	director.safe = collections.NewSet[int]()
}

func (director *Director) Next() (int, bool) {
	for {
		if idx, ok := director.popSafe(); ok {
			return idx, true
		}
		if !director.deduce() {
			break
		}
	}

	if idx, ok := director.lowestProbability(); ok {
		return idx, true
	}

	return director.random.NextWhere(func(idx int) bool {
		return !director.hazards.Contains(idx)
	})
}

func (director *Director) isHidden(idx int) bool {
	view, err := director.game.Snapshot(idx)
	return err == nil && view.State == game.Hidden
}

func (director *Director) popSafe() (int, bool) {
	for _, idx := range collections.Sorted(director.safe) {
		director.safe.Remove(idx)
		if director.isHidden(idx) {
			return idx, true
		}
	}
	return 0, false
}

// observations lists, for every revealed hint, the hidden cells around it not
// yet known to be hazards and how many hazards remain among them.
func (director *Director) observations() []Observation {
	var observations []Observation
	for _, view := range director.game.Cells() {
		if view.State != game.Revealed || view.IsHazard || view.AdjacentHazards == 0 {
			continue
		}

		observation := Observation{
			origin:     view.Index,
			numHazards: view.AdjacentHazards,
			cells:      collections.NewSet[int](),
		}
		for _, neighbor := range director.game.Neighbors(view.Index) {
			if !director.isHidden(neighbor) {
				continue
			}
			if director.hazards.Contains(neighbor) {
				observation.numHazards--
			} else {
				observation.cells.Add(neighbor)
			}
		}

		if observation.cells.Len() > 0 {
			observations = append(observations, observation)
		}
	}
	return observations
}

func (director *Director) deduce() bool {
	progress := false
	apply := func(observation Observation) {
		switch observation.numHazards {
		case 0:
			for idx := range observation.cells {
				if !director.safe.Contains(idx) {
					director.safe.Add(idx)
					progress = true
				}
			}
		case observation.cells.Len():
			for idx := range observation.cells {
				if !director.hazards.Contains(idx) {
					director.hazards.Add(idx)
					progress = true
				}
			}
		default:
			return
		}

		game.Log.WithFields(logrus.Fields{
			"round":       director.game.RoundID(),
			"observation": observation,
		}).Debug("deduced")
	}

	observations := director.observations()
	for _, observation := range observations {
		apply(observation)
	}
	if progress {
		return true
	}

	// A hint whose cells lie inside another's splits the larger one.
	for i, inner := range observations {
		for j, outer := range observations {
			if i == j {
				continue
			}
			if _, isSubset := inner.cells.IntersectionEx(outer.cells); !isSubset {
				continue
			}
			rest := outer.cells.Difference(inner.cells)
			if rest.Len() == 0 {
				continue
			}
			apply(Observation{
				origin:     -1,
				numHazards: outer.numHazards - inner.numHazards,
				cells:      rest,
			})
		}
	}
	return progress
}

// lowestProbability picks a cell from the least risky observation, if it is
// safer than clicking an unconstrained hidden cell.
func (director *Director) lowestProbability() (int, bool) {
	var best *Observation
	observations := director.observations()
	for i := range observations {
		if best == nil || observations[i].HazardProbability() < best.HazardProbability() {
			best = &observations[i]
		}
	}
	if best == nil {
		return 0, false
	}

	unknown := 0
	for _, view := range director.game.Cells() {
		if view.State == game.Hidden && !director.hazards.Contains(view.Index) {
			unknown++
		}
	}
	remainingHazards := director.game.NumHazards() - director.hazards.Len()
	if unknown == 0 || best.HazardProbability() >= float64(remainingHazards)/float64(unknown) {
		return 0, false
	}

	cells := collections.Sorted(best.cells)
	return cells[director.rand.IntN(len(cells))], true
}
