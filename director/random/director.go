package random

import (
	"math/rand/v2"

	"github.com/they4kman/sweepcore/game"
)

// Director clicks hidden cells in an order shuffled once per round.
type Director struct {
	seed  uint64
	game  *game.Game
	order []int
}

func New(seed uint64) *Director {
	return &Director{seed: seed}
}

func (director *Director) Init(g *game.Game) {
	director.game = g
	director.order = make([]int, g.NumCells())
	for idx := range director.order {
		director.order[idx] = idx
	}

	r := rand.New(rand.NewPCG(director.seed, g.RoundSeed()))
	game.Shuffle(director.order, r)
}

func (director *Director) Next() (int, bool) {
	return director.NextWhere(nil)
}

// NextWhere returns the first hidden cell in the shuffled order that accept
// allows. A nil accept allows every cell.
func (director *Director) NextWhere(accept func(idx int) bool) (int, bool) {
	for _, idx := range director.order {
		view, err := director.game.Snapshot(idx)
		if err != nil || view.State != game.Hidden {
			continue
		}
		if accept == nil || accept(idx) {
			return idx, true
		}
	}
	return 0, false
}
