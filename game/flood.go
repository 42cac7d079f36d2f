package game

import (
	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

// cascadeReveal floods outward from an already revealed blank cell, revealing
// every connected blank cell and its hinted border. Cells are revealed as they
// are queued, so each is queued at most once. It returns the number of cells
// revealed besides start.
func (grid *Grid) cascadeReveal(start *Cell) int {
	grid.assertSafe(start)

	var pending deque.Deque
	pending.PushBack(start.idx)
	revealed := 0

	for pending.Len() > 0 {
		cell := &grid.cells[pending.PopBack().(int)]
		if cell.adjacentHazards > 0 {
			continue
		}

		grid.forEachNeighbor(cell.idx, func(idx int) {
			neighbor := &grid.cells[idx]
			if !neighbor.IsHidden() {
				return
			}
			grid.assertSafe(neighbor)

			neighbor.reveal()
			revealed++
			pending.PushBack(idx)
		})
	}

	return revealed
}

// assertSafe panics if a cascade reached a hazard. Blank cells have no hazard
// neighbours, so this only fires on an adjacency or placement bug.
func (grid *Grid) assertSafe(cell *Cell) {
	if !cell.isHazard {
		return
	}
	Log.WithFields(logrus.Fields{
		"cell": cell,
		"grid": grid,
	}).Error("cascade reached a hazard")
	panic(AssertionError{"cascade reached hazard " + cell.String()})
}
