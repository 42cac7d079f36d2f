package game

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Rand is the randomness seam used for hazard placement. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type offset struct {
	index, row int
}

type Grid struct {
	width, height int // in number of cells
	numHazards    int
	cells         []Cell

	// (Δindex, Δrow) pairs of the 8 neighbours on the flat cell array
	neighbors [numNeighbors]offset
}

// MaxCells bounds width*height so the cell arena always fits in memory.
const MaxCells = 1 << 20

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "grid dimensions %dx%d", width, height)
	}
	// divide rather than multiply so the check itself cannot overflow
	if width > MaxCells/height {
		return errors.Wrapf(ErrInvalidConfiguration, "grid dimensions %dx%d exceed %d cells", width, height, MaxCells)
	}
	return nil
}

func NewGrid(width, height int) (*Grid, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}

	grid := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		neighbors: [numNeighbors]offset{
			{-width - 1, -1},
			{-width, -1},
			{-width + 1, -1},
			{-1, 0},
			{1, 0},
			{width - 1, 1},
			{width, 1},
			{width + 1, 1},
		},
	}

	for idx := range grid.cells {
		grid.cells[idx].setup(idx, width)
	}

	return grid, nil
}

func (grid *Grid) Width() int {
	return grid.width
}

func (grid *Grid) Height() int {
	return grid.height
}

func (grid *Grid) NumCells() int {
	return len(grid.cells)
}

func (grid *Grid) NumHazards() int {
	return grid.numHazards
}

func (grid *Grid) InRange(idx int) bool {
	return idx >= 0 && idx < len(grid.cells)
}

// IndexOf converts a row/column pair to a flat index.
func (grid *Grid) IndexOf(row, column int) (int, bool) {
	if row < 0 || column < 0 || row >= grid.height || column >= grid.width {
		return 0, false
	}
	return row*grid.width + column, true
}

func (grid *Grid) Snapshot(idx int) (CellView, error) {
	if !grid.InRange(idx) {
		return CellView{}, errors.Wrapf(ErrOutOfRangeIndex, "index %d of %d", idx, len(grid.cells))
	}
	return grid.cells[idx].view(), nil
}

// Cells returns a view of every cell, in index order.
func (grid *Grid) Cells() []CellView {
	views := make([]CellView, len(grid.cells))
	for idx := range grid.cells {
		views[idx] = grid.cells[idx].view()
	}
	return views
}

// Neighbors returns the indexes of the valid neighbours of idx. A candidate is
// kept only when it lands on the row the offset expects, so stepping off the
// left or right edge never wraps onto the adjacent row.
func (grid *Grid) Neighbors(idx int) []int {
	neighbors := make([]int, 0, numNeighbors)
	grid.forEachNeighbor(idx, func(neighbor int) {
		neighbors = append(neighbors, neighbor)
	})
	return neighbors
}

func (grid *Grid) forEachNeighbor(idx int, visit func(int)) {
	row := idx / grid.width
	for _, off := range grid.neighbors {
		neighbor := idx + off.index
		if neighbor < 0 || neighbor >= len(grid.cells) {
			continue
		}
		if neighbor/grid.width != row+off.row {
			continue
		}
		visit(neighbor)
	}
}

// Clear stands every cell down, ending whatever round was in progress.
func (grid *Grid) Clear() {
	for idx := range grid.cells {
		grid.cells[idx].standDown()
	}
	grid.numHazards = 0
}

// Place lays out exactly numHazards hazards, uniformly at random over all
// placements, and recomputes every hint.
func (grid *Grid) Place(numHazards int, r Rand) error {
	if numHazards < 0 || numHazards > len(grid.cells) {
		return errors.Wrapf(ErrInvalidConfiguration, "%d hazards on %d cells", numHazards, len(grid.cells))
	}

	layout := make([]bool, len(grid.cells))
	for idx := range layout {
		layout[idx] = idx < numHazards
	}
	Shuffle(layout, r)

	grid.charge(layout)
	return nil
}

// PlaceLayout lays out hazards at exactly the given indexes.
func (grid *Grid) PlaceLayout(hazards []int) error {
	layout := make([]bool, len(grid.cells))
	for _, idx := range hazards {
		if !grid.InRange(idx) {
			return errors.Wrapf(ErrInvalidConfiguration, "hazard index %d of %d", idx, len(grid.cells))
		}
		if layout[idx] {
			return errors.Wrapf(ErrInvalidConfiguration, "duplicate hazard index %d", idx)
		}
		layout[idx] = true
	}

	grid.charge(layout)
	return nil
}

func (grid *Grid) charge(layout []bool) {
	grid.numHazards = 0
	for idx, isHazard := range layout {
		if isHazard {
			grid.numHazards++
		}
		grid.cells[idx].charge(grid.countHazardsNear(layout, idx), isHazard)
	}
}

func (grid *Grid) countHazardsNear(layout []bool, idx int) int {
	// never shown for hazards
	if layout[idx] {
		return 0
	}

	count := 0
	grid.forEachNeighbor(idx, func(neighbor int) {
		if layout[neighbor] {
			count++
		}
	})
	return count
}

// Resolve applies a click on idx. Clicks on revealed cells or outside the
// grid return NoOp and change nothing. A hazard click reports Hazard even if
// it would otherwise complete the board.
func (grid *Grid) Resolve(idx int) Outcome {
	if !grid.InRange(idx) {
		Log.WithFields(logrus.Fields{
			"index": idx,
			"cells": len(grid.cells),
		}).Debug("click out of range")
		return NoOp
	}

	cell := &grid.cells[idx]
	if !cell.reveal() {
		Log.WithField("cell", cell).Debug("stale click")
		return NoOp
	}

	var outcome Outcome
	switch {
	case cell.isHazard:
		return Hazard
	case cell.adjacentHazards > 0:
		outcome = NearHazard
	default:
		outcome = Blank
		revealed := grid.cascadeReveal(cell)
		Log.WithFields(logrus.Fields{
			"cell":     cell,
			"revealed": revealed,
		}).Debug("cascade")
	}

	if grid.CheckWin() {
		outcome = Win
	}
	return outcome
}

// CheckWin reports whether every non-hazard cell has been revealed.
func (grid *Grid) CheckWin() bool {
	return grid.Remaining() == 0
}

// Remaining counts non-hazard cells still hidden.
func (grid *Grid) Remaining() int {
	remaining := 0
	for idx := range grid.cells {
		cell := &grid.cells[idx]
		if !cell.isHazard && cell.state == Hidden {
			remaining++
		}
	}
	return remaining
}

func (grid *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, %d hazards)", grid.width, grid.height, grid.numHazards)
}
