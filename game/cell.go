package game

import (
	"fmt"
)

type Cell struct {
	idx         int
	row, column int

	isHazard        bool
	adjacentHazards int

	state CellState
}

func (cell *Cell) setup(idx, width int) {
	cell.idx = idx
	cell.row, cell.column = idx/width, idx%width
	cell.standDown()
}

func (cell *Cell) String() string {
	return fmt.Sprintf("Cell#%d(%d, %d)", cell.idx, cell.row, cell.column)
}

func (cell *Cell) Index() int {
	return cell.idx
}

func (cell *Cell) Row() int {
	return cell.row
}

func (cell *Cell) Column() int {
	return cell.column
}

func (cell *Cell) IsHazard() bool {
	return cell.isHazard
}

// AdjacentHazards is the hint count. It is always 0 for hazard cells.
func (cell *Cell) AdjacentHazards() int {
	return cell.adjacentHazards
}

func (cell *Cell) State() CellState {
	return cell.state
}

func (cell *Cell) IsHidden() bool {
	return cell.state == Hidden
}

// charge loads the round's hazard data and makes the cell clickable again.
func (cell *Cell) charge(adjacentHazards int, isHazard bool) {
	if adjacentHazards < 0 || adjacentHazards > maxAdjacentHazards {
		panic(AssertionError{fmt.Sprintf("%v: adjacent hazard count %d", cell, adjacentHazards)})
	}
	if isHazard {
		adjacentHazards = 0
	}
	cell.isHazard = isHazard
	cell.adjacentHazards = adjacentHazards
	cell.state = Hidden
}

// reveal performs the one-way Hidden -> Revealed transition. It returns false
// when the cell was already revealed.
func (cell *Cell) reveal() bool {
	if cell.state != Hidden {
		return false
	}
	cell.state = Revealed
	return true
}

// standDown forces the cell back to Hidden with no hazard data, regardless of
// its current state. Only used between rounds.
func (cell *Cell) standDown() {
	cell.isHazard = false
	cell.adjacentHazards = 0
	cell.state = Hidden
}

func (cell *Cell) view() CellView {
	return CellView{
		Index:           cell.idx,
		Row:             cell.row,
		Column:          cell.column,
		IsHazard:        cell.isHazard,
		AdjacentHazards: cell.adjacentHazards,
		State:           cell.state,
	}
}

func (cell *Cell) serialize() string {
	switch {
	case cell.isHazard && cell.state == Revealed:
		return "*"
	case cell.isHazard:
		return "O"
	case cell.state == Revealed:
		return "."
	default:
		return "#"
	}
}

// deserializeCell parses a snapshot character into hazard and revealed flags.
func deserializeCell(c rune) (isHazard, isRevealed, ok bool) {
	switch c {
	case '*':
		return true, true, true
	case 'O':
		return true, false, true
	case '.':
		return false, true, true
	case '#':
		return false, false, true
	default:
		return false, false, false
	}
}

// CellView is a read-only copy of a cell for renderers.
type CellView struct {
	Index           int
	Row, Column     int
	IsHazard        bool
	AdjacentHazards int
	State           CellState
}
