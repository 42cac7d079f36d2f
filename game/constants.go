package game

type CellState int

const (
	Hidden CellState = iota
	Revealed
)

func (state CellState) String() string {
	switch state {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// Outcome classifies a resolved click. NoOp is returned when the click changed
// nothing: stale cell, index out of range, or no round in progress.
type Outcome int

const (
	NoOp Outcome = iota
	Blank
	NearHazard
	Hazard
	Win
)

var outcomeNames = map[Outcome]string{
	NoOp:       "noop",
	Blank:      "blank",
	NearHazard: "near-hazard",
	Hazard:     "hazard",
	Win:        "win",
}

func (outcome Outcome) String() string {
	if name, ok := outcomeNames[outcome]; ok {
		return name
	}
	return "unknown"
}

// Ends reports whether the outcome finishes the round.
func (outcome Outcome) Ends() bool {
	return outcome == Hazard || outcome == Win
}

type RoundState int

const (
	Idle RoundState = iota
	Ongoing
	Won
	Lost
)

func (state RoundState) String() string {
	switch state {
	case Idle:
		return "idle"
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

const (
	maxAdjacentHazards = 8
	numNeighbors       = 8
)
