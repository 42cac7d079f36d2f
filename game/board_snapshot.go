package game

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// RoundSnapshot records a round's layout and progress. Each board row is a
// line of cells: '#' hidden, '.' revealed, 'O' hidden hazard, '*' revealed
// hazard.
type RoundSnapshot struct {
	ID              string `yaml:"id,omitempty"`
	Seed            uint64 `yaml:"seed"`
	SerializedBoard string `yaml:"board"`
}

func (snapshot *RoundSnapshot) Serialize() string {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		panic(err)
	}

	return string(out)
}

func (snapshot *RoundSnapshot) rows() []string {
	return strings.Split(strings.TrimSpace(snapshot.SerializedBoard), "\n")
}

func (snapshot *RoundSnapshot) dimensions() (width, height int, err error) {
	rows := snapshot.rows()

	height = len(rows)
	width = len(rows[0])
	if width == 0 {
		return 0, 0, errors.Wrap(ErrInvalidConfiguration, "empty snapshot board")
	}

	for y, row := range rows {
		if len(row) != width {
			return 0, 0, errors.Wrapf(ErrInvalidConfiguration, "snapshot row %d has %d cells, want %d", y, len(row), width)
		}
		for x, c := range row {
			if _, _, ok := deserializeCell(c); !ok {
				return 0, 0, errors.Wrapf(ErrInvalidConfiguration, "snapshot cell (%d, %d): unknown %q", y, x, c)
			}
		}
	}

	return width, height, nil
}

// layout assumes dimensions has validated the board.
func (snapshot *RoundSnapshot) layout() (hazards, revealed []int) {
	rows := snapshot.rows()
	width := len(rows[0])

	for y, row := range rows {
		for x, c := range row {
			isHazard, isRevealed, _ := deserializeCell(c)
			idx := y*width + x
			if isHazard {
				hazards = append(hazards, idx)
			}
			if isRevealed {
				revealed = append(revealed, idx)
			}
		}
	}
	return hazards, revealed
}

// RoundSnapshot captures the current round.
func (game *Game) RoundSnapshot() *RoundSnapshot {
	var board strings.Builder
	for idx := range game.grid.cells {
		if idx > 0 && idx%game.grid.width == 0 {
			board.WriteString("\n")
		}
		board.WriteString(game.grid.cells[idx].serialize())
	}

	snapshot := &RoundSnapshot{
		Seed:            game.roundSeed,
		SerializedBoard: board.String(),
	}
	if game.roundID != uuid.Nil {
		snapshot.ID = game.roundID.String()
	}
	return snapshot
}

func LoadSnapshot(in string) (*RoundSnapshot, error) {
	var snapshot RoundSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, errors.Wrap(err, "parse snapshot")
	}
	if _, _, err := snapshot.dimensions(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
