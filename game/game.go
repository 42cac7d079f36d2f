package game

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type GameConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	NumHazards int `yaml:"mines"`

	// Seed of the game's random source; 0 picks one from the clock
	Seed uint64 `yaml:"seed"`

	// Snapshot to load the first round from
	Snapshot *RoundSnapshot `yaml:"-"`
	// Whether to set all cells as hidden when loading the Snapshot
	LoadSnapshotFresh bool `yaml:"load_snapshot_fresh"`

	// Path to directory where final snapshots of rounds should be saved
	SavedSnapshotsDir string `yaml:"saved_snapshots_dir"`
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Width:             30,
		Height:            16,
		NumHazards:        99,
		LoadSnapshotFresh: true,
	}
}

func (config GameConfig) Validate() error {
	if err := checkDimensions(config.Width, config.Height); err != nil {
		return err
	}
	if config.NumHazards < 0 || config.NumHazards > config.Width*config.Height {
		return errors.Wrapf(ErrInvalidConfiguration, "%d hazards on %dx%d grid",
			config.NumHazards, config.Width, config.Height)
	}
	return nil
}

func (config GameConfig) Fields() logrus.Fields {
	return logrus.Fields{
		"width":         config.Width,
		"height":        config.Height,
		"mines":         config.NumHazards,
		"seed":          config.Seed,
		"snapshot":      config.Snapshot != nil,
		"snapshots_dir": config.SavedSnapshotsDir,
	}
}

// Game is the surface collaborators drive: it starts rounds, routes clicks to
// the grid and tracks how the round ends. Timing and display are left to the
// caller.
type Game struct {
	config GameConfig
	grid   *Grid
	rand   *rand.Rand

	roundID   uuid.UUID
	roundSeed uint64
	state     RoundState
	clicks    int
}

func NewGame(config GameConfig) (*Game, error) {
	if config.Snapshot != nil {
		width, height, err := config.Snapshot.dimensions()
		if err != nil {
			return nil, err
		}
		hazards, _ := config.Snapshot.layout()
		config.Width, config.Height = width, height
		config.NumHazards = len(hazards)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	grid, err := NewGrid(config.Width, config.Height)
	if err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Game{
		config: config,
		grid:   grid,
		rand:   rand.New(rand.NewPCG(seed, seed)),
		state:  Idle,
	}, nil
}

func (game *Game) Config() GameConfig {
	return game.config
}

func (game *Game) Width() int {
	return game.grid.Width()
}

func (game *Game) Height() int {
	return game.grid.Height()
}

func (game *Game) NumCells() int {
	return game.grid.NumCells()
}

func (game *Game) NumHazards() int {
	return game.grid.NumHazards()
}

func (game *Game) RoundID() uuid.UUID {
	return game.roundID
}

// RoundSeed is the seed the current round's layout was placed with.
func (game *Game) RoundSeed() uint64 {
	return game.roundSeed
}

func (game *Game) State() RoundState {
	return game.state
}

// Started reports whether the round has seen a resolved click.
func (game *Game) Started() bool {
	return game.clicks > 0
}

// Clicks counts the resolved (non-NoOp) clicks of the round.
func (game *Game) Clicks() int {
	return game.clicks
}

// Remaining counts non-hazard cells still hidden.
func (game *Game) Remaining() int {
	return game.grid.Remaining()
}

func (game *Game) IndexOf(row, column int) (int, bool) {
	return game.grid.IndexOf(row, column)
}

func (game *Game) Neighbors(idx int) []int {
	if !game.grid.InRange(idx) {
		return nil
	}
	return game.grid.Neighbors(idx)
}

func (game *Game) Snapshot(idx int) (CellView, error) {
	return game.grid.Snapshot(idx)
}

func (game *Game) Cells() []CellView {
	return game.grid.Cells()
}

// NewRound clears the grid and places numHazards hazards with a fresh seed
// drawn from the game's source.
func (game *Game) NewRound(numHazards int) error {
	if numHazards < 0 || numHazards > game.grid.NumCells() {
		return errors.Wrapf(ErrInvalidConfiguration, "%d hazards on %d cells", numHazards, game.grid.NumCells())
	}

	seed := game.rand.Uint64()
	game.grid.Clear()
	if err := game.grid.Place(numHazards, rand.New(rand.NewPCG(seed, seed))); err != nil {
		return err
	}

	game.begin(seed)
	return nil
}

// Replay starts a round from a snapshot's layout. With fresh set every cell
// starts hidden; otherwise revealed cells are restored as well.
func (game *Game) Replay(snapshot *RoundSnapshot, fresh bool) error {
	width, height, err := snapshot.dimensions()
	if err != nil {
		return err
	}
	if width != game.grid.Width() || height != game.grid.Height() {
		return errors.Wrapf(ErrInvalidConfiguration, "snapshot is %dx%d, grid is %dx%d",
			width, height, game.grid.Width(), game.grid.Height())
	}

	hazards, revealed := snapshot.layout()
	game.grid.Clear()
	if err := game.grid.PlaceLayout(hazards); err != nil {
		return err
	}

	game.begin(snapshot.Seed)
	if fresh {
		return nil
	}

	for _, idx := range revealed {
		cell := &game.grid.cells[idx]
		cell.reveal()
		if cell.isHazard {
			game.state = Lost
		}
	}
	if game.state == Ongoing && game.grid.CheckWin() {
		game.state = Won
	}
	return nil
}

func (game *Game) begin(seed uint64) {
	game.roundID = uuid.New()
	game.roundSeed = seed
	game.state = Ongoing
	game.clicks = 0

	Log.WithFields(logrus.Fields{
		"round":  game.roundID,
		"seed":   seed,
		"width":  game.grid.Width(),
		"height": game.grid.Height(),
		"mines":  game.grid.NumHazards(),
	}).Info("new round")
}

// Reset clears the grid without starting a new round.
func (game *Game) Reset() {
	game.grid.Clear()
	game.roundID = uuid.Nil
	game.roundSeed = 0
	game.state = Idle
	game.clicks = 0
}

// Click resolves a click on idx. It returns NoOp when no round is in progress,
// idx is out of range or the cell is already revealed.
func (game *Game) Click(idx int) Outcome {
	if game.state != Ongoing {
		return NoOp
	}

	outcome := game.grid.Resolve(idx)
	if outcome == NoOp {
		return NoOp
	}
	game.clicks++

	log := Log.WithFields(logrus.Fields{
		"round":   game.roundID,
		"index":   idx,
		"outcome": outcome,
	})
	log.Debug("click")

	switch outcome {
	case Hazard:
		game.end(Lost)
	case Win:
		game.end(Won)
	}
	return outcome
}

func (game *Game) ClickAt(row, column int) Outcome {
	idx, ok := game.grid.IndexOf(row, column)
	if !ok {
		return NoOp
	}
	return game.Click(idx)
}

func (game *Game) end(state RoundState) {
	game.state = state

	Log.WithFields(logrus.Fields{
		"round":  game.roundID,
		"state":  state,
		"clicks": game.clicks,
	}).Info("round over")

	game.saveSnapshot()
}

func (game *Game) saveSnapshot() {
	dir := game.config.SavedSnapshotsDir
	if dir == "" {
		return
	}

	log := Log.WithField("dir", dir)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		log.WithError(err).Error("cannot create snapshots directory")
		return
	}

	path := filepath.Join(dir, game.generateReplayFilename(time.Now()))
	if err := os.WriteFile(path, []byte(game.RoundSnapshot().Serialize()), 0o666); err != nil {
		log.WithError(err).Error("cannot save snapshot")
		return
	}
	log.WithField("path", path).Debug("saved snapshot")
}

func (game *Game) generateReplayFilename(t time.Time) string {
	filenameBuilder := strings.Builder{}

	filenameBuilder.WriteString(t.Format("20060102_150405_"))

	var stateStr string
	switch game.state {
	case Won:
		stateStr = "win"
	case Lost:
		stateStr = "loss"
	default:
		stateStr = "other"
	}
	filenameBuilder.WriteString(stateStr)

	// the round id keeps rounds ending within the same second apart
	filenameBuilder.WriteString("_")
	filenameBuilder.WriteString(game.roundID.String()[:8])

	filenameBuilder.WriteString(".yaml")

	return filenameBuilder.String()
}
