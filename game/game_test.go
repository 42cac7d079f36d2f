package game

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, width, height, hazards int) *Game {
	t.Helper()
	config := NewGameConfig()
	config.Width, config.Height, config.NumHazards = width, height, hazards
	config.Seed = 42

	game, err := NewGame(config)
	require.NoError(t, err)
	return game
}

func replayTestGame(t *testing.T, board string, fresh bool) *Game {
	t.Helper()
	snapshot := &RoundSnapshot{SerializedBoard: board}

	config := NewGameConfig()
	config.Snapshot = snapshot
	game, err := NewGame(config)
	require.NoError(t, err)
	require.NoError(t, game.Replay(snapshot, fresh))
	return game
}

func TestNewGameValidates(t *testing.T) {
	tests := []struct {
		name                 string
		width, height, mines int
	}{
		{"zero width", 0, 5, 0},
		{"negative height", 5, -2, 0},
		{"too many mines", 3, 3, 10},
		{"negative mines", 3, 3, -1},
		{"cell count wraps to zero", 1 << 32, 1 << 32, 0},
		{"cell count wraps positive", 1 << 33, 1<<31 + 1, 0},
		{"too many cells", MaxCells, 2, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := NewGameConfig()
			config.Width, config.Height, config.NumHazards = test.width, test.height, test.mines
			_, err := NewGame(config)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)
		})
	}
}

func TestClickWithoutRoundIsNoOp(t *testing.T) {
	game := newTestGame(t, 4, 4, 2)

	assert.Equal(t, Idle, game.State())
	assert.Equal(t, NoOp, game.Click(0))
	assert.False(t, game.Started())
}

func TestNewRoundRejectsTooManyHazards(t *testing.T) {
	game := newTestGame(t, 4, 4, 2)

	err := game.NewRound(17)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	assert.Equal(t, Idle, game.State())
}

func TestRoundLoss(t *testing.T) {
	game := newTestGame(t, 9, 9, 10)
	require.NoError(t, game.NewRound(10))

	assert.Equal(t, Ongoing, game.State())
	assert.Equal(t, 10, game.NumHazards())
	assert.NotEqual(t, uuid.Nil, game.RoundID())
	assert.Equal(t, 71, game.Remaining())

	hazard, safe := -1, -1
	for _, view := range game.Cells() {
		if view.IsHazard && hazard < 0 {
			hazard = view.Index
		}
		if !view.IsHazard && safe < 0 {
			safe = view.Index
		}
	}

	assert.Equal(t, Hazard, game.Click(hazard))
	assert.Equal(t, Lost, game.State())
	assert.True(t, game.Started())
	assert.Equal(t, 1, game.Clicks())

	assert.Equal(t, NoOp, game.Click(safe), "round is over")
	assert.Equal(t, 1, game.Clicks())
}

func TestRoundWin(t *testing.T) {
	game := replayTestGame(t, "###\n#O#\n###", true)
	require.Equal(t, 1, game.NumHazards())

	safe := []int{0, 1, 2, 3, 5, 6, 7}
	for _, idx := range safe {
		assert.Equal(t, NearHazard, game.Click(idx))
		assert.Equal(t, Ongoing, game.State())
	}

	assert.Equal(t, Win, game.ClickAt(2, 2))
	assert.Equal(t, Won, game.State())
	assert.Equal(t, 8, game.Clicks())
}

func TestClickStaleAndOutOfRange(t *testing.T) {
	game := replayTestGame(t, "###\n#O#\n###", true)

	require.Equal(t, NearHazard, game.Click(0))
	assert.Equal(t, NoOp, game.Click(0))
	assert.Equal(t, NoOp, game.Click(9))
	assert.Equal(t, NoOp, game.Click(-3))
	assert.Equal(t, NoOp, game.ClickAt(0, 3))
	assert.Equal(t, 1, game.Clicks())
}

func TestNewRoundIsReproducible(t *testing.T) {
	first := newTestGame(t, 9, 9, 10)
	second := newTestGame(t, 9, 9, 10)

	require.NoError(t, first.NewRound(10))
	require.NoError(t, second.NewRound(10))
	assert.Equal(t, first.RoundSeed(), second.RoundSeed())
	assert.Equal(t, first.Cells(), second.Cells())

	layout := first.Cells()
	require.NoError(t, first.NewRound(10))
	assert.NotEqual(t, layout, first.Cells(), "each round gets a fresh layout")
}

func TestReset(t *testing.T) {
	game := newTestGame(t, 4, 4, 3)
	require.NoError(t, game.NewRound(3))
	game.Click(0)

	game.Reset()
	assert.Equal(t, Idle, game.State())
	assert.Zero(t, game.Clicks())
	assert.Zero(t, game.NumHazards())
	assert.Equal(t, NoOp, game.Click(1))

	assert.Equal(t, uuid.Nil, game.RoundID())
	assert.Zero(t, game.RoundSeed())
	snapshot := game.RoundSnapshot()
	assert.Empty(t, snapshot.ID)
	assert.Zero(t, snapshot.Seed)
}

func TestReplayRestoresProgress(t *testing.T) {
	tests := []struct {
		board string
		state RoundState
	}{
		{".#\n#O", Ongoing},
		{".#\n#*", Lost},
		{"..\n.O", Won},
	}

	for _, test := range tests {
		t.Run(test.state.String(), func(t *testing.T) {
			game := replayTestGame(t, test.board, false)
			assert.Equal(t, test.state, game.State())

			view, err := game.Snapshot(0)
			require.NoError(t, err)
			assert.Equal(t, Revealed, view.State)
		})
	}
}

func TestReplayFreshHidesEverything(t *testing.T) {
	game := replayTestGame(t, "..\n.*", true)

	assert.Equal(t, Ongoing, game.State())
	for _, view := range game.Cells() {
		assert.Equal(t, Hidden, view.State)
	}
	assert.Equal(t, 1, game.NumHazards())
}

func TestReplayRejectsOtherDimensions(t *testing.T) {
	game := newTestGame(t, 3, 3, 1)

	err := game.Replay(&RoundSnapshot{SerializedBoard: "##\n##"}, true)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestRoundSnapshotRoundTrip(t *testing.T) {
	game := newTestGame(t, 8, 6, 7)
	require.NoError(t, game.NewRound(7))
	for _, view := range game.Cells() {
		if !view.IsHazard {
			game.Click(view.Index)
			break
		}
	}

	snapshot, err := LoadSnapshot(game.RoundSnapshot().Serialize())
	require.NoError(t, err)
	assert.Equal(t, game.RoundID().String(), snapshot.ID)
	assert.Equal(t, game.RoundSeed(), snapshot.Seed)

	replayed := newTestGame(t, 8, 6, 7)
	require.NoError(t, replayed.Replay(snapshot, false))
	assert.Equal(t, game.Cells(), replayed.Cells())
}

func TestLoadSnapshotRejectsBadBoards(t *testing.T) {
	tests := map[string]string{
		"ragged":  "board: \"##\\n#\"",
		"unknown": "board: \"#x\"",
		"empty":   "seed: 3",
		"yaml":    "board: [",
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSnapshot(in)
			assert.Error(t, err)
		})
	}
}

func TestNewGameFromSnapshot(t *testing.T) {
	config := NewGameConfig()
	config.Snapshot = &RoundSnapshot{SerializedBoard: "O###\n##O#\n####"}

	game, err := NewGame(config)
	require.NoError(t, err)
	assert.Equal(t, 4, game.Width())
	assert.Equal(t, 3, game.Height())
	assert.Equal(t, 2, game.Config().NumHazards)
}

func TestSnapshotSavedWhenRoundEnds(t *testing.T) {
	dir := t.TempDir()

	config := NewGameConfig()
	config.Snapshot = &RoundSnapshot{SerializedBoard: "O#\n##"}
	config.SavedSnapshotsDir = dir
	game, err := NewGame(config)
	require.NoError(t, err)
	require.NoError(t, game.Replay(config.Snapshot, true))

	require.Equal(t, Hazard, game.Click(0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "_loss_")
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".yaml"))

	snapshot, err := ReadSnapshot(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "*#\n##", snapshot.SerializedBoard)
}

func TestRender(t *testing.T) {
	game := replayTestGame(t, "##\n#O", true)
	require.Equal(t, NearHazard, game.Click(0))

	var b bytes.Buffer
	require.NoError(t, game.Render(&b, false))
	assert.Equal(t, "   0 1 \n0: 1 # \n1: # # \n", b.String())

	b.Reset()
	require.NoError(t, game.Render(&b, true))
	assert.Equal(t, "   0 1 \n0: 1 # \n1: # O \n", b.String())
}

func TestRenderBlankAndHazard(t *testing.T) {
	game := replayTestGame(t, "..#\n..#\n#O#", false)

	var b bytes.Buffer
	require.NoError(t, game.Render(&b, false))
	assert.Equal(t, "   0 1 2 \n0: . . # \n1: 1 1 # \n2: # # # \n", b.String())
}
