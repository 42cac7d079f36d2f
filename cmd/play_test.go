package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/they4kman/sweepcore/game"
)

func TestMain(m *testing.M) {
	log.SetLevel(logrus.WarnLevel)
	game.Log.SetLevel(logrus.WarnLevel)
	m.Run()
}

func newTestSession(t *testing.T, board string, director game.Director) (*session, *bytes.Buffer) {
	t.Helper()
	config := game.NewGameConfig()
	config.Snapshot = &game.RoundSnapshot{SerializedBoard: board}

	g, err := game.NewGame(config)
	require.NoError(t, err)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	return &session{
		game:     g,
		out:      &out,
		director: director,
		snapshot: config.Snapshot,
		now: func() time.Time {
			clock = clock.Add(1500 * time.Millisecond)
			return clock
		},
	}, &out
}

func TestPlayWin(t *testing.T) {
	s, out := newTestSession(t, "####\n####\n####\n###O", nil)

	require.NoError(t, s.run(strings.NewReader("0 0\nquit\n")))
	assert.Contains(t, out.String(), "WIN! in 00:01.50")
	assert.Equal(t, game.Won, s.game.State())
}

func TestPlayLoseThenNewRound(t *testing.T) {
	s, out := newTestSession(t, "O#\n##", nil)

	require.NoError(t, s.run(strings.NewReader("1\n0\n0\nnew\n")))
	assert.Contains(t, out.String(), "LOSE :(")
	assert.Contains(t, out.String(), "nothing to reveal there")
	assert.Equal(t, game.Ongoing, s.game.State(), "new starts a fresh round")
	assert.Equal(t, 1, s.game.NumHazards())
}

func TestPlayRejectsGarbage(t *testing.T) {
	s, out := newTestSession(t, "O#\n##", nil)

	require.NoError(t, s.run(strings.NewReader("a b\n1 2 3\nx\n\n")))
	assert.Equal(t, 3, strings.Count(out.String(), "not a cell"))
	assert.Zero(t, s.game.Clicks())
}

func TestPlayWithDirector(t *testing.T) {
	s, out := newTestSession(t, "##O#", constraintDirector.create(1))

	require.NoError(t, s.run(strings.NewReader("")))
	assert.True(t, s.game.State() == game.Won || s.game.State() == game.Lost)
	assert.Contains(t, out.String(), "director clicks")
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00.00", formatElapsed(0))
	assert.Equal(t, "01:05.25", formatElapsed(65250*time.Millisecond))
}

func TestDirectorValue(t *testing.T) {
	kind := noDirector
	require.NoError(t, kind.Set("random"))
	assert.Equal(t, "random", kind.String())
	assert.NotNil(t, kind.create(1))
	assert.Error(t, kind.Set("oracle"))
	assert.Nil(t, noDirector.create(1))
}

func TestBench(t *testing.T) {
	config := game.NewGameConfig()
	require.NoError(t, config.ApplyPreset("beginner"))
	config.Seed = 11

	result, err := bench(config, constraintDirector, 12, 3)
	require.NoError(t, err)
	assert.Equal(t, 12, result.rounds)
	assert.LessOrEqual(t, result.wins, 12)
	assert.Greater(t, result.clicksPerRound(), 0.0)

	_, err = bench(config, randomDirector, 1, 0)
	assert.Error(t, err)
}
