package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/they4kman/sweepcore/game"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal (default)",
	Long: `Play in the terminal. Enter a cell as "row column" or as its index.
Enter "new" to start another round and "quit" to leave.`,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	g, err := game.NewGame(gameConfig)
	if err != nil {
		return err
	}

	s := &session{
		game:     g,
		out:      cmd.OutOrStdout(),
		director: directorKind.create(gameConfig.Seed),
		snapshot: gameConfig.Snapshot,
		now:      time.Now,
	}
	return s.run(cmd.InOrStdin())
}

// session is the terminal collaborator: it maps typed commands to clicks,
// keeps the round timer and prints the grid after every move.
type session struct {
	game     *game.Game
	out      io.Writer
	director game.Director
	snapshot *game.RoundSnapshot
	now      func() time.Time

	startedAt time.Time
}

func (s *session) run(in io.Reader) error {
	if err := s.newRound(); err != nil {
		return err
	}

	if s.director != nil {
		return s.autoplay()
	}

	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, "> ")
	for scanner.Scan() {
		quit, err := s.handle(scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		fmt.Fprint(s.out, "> ")
	}
	return scanner.Err()
}

func (s *session) newRound() error {
	var err error
	if s.snapshot != nil {
		err = s.game.Replay(s.snapshot, s.game.Config().LoadSnapshotFresh)
		s.snapshot = nil
	} else {
		err = s.game.NewRound(s.game.Config().NumHazards)
	}
	if err != nil {
		return err
	}

	s.startedAt = time.Time{}
	return s.render()
}

func (s *session) autoplay() error {
	_, err := game.Autoplay(s.game, s.director, func(move game.Move) {
		view, _ := s.game.Snapshot(move.Index)
		fmt.Fprintf(s.out, "director clicks (%d, %d)\n", view.Row, view.Column)
		s.report(move.Outcome)
	})
	return err
}

func (s *session) handle(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return true, nil
	case "n", "new":
		return false, s.newRound()
	}

	var outcome game.Outcome
	switch len(fields) {
	case 1:
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			fmt.Fprintf(s.out, "not a cell: %q\n", line)
			return false, nil
		}
		outcome = s.game.Click(idx)
	case 2:
		row, rowErr := strconv.Atoi(fields[0])
		column, columnErr := strconv.Atoi(fields[1])
		if rowErr != nil || columnErr != nil {
			fmt.Fprintf(s.out, "not a cell: %q\n", line)
			return false, nil
		}
		outcome = s.game.ClickAt(row, column)
	default:
		fmt.Fprintf(s.out, "not a cell: %q\n", line)
		return false, nil
	}

	s.report(outcome)
	return false, nil
}

func (s *session) report(outcome game.Outcome) {
	if outcome == game.NoOp {
		fmt.Fprintln(s.out, "nothing to reveal there")
		return
	}

	// the first resolved click of a round starts the timer
	if s.startedAt.IsZero() {
		s.startedAt = s.now()
	}

	if err := s.render(); err != nil {
		log.WithError(err).Error("render")
	}

	if !outcome.Ends() {
		return
	}

	elapsed := s.now().Sub(s.startedAt)
	switch outcome {
	case game.Win:
		fmt.Fprintf(s.out, "WIN! in %s\n", formatElapsed(elapsed))
	case game.Hazard:
		fmt.Fprintf(s.out, "LOSE :( after %s\n", formatElapsed(elapsed))
	}
	fmt.Fprintln(s.out, `enter "new" to play again`)
}

func (s *session) render() error {
	return s.game.Render(s.out, s.game.State() == game.Lost)
}

func formatElapsed(elapsed time.Duration) string {
	minutes := int(elapsed.Minutes())
	seconds := elapsed.Seconds() - float64(minutes*60)
	return fmt.Sprintf("%02d:%05.2f", minutes, seconds)
}
