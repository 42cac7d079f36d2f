package cmd

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/sweepcore/game"
	"golang.org/x/sync/errgroup"
)

var (
	benchGames    int
	benchParallel int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Let a director play many rounds and report its win rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := directorKind
		if kind == noDirector {
			kind = constraintDirector
		}

		result, err := bench(gameConfig, kind, benchGames, benchParallel)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d rounds, %d won (%.1f%%), %.1f clicks per round\n",
			result.rounds, result.wins, 100*result.winRate(), result.clicksPerRound())
		return nil
	},
}

type benchResult struct {
	rounds, wins, clicks int
}

func (result benchResult) winRate() float64 {
	if result.rounds == 0 {
		return 0
	}
	return float64(result.wins) / float64(result.rounds)
}

func (result benchResult) clicksPerRound() float64 {
	if result.rounds == 0 {
		return 0
	}
	return float64(result.clicks) / float64(result.rounds)
}

// bench plays rounds games, each on its own Game, at most parallel at a time.
// Round i is seeded from the configured seed plus i.
func bench(config game.GameConfig, kind directorValue, rounds, parallel int) (benchResult, error) {
	if err := config.Validate(); err != nil {
		return benchResult{}, err
	}
	if rounds < 0 || parallel < 1 {
		return benchResult{}, fmt.Errorf("invalid bench size: %d rounds, %d parallel", rounds, parallel)
	}

	var (
		result benchResult
		mu     sync.Mutex
		group  errgroup.Group
	)
	group.SetLimit(parallel)

	for i := 0; i < rounds; i++ {
		roundConfig := config
		roundConfig.Seed = config.Seed + uint64(i) + 1
		roundConfig.Snapshot = nil

		group.Go(func() error {
			g, err := game.NewGame(roundConfig)
			if err != nil {
				return err
			}
			if err := g.NewRound(roundConfig.NumHazards); err != nil {
				return err
			}

			outcome, err := game.Autoplay(g, kind.create(roundConfig.Seed), nil)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			result.rounds++
			result.clicks += g.Clicks()
			if outcome == game.Win {
				result.wins++
			}
			return nil
		})
	}

	err := group.Wait()
	log.WithFields(logrus.Fields{
		"rounds":   result.rounds,
		"wins":     result.wins,
		"director": kind,
	}).Info("bench finished")
	return result, err
}

func init() {
	benchCmd.Flags().IntVarP(&benchGames, "games", "g", 100, "Number of rounds to play")
	benchCmd.Flags().IntVarP(&benchParallel, "parallel", "p", 4, "Number of rounds played at once")
}
