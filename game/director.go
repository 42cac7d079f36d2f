package game

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrDirectorStalled = errors.New("director has no move")

type Director interface {
	// Init prepares the director for the game's current round
	Init(*Game)

	// Next picks the next cell to click; ok is false when it has no move
	Next() (idx int, ok bool)
}

type Move struct {
	Index   int
	Outcome Outcome
}

// Autoplay lets director click until the round ends, calling observe (if
// set) after every click. It returns the final outcome.
func Autoplay(game *Game, director Director, observe func(Move)) (Outcome, error) {
	director.Init(game)

	outcome := NoOp
	noops := 0
	for game.State() == Ongoing {
		idx, ok := director.Next()
		if !ok {
			return outcome, ErrDirectorStalled
		}

		move := Move{Index: idx, Outcome: game.Click(idx)}
		if observe != nil {
			observe(move)
		}

		if move.Outcome == NoOp {
			// a director repeating stale clicks would never finish
			noops++
			if noops > game.NumCells() {
				return outcome, errors.Wrapf(ErrDirectorStalled, "%d clicks without effect", noops)
			}
			continue
		}
		noops = 0
		outcome = move.Outcome
	}

	Log.WithFields(logrus.Fields{
		"round":   game.RoundID(),
		"outcome": outcome,
		"clicks":  game.Clicks(),
	}).Debug("autoplay finished")
	return outcome, nil
}
