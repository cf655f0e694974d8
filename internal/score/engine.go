package score

import (
	"github.com/rocketscienceinc/chessrelay-backend/internal/apperror"
	"github.com/rocketscienceinc/chessrelay-backend/internal/entity"
	"github.com/rocketscienceinc/chessrelay-backend/internal/repository"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Engine computes the points delta for a finished or surrendered game and
// applies it to the player's cumulative points. The arithmetic: a win earns
// twice the current rank's factor, a loss forfeits the factor, a draw moves
// nothing. Rank is re-derived from the updated points, never stored.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Delta - the points change for an outcome at the given cumulative points.
func (that *Engine) Delta(points int, outcome Outcome) int {
	factor := entity.RankForPoints(points).Factor

	switch outcome {
	case OutcomeWin:
		return 2 * factor
	case OutcomeLoss:
		return -factor
	default:
		return 0
	}
}

// Settle - fixes the slot's delta and applies it to the profile. A slot's
// delta is assigned exactly once per game; a second settlement fails with
// ErrAlreadySettled. Cumulative points never drop below zero.
func (that *Engine) Settle(profile *repository.Profile, slot *entity.PlayerSlot, outcome Outcome) error {
	if slot.DeltaSet {
		return apperror.ErrAlreadySettled
	}

	delta := that.Delta(profile.Points, outcome)

	slot.Delta = delta
	slot.DeltaSet = true

	profile.Points += delta
	if profile.Points < 0 {
		profile.Points = 0
	}

	slot.Points = profile.Points

	return nil
}

// Rank - the profile's current rank, derived from cumulative points.
func (that *Engine) Rank(profile *repository.Profile) *entity.Rank {
	return entity.RankForPoints(profile.Points)
}
