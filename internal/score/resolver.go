package score

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/chessrelay-backend/internal/apperror"
	"github.com/rocketscienceinc/chessrelay-backend/internal/entity"
	"github.com/rocketscienceinc/chessrelay-backend/internal/repository"
)

// Resolver settles multiplayer games the opponent walked away from. It runs
// on app foreground: when the most recently played game is multiplayer, still
// open, and the player's stored points equal the points recorded at game
// start, the opponent is presumed gone, a surrender is forced on their behalf
// and the points settlement applied immediately.
type Resolver struct {
	logger   *slog.Logger
	engine   *Engine
	profiles repository.ProfileRepository
	sessions repository.SessionRepository
}

func NewResolver(logger *slog.Logger, engine *Engine, profiles repository.ProfileRepository, sessions repository.SessionRepository) *Resolver {
	return &Resolver{
		logger:   logger.With("component", "abandonment-resolver"),
		engine:   engine,
		profiles: profiles,
		sessions: sessions,
	}
}

// Resolve - inspects the player's most recent game and settles it if it was
// abandoned. Returns the settled session, or nil when nothing needed doing.
// A second call after settlement is a no-op: the session is already ended.
func (that *Resolver) Resolve(ctx context.Context, playerID string) (*entity.GameSession, error) {
	log := that.logger.With("method", "Resolve", "playerID", playerID)

	profile, err := that.profiles.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.LastGameID == "" {
		return nil, nil
	}

	session, err := that.sessions.GetByID(ctx, profile.LastGameID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		log.Warn("last game points at a missing session", "gameID", profile.LastGameID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if !that.isAbandoned(profile, session) {
		return nil, nil
	}

	localSlot := session.LocalSlot()
	if localSlot == nil {
		return nil, fmt.Errorf("%w: game %s has no local slot", apperror.ErrNoActiveSession, session.ID)
	}

	if err = session.MarkSurrendered(session.OpponentRole()); err != nil {
		return nil, fmt.Errorf("failed to mark surrender: %w", err)
	}

	if err = that.engine.Settle(profile, localSlot, OutcomeWin); err != nil {
		return nil, fmt.Errorf("failed to settle points: %w", err)
	}

	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if err = that.profiles.CreateOrUpdate(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	log.Info("abandoned game settled",
		"gameID", session.ID,
		"delta", localSlot.Delta,
		"points", profile.Points,
		"rank", that.engine.Rank(profile).Name,
	)

	return session, nil
}

// isAbandoned - the heuristic: multiplayer, not ended, no winner, and the
// stored cumulative points still equal the points at game start, meaning no
// settlement has happened yet. Known to be fragile if anything else changes
// points between games; kept deliberately, see DESIGN.md.
func (that *Resolver) isAbandoned(profile *repository.Profile, session *entity.GameSession) bool {
	return session.IsMultiplayer() &&
		!session.IsEnded() &&
		!session.HasWinner() &&
		profile.Points == session.StartingPoints
}
