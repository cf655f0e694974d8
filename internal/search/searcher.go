package search

import (
	"context"
	"log/slog"

	"github.com/rocketscienceinc/chessrelay-backend/internal/entity"
)

// Open is one multiplayer game advertised by a creator registration.
type Open struct {
	GameID   string
	Nickname string
}

// Searcher watches the relay's broadcast stream for creator registrations and
// emits them as joinable games. The subscription is tied to the consuming
// view's lifetime: cancel the context and the output channel closes with no
// further delivery.
type Searcher struct {
	logger *slog.Logger
	frames <-chan []byte
}

func New(logger *slog.Logger, frames <-chan []byte) *Searcher {
	return &Searcher{
		logger: logger.With("component", "searcher"),
		frames: frames,
	}
}

// Run - starts the subscription. The returned channel closes once the
// context is canceled or the frame source closes; nothing is emitted after
// cancellation.
func (that *Searcher) Run(ctx context.Context) <-chan Open {
	out := make(chan Open)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-that.frames:
				if !ok {
					return
				}

				open, found := that.classify(raw)
				if !found {
					continue
				}

				// Both select cases can be ready at once; re-check so a
				// canceled subscription never emits.
				if ctx.Err() != nil {
					return
				}

				select {
				case out <- open:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (that *Searcher) classify(raw []byte) (Open, bool) {
	envelope, err := entity.ParseEnvelope(raw)
	if err != nil {
		// Not every broadcast frame is a well-formed game frame; skip quietly.
		return Open{}, false
	}

	if envelope.Kind() != entity.KindRegistration || envelope.PlayerType != entity.RoleCreator {
		return Open{}, false
	}

	return Open{GameID: envelope.GameID, Nickname: envelope.Nickname}, true
}
