package relay

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/chessrelay-backend/internal/apperror"
	"github.com/rocketscienceinc/chessrelay-backend/internal/entity"
)

// Dispatcher classifies inbound frames, updates the state cache and fans the
// raw bytes out to every registered connection, or replays cached state to a
// single resync requester. It runs inside the hub goroutine.
type Dispatcher struct {
	logger   *slog.Logger
	cache    *StateCache
	registry *Registry
}

func NewDispatcher(logger *slog.Logger, cache *StateCache, registry *Registry) *Dispatcher {
	return &Dispatcher{
		logger:   logger.With("component", "dispatcher"),
		cache:    cache,
		registry: registry,
	}
}

// Handle - processes one frame from a registered member. Parse failures are
// returned to the caller to log and drop; they never propagate a panic.
func (that *Dispatcher) Handle(member *Member, raw []byte) error {
	envelope, err := entity.ParseEnvelope(raw)
	if err != nil {
		return fmt.Errorf("failed to parse frame: %w", err)
	}

	switch envelope.Kind() {
	case entity.KindTurn:
		that.cache.Record(envelope.GameID).LastTurn = raw
		that.broadcast(raw)
	case entity.KindPawnTransform:
		that.cache.Record(envelope.GameID).LastPawnTransform = raw
		that.broadcast(raw)
	case entity.KindRegistration:
		that.cache.Record(envelope.GameID).SetRolePayload(envelope.PlayerType, raw)
		that.broadcast(raw)
	case entity.KindChat:
		that.cache.Record(envelope.GameID).AppendChat(raw)
		that.broadcast(raw)
	case entity.KindResync:
		that.replay(member, envelope.GameID)
	default:
		member.LastFrame = raw
		return fmt.Errorf("%w: game %s", apperror.ErrUnknownFrame, envelope.GameID)
	}

	member.LastFrame = raw

	return nil
}

// broadcast - sends the raw bytes of the triggering frame, unmodified, to
// every registered connection including the sender, in registration order.
// Delivery is neither acknowledged nor retried.
func (that *Dispatcher) broadcast(raw []byte) {
	for _, member := range that.registry.Members() {
		if !member.Conn.SendBinary(raw) {
			that.logger.Warn("dropped frame for slow consumer", "identity", member.Identity)
		}
	}
}

// replay - sends the cached state for a game back to the requester only.
// Absent fields are skipped silently; role payloads byte-identical to the
// requester's own most recent frame are skipped too.
func (that *Dispatcher) replay(member *Member, gameID string) {
	record, ok := that.cache.Peek(gameID)
	if !ok {
		return
	}

	if record.LastTurn != nil {
		member.Conn.SendBinary(record.LastTurn)
	}

	if record.LastPawnTransform != nil {
		member.Conn.SendBinary(record.LastPawnTransform)
	}

	if len(record.Chat) != 0 {
		historyJSON, err := record.ChatJSON()
		if err != nil {
			that.logger.Error("failed to serialize chat history", "gameID", gameID, "error", err)
		} else {
			member.Conn.SendBinary(historyJSON)
		}
	}

	if record.CreatorPayload != nil && !bytes.Equal(record.CreatorPayload, member.LastFrame) {
		member.Conn.SendBinary(record.CreatorPayload)
	}

	if record.JoinerPayload != nil && !bytes.Equal(record.JoinerPayload, member.LastFrame) {
		member.Conn.SendBinary(record.JoinerPayload)
	}
}
