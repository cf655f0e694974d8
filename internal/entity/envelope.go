package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/chessrelay-backend/internal/apperror"
)

const (
	RoleCreator = "creator"
	RoleJoiner  = "joiner"
)

// Kind is the resolved type of a wire frame. The wire format has no explicit
// type tag; a frame is classified once, by which field it carries.
type Kind int

const (
	KindUnknown Kind = iota
	KindTurn
	KindPawnTransform
	KindRegistration
	KindChat
	KindResync
)

func (that Kind) String() string {
	switch that {
	case KindTurn:
		return "turn"
	case KindPawnTransform:
		return "pawn_transform"
	case KindRegistration:
		return "registration"
	case KindChat:
		return "chat"
	case KindResync:
		return "resync"
	default:
		return "unknown"
	}
}

// Envelope is one parsed application frame. Raw keeps the original bytes so
// the relay can rebroadcast and cache frames verbatim.
type Envelope struct {
	GameID            string          `json:"gameID"`
	Squares           json.RawMessage `json:"squares,omitempty"`
	Column            *int            `json:"column,omitempty"`
	PlayerType        string          `json:"playerType,omitempty"`
	Message           json.RawMessage `json:"message,omitempty"`
	RequestLastAction bool            `json:"requestLastAction,omitempty"`
	Nickname          string          `json:"nickname,omitempty"`

	Raw []byte `json:"-"`
}

// ParseEnvelope - parses one application frame. A malformed frame returns an
// error; it must never panic, one bad frame must not take the relay down.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal frame: %w", err)
	}

	if envelope.GameID == "" {
		return nil, apperror.ErrMissingGameID
	}

	envelope.Raw = raw

	return &envelope, nil
}

// Kind - classifies the frame by field presence, in priority order: squares,
// column, playerType, message, requestLastAction.
func (that *Envelope) Kind() Kind {
	switch {
	case len(that.Squares) != 0:
		return KindTurn
	case that.Column != nil:
		return KindPawnTransform
	case that.PlayerType == RoleCreator || that.PlayerType == RoleJoiner:
		return KindRegistration
	case len(that.Message) != 0:
		return KindChat
	case that.RequestLastAction:
		return KindResync
	default:
		return KindUnknown
	}
}
