package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/chessrelay-backend/internal/apperror"
	"github.com/rocketscienceinc/chessrelay-backend/internal/entity"
	"github.com/rocketscienceinc/chessrelay-backend/internal/repository"
)

// Conn is the client's sending half of the relay socket.
type Conn interface {
	Send(data []byte) error
}

// GameLogic is the external rules engine. The sync layer never validates
// moves itself; it only decides whether a payload should reach the engine.
type GameLogic interface {
	ApplyTurn(squares json.RawMessage) error
	ApplyPromotion(column int) error
}

type turnFrame struct {
	GameID  string          `json:"gameID"`
	Squares json.RawMessage `json:"squares"`
}

type promotionFrame struct {
	GameID string `json:"gameID"`
	Column int    `json:"column"`
}

type registrationFrame struct {
	GameID     string `json:"gameID"`
	PlayerType string `json:"playerType"`
	Nickname   string `json:"nickname,omitempty"`
}

type chatFrame struct {
	GameID   string `json:"gameID"`
	Message  string `json:"message"`
	Nickname string `json:"nickname,omitempty"`
}

type resyncFrame struct {
	GameID            string `json:"gameID"`
	RequestLastAction bool   `json:"requestLastAction"`
}

type handshakeFrame struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Sync bridges relay frames into the local game session. Outgoing moves are
// applied locally before they are transmitted, so the echo that comes back
// from broadcast must be recognised and dropped; the same holds for payloads
// replayed after a resync.
type Sync struct {
	logger *slog.Logger

	conn     Conn
	logic    GameLogic
	sessions repository.SessionRepository
	profiles repository.ProfileRepository
	playerID string

	session *entity.GameSession
	color   string

	lastOutgoing         []byte
	lastAppliedTurn      []byte
	lastAppliedPromotion []byte
	chat                 [][]byte
}

func New(logger *slog.Logger, conn Conn, logic GameLogic, sessions repository.SessionRepository, profiles repository.ProfileRepository, playerID string) *Sync {
	return &Sync{
		logger:   logger.With("component", "session-sync"),
		conn:     conn,
		logic:    logic,
		sessions: sessions,
		profiles: profiles,
		playerID: playerID,
	}
}

// Session - the active game session, nil when none is loaded.
func (that *Sync) Session() *entity.GameSession {
	return that.session
}

// Color - the display color assigned by the relay handshake.
func (that *Sync) Color() string {
	return that.color
}

// Chat - the chat entries received for the active session, arrival order.
func (that *Sync) Chat() [][]byte {
	return that.chat
}

// Create - starts a new multiplayer game as creator: mints a game id,
// records the starting points, persists the session and announces the
// creator role to the relay.
func (that *Sync) Create(ctx context.Context, nickname string, timerMinutes int) (*entity.GameSession, error) {
	profile, err := that.getOrCreateProfile(ctx, nickname)
	if err != nil {
		return nil, err
	}

	gameID := uuid.NewString()

	session := entity.NewGameSession(gameID, entity.ModeMultiplayer, entity.RoleCreator, timerMinutes)
	session.StartingPoints = profile.Points

	slot, err := session.AddPlayer(entity.RoleCreator, nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to add creator slot: %w", err)
	}
	slot.Points = profile.Points

	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	profile.LastGameID = gameID
	if err = that.profiles.CreateOrUpdate(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}

	that.session = session
	that.chat = nil

	if err = that.transmit(registrationFrame{GameID: gameID, PlayerType: entity.RoleCreator, Nickname: nickname}); err != nil {
		return nil, err
	}

	that.logger.Info("game created", "gameID", gameID)

	return session, nil
}

// Load - makes a game the active session. Loading a multiplayer game this
// player has not joined yet transmits a joiner registration, adds the local
// slot and swaps display order so the local player renders first; the
// creator's slot fills in from the broadcast or resync replay.
func (that *Sync) Load(ctx context.Context, gameID, nickname string) (*entity.GameSession, error) {
	profile, err := that.getOrCreateProfile(ctx, nickname)
	if err != nil {
		return nil, err
	}

	session, err := that.sessions.GetByID(ctx, gameID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		session = entity.NewGameSession(gameID, entity.ModeMultiplayer, "", 0)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	that.session = session
	that.chat = nil

	if !session.IsMultiplayer() || session.LocalRole != "" {
		return session, nil
	}

	session.LocalRole = entity.RoleJoiner
	session.StartingPoints = profile.Points

	slot, err := session.AddPlayer(entity.RoleJoiner, nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to add joiner slot: %w", err)
	}
	slot.Points = profile.Points

	session.SwapSlots()

	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	profile.LastGameID = gameID
	if err = that.profiles.CreateOrUpdate(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}

	if err = that.transmit(registrationFrame{GameID: gameID, PlayerType: entity.RoleJoiner, Nickname: nickname}); err != nil {
		return nil, err
	}

	that.logger.Info("joined game", "gameID", gameID)

	return session, nil
}

// SendTurn - applies the move locally first, then transmits it. The echo
// from broadcast is byte-identical and gets dropped by HandleFrame.
func (that *Sync) SendTurn(squares json.RawMessage) error {
	if that.session == nil {
		return apperror.ErrNoActiveSession
	}

	if err := that.logic.ApplyTurn(squares); err != nil {
		return fmt.Errorf("failed to apply turn: %w", err)
	}

	frame, err := json.Marshal(turnFrame{GameID: that.session.ID, Squares: squares})
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	that.lastAppliedTurn = frame

	return that.send(frame)
}

// SendPromotion - applies the pawn promotion locally first, then transmits.
func (that *Sync) SendPromotion(column int) error {
	if that.session == nil {
		return apperror.ErrNoActiveSession
	}

	if err := that.logic.ApplyPromotion(column); err != nil {
		return fmt.Errorf("failed to apply promotion: %w", err)
	}

	frame, err := json.Marshal(promotionFrame{GameID: that.session.ID, Column: column})
	if err != nil {
		return fmt.Errorf("failed to marshal promotion: %w", err)
	}

	that.lastAppliedPromotion = frame

	return that.send(frame)
}

// SendChat - transmits a chat message with the sender embedded.
func (that *Sync) SendChat(message string) error {
	if that.session == nil {
		return apperror.ErrNoActiveSession
	}

	nickname := ""
	if slot := that.session.LocalSlot(); slot != nil {
		nickname = slot.Nickname
	}

	frame, err := json.Marshal(chatFrame{GameID: that.session.ID, Message: message, Nickname: nickname})
	if err != nil {
		return fmt.Errorf("failed to marshal chat: %w", err)
	}

	return that.send(frame)
}

// Resync - asks the relay for the cached state of the active game. Called on
// reconnect; the replies flow back through HandleFrame, which applies them
// idempotently.
func (that *Sync) Resync() error {
	if that.session == nil {
		return apperror.ErrNoActiveSession
	}

	return that.transmit(resyncFrame{GameID: that.session.ID, RequestLastAction: true})
}

// HandleFrame - applies one inbound relay frame to the local session.
// Frames for other games are filtered out; duplicates are no-ops.
func (that *Sync) HandleFrame(ctx context.Context, raw []byte) error {
	if that.handleHandshake(raw) {
		return nil
	}

	if that.session == nil {
		return nil
	}

	if len(raw) != 0 && raw[0] == '[' {
		return that.applyChatHistory(raw)
	}

	envelope, err := entity.ParseEnvelope(raw)
	if err != nil {
		return fmt.Errorf("failed to parse frame: %w", err)
	}

	if envelope.GameID != that.session.ID {
		return nil
	}

	if bytes.Equal(raw, that.lastOutgoing) {
		return nil
	}

	switch envelope.Kind() {
	case entity.KindTurn:
		return that.applyTurn(envelope)
	case entity.KindPawnTransform:
		return that.applyPromotion(envelope)
	case entity.KindRegistration:
		return that.applyRegistration(ctx, envelope)
	case entity.KindChat:
		that.applyChat(raw)
		return nil
	case entity.KindResync:
		// Another client's catch-up request; nothing to do locally.
		return nil
	default:
		return fmt.Errorf("%w: game %s", apperror.ErrUnknownFrame, envelope.GameID)
	}
}

func (that *Sync) handleHandshake(raw []byte) bool {
	var frame handshakeFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return false
	}

	if frame.Type != "color" {
		return false
	}

	that.color = frame.Data
	that.logger.Info("color assigned", "color", frame.Data)

	return true
}

func (that *Sync) applyTurn(envelope *entity.Envelope) error {
	if bytes.Equal(envelope.Raw, that.lastAppliedTurn) {
		return nil
	}

	if err := that.logic.ApplyTurn(envelope.Squares); err != nil {
		return fmt.Errorf("failed to apply turn: %w", err)
	}

	that.lastAppliedTurn = envelope.Raw

	return nil
}

func (that *Sync) applyPromotion(envelope *entity.Envelope) error {
	if bytes.Equal(envelope.Raw, that.lastAppliedPromotion) {
		return nil
	}

	if err := that.logic.ApplyPromotion(*envelope.Column); err != nil {
		return fmt.Errorf("failed to apply promotion: %w", err)
	}

	that.lastAppliedPromotion = envelope.Raw

	return nil
}

// applyRegistration - the second player joining shows up as a joiner
// registration; adding a slot that already exists only refreshes the
// nickname, so replays are harmless.
func (that *Sync) applyRegistration(ctx context.Context, envelope *entity.Envelope) error {
	log := that.logger.With("method", "applyRegistration", "gameID", envelope.GameID)

	if slot := that.session.SlotByRole(envelope.PlayerType); slot != nil {
		if envelope.Nickname != "" {
			slot.Nickname = envelope.Nickname
		}
		return nil
	}

	if _, err := that.session.AddPlayer(envelope.PlayerType, envelope.Nickname); err != nil {
		return fmt.Errorf("failed to add %s slot: %w", envelope.PlayerType, err)
	}

	if err := that.sessions.CreateOrUpdate(ctx, that.session); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	log.Info("player joined", "role", envelope.PlayerType, "nickname", envelope.Nickname)

	return nil
}

func (that *Sync) applyChatHistory(raw []byte) error {
	var history []json.RawMessage
	if err := json.Unmarshal(raw, &history); err != nil {
		return fmt.Errorf("failed to parse chat history: %w", err)
	}

	for _, entry := range history {
		that.applyChat(entry)
	}

	return nil
}

func (that *Sync) applyChat(raw []byte) {
	for _, existing := range that.chat {
		if bytes.Equal(existing, raw) {
			return
		}
	}

	that.chat = append(that.chat, raw)
}

func (that *Sync) getOrCreateProfile(ctx context.Context, nickname string) (*repository.Profile, error) {
	profile, err := that.profiles.GetByID(ctx, that.playerID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return &repository.Profile{PlayerID: that.playerID, Nickname: nickname}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

func (that *Sync) transmit(frame any) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	return that.send(data)
}

func (that *Sync) send(data []byte) error {
	if err := that.conn.Send(data); err != nil {
		return fmt.Errorf("failed to send frame: %w", err)
	}

	that.lastOutgoing = data

	return nil
}
