package entity

import (
	"encoding/json"
	"fmt"
)

// DefaultChatHistoryLimit bounds the per-game chat log.
const DefaultChatHistoryLimit = 10

// GameRecord is the cached truth for one game id: the most recently received
// payload of each frame kind plus a bounded chat log. Fields are overwritten
// independently; there is no history beyond the last turn and last promotion.
type GameRecord struct {
	GameID string

	LastTurn          []byte
	LastPawnTransform []byte
	CreatorPayload    []byte
	JoinerPayload     []byte

	Chat      [][]byte
	chatLimit int
}

func NewGameRecord(gameID string, chatLimit int) *GameRecord {
	if chatLimit <= 0 {
		chatLimit = DefaultChatHistoryLimit
	}

	return &GameRecord{
		GameID:    gameID,
		chatLimit: chatLimit,
	}
}

// AppendChat - appends one chat frame; once the log exceeds the limit the
// oldest entry is dropped from the head.
func (that *GameRecord) AppendChat(raw []byte) {
	that.Chat = append(that.Chat, raw)

	if len(that.Chat) > that.chatLimit {
		that.Chat = that.Chat[len(that.Chat)-that.chatLimit:]
	}
}

// ChatJSON - re-serializes the chat log as a JSON array of the cached chat
// objects, the shape a resync replay sends it in.
func (that *GameRecord) ChatJSON() ([]byte, error) {
	history := make([]json.RawMessage, 0, len(that.Chat))
	for _, raw := range that.Chat {
		history = append(history, json.RawMessage(raw))
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat history: %w", err)
	}

	return historyJSON, nil
}

// SetRolePayload - caches a role-registration frame under its role key,
// overwriting any previous value. Racing registrations resolve last-write-wins.
func (that *GameRecord) SetRolePayload(role string, raw []byte) {
	if role == RoleCreator {
		that.CreatorPayload = raw
		return
	}

	that.JoinerPayload = raw
}
