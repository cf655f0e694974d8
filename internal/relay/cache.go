package relay

import (
	"github.com/rocketscienceinc/chessrelay-backend/internal/entity"
)

// StateCache maps a game id to its cached record. Records are created lazily
// on first reference and live until process restart.
type StateCache struct {
	records   map[string]*entity.GameRecord
	chatLimit int
}

func NewStateCache(chatLimit int) *StateCache {
	return &StateCache{
		records:   make(map[string]*entity.GameRecord),
		chatLimit: chatLimit,
	}
}

// Record - the record for a game id, created on first use.
func (that *StateCache) Record(gameID string) *entity.GameRecord {
	record, ok := that.records[gameID]
	if !ok {
		record = entity.NewGameRecord(gameID, that.chatLimit)
		that.records[gameID] = record
	}

	return record
}

// Peek - the record for a game id without creating one.
func (that *StateCache) Peek(gameID string) (*entity.GameRecord, bool) {
	record, ok := that.records[gameID]
	return record, ok
}
