package entity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRecord_AppendChat(t *testing.T) {
	t.Run("Evicts oldest entry once the limit is exceeded", func(t *testing.T) {
		// Given: a record with the default chat limit
		record := NewGameRecord("g2", DefaultChatHistoryLimit)

		// When: 11 chat messages arrive
		for i := 1; i <= 11; i++ {
			record.AppendChat([]byte(fmt.Sprintf(`{"gameID":"g2","message":"msg %d"}`, i)))
		}

		// Then: only 10 remain and the first is the 2nd message sent
		require.Len(t, record.Chat, 10)
		assert.Equal(t, []byte(`{"gameID":"g2","message":"msg 2"}`), record.Chat[0])
		assert.Equal(t, []byte(`{"gameID":"g2","message":"msg 11"}`), record.Chat[9])
	})

	t.Run("Never exceeds the limit under any sequence", func(t *testing.T) {
		record := NewGameRecord("g", 10)

		for i := 0; i < 100; i++ {
			record.AppendChat([]byte(fmt.Sprintf(`{"gameID":"g","message":"%d"}`, i)))
			assert.LessOrEqual(t, len(record.Chat), 10)
		}
	})
}

func TestGameRecord_ChatJSON(t *testing.T) {
	// Given: a record with two cached chat objects
	record := NewGameRecord("g", 10)
	record.AppendChat([]byte(`{"gameID":"g","message":"one"}`))
	record.AppendChat([]byte(`{"gameID":"g","message":"two"}`))

	// When: the history is re-serialized
	historyJSON, err := record.ChatJSON()

	// Then: it is a JSON array of the cached objects in arrival order
	require.NoError(t, err)
	assert.JSONEq(t, `[{"gameID":"g","message":"one"},{"gameID":"g","message":"two"}]`, string(historyJSON))
}

func TestGameRecord_SetRolePayload(t *testing.T) {
	// Given: an empty record
	record := NewGameRecord("g1", 10)

	// When: creator and joiner register, and the creator re-registers
	record.SetRolePayload(RoleCreator, []byte(`{"gameID":"g1","playerType":"creator","nickname":"alice"}`))
	record.SetRolePayload(RoleJoiner, []byte(`{"gameID":"g1","playerType":"joiner","nickname":"bob"}`))
	record.SetRolePayload(RoleCreator, []byte(`{"gameID":"g1","playerType":"creator","nickname":"alice2"}`))

	// Then: each role key holds only the most recent payload
	assert.Equal(t, []byte(`{"gameID":"g1","playerType":"creator","nickname":"alice2"}`), record.CreatorPayload)
	assert.Equal(t, []byte(`{"gameID":"g1","playerType":"joiner","nickname":"bob"}`), record.JoinerPayload)
}
