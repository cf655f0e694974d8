package score

import (
	"testing"

	"github.com/rocketscienceinc/chessrelay-backend/internal/entity"
	"github.com/rocketscienceinc/chessrelay-backend/internal/repository"
	"github.com/rocketscienceinc/chessrelay-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	t.Run("Settles an abandoned multiplayer game exactly once", func(t *testing.T) {
		ctx, st := suite.New(t)

		profiles := repository.NewProfileRepository(st.Storage)
		sessions := repository.NewSessionRepository(st.Storage)
		resolver := NewResolver(st.Logger, NewEngine(), profiles, sessions)

		// Given: an open multiplayer game and points unchanged since start
		session := entity.NewGameSession("g1", entity.ModeMultiplayer, entity.RoleCreator, 10)
		session.StartingPoints = 499
		_, err := session.AddPlayer(entity.RoleCreator, "alice")
		require.NoError(t, err)
		_, err = session.AddPlayer(entity.RoleJoiner, "bob")
		require.NoError(t, err)
		require.NoError(t, sessions.CreateOrUpdate(ctx, session))

		profile := &repository.Profile{PlayerID: "p1", Nickname: "alice", Points: 499, LastGameID: "g1"}
		require.NoError(t, profiles.CreateOrUpdate(ctx, profile))

		// When: the app foregrounds
		settled, err := resolver.Resolve(ctx, "p1")

		// Then: the opponent's side surrendered and the win was applied
		require.NoError(t, err)
		require.NotNil(t, settled)
		assert.True(t, settled.IsEnded())
		assert.Equal(t, entity.RoleCreator, settled.Winner)

		updated, err := profiles.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 505, updated.Points)

		// When: the app foregrounds again
		again, err := resolver.Resolve(ctx, "p1")

		// Then: nothing is re-applied
		require.NoError(t, err)
		assert.Nil(t, again)

		final, err := profiles.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 505, final.Points)
	})

	t.Run("Ignores a single-device game", func(t *testing.T) {
		ctx, st := suite.New(t)

		profiles := repository.NewProfileRepository(st.Storage)
		sessions := repository.NewSessionRepository(st.Storage)
		resolver := NewResolver(st.Logger, NewEngine(), profiles, sessions)

		session := entity.NewGameSession("g1", entity.ModeSingleDevice, entity.RoleCreator, 0)
		require.NoError(t, sessions.CreateOrUpdate(ctx, session))
		require.NoError(t, profiles.CreateOrUpdate(ctx, &repository.Profile{PlayerID: "p1", LastGameID: "g1"}))

		settled, err := resolver.Resolve(ctx, "p1")

		require.NoError(t, err)
		assert.Nil(t, settled)
	})

	t.Run("Ignores a game whose points already moved", func(t *testing.T) {
		ctx, st := suite.New(t)

		profiles := repository.NewProfileRepository(st.Storage)
		sessions := repository.NewSessionRepository(st.Storage)
		resolver := NewResolver(st.Logger, NewEngine(), profiles, sessions)

		// Given: a session started at 100 points but the profile now at 106
		session := entity.NewGameSession("g1", entity.ModeMultiplayer, entity.RoleCreator, 10)
		session.StartingPoints = 100
		_, err := session.AddPlayer(entity.RoleCreator, "alice")
		require.NoError(t, err)
		require.NoError(t, sessions.CreateOrUpdate(ctx, session))
		require.NoError(t, profiles.CreateOrUpdate(ctx, &repository.Profile{PlayerID: "p1", Points: 106, LastGameID: "g1"}))

		// When: the app foregrounds
		settled, err := resolver.Resolve(ctx, "p1")

		// Then: the heuristic says a settlement already happened
		require.NoError(t, err)
		assert.Nil(t, settled)
	})

	t.Run("No profile means nothing to resolve", func(t *testing.T) {
		ctx, st := suite.New(t)

		profiles := repository.NewProfileRepository(st.Storage)
		sessions := repository.NewSessionRepository(st.Storage)
		resolver := NewResolver(st.Logger, NewEngine(), profiles, sessions)

		settled, err := resolver.Resolve(ctx, "ghost")

		require.NoError(t, err)
		assert.Nil(t, settled)
	})
}
