package repository

import (
	"testing"

	"github.com/rocketscienceinc/chessrelay-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	profileRepo := NewProfileRepository(st.Storage)

	// Given: a profile with points and a last game pointer
	profile := &Profile{
		PlayerID:   "p1",
		Nickname:   "alice",
		Points:     499,
		LastGameID: "g1",
	}

	// When: CreateOrUpdate is called
	err := profileRepo.CreateOrUpdate(ctx, profile)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestProfileRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		profileRepo := NewProfileRepository(st.Storage)

		// Given: a stored profile
		profile := &Profile{
			PlayerID: "p1",
			Nickname: "alice",
			Points:   499,
		}

		err := profileRepo.CreateOrUpdate(ctx, profile)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrieved, err := profileRepo.GetByID(ctx, profile.PlayerID)

		// Then: the retrieved profile should match the saved one
		require.NoError(t, err)
		require.Equal(t, profile.PlayerID, retrieved.PlayerID)
		require.Equal(t, profile.Points, retrieved.Points)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		profileRepo := NewProfileRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		retrieved, err := profileRepo.GetByID(ctx, "nobody")

		// Then: an ErrProfileNotFound error should be returned
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProfileNotFound)
		assert.Empty(t, retrieved.PlayerID)
	})
}
