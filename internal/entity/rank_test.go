package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, "bronze"},
		{499, "bronze"},
		{500, "bronze"},
		{501, "silver"},
		{505, "silver"},
		{1500, "silver"},
		{1501, "gold"},
		{3000, "gold"},
		{3001, "platinum"},
		{6000, "platinum"},
		{6001, "diamond"},
		{1000000, "diamond"},
		{-5, "bronze"},
	}

	for _, tt := range tests {
		rank := RankForPoints(tt.points)
		require.NotNil(t, rank)
		assert.Equal(t, tt.want, rank.Name, "points=%d", tt.points)
	}
}

func TestRankForPoints_IsPure(t *testing.T) {
	// Given: two derivations for the same cumulative points
	first := RankForPoints(2048)
	second := RankForPoints(2048)

	// Then: they resolve to the identical rank regardless of history
	assert.Same(t, first, second)
}

func TestRankFrom(t *testing.T) {
	t.Run("Walks next when points exceed the bracket", func(t *testing.T) {
		// Given: a bronze player whose points grew to 505
		bronze := RankForPoints(0)

		// When: the rank is re-derived from bronze
		rank := RankFrom(bronze, 505)

		// Then: it walks forward to silver
		assert.Equal(t, "silver", rank.Name)
	})

	t.Run("Walks previous when points fall below the bracket", func(t *testing.T) {
		// Given: a gold player who dropped to 400 points
		gold := RankForPoints(2000)

		// When: the rank is re-derived from gold
		rank := RankFrom(gold, 400)

		// Then: it walks back to bronze
		assert.Equal(t, "bronze", rank.Name)
	})
}

func TestRankLinks(t *testing.T) {
	bronze := RankForPoints(0)

	require.Nil(t, bronze.Previous())
	require.NotNil(t, bronze.Next())
	assert.Equal(t, "silver", bronze.Next().Name)
	assert.Same(t, bronze, bronze.Next().Previous())
}
