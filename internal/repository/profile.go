package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the locally stored player state: cumulative points plus a
// pointer to the most recently played game. Rank is never stored; it is
// derived from points.
type Profile struct {
	PlayerID   string `json:"id"`
	Nickname   string `json:"nickname"`
	Points     int    `json:"points"`
	LastGameID string `json:"last_game_id,omitempty"`
}

type ProfileRepository interface {
	CreateOrUpdate(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
}

type dbProfile struct {
	client *redis.Client
}

func NewProfileRepository(client *redis.Client) ProfileRepository {
	return &dbProfile{
		client: client,
	}
}

func (that *dbProfile) CreateOrUpdate(ctx context.Context, profile *Profile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	profileKey := "profile:" + profile.PlayerID
	err = that.client.Set(ctx, profileKey, profileJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}

	return nil
}

func (that *dbProfile) GetByID(ctx context.Context, id string) (*Profile, error) {
	profileKey := "profile:" + id

	response, err := that.client.Get(ctx, profileKey).Result()

	if errors.Is(err, redis.Nil) {
		return &Profile{}, ErrProfileNotFound
	}

	if err != nil {
		return &Profile{}, fmt.Errorf("failed to get profile by ID: %w", err)
	}

	var existingProfile Profile
	if err = json.Unmarshal([]byte(response), &existingProfile); err != nil {
		return &Profile{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &existingProfile, nil
}
