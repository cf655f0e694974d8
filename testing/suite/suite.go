package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/chessrelay-backend/internal/repository/storage"
)

const maxWaitDuration = 120 * time.Second

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

// New - spins up an in-process redis server per test and hands back a client
// bound to it. Everything is torn down through t.Cleanup.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	server := miniredis.RunT(t)

	redisStorage, err := storage.NewRedisStorage(ctx, server.Addr())
	if err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}

	redisClient := redisStorage.Connection

	t.Cleanup(func() {
		t.Helper()

		if err := redisStorage.Close(); err != nil {
			t.Fatalf("could not close redis client: %v", err)
		}
	})

	return ctx, &Suite{
		T:       t,
		Logger:  logger,
		Storage: redisClient,
	}
}
