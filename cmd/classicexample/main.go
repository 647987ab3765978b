package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/jpillora/backoff"
	"github.com/kelseyhightower/envconfig"
	"github.com/parkerroan/throttlequeue"
	"github.com/redis/go-redis/v9"

	"golang.org/x/exp/slog"
)

type Config struct {
	RedisURL     string `envconfig:"REDIS_URL" default:"localhost:6379"`
	MaxPerMinute int    `envconfig:"MAX_PER_MINUTE" default:"60"`
	Writes       int    `envconfig:"WRITES" default:"20"`
}

func main() {
	// Load .env file from given path. We're assuming it's in the current directory.
	loadEnvFile()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL, // "localhost:6379"
	})

	queue := throttlequeue.New(cfg.MaxPerMinute, "redis-writes",
		throttlequeue.WithLogger(logger))

	ctx := context.Background()
	for i := 0; i < cfg.Writes; i++ {
		key := fmt.Sprintf("demo:counter:%d", i)
		if err := submitWithRetry(ctx, queue, rdb, key); err != nil {
			logger.Error("write abandoned", slog.String("key", key), slog.Any("error", err.Error()))
		}
	}

	logger.Info("done", slog.Int("writes", cfg.Writes))
}

// submitWithRetry re-submits a failed write with jittered backoff. Retry
// policy belongs to the caller; the queue itself never retries, its futures
// reject once.
func submitWithRetry(ctx context.Context, q *throttlequeue.Queue, rdb *redis.Client, key string) error {
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var err error
	for attempt := 0; attempt < 5; attempt++ {
		_, err = q.Submit(ctx, func(ctx context.Context, args ...any) (any, error) {
			return rdb.Incr(ctx, args[0].(string)).Result()
		}, key).Value()
		if err == nil {
			return nil
		}
		time.Sleep(b.Duration())
	}
	return fmt.Errorf("giving up on %s: %w", key, err)
}

func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		// The file exists, now let's try to load it
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Error loading .env file: %s", err)
		}
	} else if !os.IsNotExist(err) {
		slog.Warn(fmt.Sprintf("Unexpected error looking for .env file: %s", err))
	}
}
