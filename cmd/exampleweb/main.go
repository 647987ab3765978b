package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/beevik/ntp"
	"github.com/dgraph-io/ristretto"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/parkerroan/throttlequeue"

	"github.com/gorilla/mux"
	"golang.org/x/exp/slog"
)

type Config struct {
	Port         int           `envconfig:"SERVER_PORT" default:"8080"`
	MaxPerMinute int           `envconfig:"MAX_PER_MINUTE" default:"30"`
	BackendURL   string        `envconfig:"BACKEND_URL" default:"https://httpbin.org/anything"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"60s"`
	NTPServer    string        `envconfig:"NTP_SERVER" default:"pool.ntp.org"`
}

func main() {
	// Load .env file from given path. We're assuming it's in the current directory.
	loadEnvFile()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Dispatch spacing is wall-clock based, so surface clock skew early.
	checkClock(logger, cfg.NTPServer)

	// Cache backend responses so repeated lookups spend no quota.
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		log.Fatalf("Error creating cache: %v", err)
	}

	queue := throttlequeue.New(cfg.MaxPerMinute, "backend",
		throttlequeue.WithLogger(logger))

	// Create a new router
	r := mux.NewRouter()

	r.HandleFunc("/lookup/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)["id"]

		if v, ok := cache.Get(id); ok {
			w.Header().Set("X-Cache", "HIT")
			w.Write(v.([]byte))
			return
		}

		res := queue.Submit(req.Context(), fetchBackend, cfg.BackendURL, id)

		body, err := res.Get(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		b := body.([]byte)
		cache.SetWithTTL(id, b, int64(len(b)), cfg.CacheTTL)

		w.Header().Set("X-Cache", "MISS")
		w.Write(b)
	})

	logger.Info("listening", slog.Int("port", cfg.Port), slog.Int("max_per_minute", cfg.MaxPerMinute))
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), r))
}

// fetchBackend is the throttled unit of work: one outbound call to the
// rate-limited backend API.
func fetchBackend(ctx context.Context, args ...any) (any, error) {
	base, id := args[0].(string), args[1].(string)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?id=%s", base, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// checkClock logs the NTP offset of the local clock. Skew does not break the
// queue, but it distorts the spacing relative to the remote quota window.
func checkClock(logger *slog.Logger, server string) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Warn("ntp check skipped", slog.Any("error", err.Error()))
		return
	}

	offset := resp.ClockOffset
	if offset > 500*time.Millisecond || offset < -500*time.Millisecond {
		logger.Warn("system clock skew detected", slog.Duration("offset", offset))
		return
	}
	logger.Debug("system clock in sync", slog.Duration("offset", offset))
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
