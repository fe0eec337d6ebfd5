package api

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/rps-game/api/game"
	"github.com/rps-game/api/ranking"
)

type Config struct {
	HTTPPort       string        `env:"HTTP_PORT" envDefault:":8080"`
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"data/rps.db"`
	SlotDir        string        `env:"SLOT_DIR" envDefault:"data"`
	RankingKey     string        `env:"RANKING_KEY" envDefault:"rps-game-ranking"`
	ResolveDelay   time.Duration `env:"RESOLVE_DELAY" envDefault:"800ms"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	DevMode        bool          `env:"DEV_MODE" envDefault:"true"`
	OtelEnabled    bool          `env:"OTEL_ENABLED" envDefault:"true"`
	OtelEndpoint   string        `env:"OTEL_ENDPOINT"`
}

// Storage backends accepted in STORAGE_BACKEND
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

// ParseConfig reads Config from the process environment
func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StorageBackend {
	case StorageSQLite, StorageFile, StorageMemory:
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if cfg.ResolveDelay < 0 {
		return Config{}, fmt.Errorf("resolve delay must not be negative, got %s", cfg.ResolveDelay)
	}
	return cfg, nil
}

type Application struct {
	Config  Config
	Game    *game.Session
	Ranking *ranking.Store
	// Location for displayed dates; nil means time.Local
	Location *time.Location

	mu sync.Mutex
	// submittedGame is the game number last sent to the ranking board
	submittedGame uint64
}

func (app *Application) location() *time.Location {
	if app.Location == nil {
		return time.Local
	}
	return app.Location
}

// claimSubmission marks gameNumber as submitted and reports whether it was
// not submitted before
func (app *Application) claimSubmission(gameNumber uint64) bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.submittedGame == gameNumber {
		return false
	}
	app.submittedGame = gameNumber
	return true
}

func (app *Application) isSubmitted(gameNumber uint64) bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return gameNumber != 0 && app.submittedGame == gameNumber
}
