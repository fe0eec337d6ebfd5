package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/rps-game/api/api"
	"github.com/rps-game/api/datastore"
	"github.com/rps-game/api/game"
	"github.com/rps-game/api/migrations"
	"github.com/rps-game/api/ranking"
	"github.com/rps-game/api/scheduler"
	"github.com/rps-game/api/telemetry"
)

const serviceName = "rps-game-api"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	config, err := api.ParseConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := telemetry.Setup(context.Background(), serviceName, telemetry.Options{
		Enabled:  config.OtelEnabled,
		Endpoint: config.OtelEndpoint,
	})
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("Error flushing traces: %v", err)
		}
	}()

	slot, closeSlot, err := openSlot(config)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", config.StorageBackend, err)
	}
	defer closeSlot()

	rankingRepo, err := datastore.NewRankingDatabase(slot, config.RankingKey)
	if err != nil {
		log.Fatalf("Failed to create ranking repository: %v", err)
	}
	rankingStore := ranking.NewStore(rankingRepo)

	// Timers for pending round resolutions
	roundScheduler := scheduler.NewScheduler()
	defer roundScheduler.Stop()

	session := game.NewSession(
		game.WithScheduler(roundScheduler),
		game.WithDelay(config.ResolveDelay),
	)

	app := &api.Application{
		Config:  config,
		Game:    session,
		Ranking: rankingStore,
	}

	mux := http.NewServeMux()

	log.Printf("Rock Paper Scissors API starting with %s storage...", config.StorageBackend)
	if err := app.Serve(mux); err != nil {
		log.Printf("Server error: %v", err)
	}
}

// openSlot builds the persistence slot for the configured backend. The
// returned func releases it.
func openSlot(config api.Config) (datastore.Slot, func(), error) {
	switch config.StorageBackend {
	case api.StorageSQLite:
		dbConn, err := datastore.NewDB(config.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() { closeQuietly(dbConn) }

		log.Println("Running database migrations...")
		if err := migrations.RunMigrations(dbConn); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}

		slot, err := datastore.NewSlotDatabase(dbConn)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		return slot, closeDB, nil

	case api.StorageFile:
		slot, err := datastore.NewFileSlot(config.SlotDir)
		if err != nil {
			return nil, nil, err
		}
		return slot, func() {}, nil

	case api.StorageMemory:
		log.Println("Rankings will not survive a restart with memory storage")
		return datastore.NewMemorySlot(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", config.StorageBackend)
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
