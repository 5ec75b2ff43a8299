package main

import (
	"context"
	"log"
	"time"

	"digital-twin-be/internal/bootstrap"
	"digital-twin-be/internal/config"
	"digital-twin-be/internal/server"
	"digital-twin-be/internal/tracer"
	"digital-twin-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment != "production")
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Indexer Service...")
		if err := container.IndexerService.Consume(context.Background()); err != nil {
			log.Printf("Background Indexer Error: %v", err)
		}
	}()

	// Stale sessions are swept on a timer so abandoned conversations
	// release memory before the cache's own expiry
	go func() {
		ticker := time.NewTicker(cfg.Session.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if n := container.ChatService.EvictSessions(cfg.Session.MaxAge); n > 0 {
				log.Printf("Background: Evicted %d stale sessions", n)
			}
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
