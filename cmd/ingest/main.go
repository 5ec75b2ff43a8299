package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"digital-twin-be/internal/bootstrap"
	"digital-twin-be/internal/config"
	"digital-twin-be/internal/dto"
	"digital-twin-be/internal/repository/implementation"
	"digital-twin-be/internal/repository/specification"
	"digital-twin-be/pkg/database"
	"digital-twin-be/pkg/profile"

	"github.com/fatih/color"
)

func main() {
	color.Cyan("🚀 Profile ingestion starting\n")

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Consume subscribes before returning, so publishes below cannot race
	// the subscription
	if err := container.IndexerService.Consume(ctx); err != nil {
		color.Red("Failed to start indexer: %v", err)
		os.Exit(1)
	}

	var profileMemory *profile.Memory
	if cfg.Ingest.ProfilePath != "" {
		profileMemory, err = profile.LoadFile(cfg.Ingest.ProfilePath)
	} else {
		profileMemory, err = profile.Load()
	}
	if err != nil {
		color.Red("Failed to load profile data: %v", err)
		os.Exit(1)
	}

	records := profileMemory.Records()
	color.Yellow("Publishing %d profile records...", len(records))

	for _, record := range records {
		payload, err := json.Marshal(dto.PublishProfileRecordMessage{
			Source:   record.Source,
			DocType:  record.DocType,
			Summary:  record.Summary,
			Keywords: record.Keywords,
			Content:  record.Content,
		})
		if err != nil {
			color.Red("Failed to marshal record %s: %v", record.Source, err)
			os.Exit(1)
		}
		if err := container.PublisherService.Publish(ctx, payload); err != nil {
			color.Red("Failed to publish record %s: %v", record.Source, err)
			os.Exit(1)
		}
		color.Green("  ✓ %s (%s)", record.Source, record.DocType)
	}

	// Wait until the indexer has embedded everything. Each record yields
	// at least one chunk, so a stable count at or above the record total
	// means the queue has drained.
	repo := implementation.NewProfileEmbeddingRepository(gormDB)
	color.Yellow("\nWaiting for indexing to finish...")

	deadline := time.After(5 * time.Minute)
	var lastCount int64 = -1
	stable := 0
	for stable < 3 {
		select {
		case <-deadline:
			color.Red("Timed out waiting for indexing (last count: %d)", lastCount)
			os.Exit(1)
		case <-time.After(2 * time.Second):
		}

		count, err := repo.Count(ctx)
		if err != nil {
			color.Red("Failed to count embeddings: %v", err)
			os.Exit(1)
		}
		if count == lastCount && count >= int64(len(records)) {
			stable++
		} else {
			stable = 0
		}
		lastCount = count
	}

	color.Cyan("\n✅ Ingestion complete: %d embedded chunks from %d records", lastCount, len(records))

	rows, err := repo.FindAll(ctx,
		specification.NotDeleted{},
		specification.OrderBy{Field: "doc_type"},
	)
	if err != nil {
		color.Red("Failed to summarize index: %v", err)
		os.Exit(1)
	}

	color.Yellow("\nIndex contents:")
	current, chunks := "", 0
	for _, row := range rows {
		if row.DocType != current {
			if current != "" {
				color.Green("  %-15s %d chunks", current, chunks)
			}
			current, chunks = row.DocType, 0
		}
		chunks++
	}
	if current != "" {
		color.Green("  %-15s %d chunks", current, chunks)
	}
}
