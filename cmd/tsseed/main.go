// tsseed - test data generator for the tsdata ingest service
//
// It regenerates the code_binary_sizes sample series: a random walk over
// lines of code, binary size, and test coverage, one point per hour
// walking backwards from now. Existing rows for the series are cleared
// first, so repeated runs produce a fresh dataset.
//
// Points go through the same repository as live ingestion, so the series
// view is (re)created and every row passes the store's constraints.
package main

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/tsdata-ingest/migrations"

	"github.com/nerrad567/tsdata-ingest/internal/infrastructure/config"
	"github.com/nerrad567/tsdata-ingest/internal/infrastructure/database"
	"github.com/nerrad567/tsdata-ingest/internal/infrastructure/logging"
	"github.com/nerrad567/tsdata-ingest/internal/ingest"
)

const (
	seriesName = "code_binary_sizes"

	// defaultEntries is how many points are generated per run.
	defaultEntries = 5000
)

// Default configuration file path (same as the service binary).
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logging.Default()

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		PoolSize:    cfg.Database.PoolSize,
		BusyTimeout: cfg.Database.BusyTimeout,
		WALMode:     cfg.Database.WALMode,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Best effort close on exit

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	repo := ingest.NewSQLiteRepository(db.DB)

	if err := seedCommitCodeSizes(ctx, repo, log, defaultEntries); err != nil {
		return fmt.Errorf("seeding %s: %w", seriesName, err)
	}

	return nil
}

// seedCommitCodeSizes clears and regenerates the sample series.
//
// Values drift as a bounded random walk so the series looks like a real
// project history. Timestamps step backwards one hour per point starting
// from now.
func seedCommitCodeSizes(ctx context.Context, repo ingest.Repository, log *logging.Logger, entries int) error {
	removed, err := repo.DeleteSeries(ctx, seriesName)
	if err != nil {
		return fmt.Errorf("clearing series: %w", err)
	}
	log.Info("removed old records", "series", seriesName, "count", removed)

	workingTime := time.Now().UTC()
	loc := int64(1000)
	bsize := int64(5_000_000)
	coverage := 30.0

	inserted := 0
	for inserted < entries {
		batchSize := ingest.MaxBatchSize
		if remaining := entries - inserted; remaining < batchSize {
			batchSize = remaining
		}

		points := make([]ingest.NewDataPoint, 0, batchSize)
		for i := 0; i < batchSize; i++ {
			loc += rand.Int63n(300) - 100
			bsize += rand.Int63n(60_000) - 20_000
			coverage += rand.Float64()*3.0 - 1.0

			contents, err := json.Marshal(map[string]any{
				"commit":                randomCommitHash(),
				"lines_of_code":         loc,
				"binary_size_bytes":     bsize,
				"test_coverage_percent": coverage,
			})
			if err != nil {
				return fmt.Errorf("encoding point: %w", err)
			}

			// Walk time backwards one hour per point.
			workingTime = workingTime.Add(-time.Hour)

			points = append(points, ingest.NewDataPoint{
				DataTime:   workingTime,
				SeriesName: seriesName,
				Contents:   contents,
			})
		}

		if _, err := repo.InsertBatch(ctx, points); err != nil {
			return fmt.Errorf("inserting batch: %w", err)
		}

		inserted += batchSize
		log.Info("seeding progress", "series", seriesName, "inserted", inserted, "total", entries)
	}

	log.Info("seeding complete", "series", seriesName, "rows", entries)
	return nil
}

// randomCommitHash returns 8 random bytes hex-encoded, resembling a short
// git commit hash.
func randomCommitHash() string {
	b := make([]byte, 8)
	//nolint:errcheck // crypto/rand.Read always returns len(b) on supported platforms
	cryptorand.Read(b)
	return hex.EncodeToString(b)
}

// getConfigPath returns the configuration file path.
// Uses TSINGEST_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("TSINGEST_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
