package repositories

import (
	"context"
	"database/sql"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/platform/db"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// InitSchema creates the stop table and the distance cache. The statements
// are valid on both Postgres and SQLite.
func InitSchema(ctx context.Context, conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		stop_id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		demand INTEGER NOT NULL CHECK (demand >= 0)
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
	ON distance_cache(destination, origin);
	`

	statements := []string{
		createStopsQuery,
		createDistanceCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StopSeed struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Demand int     `json:"demand"`
}

// ReadSeedFile parses a JSON array of stops. The resulting set is validated
// like any planning request.
func ReadSeedFile(jsonPath string) ([]domain.Stop, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read stop seed %q: %w", jsonPath, err)
	}

	var data []StopSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read stop seed: parse json: %w", err)
	}

	stops := make([]domain.Stop, 0, len(data))
	for _, item := range data {
		stops = append(stops, domain.Stop{
			ID:          strings.TrimSpace(item.ID),
			Coordinates: domain.Coordinates{Lat: item.Lat, Lon: item.Lon},
			Demand:      item.Demand,
		})
	}

	if err := domain.NewStopSet(stops).Validate(); err != nil {
		return nil, fmt.Errorf("read stop seed: %w", err)
	}
	return stops, nil
}

// SeedFromJSON populates the stop table from a JSON file, replacing rows with
// the same id. File order becomes the stop order.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	stops, err := ReadSeedFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed stops: %w", err)
	}
	if err := NewSQLStopRepository(conn, dialect).ReplaceAll(ctx, stops); err != nil {
		return fmt.Errorf("seed stops: %w", err)
	}
	return nil
}
