package repositories

import (
	"context"
	"database/sql"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/platform/db"
	"delivery-tour-service/internal/platform/obs"
	"delivery-tour-service/internal/ports"
	"errors"
	"fmt"
)

var _ ports.StopRepository = (*SQLStopRepository)(nil)

// SQL-backed implementation of the StopRepository port.
type SQLStopRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLStopRepository(conn *sql.DB, dialect db.Dialect) *SQLStopRepository {
	return &SQLStopRepository{DB: conn, Dialect: dialect}
}

// Return all stops ordered by their seeded position.
func (s *SQLStopRepository) ListStops(ctx context.Context) (_ []domain.Stop, err error) {
	defer obs.Time(ctx, "stops.ListStops")(&err)

	if s.DB == nil {
		return nil, errors.New("sql stop repository: DB is nil")
	}

	query := `
	SELECT
		stop_id,
		lat,
		lon,
		demand
	FROM stops
	ORDER BY position, stop_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 64)
	for rows.Next() {
		var st domain.Stop
		if err := rows.Scan(&st.ID, &st.Coordinates.Lat, &st.Coordinates.Lon, &st.Demand); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		stops = append(stops, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

// ReplaceAll swaps the stop table for the given stops in one transaction.
func (s *SQLStopRepository) ReplaceAll(ctx context.Context, stops []domain.Stop) error {
	if s.DB == nil {
		return errors.New("sql stop repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stops;`); err != nil {
		return fmt.Errorf("replace stops: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO stops (
		stop_id,
		position,
		lat,
		lon,
		demand
	)
	VALUES (%s);
	`, s.Dialect.Placeholders(5)))
	if err != nil {
		return fmt.Errorf("replace stops: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, st := range stops {
		if _, err := stmt.ExecContext(ctx, st.ID, i, st.Coordinates.Lat, st.Coordinates.Lon, st.Demand); err != nil {
			return fmt.Errorf("replace stops: insert stop_id=%q: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace stops: commit tx: %w", err)
	}

	return nil
}
