package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect selects the SQL placeholder style of a driver.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Placeholder returns the bind marker for the 1-based argument n.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Placeholders returns a comma separated list of markers for n arguments.
func (d Dialect) Placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = d.Placeholder(i + 1)
	}
	return strings.Join(ph, ", ")
}

// Open opens and pings a database. Postgres connections use the pgx stdlib
// driver; SQLite uses a single file path or ":memory:".
func Open(driver, databaseURL string) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, "", fmt.Errorf("openDB: %w", err)
	}

	conn, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("openDB: open %s database: %w", dialect, err)
	}

	if dialect == Postgres {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(10)
		conn.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// SQLite allows a single writer.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("openDB: verify %s connection: %w", dialect, err)
	}

	return conn, dialect, nil
}
