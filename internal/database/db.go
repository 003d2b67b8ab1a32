// Package database opens the MySQL connection pool and ensures the events
// schema exists.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME/TIMESTAMP -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the events table when it does not exist yet. The
// single-occurrence columns (event_date/event_time) and the range columns
// (start_date/end_date) are all nullable; which pair is populated decides the
// schedule mode.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS events (
    id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    event_date  DATE NULL,
    event_time  VARCHAR(64) NULL,
    start_date  DATE NULL,
    end_date    DATE NULL,
    event_type  VARCHAR(128) NOT NULL,
    address     VARCHAR(255) NOT NULL,
    address2    VARCHAR(255) NULL,
    city        VARCHAR(128) NOT NULL,
    state       VARCHAR(64)  NOT NULL,
    zip         VARCHAR(16)  NOT NULL,
    latitude    DOUBLE NULL,
    longitude   DOUBLE NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    KEY idx_events_type (event_type),
    KEY idx_events_dates (start_date, end_date, event_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure events schema: %w", err)
	}
	return nil
}
