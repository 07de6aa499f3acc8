package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	// use the sqlite db driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
)

//go:embed base.sql
var baseSQL string

const upsertSQL = `INSERT INTO kv (key, value, updated_datetime) VALUES ($1, $2, $3)
				ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_datetime = excluded.updated_datetime`

// Database is a string key-value store backed by a single sqlite table.
type Database struct {
	conn *sql.DB
}

// NewDatabase connects to the sqlite database at the given filename and initializes the
// structure if not present.
func NewDatabase(ctx context.Context, filename string) (*Database, error) {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	database := Database{conn: conn}

	err = database.initialize(ctx)
	if err != nil {
		conn.Close()

		return nil, err
	}

	return &database, nil
}

func (d *Database) initialize(ctx context.Context) error {
	// run idempotent setup sql to create empty tables if they don't exist
	if _, err := d.conn.ExecContext(ctx, baseSQL); err != nil {
		return fmt.Errorf("error running base sql: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.conn.Close()
}

// Get returns the value stored under key. The bool is false when the key is absent.
func (d *Database) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := d.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("error loading key %s: %w", key, err)
	}

	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (d *Database) Set(ctx context.Context, key, value string) error {
	if _, err := d.conn.ExecContext(ctx, upsertSQL, key, value, time.Now()); err != nil {
		return fmt.Errorf("error saving key %s: %w", key, err)
	}

	log.Debug().Str("key", key).Int("bytes", len(value)).Msg("saved value")

	return nil
}

// SetMany stores all values in one transaction: either every key is written or none is.
func (d *Database) SetMany(ctx context.Context, values map[string]string) (err error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	defer func() {
		if err != nil {
			err = multierr.Append(err, tx.Rollback())
		}
	}()

	now := time.Now()

	for key, value := range values {
		if _, err = tx.ExecContext(ctx, upsertSQL, key, value, now); err != nil {
			return fmt.Errorf("error saving key %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	log.Debug().Int("keys", len(values)).Msg("saved values")

	return nil
}
