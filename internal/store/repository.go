// Package store persists simulation runs in PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no stored run has the requested id.
var ErrNotFound = errors.New("simulation not found")

// Kind tells a single property run apart from a portfolio run.
type Kind string

const (
	KindProperty  Kind = "property"
	KindPortfolio Kind = "portfolio"
)

// Record is one stored simulation run.
type Record struct {
	ID           uuid.UUID                  `json:"id"`
	Kind         Kind                       `json:"kind"`
	Name         string                     `json:"name"`
	HorizonYears int                        `json:"horizon_years"`
	Household    domain.HouseholdTaxContext `json:"household"`
	Inputs       []domain.PropertyInputs    `json:"inputs"`
	Outcome      domain.Outcome             `json:"outcome"`
	CreatedAt    time.Time                  `json:"created_at"`
}

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads and writes simulation runs.
type Repository struct {
	db DB
}

// Connect opens a pool for databaseURL and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url not set")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// NewRepository wraps a connection pool.
func NewRepository(db DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle cannot be nil")
	}
	return &Repository{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS simulation_runs (
	id            UUID PRIMARY KEY,
	kind          TEXT NOT NULL,
	name          TEXT NOT NULL,
	horizon_years INTEGER NOT NULL,
	household     JSONB NOT NULL,
	inputs        JSONB NOT NULL,
	outcome       JSONB NOT NULL,
	status        TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the runs table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save inserts the record, replacing an earlier run with the same id.
// A zero id is replaced by a fresh one; the id used is returned.
func (r *Repository) Save(ctx context.Context, rec Record) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	household, err := json.Marshal(rec.Household)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode household: %w", err)
	}
	inputs, err := json.Marshal(rec.Inputs)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode inputs: %w", err)
	}
	outcome, err := json.Marshal(rec.Outcome)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode outcome: %w", err)
	}

	query := `
		INSERT INTO simulation_runs (id, kind, name, horizon_years, household, inputs, outcome, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			name = EXCLUDED.name,
			horizon_years = EXCLUDED.horizon_years,
			household = EXCLUDED.household,
			inputs = EXCLUDED.inputs,
			outcome = EXCLUDED.outcome,
			status = EXCLUDED.status`
	_, err = r.db.Exec(ctx, query, rec.ID, string(rec.Kind), rec.Name, rec.HorizonYears,
		household, inputs, outcome, string(rec.Outcome.Status))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save simulation %s: %w", rec.ID, err)
	}
	return rec.ID, nil
}

// Load fetches a stored run by id.
func (r *Repository) Load(ctx context.Context, id uuid.UUID) (Record, error) {
	query := `
		SELECT id, kind, name, horizon_years, household, inputs, outcome, created_at
		FROM simulation_runs
		WHERE id = $1`
	var (
		rec                        Record
		kind                       string
		household, inputs, outcome []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&rec.ID, &kind, &rec.Name, &rec.HorizonYears,
		&household, &inputs, &outcome, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load simulation %s: %w", id, err)
	}
	rec.Kind = Kind(kind)
	if err := json.Unmarshal(household, &rec.Household); err != nil {
		return Record{}, fmt.Errorf("decode household: %w", err)
	}
	if err := json.Unmarshal(inputs, &rec.Inputs); err != nil {
		return Record{}, fmt.Errorf("decode inputs: %w", err)
	}
	if err := json.Unmarshal(outcome, &rec.Outcome); err != nil {
		return Record{}, fmt.Errorf("decode outcome: %w", err)
	}
	return rec, nil
}
