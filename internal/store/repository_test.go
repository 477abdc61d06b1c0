package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB keeps the last inserted row and serves it back on QueryRow.
type fakeDB struct {
	execSQL  []string
	row      []any
	execErr  error
	stored   time.Time
	queryErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if strings.Contains(sql, "INSERT INTO simulation_runs") {
		f.row = args
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if f.queryErr != nil {
		return fakeRow{err: f.queryErr}
	}
	if f.row == nil || f.row[0].(uuid.UUID) != args[0].(uuid.UUID) {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{values: []any{f.row[0], f.row[1], f.row[2], f.row[3], f.row[4], f.row[5], f.row[6], f.stored}}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *string:
			*p = r.values[i].(string)
		case *int:
			*p = r.values[i].(int)
		case *[]byte:
			*p = r.values[i].([]byte)
		case *time.Time:
			*p = r.values[i].(time.Time)
		default:
			return errors.New("unexpected scan target")
		}
	}
	return nil
}

func sampleRecord() Record {
	return Record{
		Kind:         KindProperty,
		Name:         "Munich flat",
		HorizonYears: 10,
		Household:    domain.HouseholdTaxContext{BaseIncome: decimal.NewFromInt(70000), FilingStatus: domain.FilingSingle},
		Inputs:       []domain.PropertyInputs{{Name: "Munich flat", PurchasePrice: decimal.NewFromInt(316500), StateCode: "BY"}},
		Outcome: domain.Ok(domain.Projection{
			Result: domain.SimulationResult{MonthlyCashflow: decimal.RequireFromString("962.38")},
		}),
	}
}

func TestNewRepositoryRejectsNil(t *testing.T) {
	_, err := NewRepository(nil)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{stored: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	repo, err := NewRepository(db)
	require.NoError(t, err)

	id, err := repo.Save(ctx, sampleRecord())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id, "a fresh id is assigned")
	assert.Contains(t, db.execSQL[0], "ON CONFLICT (id) DO UPDATE")
	assert.Equal(t, "ok", db.row[7])

	rec, err := repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, KindProperty, rec.Kind)
	assert.Equal(t, "Munich flat", rec.Name)
	assert.Equal(t, 10, rec.HorizonYears)
	assert.Equal(t, domain.FilingSingle, rec.Household.FilingStatus)
	require.Len(t, rec.Inputs, 1)
	assert.True(t, rec.Inputs[0].PurchasePrice.Equal(decimal.NewFromInt(316500)))
	assert.True(t, rec.Outcome.Projection.Result.MonthlyCashflow.Equal(decimal.RequireFromString("962.38")))
	assert.Equal(t, db.stored, rec.CreatedAt)
}

func TestSaveKeepsGivenID(t *testing.T) {
	repo, err := NewRepository(&fakeDB{})
	require.NoError(t, err)
	rec := sampleRecord()
	rec.ID = uuid.MustParse("2f1c7a0e-59a3-4cb4-9d77-3f0f1e2b6d10")
	id, err := repo.Save(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, id)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRepository(&fakeDB{})
	require.NoError(t, err)
	_, err = repo.Load(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	repo, err = NewRepository(&fakeDB{queryErr: errors.New("connection reset")})
	require.NoError(t, err)
	_, err = repo.Load(ctx, uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}
	repo, err := NewRepository(db)
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.Contains(t, db.execSQL[0], "CREATE TABLE IF NOT EXISTS simulation_runs")

	db.execErr = errors.New("permission denied")
	err = repo.EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "permission denied")
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "")
	assert.Error(t, err)
	_, err = Connect(context.Background(), "postgres://%zz")
	assert.ErrorContains(t, err, "failed to parse database config")
}
