package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// updatedAtLayout is fixed width so stored timestamps sort lexically.
const updatedAtLayout = "2006-01-02T15:04:05.000000000Z"

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) OpenPeriod(ctx context.Context, period string, budget float64, at time.Time) (*domain.LedgerState, error) {
	state, err := r.upsert(ctx, period, `
		INSERT INTO ledger_periods (period, budget, spend, updated_at)
		VALUES (?, ?, 0, ?)
		ON CONFLICT(period) DO NOTHING
	`, period, budget, formatUpdatedAt(at))
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger period %s: %w", period, err)
	}
	return state, nil
}

func (r *LedgerRepository) AddSpend(ctx context.Context, period string, budget, cost float64, at time.Time) (*domain.LedgerState, error) {
	state, err := r.upsert(ctx, period, `
		INSERT INTO ledger_periods (period, budget, spend, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(period) DO UPDATE SET
			budget = excluded.budget,
			spend = ledger_periods.spend + excluded.spend,
			updated_at = excluded.updated_at
	`, period, budget, cost, formatUpdatedAt(at))
	if err != nil {
		return nil, fmt.Errorf("failed to add ledger spend for %s: %w", period, err)
	}
	return state, nil
}

// upsert runs a write for period and reads the stored row back in the same
// transaction.
func (r *LedgerRepository) upsert(ctx context.Context, period, query string, args ...any) (*domain.LedgerState, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	state, err := scanLedgerState(tx.QueryRowContext(ctx, `
		SELECT period, budget, spend, updated_at
		FROM ledger_periods
		WHERE period = ?
	`, period))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return state, nil
}

// Latest returns the row with the greatest period key. Period keys are
// "YYYY-MM", so lexical order is chronological.
func (r *LedgerRepository) Latest(ctx context.Context) (*domain.LedgerState, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT period, budget, spend, updated_at
		FROM ledger_periods
		ORDER BY period DESC
		LIMIT 1
	`)
	state, err := scanLedgerState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest ledger state: %w", err)
	}
	return state, nil
}

func (r *LedgerRepository) History(ctx context.Context) ([]domain.LedgerState, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT period, budget, spend, updated_at
		FROM ledger_periods
		ORDER BY period DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []domain.LedgerState
	for rows.Next() {
		state, err := scanLedgerState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger state: %w", err)
		}
		states = append(states, *state)
	}
	return states, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLedgerState(row rowScanner) (*domain.LedgerState, error) {
	var (
		state     domain.LedgerState
		updatedAt string
	)
	if err := row.Scan(&state.Period, &state.Budget, &state.Spend, &updatedAt); err != nil {
		return nil, err
	}
	// RFC3339Nano also accepts the fixed-width layout.
	t, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	state.UpdatedAt = t
	return &state, nil
}

func formatUpdatedAt(t time.Time) string {
	return t.UTC().Format(updatedAtLayout)
}
