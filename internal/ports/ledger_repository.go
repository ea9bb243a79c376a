package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// LedgerRepository persists cost ledger state, one row per billing period.
// Spend is only ever changed by increments so that several processes can
// charge the same period.
type LedgerRepository interface {
	// OpenPeriod creates the row for period with zero spend unless it exists,
	// and returns the stored state. Existing spend is kept.
	OpenPeriod(ctx context.Context, period string, budget float64, at time.Time) (*domain.LedgerState, error)
	// AddSpend atomically adds cost to the stored spend of period, creating the
	// row if needed, and returns the stored state.
	AddSpend(ctx context.Context, period string, budget, cost float64, at time.Time) (*domain.LedgerState, error)
	// Latest returns the newest saved period, or nil if none was saved.
	Latest(ctx context.Context) (*domain.LedgerState, error)
	// History lists all saved periods, newest period first.
	History(ctx context.Context) ([]domain.LedgerState, error)
}
