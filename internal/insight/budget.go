package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
	"github.com/emiliopalmerini/sessiontrack/internal/ports"
)

// Budget couples the in-memory cost ledger with its persisted per-period state.
// A nil repository keeps the ledger in memory only.
type Budget struct {
	ledger *domain.CostLedger
	repo   ports.LedgerRepository
	logger domain.Logger
	now    func() time.Time
}

// Status is a point-in-time view of the ledger.
type Status struct {
	domain.LedgerState
	Remaining float64
}

func NewBudget(ledger *domain.CostLedger, repo ports.LedgerRepository, logger domain.Logger) *Budget {
	return &Budget{
		ledger: ledger,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (b *Budget) Ledger() *domain.CostLedger {
	return b.ledger
}

// Load restores spend from the most recently saved period, if any.
func (b *Budget) Load(ctx context.Context) error {
	if b.repo == nil {
		return nil
	}
	state, err := b.repo.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	if state == nil {
		return nil
	}
	b.ledger.Restore(*state)
	b.logger.Debug(fmt.Sprintf("Restored ledger period %s spend=%.6f", state.Period, state.Spend))
	return nil
}

// Rollover moves the ledger to the billing period containing now and opens
// that period in the repository. Spend already stored for the period by
// another process is picked up. It reports whether the period changed.
func (b *Budget) Rollover(ctx context.Context, now time.Time) (bool, error) {
	period := domain.PeriodOf(now)
	if !b.ledger.Rollover(period) {
		return false, nil
	}
	b.logger.Info(fmt.Sprintf("Ledger rolled over to period %s", period))
	if b.repo == nil {
		return true, nil
	}
	state, err := b.repo.OpenPeriod(ctx, period, b.ledger.State().Budget, b.now().UTC())
	if err != nil {
		return true, fmt.Errorf("open ledger period: %w", err)
	}
	b.ledger.Sync(*state)
	return true, nil
}

// Charge persists cost, already committed to the ledger, as an increment of
// the stored period spend and syncs the ledger with the stored total.
func (b *Budget) Charge(ctx context.Context, cost float64) error {
	if b.repo == nil {
		return nil
	}
	current := b.ledger.State()
	state, err := b.repo.AddSpend(ctx, current.Period, current.Budget, cost, b.now().UTC())
	if err != nil {
		return fmt.Errorf("charge ledger: %w", err)
	}
	b.ledger.Sync(*state)
	b.logger.Debug(fmt.Sprintf("Charged ledger period %s cost=%.6f spend=%.6f", state.Period, cost, state.Spend))
	return nil
}

func (b *Budget) Status() Status {
	return Status{
		LedgerState: b.ledger.State(),
		Remaining:   b.ledger.Remaining(),
	}
}

// History lists saved periods, newest first.
func (b *Budget) History(ctx context.Context) ([]domain.LedgerState, error) {
	if b.repo == nil {
		return []domain.LedgerState{}, nil
	}
	return b.repo.History(ctx)
}
