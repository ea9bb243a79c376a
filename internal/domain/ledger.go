package domain

import (
	"sync"
	"time"
)

// PeriodLayout formats a billing period key, e.g. "2026-10".
const PeriodLayout = "2006-01"

// PeriodOf returns the calendar-month billing period containing t (UTC).
func PeriodOf(t time.Time) string {
	return t.UTC().Format(PeriodLayout)
}

// LedgerState is the persisted snapshot of a CostLedger.
type LedgerState struct {
	Period    string
	Budget    float64
	Spend     float64
	UpdatedAt time.Time
}

// Reservation holds an admitted pre-flight estimate until it is committed or released.
type Reservation struct {
	cost float64
	open bool
}

// Cost returns the estimated cost held by the reservation.
func (r *Reservation) Cost() float64 {
	return r.cost
}

// CostLedger tracks AI spend for one billing period against a monthly budget.
//
// All methods are safe for concurrent use. Admission through Reserve is atomic:
// concurrent callers cannot both pass the check and overshoot the budget with
// their estimates. Actual usage can still exceed the estimate when a response
// is longer than the reserved output.
type CostLedger struct {
	mu       sync.Mutex
	pricing  TokenPricing
	budget   float64
	spend    float64
	reserved float64
	pending  int
	period   string
}

// NewCostLedger creates a ledger with zero spend for the given period.
func NewCostLedger(budget float64, pricing TokenPricing, period string) *CostLedger {
	return &CostLedger{
		pricing: pricing,
		budget:  budget,
		period:  period,
	}
}

// EstimateCost returns the cost of the given token counts at the ledger's prices.
func (l *CostLedger) EstimateCost(input, output int) float64 {
	return l.pricing.CalculateCost(input, output)
}

// CanProcess reports whether spend plus pending reservations plus the estimate
// stays within the budget. Exact equality admits.
func (l *CostLedger) CanProcess(input, output int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.admits(l.EstimateCost(input, output))
}

func (l *CostLedger) admits(cost float64) bool {
	return l.spend+l.reserved+cost <= l.budget
}

// RecordUsage adds the cost of actual token usage to the period spend.
func (l *CostLedger) RecordUsage(input, output int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.spend += l.EstimateCost(input, output)
}

// Reserve atomically checks admission and holds the estimate against the budget.
// It returns false, and holds nothing, when the estimate does not fit.
func (l *CostLedger) Reserve(input, output int) (*Reservation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cost := l.EstimateCost(input, output)
	if !l.admits(cost) {
		return nil, false
	}
	l.reserved += cost
	l.pending++
	return &Reservation{cost: cost, open: true}, true
}

// Commit releases the reservation and records the actual usage in its place.
// It returns the cost added to the period spend.
func (l *CostLedger) Commit(r *Reservation, input, output int) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releaseLocked(r)
	cost := l.EstimateCost(input, output)
	l.spend += cost
	return cost
}

// Release drops the reservation without recording any usage.
func (l *CostLedger) Release(r *Reservation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releaseLocked(r)
}

func (l *CostLedger) releaseLocked(r *Reservation) {
	if r == nil || !r.open {
		return
	}
	r.open = false
	l.pending--
	if l.pending <= 0 {
		// Avoid carrying float residue once nothing is in flight.
		l.pending = 0
		l.reserved = 0
		return
	}
	l.reserved -= r.cost
}

// Rollover starts a new billing period with zero spend when period differs from
// the current one. It reports whether a rollover happened.
func (l *CostLedger) Rollover(period string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if period == l.period {
		return false
	}
	l.period = period
	l.spend = 0
	return true
}

// SetBudget replaces the monthly ceiling. Spend is kept.
func (l *CostLedger) SetBudget(budget float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.budget = budget
}

// Remaining returns budget minus spend and pending reservations, floored at zero.
func (l *CostLedger) Remaining() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	left := l.budget - l.spend - l.reserved
	if left < 0 {
		return 0
	}
	return left
}

// State returns a snapshot suitable for persistence.
func (l *CostLedger) State() LedgerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LedgerState{
		Period: l.period,
		Budget: l.budget,
		Spend:  l.spend,
	}
}

// Restore loads period and spend from a persisted snapshot. The configured
// budget is kept; the stored budget is informational.
func (l *CostLedger) Restore(s LedgerState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.period = s.Period
	l.spend = s.Spend
}

// Sync raises spend to a persisted total for the current period. Spend is
// never lowered and states for other periods are ignored. It reports whether
// spend changed.
func (l *CostLedger) Sync(s LedgerState) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s.Period != l.period || s.Spend <= l.spend {
		return false
	}
	l.spend = s.Spend
	return true
}
