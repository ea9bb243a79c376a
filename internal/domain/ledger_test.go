package domain

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostLedger_CanProcess(t *testing.T) {
	pricing := TokenPricing{InputPerToken: 0.5, OutputPerToken: 2}

	tests := []struct {
		name   string
		budget float64
		spend  float64
		input  int
		output int
		want   bool
	}{
		{"well under budget", 100, 0, 10, 10, true},
		{"exact equality admits", 25, 0, 10, 10, true},
		{"exact equality with spend admits", 30, 5, 10, 10, true},
		{"one over rejects", 24.5, 0, 10, 10, false},
		{"spend pushes over", 25, 0.5, 10, 10, false},
		{"zero budget zero cost admits", 0, 0, 0, 0, true},
		{"zero budget rejects any cost", 0, 0, 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewCostLedger(tt.budget, pricing, "2026-10")
			l.Restore(LedgerState{Period: "2026-10", Spend: tt.spend})
			assert.Equal(t, tt.want, l.CanProcess(tt.input, tt.output))
		})
	}
}

func TestCostLedger_CanProcessHasNoSideEffect(t *testing.T) {
	l := NewCostLedger(10, DefaultPricing, "2026-10")
	for i := 0; i < 5; i++ {
		l.CanProcess(1000, 500)
	}
	assert.Zero(t, l.State().Spend)
}

func TestCostLedger_BoundaryUsesEstimateCost(t *testing.T) {
	l := NewCostLedger(0, DefaultPricing, "2026-10")
	l.SetBudget(l.EstimateCost(26000, 500))
	assert.True(t, l.CanProcess(26000, 500), "exact budget must admit")
}

func TestCostLedger_RecordUsage(t *testing.T) {
	l := NewCostLedger(50, DefaultPricing, "2026-10")
	l.RecordUsage(1000, 500)
	l.RecordUsage(1000, 500)

	assert.InDelta(t, 0.30, l.State().Spend, 1e-9)
}

func TestCostLedger_ScenarioLargeTranscriptSkipped(t *testing.T) {
	l := NewCostLedger(1.00, DefaultPricing, "2026-10")
	input := EstimateTokens(strings.Repeat("word ", 20000))

	// 26000 * 0.00005 + 500 * 0.0002 = 1.30 + 0.10 > 1.00
	assert.False(t, l.CanProcess(input, 500))
	_, ok := l.Reserve(input, 500)
	assert.False(t, ok, "reservation must be refused")
	assert.Zero(t, l.State().Spend)
}

func TestCostLedger_ReservationsCountAgainstBudget(t *testing.T) {
	pricing := TokenPricing{InputPerToken: 1, OutputPerToken: 1}
	l := NewCostLedger(10, pricing, "2026-10")

	r1, ok := l.Reserve(3, 3)
	require.True(t, ok, "first reservation refused")
	assert.False(t, l.CanProcess(3, 3), "second estimate must be rejected while first is pending")
	_, ok = l.Reserve(3, 3)
	assert.False(t, ok, "second reservation must be refused")

	l.Release(r1)
	assert.True(t, l.CanProcess(5, 5), "full budget expected after release")
	assert.Zero(t, l.State().Spend, "released reservation recorded spend")
}

func TestCostLedger_CommitRecordsActual(t *testing.T) {
	pricing := TokenPricing{InputPerToken: 1, OutputPerToken: 1}
	l := NewCostLedger(10, pricing, "2026-10")

	r, ok := l.Reserve(2, 5)
	require.True(t, ok, "reservation refused")
	cost := l.Commit(r, 2, 1)

	assert.Equal(t, 3.0, cost)
	assert.Equal(t, 3.0, l.State().Spend)
	assert.Equal(t, 7.0, l.Remaining())

	// Double commit or release is a no-op for the reservation.
	l.Release(r)
	assert.Equal(t, 7.0, l.Remaining())
}

func TestCostLedger_ConcurrentReserveNeverOvershoots(t *testing.T) {
	pricing := TokenPricing{InputPerToken: 1, OutputPerToken: 0}
	l := NewCostLedger(10, pricing, "2026-10")

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, ok := l.Reserve(1, 0)
			if !ok {
				return
			}
			mu.Lock()
			admitted++
			mu.Unlock()
			l.Commit(r, 1, 0)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, admitted)
	assert.Equal(t, 10.0, l.State().Spend)
}

func TestCostLedger_Rollover(t *testing.T) {
	l := NewCostLedger(50, DefaultPricing, "2026-09")
	l.RecordUsage(1000, 1000)

	assert.False(t, l.Rollover("2026-09"), "rollover to same period must be a no-op")
	assert.NotZero(t, l.State().Spend, "spend reset without a period change")

	assert.True(t, l.Rollover("2026-10"))
	st := l.State()
	assert.Equal(t, "2026-10", st.Period)
	assert.Zero(t, st.Spend)
}

func TestCostLedger_RestoreKeepsConfiguredBudget(t *testing.T) {
	l := NewCostLedger(50, DefaultPricing, "2026-10")
	l.Restore(LedgerState{Period: "2026-09", Budget: 10, Spend: 4})

	st := l.State()
	assert.Equal(t, 50.0, st.Budget)
	assert.Equal(t, 4.0, st.Spend)
	assert.Equal(t, "2026-09", st.Period)
}

func TestCostLedger_Sync(t *testing.T) {
	l := NewCostLedger(50, DefaultPricing, "2026-10")
	l.Restore(LedgerState{Period: "2026-10", Spend: 2})

	assert.True(t, l.Sync(LedgerState{Period: "2026-10", Spend: 3.5}))
	assert.Equal(t, 3.5, l.State().Spend)

	assert.False(t, l.Sync(LedgerState{Period: "2026-10", Spend: 1}), "a lower total must not reduce spend")
	assert.False(t, l.Sync(LedgerState{Period: "2026-09", Spend: 40}), "another period must be ignored")
	assert.Equal(t, 3.5, l.State().Spend)
}

func TestPeriodOf(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// Local Nov 1st is still Oct 31st in UTC.
	ts := time.Date(2026, 11, 1, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-10", PeriodOf(ts))
}
