package insight

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
	"github.com/emiliopalmerini/sessiontrack/internal/ports"
)

type fakeModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   bool
	prompts []string
}

func (m *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.reply, m.err
}

func (m *fakeModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	states  map[string]domain.LedgerState
	charges int
	opens   int
	err     error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{states: map[string]domain.LedgerState{}}
}

func (r *fakeLedgerRepo) OpenPeriod(ctx context.Context, period string, budget float64, at time.Time) (*domain.LedgerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.opens++
	s, ok := r.states[period]
	if !ok {
		s = domain.LedgerState{Period: period, Budget: budget, UpdatedAt: at}
		r.states[period] = s
	}
	return &s, nil
}

func (r *fakeLedgerRepo) AddSpend(ctx context.Context, period string, budget, cost float64, at time.Time) (*domain.LedgerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.charges++
	s := r.states[period]
	s.Period = period
	s.Budget = budget
	s.Spend += cost
	s.UpdatedAt = at
	r.states[period] = s
	return &s, nil
}

func (r *fakeLedgerRepo) Latest(ctx context.Context) (*domain.LedgerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.LedgerState
	for _, s := range r.states {
		s := s
		if latest == nil || s.Period > latest.Period {
			latest = &s
		}
	}
	return latest, nil
}

func (r *fakeLedgerRepo) History(ctx context.Context) ([]domain.LedgerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.LedgerState, 0, len(r.states))
	for _, s := range r.states {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	return out, nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	recorded []ports.InsightMetrics
}

func (m *recordingMetrics) ExportInsightMetrics(ctx context.Context, im *ports.InsightMetrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, *im)
	return nil
}

func (m *recordingMetrics) Close(ctx context.Context) error { return nil }

func (m *recordingMetrics) outcomes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.recorded))
	for i, r := range m.recorded {
		out[i] = r.Outcome
	}
	return out
}
