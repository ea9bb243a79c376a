package ports

import (
	"context"
	"time"
)

// Insight generation outcomes.
const (
	OutcomeGenerated     = "generated"
	OutcomeSkippedBudget = "skipped_budget"
	OutcomeNotConfigured = "not_configured"
	OutcomeError         = "error"
)

// MetricsExporter exports insight generation metrics to an external observability system.
type MetricsExporter interface {
	// ExportInsightMetrics records the outcome of one generation attempt.
	ExportInsightMetrics(ctx context.Context, m *InsightMetrics) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// InsightMetrics describes one generation attempt.
type InsightMetrics struct {
	Level   string
	Outcome string

	InputTokens  int
	OutputTokens int
	CostUSD      float64

	PeriodSpendUSD float64
	Duration       time.Duration
}
