package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
	"github.com/emiliopalmerini/sessiontrack/internal/ports"
)

const (
	DefaultOutputReserve = 500
	DefaultTimeout       = 60 * time.Second
)

// Options tunes a Generator. Zero values use the defaults.
type Options struct {
	// OutputReserve is the assumed response size, in tokens, for the budget pre-check.
	OutputReserve int
	// Timeout bounds a single model call.
	Timeout time.Duration
}

// Generator produces insights for conversation transcripts without exceeding
// the monthly AI budget. Generate never fails: budget, model and network
// problems all yield a degraded insight.
type Generator struct {
	budget    *Budget
	model     ports.InsightModel
	extractor domain.Extractor
	metrics   ports.MetricsExporter
	logger    domain.Logger

	outputReserve int
	timeout       time.Duration
}

func NewGenerator(
	budget *Budget,
	model ports.InsightModel,
	extractor domain.Extractor,
	metrics ports.MetricsExporter,
	logger domain.Logger,
	opts Options,
) *Generator {
	if opts.OutputReserve <= 0 {
		opts.OutputReserve = DefaultOutputReserve
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Generator{
		budget:        budget,
		model:         model,
		extractor:     extractor,
		metrics:       metrics,
		logger:        logger,
		outputReserve: opts.OutputReserve,
		timeout:       opts.Timeout,
	}
}

// Generate returns the insight for a transcript.
//
// Input tokens are estimated from the word count, which is an approximation
// of real tokenization. The estimate plus the output reserve is held against
// the budget for the duration of the model call; only successful calls are
// charged, at their estimated actual size.
func (g *Generator) Generate(ctx context.Context, transcript string, level domain.InsightLevel) domain.Insight {
	start := time.Now()
	ledger := g.budget.Ledger()
	input := domain.EstimateTokens(transcript)

	reservation, ok := ledger.Reserve(input, g.outputReserve)
	if !ok {
		g.logger.Info(fmt.Sprintf("Skipping AI insight: estimated %d input tokens exceed remaining budget %.4f",
			input, ledger.Remaining()))
		g.export(ctx, level, ports.OutcomeSkippedBudget, 0, 0, start)
		return domain.DegradedInsight(domain.SummaryBudgetSkipped)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	text, err := g.model.Generate(callCtx, domain.BuildPrompt(level, transcript))
	cancel()

	if errors.Is(err, domain.ErrModelNotConfigured) {
		ledger.Release(reservation)
		g.logger.Debug("No AI model configured, storing placeholder insight")
		g.export(ctx, level, ports.OutcomeNotConfigured, 0, 0, start)
		return domain.DegradedInsight(domain.SummaryNotConfigured)
	}
	if err != nil {
		ledger.Release(reservation)
		g.logger.Error(fmt.Sprintf("AI insight generation failed: %v", err))
		g.export(ctx, level, ports.OutcomeError, 0, 0, start)
		return domain.ErrorInsight(err)
	}

	output := domain.EstimateTokens(text)
	cost := ledger.Commit(reservation, input, output)
	if err := g.budget.Charge(ctx, cost); err != nil {
		g.logger.Error(fmt.Sprintf("Failed to persist ledger: %v", err))
	}
	g.export(ctx, level, ports.OutcomeGenerated, input, output, start)

	return domain.Insight{
		Summary:     text,
		Topics:      g.extractor.Topics(text),
		ActionItems: g.extractor.ActionItems(text),
	}
}

func (g *Generator) export(ctx context.Context, level domain.InsightLevel, outcome string, input, output int, start time.Time) {
	ledger := g.budget.Ledger()
	m := &ports.InsightMetrics{
		Level:          string(level),
		Outcome:        outcome,
		InputTokens:    input,
		OutputTokens:   output,
		CostUSD:        ledger.EstimateCost(input, output),
		PeriodSpendUSD: ledger.State().Spend,
		Duration:       time.Since(start),
	}
	if err := g.metrics.ExportInsightMetrics(ctx, m); err != nil {
		g.logger.Debug(fmt.Sprintf("Failed to export insight metrics: %v", err))
	}
}
