package otel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/sessiontrack/internal/ports"
)

const (
	serviceName    = "sessiontrack"
	serviceVersion = "1.0.0"
)

// ErrDisabled is returned by NewExporter when OTEL export is not configured.
var ErrDisabled = errors.New("OTEL exporter is disabled or endpoint not configured")

// Exporter exports insight generation metrics to an OTEL Collector.
type Exporter struct {
	provider *sdkmetric.MeterProvider
	insights metric.Int64Counter
	tokens   metric.Int64Counter
	cost     metric.Float64Counter
	latency  metric.Float64Histogram

	mu          sync.Mutex
	periodSpend float64
}

// NewExporter creates an OTLP/gRPC metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Active() {
		return nil, ErrDisabled
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts,
			otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			otlpmetricgrpc.WithInsecure(),
		)
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)

	e, err := newInstruments(provider.Meter(serviceName))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	e.provider = provider
	return e, nil
}

func newInstruments(meter metric.Meter) (*Exporter, error) {
	insights, err := meter.Int64Counter(
		"sessiontrack_insights_total",
		metric.WithDescription("Insight generation attempts by outcome"),
		metric.WithUnit("{insight}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating insights counter: %w", err)
	}

	tokens, err := meter.Int64Counter(
		"sessiontrack_ai_tokens_total",
		metric.WithDescription("Tokens billed for generated insights"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tokens counter: %w", err)
	}

	cost, err := meter.Float64Counter(
		"sessiontrack_ai_cost_usd",
		metric.WithDescription("Estimated AI cost in USD"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cost counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		"sessiontrack_insight_duration_seconds",
		metric.WithDescription("Insight generation latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating latency histogram: %w", err)
	}

	e := &Exporter{
		insights: insights,
		tokens:   tokens,
		cost:     cost,
		latency:  latency,
	}

	_, err = meter.Float64ObservableGauge(
		"sessiontrack_period_spend_usd",
		metric.WithDescription("AI spend in the current billing period"),
		metric.WithUnit("USD"),
		metric.WithFloat64Callback(func(_ context.Context, o metric.Float64Observer) error {
			e.mu.Lock()
			defer e.mu.Unlock()
			o.Observe(e.periodSpend)
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating period spend gauge: %w", err)
	}

	return e, nil
}

// ExportInsightMetrics records one generation attempt.
func (e *Exporter) ExportInsightMetrics(ctx context.Context, m *ports.InsightMetrics) error {
	opt := metric.WithAttributes(
		attribute.String("level", m.Level),
		attribute.String("outcome", m.Outcome),
	)

	e.insights.Add(ctx, 1, opt)
	e.latency.Record(ctx, m.Duration.Seconds(), opt)

	e.mu.Lock()
	e.periodSpend = m.PeriodSpendUSD
	e.mu.Unlock()

	if m.Outcome != ports.OutcomeGenerated {
		return nil
	}

	e.tokens.Add(ctx, int64(m.InputTokens), metric.WithAttributes(
		attribute.String("level", m.Level),
		attribute.String("direction", "input"),
	))
	e.tokens.Add(ctx, int64(m.OutputTokens), metric.WithAttributes(
		attribute.String("level", m.Level),
		attribute.String("direction", "output"),
	))
	e.cost.Add(ctx, m.CostUSD, opt)
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	if e.provider == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
