package ports

import "context"

// InsightModel is the external AI capability used to summarize conversations.
// Implementations without a backing model return domain.ErrModelNotConfigured.
type InsightModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
