package genai

import (
	"context"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// NoOp is the model used when no AI capability is configured.
type NoOp struct{}

// NewNoOp creates a new no-op model for graceful degradation.
func NewNoOp() *NoOp {
	return &NoOp{}
}

func (NoOp) Generate(ctx context.Context, prompt string) (string, error) {
	return "", domain.ErrModelNotConfigured
}
