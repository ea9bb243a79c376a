package domain

import (
	"fmt"
	"strings"
)

// Insight is the AI-derived summary attached to a session at capture time.
type Insight struct {
	Summary     string   `json:"summary"`
	Topics      []string `json:"topics"`
	ActionItems []string `json:"action_items"`
}

// Placeholder summaries for degraded mode.
const (
	SummaryBudgetSkipped = "AI processing skipped due to token budget constraints"
	SummaryNotConfigured = "No AI model configured"
	summaryErrorPrefix   = "AI processing error: "
)

// DegradedInsight returns an insight carrying only a placeholder summary.
func DegradedInsight(summary string) Insight {
	return Insight{
		Summary:     summary,
		Topics:      []string{},
		ActionItems: []string{},
	}
}

// ErrorInsight returns the degraded insight for a failed AI call.
func ErrorInsight(err error) Insight {
	return DegradedInsight(summaryErrorPrefix + err.Error())
}

// InsightLevel controls how deep the generated summary goes.
type InsightLevel string

const (
	InsightMinimal       InsightLevel = "minimal"
	InsightStandard      InsightLevel = "standard"
	InsightComprehensive InsightLevel = "comprehensive"
)

var levelInstructions = map[InsightLevel]string{
	InsightMinimal:       "Provide a very brief, high-level summary.",
	InsightStandard:      "Provide a balanced summary with key points.",
	InsightComprehensive: "Provide a detailed, in-depth analysis.",
}

// ParseInsightLevel validates a level name. Empty means standard.
func ParseInsightLevel(s string) (InsightLevel, error) {
	if s == "" {
		return InsightStandard, nil
	}
	level := InsightLevel(strings.ToLower(s))
	if _, ok := levelInstructions[level]; !ok {
		return "", fmt.Errorf("%w: %q (valid: minimal, standard, comprehensive)", ErrInvalidLevel, s)
	}
	return level, nil
}

// BuildPrompt returns the model prompt for a transcript. Unknown levels use standard.
func BuildPrompt(level InsightLevel, conversation string) string {
	instruction, ok := levelInstructions[level]
	if !ok {
		instruction = levelInstructions[InsightStandard]
	}
	return instruction + "\n\nConversation:\n" + conversation
}
