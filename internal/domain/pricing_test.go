package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenPricing_CalculateCost_DefaultPricing(t *testing.T) {
	// 1000 input, 500 output = $0.05 + $0.10 = $0.15
	assert.InDelta(t, 0.15, DefaultPricing.CalculateCost(1000, 500), 1e-6)
}

func TestTokenPricing_CalculateCost_Linear(t *testing.T) {
	pricing := TokenPricing{InputPerToken: 0.5, OutputPerToken: 2}

	tests := []struct {
		input, output int
		want          float64
	}{
		{0, 0, 0},
		{1, 0, 0.5},
		{0, 1, 2},
		{10, 3, 11},
		{26000, 500, 14000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pricing.CalculateCost(tt.input, tt.output),
			"CalculateCost(%d, %d)", tt.input, tt.output)
	}
}

func TestTokenPricing_OutputCostsMoreThanInput(t *testing.T) {
	assert.Greater(t, DefaultPricing.OutputPerToken, DefaultPricing.InputPerToken)
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", " \n\t ", 0},
		{"one word rounds up", "hello", 2},
		{"ten words", "a b c d e f g h i j", 13},
		{"mixed separators", "alice: hi\nbob:\tthere", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTokens(tt.text))
		})
	}
}

func TestEstimateTokens_TwentyThousandWords(t *testing.T) {
	assert.Equal(t, 26000, EstimateTokens(strings.Repeat("word ", 20000)))
}
