package domain

// TokenPricing holds the per-token price for AI input and output.
// Output tokens are priced higher than input tokens.
type TokenPricing struct {
	InputPerToken  float64
	OutputPerToken float64
}

// DefaultPricing is the flat rate used when no pricing is configured.
var DefaultPricing = TokenPricing{
	InputPerToken:  0.00005,
	OutputPerToken: 0.0002,
}

// CalculateCost returns input*InputPerToken + output*OutputPerToken.
func (p TokenPricing) CalculateCost(input, output int) float64 {
	return float64(input)*p.InputPerToken + float64(output)*p.OutputPerToken
}

// wordsToTokens is expressed as a ratio of integers so the estimate stays exact:
// 1.3 tokens per word.
const (
	tokensPerWordNum = 13
	tokensPerWordDen = 10
)

// EstimateTokens approximates the token count of text as ceil(words * 1.3).
// This is a whitespace word count, not a tokenizer; counts for code, CJK text
// or long identifiers can be off by a wide margin.
func EstimateTokens(text string) int {
	words := countWords(text)
	return (words*tokensPerWordNum + tokensPerWordDen - 1) / tokensPerWordDen
}

func countWords(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			inWord = false
		default:
			if !inWord {
				n++
				inWord = true
			}
		}
	}
	return n
}
