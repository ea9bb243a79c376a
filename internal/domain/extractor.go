package domain

import "strings"

// Extractor turns model output into topics and action items.
type Extractor interface {
	Topics(text string) []string
	ActionItems(text string) []string
}

// DefaultTopics is the vocabulary matched by the keyword extractor.
var DefaultTopics = []string{
	"project management",
	"ai",
	"technology",
	"development",
	"strategy",
	"automation",
}

// DefaultActionMarkers flag a line as an action item.
var DefaultActionMarkers = []string{
	"should",
	"need to",
	"to do",
	"next step",
	"action item",
}

// KeywordExtractor matches case-insensitive substrings. It does no language
// understanding: "ai" matches inside "maintain", for instance.
type KeywordExtractor struct {
	topics  []string
	markers []string
}

// NewKeywordExtractor builds an extractor over the given vocabulary and markers.
func NewKeywordExtractor(topics, markers []string) *KeywordExtractor {
	return &KeywordExtractor{
		topics:  lowerAll(topics),
		markers: lowerAll(markers),
	}
}

// NewDefaultExtractor uses DefaultTopics and DefaultActionMarkers.
func NewDefaultExtractor() *KeywordExtractor {
	return NewKeywordExtractor(DefaultTopics, DefaultActionMarkers)
}

// Topics returns the vocabulary entries present anywhere in text, in vocabulary order.
func (e *KeywordExtractor) Topics(text string) []string {
	lower := strings.ToLower(text)
	topics := []string{}
	for _, t := range e.topics {
		if strings.Contains(lower, t) {
			topics = append(topics, t)
		}
	}
	return topics
}

// ActionItems returns every line containing a marker, trimmed, in line order.
// Duplicates are kept.
func (e *KeywordExtractor) ActionItems(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, m := range e.markers {
			if strings.Contains(lower, m) {
				items = append(items, strings.TrimSpace(line))
				break
			}
		}
	}
	return items
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
