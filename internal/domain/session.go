package domain

import (
	"strings"
	"time"
)

// UnknownAuthor stands in for messages captured without an author.
const UnknownAuthor = "unknown"

// Message is a single utterance in a captured conversation.
type Message struct {
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AuthorOrUnknown returns the author, or UnknownAuthor when empty.
func (m Message) AuthorOrUnknown() string {
	if m.Author == "" {
		return UnknownAuthor
	}
	return m.Author
}

// Session is an archived conversation. It is immutable once written.
type Session struct {
	ID            string    `json:"id"`
	SessionKey    string    `json:"session_key"`
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source"`
	Project       *string   `json:"project"`
	TotalMessages int       `json:"total_messages"`
	Participants  []string  `json:"participants"`
	Messages      []Message `json:"messages"`
	AIInsights    Insight   `json:"ai_insights"`

	// FilePath is where the record lives in the archive. Set by the repository.
	FilePath string `json:"-"`
}

// SessionSummary is the lightweight listing view of a Session.
type SessionSummary struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Project       *string   `json:"project"`
	Participants  []string  `json:"participants"`
	TotalMessages int       `json:"total_messages"`
	AIInsights    Insight   `json:"ai_insights"`
}

// Participants returns the distinct authors of messages in first-seen order.
func Participants(messages []Message) []string {
	seen := make(map[string]struct{}, len(messages))
	out := []string{}
	for _, m := range messages {
		a := m.AuthorOrUnknown()
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Transcript joins messages as "<author>: <content>" lines in original order.
func Transcript(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.AuthorOrUnknown())
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// Summary returns the listing view of the session.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:            s.ID,
		Timestamp:     s.Timestamp,
		Project:       s.Project,
		Participants:  s.Participants,
		TotalMessages: s.TotalMessages,
		AIInsights:    s.AIInsights,
	}
}
