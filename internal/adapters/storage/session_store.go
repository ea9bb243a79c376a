package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// sessionFileLayout is fixed width so lexical order of file names matches
// chronological order.
const sessionFileLayout = "2006-01-02T15-04-05.000000000Z"

const recordExt = ".json"

// SessionStore archives sessions as one JSON file per session, named
// "<timestamp>_<id>.json".
type SessionStore struct {
	baseDir string
}

func NewSessionStore(baseDir string) (*SessionStore, error) {
	if err := ensureDir(baseDir); err != nil {
		return nil, err
	}
	return &SessionStore{baseDir: baseDir}, nil
}

// Dir returns the archive directory.
func (s *SessionStore) Dir() string {
	return s.baseDir
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}

	path := filepath.Join(s.baseDir, sessionFileName(session.Timestamp, session.ID))
	if exists, err := fileExists(path); err != nil {
		return fmt.Errorf("failed to stat session file: %w", err)
	} else if exists {
		return fmt.Errorf("session file %s already exists", filepath.Base(path))
	}

	if err := writeJSONFile(path, session); err != nil {
		return fmt.Errorf("failed to write session %s: %w", session.ID, err)
	}
	session.FilePath = path
	return nil
}

// GetByID resolves id against archive file names. An exact id match wins;
// otherwise the newest file whose name contains id is returned.
func (s *SessionStore) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}

	names, err := s.fileNames()
	if err != nil {
		return nil, err
	}

	match := ""
	for _, name := range names {
		if sessionIDFromName(name) == id {
			match = name
			break
		}
	}
	if match == "" {
		for _, name := range names {
			if strings.Contains(name, id) {
				match = name
				break
			}
		}
	}
	if match == "" {
		return nil, domain.ErrNotFound
	}

	path := filepath.Join(s.baseDir, match)
	var session domain.Session
	if err := readJSONFile(path, &session); err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	session.FilePath = path
	return &session, nil
}

// sessionSummaryRecord decodes only the fields needed for listing.
type sessionSummaryRecord struct {
	ID            string         `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	Project       *string        `json:"project"`
	Participants  []string       `json:"participants"`
	TotalMessages int            `json:"total_messages"`
	AIInsights    domain.Insight `json:"ai_insights"`
}

func (s *SessionStore) List(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	names, err := s.fileNames()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	summaries := make([]domain.SessionSummary, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var rec sessionSummaryRecord
		if err := readJSONFile(filepath.Join(s.baseDir, name), &rec); err != nil {
			return nil, fmt.Errorf("failed to read session summary: %w", err)
		}
		summaries = append(summaries, domain.SessionSummary{
			ID:            rec.ID,
			Timestamp:     rec.Timestamp,
			Project:       rec.Project,
			Participants:  rec.Participants,
			TotalMessages: rec.TotalMessages,
			AIInsights:    rec.AIInsights,
		})
	}
	return summaries, nil
}

// fileNames returns archive record names sorted newest first.
func (s *SessionStore) fileNames() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read session archive: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func sessionFileName(ts time.Time, id string) string {
	return ts.UTC().Format(sessionFileLayout) + "_" + id + recordExt
}

func sessionIDFromName(name string) string {
	name = strings.TrimSuffix(name, recordExt)
	if i := strings.IndexByte(name, '_'); i >= 0 {
		return name[i+1:]
	}
	return name
}
