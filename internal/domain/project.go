package domain

import (
	"fmt"
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectPaused    ProjectStatus = "paused"
)

// ParseProjectStatus validates a status name.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch st := ProjectStatus(strings.ToLower(s)); st {
	case ProjectActive, ProjectCompleted, ProjectPaused:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q (valid: active, completed, paused)", ErrInvalidStatus, s)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority name. Empty means medium.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	switch p := Priority(strings.ToLower(s)); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (valid: low, medium, high)", ErrInvalidPriority, s)
}

type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionInProgress ActionStatus = "in_progress"
	ActionDone       ActionStatus = "done"
)

// ParseActionStatus validates an action item status name.
func ParseActionStatus(s string) (ActionStatus, error) {
	switch st := ActionStatus(strings.ToLower(s)); st {
	case ActionPending, ActionInProgress, ActionDone:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q (valid: pending, in_progress, done)", ErrInvalidStatus, s)
}

type ActionItem struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Priority    Priority     `json:"priority"`
	Status      ActionStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SessionLink is a path-based back-reference from a project to a session file.
// The path is not validated.
type SessionLink struct {
	Path    string    `json:"path"`
	AddedAt time.Time `json:"added_at"`
}

type Project struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Status      ProjectStatus     `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Sessions    []SessionLink     `json:"sessions"`
	ActionItems []ActionItem      `json:"action_items"`
	Metadata    map[string]string `json:"metadata"`
}

// ProjectSummary is the listing view of a Project.
type ProjectSummary struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Status           ProjectStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	TotalSessions    int           `json:"total_sessions"`
	TotalActionItems int           `json:"total_action_items"`
}

// ProjectUpdate carries the mutable fields to merge into a project.
// Nil fields are left unchanged. Metadata keys are merged, not replaced.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Tags        []string
	Status      *ProjectStatus
	Metadata    map[string]string
}

// NewProject returns an active project with empty collections.
func NewProject(id, name, description string, tags []string, now time.Time) *Project {
	if tags == nil {
		tags = []string{}
	}
	return &Project{
		ID:          id,
		Name:        name,
		Description: description,
		Tags:        tags,
		Status:      ProjectActive,
		CreatedAt:   now,
		UpdatedAt:   now,
		Sessions:    []SessionLink{},
		ActionItems: []ActionItem{},
		Metadata:    map[string]string{},
	}
}

// Apply merges u into p and stamps UpdatedAt.
// The project is left untouched when the update is invalid.
func (p *Project) Apply(u ProjectUpdate, now time.Time) error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyName
	}
	var status ProjectStatus
	if u.Status != nil {
		st, err := ParseProjectStatus(string(*u.Status))
		if err != nil {
			return err
		}
		status = st
	}

	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Tags != nil {
		p.Tags = u.Tags
	}
	if u.Status != nil {
		p.Status = status
	}
	if len(u.Metadata) > 0 {
		if p.Metadata == nil {
			p.Metadata = map[string]string{}
		}
		for k, v := range u.Metadata {
			p.Metadata[k] = v
		}
	}
	p.UpdatedAt = now
	return nil
}

// Summary returns the listing view of the project.
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		TotalSessions:    len(p.Sessions),
		TotalActionItems: len(p.ActionItems),
	}
}
