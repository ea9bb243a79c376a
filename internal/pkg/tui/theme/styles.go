package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// Styles contains the shared CLI output styles
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style
	ID        lipgloss.Style
	Card      lipgloss.Style
	MeterFill lipgloss.Style
	MeterRest lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

var (
	defaultStyles *Styles
	once          sync.Once
)

// Default returns the singleton default Styles instance
func Default() *Styles {
	once.Do(func() {
		defaultStyles = newStyles()
	})
	return defaultStyles
}

func newStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(White),

		Subtitle: lipgloss.NewStyle().
			Foreground(Purple).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(DimGray).
			Width(14),

		Body: lipgloss.NewStyle().
			Foreground(LightGray),

		Muted: lipgloss.NewStyle().
			Foreground(DimGray),

		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(White),

		ID: lipgloss.NewStyle().
			Foreground(Cyan),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGray).
			Padding(0, 1),

		MeterFill: lipgloss.NewStyle().
			Foreground(BrightPurple),

		MeterRest: lipgloss.NewStyle().
			Foreground(DarkGray),

		Success: lipgloss.NewStyle().Foreground(Success),
		Warning: lipgloss.NewStyle().Foreground(Warning),
		Error:   lipgloss.NewStyle().Foreground(Error),
		Info:    lipgloss.NewStyle().Foreground(Info),
	}
}

// ProjectStatus picks the style for a project status.
func (s *Styles) ProjectStatus(st domain.ProjectStatus) lipgloss.Style {
	switch st {
	case domain.ProjectActive:
		return s.Success
	case domain.ProjectPaused:
		return s.Warning
	default:
		return s.Muted
	}
}

// Priority picks the style for an action item priority.
func (s *Styles) Priority(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityHigh:
		return s.Error
	case domain.PriorityMedium:
		return s.Warning
	default:
		return s.Info
	}
}

// ActionStatus picks the style for an action item status.
func (s *Styles) ActionStatus(st domain.ActionStatus) lipgloss.Style {
	switch st {
	case domain.ActionDone:
		return s.Success
	case domain.ActionInProgress:
		return s.Info
	default:
		return s.Muted
	}
}
