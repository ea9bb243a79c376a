package theme

import "github.com/charmbracelet/lipgloss"

var (
	Purple       = lipgloss.Color("#A855F7")
	BrightPurple = lipgloss.Color("#C084FC")

	White     = lipgloss.Color("#FFFFFF")
	LightGray = lipgloss.Color("#9CA3AF")
	DimGray   = lipgloss.Color("#6B7280")
	DarkGray  = lipgloss.Color("#374151")

	Success = lipgloss.Color("#22C55E")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
	Info    = lipgloss.Color("#3B82F6")

	Cyan = lipgloss.Color("#06B6D4")
)
