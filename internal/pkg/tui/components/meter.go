package components

import (
	"strings"

	"github.com/emiliopalmerini/sessiontrack/internal/pkg/tui/theme"
)

// Meter renders a fixed-width usage bar, e.g. budget spent against budget.
type Meter struct {
	Width  int
	Used   float64
	Total  float64
	styles *theme.Styles
}

// NewMeter creates a meter of the given width.
func NewMeter(width int, used, total float64) Meter {
	return Meter{
		Width:  width,
		Used:   used,
		Total:  total,
		styles: theme.Default(),
	}
}

// Filled returns the number of filled cells, clamped to [0, Width].
func (m Meter) Filled() int {
	if m.Width <= 0 {
		return 0
	}
	if m.Total <= 0 {
		if m.Used > 0 {
			return m.Width
		}
		return 0
	}
	n := int(m.Used / m.Total * float64(m.Width))
	if n < 0 {
		return 0
	}
	if n > m.Width {
		return m.Width
	}
	return n
}

// View renders the meter
func (m Meter) View() string {
	filled := m.Filled()
	return m.styles.MeterFill.Render(strings.Repeat("█", filled)) +
		m.styles.MeterRest.Render(strings.Repeat("░", m.Width-filled))
}
