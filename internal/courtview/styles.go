package courtview

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#1E88E5")
	errorFg   = lipgloss.Color("#E53935")

	titleStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(baseDimFg)
	statusStyle = lipgloss.NewStyle().Foreground(baseFg)
	errorStyle  = lipgloss.NewStyle().Foreground(errorFg)
)

// courtColor draws the court outline.
const courtColor = "#8D6E63"

// palette is cycled by the recolour key.
var palette = []string{"#c62828", "#1565c0", "#2e7d32", "#f9a825", "#000000"}
