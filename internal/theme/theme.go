package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlay content such as help and the command palette.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for rows in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused row.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// CheckedStyle renders the text of a checked row.
var CheckedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// PlaceholderStyle renders an empty title.
var PlaceholderStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle).
	Italic(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BannerStyle announces a delivered reminder.
var BannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// ErrorStyle renders a failed operation in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// Checkbox returns the marker for a row.
func Checkbox(checked bool) string {
	if checked {
		return lipgloss.NewStyle().Foreground(ColorGreen).Render("[x]")
	}
	return lipgloss.NewStyle().Foreground(ColorGray).Render("[ ]")
}

// ProgressStyle colors a done/total counter: green when everything is
// done, gray otherwise.
func ProgressStyle(done, total int) lipgloss.Style {
	if total > 0 && done == total {
		return lipgloss.NewStyle().Foreground(ColorGreen)
	}
	return lipgloss.NewStyle().Foreground(ColorGray)
}
