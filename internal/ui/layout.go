package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todos/internal/theme"
)

// Layout manages the terminal layout: a header bar, an optional banner
// line, the content area and a status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	BannerHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions and no
// banner.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// WithBanner reserves a line for a banner when show is true.
func (l Layout) WithBanner(show bool) Layout {
	l.BannerHeight = 0
	if show {
		l.BannerHeight = 1
	}
	return l
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.BannerHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top bar with a title on the left and a
// status on the right.
func (l Layout) RenderHeader(title, status string) string {
	return l.bar(theme.HeaderStyle, title, status)
}

// RenderStatusBar renders the bottom bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.bar(theme.StatusBarStyle, hints, "")
}

// bar renders left and right in style, padding the middle so the bar
// spans the full width.
func (l Layout) bar(style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)
	rightRendered := ""
	if right != "" {
		rightRendered = style.Align(lipgloss.Right).Render(right)
	}

	gap := l.Width - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}

// RenderWithFrame composes a full terminal view. An empty banner is
// left out.
func (l Layout) RenderWithFrame(header, banner, content, statusBar string) string {
	parts := []string{header}
	if banner != "" {
		parts = append(parts, theme.BannerStyle.MaxWidth(l.Width).Render(banner))
	}
	parts = append(parts, content, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
