package wizard

import (
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
)

// renderMarkdown renders markdown with glamour.
// Falls back to the raw text if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 100 {
		width = 100
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}

	rendered, err := r.Render(content)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}

	return strings.Trim(rendered, "\n")
}
