package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color is a string type
	Secondary string
	Accent    string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// StatusColor returns the border color for a field status name
// ("valid", "invalid", anything else is neutral).
func (t *Theme) StatusColor(status string) string {
	switch status {
	case "valid":
		return t.Success
	case "invalid":
		return t.Error
	default:
		return t.BgSurface1
	}
}

func (t *Theme) buildStyles() *Styles {
	field := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Secondary)).
			Background(lipgloss.Color(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)),
		FieldNeutral: field.BorderForeground(lipgloss.Color(t.StatusColor(""))),
		FieldValid:   field.BorderForeground(lipgloss.Color(t.Success)),
		FieldInvalid: field.BorderForeground(lipgloss.Color(t.Error)),
		ErrorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		StepActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Accent)).
			Bold(true).
			Padding(0, 1),
		StepInactive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)).
			Padding(0, 1),
		Amount: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		HintKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)).
			Bold(true),
		HintDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgSurface1)),
		Toast: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Success)).
			Padding(0, 2),
	}
}
