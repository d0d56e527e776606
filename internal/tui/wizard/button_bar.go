package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render renders the buttons centered within the bar width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	t := currentTheme
	base := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)
	normalStyle := base.
		Foreground(lipgloss.Color(t.FgBase)).
		Background(lipgloss.Color(t.BgSurface0))
	disabledStyle := base.
		Foreground(lipgloss.Color(t.FgMuted)).
		Background(lipgloss.Color(t.BgMantle))
	focusedStyle := base.
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.Primary)).
		Bold(true)

	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, disabledStyle.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, focusedStyle.Render(btn.Label))
		default:
			rendered = append(rendered, normalStyle.Render(btn.Label))
		}
	}

	return lipgloss.PlaceHorizontal(b.width, lipgloss.Center, strings.Join(rendered, ""))
}

// CreateBackNextButtons creates the standard Back/Next pair. Next is drawn
// focused when enabled so it reads as the default action.
func CreateBackNextButtons(backEnabled, nextEnabled bool, nextLabel string) []Button {
	backState := ButtonNormal
	if !backEnabled {
		backState = ButtonDisabled
	}
	nextState := ButtonFocused
	if !nextEnabled {
		nextState = ButtonDisabled
	}
	return []Button{
		{Label: "← Back", State: backState},
		{Label: nextLabel, State: nextState},
	}
}
