package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle    lipgloss.Style
	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style
	Label          lipgloss.Style

	// Input borders keyed off field status
	FieldNeutral lipgloss.Style
	FieldValid   lipgloss.Style
	FieldInvalid lipgloss.Style

	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style

	StepActive   lipgloss.Style
	StepInactive lipgloss.Style
	Amount       lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	Toast lipgloss.Style
}
