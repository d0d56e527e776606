package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rbsiding/estimator/internal/estimator"
)

// ZipCodeStep collects the property zip code. Every edit is forwarded to
// the wizard; the input is then re-synced to the value the wizard kept, so
// a sixth digit never shows up on screen.
type ZipCodeStep struct {
	wizard *estimator.Wizard
	input  textinput.Model
	err    string
	width  int
}

// NewZipCodeStep creates the zip code step for w.
func NewZipCodeStep(w *estimator.Wizard) *ZipCodeStep {
	z := &ZipCodeStep{
		wizard: w,
		input:  newInput("e.g. 98101", 20),
		width:  60,
	}
	z.Sync()
	return z
}

// Sync copies the wizard's zip code into the input.
func (z *ZipCodeStep) Sync() {
	if v := z.wizard.State().ZipCode; v != z.input.Value() {
		z.input.SetValue(v)
	}
}

func (z *ZipCodeStep) Focus() tea.Cmd {
	z.Sync()
	return z.input.Focus()
}

func (z *ZipCodeStep) Blur() {
	z.input.Blur()
}

func (z *ZipCodeStep) SetSize(width, height int) {
	z.width = width
}

// Update handles input for the zip code step.
func (z *ZipCodeStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok && keyMsg.String() == "enter" {
		if err := z.wizard.SubmitZipCode(); err != nil {
			z.err = "We don't serve that zip code yet"
			if z.wizard.State().ZipCode == "" {
				z.err = "Enter your 5-digit zip code"
			}
			return nil
		}
		z.err = ""
		return stepSubmitted(estimator.StepZipCode)
	}

	before := z.input.Value()
	var cmd tea.Cmd
	z.input, cmd = z.input.Update(msg)
	if z.input.Value() != before {
		z.err = ""
		state := z.wizard.SetZipCode(z.input.Value())
		if state.ZipCode != z.input.Value() {
			z.input.SetValue(state.ZipCode)
		}
	}
	return cmd
}

// View renders the zip code step.
func (z *ZipCodeStep) View() string {
	s := styles()
	state := z.wizard.State()

	var b strings.Builder
	b.WriteString(s.Label.Render("Where is the home? Enter the zip code."))
	b.WriteString("\n")
	b.WriteString(fieldStyle(state.ZipCodeStatus).Width(26).Render(z.input.View()))
	b.WriteString("\n")

	switch {
	case z.err != "":
		b.WriteString(s.ErrorText.Render("✗ " + z.err))
	case state.ZipCodeStatus == estimator.StatusValid:
		b.WriteString(s.SuccessText.Render("✓ " + state.City + ", " + state.Region + " is in our service area"))
	case state.ZipCodeStatus == estimator.StatusInvalid:
		b.WriteString(s.ErrorText.Render("Outside our service area"))
	}
	b.WriteString("\n")
	return b.String()
}
