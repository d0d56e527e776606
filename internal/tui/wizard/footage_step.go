package wizard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/rbsiding/estimator/internal/estimator"
)

const sliderWidth = 40

// FootageStep is a stepper for the siding square footage. Values are
// clamped to [0, max] in increments of step before reaching the wizard.
type FootageStep struct {
	wizard *estimator.Wizard
	max    int
	step   int
	err    string
	width  int
}

// NewFootageStep creates the square footage step.
func NewFootageStep(w *estimator.Wizard, max, step int) *FootageStep {
	if step <= 0 {
		step = estimator.DefaultFootageStep
	}
	if max <= 0 {
		max = estimator.DefaultMaxSquareFootage
	}
	return &FootageStep{wizard: w, max: max, step: step, width: 60}
}

func (f *FootageStep) Focus() tea.Cmd { return nil }
func (f *FootageStep) Blur()          {}

func (f *FootageStep) SetSize(width, height int) {
	f.width = width
}

func (f *FootageStep) set(v int) {
	f.err = ""
	f.wizard.SetSquareFootage(estimator.ClampFootage(v, f.max, f.step))
}

// Update handles input for the square footage step.
func (f *FootageStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	current := f.wizard.State().SquareFootage
	switch keyMsg.String() {
	case "right", "l", "+", "=":
		f.set(current + f.step)
	case "left", "h", "-":
		f.set(current - f.step)
	case "up", "k", "pgup":
		f.set(current + 10*f.step)
	case "down", "j", "pgdown":
		f.set(current - 10*f.step)
	case "home":
		f.set(0)
	case "end":
		f.set(f.max)
	case "enter":
		if err := f.wizard.SubmitSquareFootage(); err != nil {
			f.err = "Choose how many square feet need siding"
			return nil
		}
		f.err = ""
		return stepSubmitted(estimator.StepSquareFootage)
	}
	return nil
}

// View renders the square footage step.
func (f *FootageStep) View() string {
	s := styles()
	state := f.wizard.State()

	var b strings.Builder
	b.WriteString(s.Label.Render("How many square feet of siding?"))
	b.WriteString("\n\n")
	b.WriteString(renderSlider(state.SquareFootage, f.max, sliderWidth))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s sq ft", estimator.FormatCount(state.SquareFootage)))
	b.WriteString("   ")
	b.WriteString(s.Amount.Render(estimator.FormatCurrency(state.Estimate)))
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(s.ErrorText.Render("✗ " + f.err))
	}
	b.WriteString("\n")
	return b.String()
}

// renderSlider draws a horizontal track with a knob at value/max.
func renderSlider(value, max, width int) string {
	pos := 0
	if max > 0 {
		pos = value * (width - 1) / max
	}
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}
	filled := styles().Amount.Render(strings.Repeat("━", pos))
	return filled + "●" + strings.Repeat("─", width-1-pos)
}
