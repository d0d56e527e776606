// Package wizard is the terminal front end of the estimator: one modal that
// walks through zip code, square footage and the resulting estimate.
package wizard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/logger"
)

// Settings configures the wizard presentation.
type Settings struct {
	Company          string
	MaxSquareFootage int
	FootageStep      int
	// OnContact is called after a valid email has been submitted.
	OnContact func(email string)
}

// Outcome is what the wizard leaves behind when the program exits.
type Outcome struct {
	State            estimator.State
	Quote            estimator.Quote
	ContactSubmitted bool
}

// stepSubmittedMsg is sent after a step was submitted and the wizard advanced.
type stepSubmittedMsg struct {
	From estimator.Step
}

// ContactSubmittedMsg is sent after a valid email has been submitted.
type ContactSubmittedMsg struct {
	Email string
}

func stepSubmitted(from estimator.Step) tea.Cmd {
	return func() tea.Msg { return stepSubmittedMsg{From: from} }
}

// step is implemented by every page of the wizard.
type step interface {
	Focus() tea.Cmd
	Blur()
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
}

// Model is the BubbleTea model for the estimator wizard.
type Model struct {
	wizard   *estimator.Wizard
	settings Settings
	width    int
	height   int

	zip     *ZipCodeStep
	footage *FootageStep
	result  *ResultStep
	toast   Toast

	focused   estimator.Step
	contacted bool
}

// New creates the wizard model around w.
func New(w *estimator.Wizard, settings Settings) *Model {
	if settings.Company == "" {
		settings.Company = "Siding"
	}
	m := &Model{
		wizard:   w,
		settings: settings,
		width:    80,
		height:   24,
		zip:      NewZipCodeStep(w),
		footage:  NewFootageStep(w, settings.MaxSquareFootage, settings.FootageStep),
		result:   NewResultStep(w, settings.Company),
		focused:  w.State().Step,
	}
	m.updateSizes()
	return m
}

// Run runs the wizard as a standalone program and returns its outcome.
func Run(w *estimator.Wizard, settings Settings) (*Outcome, error) {
	m := New(w, settings)
	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}
	final, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	return final.Outcome(), nil
}

// Outcome returns the current state of the wizard.
func (m *Model) Outcome() *Outcome {
	return &Outcome{
		State:            m.wizard.State(),
		Quote:            m.wizard.Quote(),
		ContactSubmitted: m.contacted,
	}
}

// Init focuses the current step.
func (m *Model) Init() tea.Cmd {
	return m.current().Focus()
}

func (m *Model) stepFor(s estimator.Step) step {
	switch s {
	case estimator.StepSquareFootage:
		return m.footage
	case estimator.StepResult:
		return m.result
	default:
		return m.zip
	}
}

func (m *Model) current() step {
	return m.stepFor(m.wizard.State().Step)
}

// syncFocus moves focus to the wizard's current step if it changed.
func (m *Model) syncFocus() tea.Cmd {
	now := m.wizard.State().Step
	if now == m.focused {
		return nil
	}
	m.stepFor(m.focused).Blur()
	m.focused = now
	logger.Debug("wizard focus moved to %s", now)
	return m.stepFor(now).Focus()
}

func (m *Model) goTo(s estimator.Step) tea.Cmd {
	m.wizard.GoToStep(s)
	return m.syncFocus()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			current := m.wizard.State().Step
			if current == estimator.StepZipCode {
				return m, tea.Quit
			}
			return m, m.goTo(current - 1)
		case "f1":
			return m, m.goTo(estimator.StepZipCode)
		case "f2":
			return m, m.goTo(estimator.StepSquareFootage)
		case "f3":
			return m, m.goTo(estimator.StepResult)
		case "ctrl+r":
			m.wizard.Reset()
			m.contacted = false
			m.result.Reset()
			m.zip.Sync()
			cmd := m.syncFocus()
			return m, tea.Batch(cmd, m.toast.Show("Started a new estimate"))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case stepSubmittedMsg:
		return m, m.syncFocus()

	case ContactSubmittedMsg:
		m.contacted = true
		if m.settings.OnContact != nil {
			m.settings.OnContact(msg.Email)
		}
		return m, m.toast.Show("Thanks! We'll be in touch.")

	case ToastDismissMsg:
		m.toast.Update(msg)
		return m, nil
	}

	cmd := m.current().Update(msg)
	return m, cmd
}

func (m *Model) updateSizes() {
	w := m.modalWidth() - 6
	h := m.height - 10
	if h < 10 {
		h = 10
	}
	m.zip.SetSize(w, h)
	m.footage.SetSize(w, h)
	m.result.SetSize(w, h)
}

func (m *Model) modalWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 90 {
		w = 90
	}
	return w
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		m.render(),
	)

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render draws the modal without screen placement.
func (m *Model) render() string {
	s := styles()
	state := m.wizard.State()

	var sections []string
	sections = append(sections, s.ModalTitle.Render(m.settings.Company+" Estimator"))
	sections = append(sections, renderStepIndicator(state.Step))
	sections = append(sections, "")
	sections = append(sections, m.current().View())
	sections = append(sections, m.buttons(state))
	sections = append(sections, "")
	sections = append(sections, m.hints(state.Step))
	if t := m.toast.View(); t != "" {
		sections = append(sections, "", t)
	}

	return s.ModalContainer.Width(m.modalWidth()).Render(strings.Join(sections, "\n"))
}

func (m *Model) buttons(state estimator.State) string {
	nextLabel := "Next →"
	if state.Step == estimator.StepResult {
		nextLabel = "Send"
	}
	bar := NewButtonBar(CreateBackNextButtons(state.Step != estimator.StepZipCode, m.wizard.CanSubmit(), nextLabel))
	bar.SetWidth(m.modalWidth() - 6)
	return bar.Render()
}

func (m *Model) hints(current estimator.Step) string {
	switch current {
	case estimator.StepZipCode:
		return renderHintBar("enter", "next", "f1-f3", "jump", "esc", "quit")
	case estimator.StepSquareFootage:
		return renderHintBar("←/→", "adjust", "↑/↓", "×10", "enter", "next", "esc", "back")
	default:
		return renderHintBar("enter", "send", "ctrl+r", "start over", "esc", "back", "ctrl+c", "quit")
	}
}
