package wizard

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/postal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.Writer.Profile = colorprofile.Ascii
}

func newTestModel(t *testing.T, settings Settings) (*Model, *estimator.Wizard) {
	t.Helper()
	table, err := postal.Embedded()
	require.NoError(t, err)
	w := estimator.New(estimator.DefaultOptions(table))
	if settings.Company == "" {
		settings.Company = "R&B Siding"
	}
	if settings.MaxSquareFootage == 0 {
		settings.MaxSquareFootage = 10000
	}
	if settings.FootageStep == 0 {
		settings.FootageStep = 100
	}
	m := New(w, settings)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, w
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func press(m *Model, code rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

// submitStep presses enter and delivers the resulting submission message.
func submitStep(t *testing.T, m *Model) {
	t.Helper()
	from := m.wizard.State().Step
	press(m, tea.KeyEnter)
	if m.wizard.State().Step != from {
		m.Update(stepSubmittedMsg{From: from})
	}
}

func screen(m *Model) string {
	return ansi.Strip(m.render())
}

func TestModel_InitialScreen(t *testing.T) {
	m, w := newTestModel(t, Settings{})

	assert.Equal(t, estimator.StepZipCode, w.State().Step)
	out := screen(m)
	assert.Contains(t, out, "R&B Siding Estimator")
	assert.Contains(t, out, "1 Zip Code")
	assert.Contains(t, out, "Enter the zip code")
}

func TestModel_TypingZipCode(t *testing.T) {
	m, w := newTestModel(t, Settings{})

	typeText(m, "98101")
	assert.Equal(t, "98101", w.State().ZipCode)
	assert.Equal(t, estimator.StatusValid, w.State().ZipCodeStatus)
	assert.Contains(t, screen(m), "Seattle, WA is in our service area")

	typeText(m, "7")
	assert.Equal(t, "98101", w.State().ZipCode, "sixth digit is dropped")
	assert.Equal(t, "98101", m.zip.input.Value())
}

func TestModel_ZipCodeOutsideServiceArea(t *testing.T) {
	m, w := newTestModel(t, Settings{})

	typeText(m, "10001")
	assert.Equal(t, estimator.StatusInvalid, w.State().ZipCodeStatus)

	submitStep(t, m)
	assert.Equal(t, estimator.StepZipCode, w.State().Step)
	assert.Contains(t, screen(m), "We don't serve that zip code yet")
}

func TestModel_FullFlow(t *testing.T) {
	var contacted []string
	m, w := newTestModel(t, Settings{OnContact: func(email string) {
		contacted = append(contacted, email)
	}})

	typeText(m, "98101")
	submitStep(t, m)
	require.Equal(t, estimator.StepSquareFootage, w.State().Step)

	for range 20 {
		press(m, tea.KeyRight)
	}
	assert.Equal(t, 2000, w.State().SquareFootage)
	assert.InDelta(t, 9000.0, w.State().Estimate, 1e-9)
	assert.Contains(t, screen(m), "2,000 sq ft")

	submitStep(t, m)
	require.Equal(t, estimator.StepResult, w.State().Step)
	assert.Contains(t, screen(m), "Estimated total: $9,000.00")

	typeText(m, "a@b.co")
	assert.Equal(t, estimator.StatusValid, w.State().EmailStatus)

	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, ContactSubmittedMsg{}, msg)
	m.Update(msg)

	assert.Equal(t, []string{"a@b.co"}, contacted)
	assert.True(t, m.Outcome().ContactSubmitted)
	assert.Equal(t, "a@b.co", m.Outcome().Quote.Email)
	assert.Contains(t, screen(m), "Thanks!")
}

func TestModel_InvalidEmailIsRejected(t *testing.T) {
	m, w := newTestModel(t, Settings{})
	m.Update(tea.KeyPressMsg{Code: tea.KeyF3})
	require.Equal(t, estimator.StepResult, w.State().Step)

	typeText(m, "a@b")
	cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, estimator.StatusInvalid, w.State().EmailStatus)
	assert.Contains(t, screen(m), "Enter a valid email address")
	assert.False(t, m.Outcome().ContactSubmitted)
}

func TestModel_FootageClamping(t *testing.T) {
	m, w := newTestModel(t, Settings{MaxSquareFootage: 500, FootageStep: 100})
	m.Update(tea.KeyPressMsg{Code: tea.KeyF2})
	require.Equal(t, estimator.StepSquareFootage, w.State().Step)

	press(m, tea.KeyLeft)
	assert.Equal(t, 0, w.State().SquareFootage)

	press(m, tea.KeyEnd)
	assert.Equal(t, 500, w.State().SquareFootage)

	press(m, tea.KeyRight)
	assert.Equal(t, 500, w.State().SquareFootage)

	press(m, tea.KeyHome)
	assert.Equal(t, 0, w.State().SquareFootage)

	submitStep(t, m)
	assert.Equal(t, estimator.StepSquareFootage, w.State().Step)
	assert.Contains(t, screen(m), "Choose how many square feet")
}

func TestModel_EscGoesBack(t *testing.T) {
	m, w := newTestModel(t, Settings{})
	m.Update(tea.KeyPressMsg{Code: tea.KeyF3})

	press(m, tea.KeyEscape)
	assert.Equal(t, estimator.StepSquareFootage, w.State().Step)

	press(m, tea.KeyEscape)
	assert.Equal(t, estimator.StepZipCode, w.State().Step)

	cmd := press(m, tea.KeyEscape)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_StepJumpsIgnoreValidation(t *testing.T) {
	m, w := newTestModel(t, Settings{})

	m.Update(tea.KeyPressMsg{Code: tea.KeyF3})
	assert.Equal(t, estimator.StepResult, w.State().Step)
	assert.Equal(t, estimator.StatusEmpty, w.State().ZipCodeStatus)

	m.Update(tea.KeyPressMsg{Code: tea.KeyF1})
	assert.Equal(t, estimator.StepZipCode, w.State().Step)
}

func TestModel_CtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, Settings{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ResetStartsOver(t *testing.T) {
	m, w := newTestModel(t, Settings{})
	typeText(m, "98101")
	submitStep(t, m)

	m.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	assert.Equal(t, estimator.StepZipCode, w.State().Step)
	assert.Equal(t, "", w.State().ZipCode)
	assert.Equal(t, "", m.zip.input.Value())
	assert.Equal(t, "Started a new estimate", m.toast.Message())
}

func TestToast_Dismiss(t *testing.T) {
	var toast Toast
	toast.Show("first")
	toast.Show("second")

	toast.Update(ToastDismissMsg{id: 1})
	assert.Equal(t, "second", toast.Message(), "stale dismissal is ignored")

	toast.Update(ToastDismissMsg{id: 2})
	assert.Equal(t, "", toast.Message())
	assert.Equal(t, "", toast.View())
}

func TestRenderSlider(t *testing.T) {
	out := ansi.Strip(renderSlider(0, 100, 10))
	assert.Equal(t, "●─────────", out)

	out = ansi.Strip(renderSlider(100, 100, 10))
	assert.Equal(t, "━━━━━━━━━●", out)
}

func TestRenderHintBar(t *testing.T) {
	assert.Equal(t, "enter next • esc back", ansi.Strip(renderHintBar("enter", "next", "esc", "back")))
	assert.Equal(t, "", renderHintBar("odd"))
}
