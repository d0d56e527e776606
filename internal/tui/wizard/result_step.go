package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rbsiding/estimator/internal/estimator"
)

// ResultStep shows the quote and collects an email address for follow-up.
type ResultStep struct {
	wizard    *estimator.Wizard
	company   string
	input     textinput.Model
	err       string
	submitted bool
	width     int

	// rendered quote, cached per quote
	cacheKey estimator.Quote
	cacheW   int
	rendered string
}

// NewResultStep creates the result step.
func NewResultStep(w *estimator.Wizard, company string) *ResultStep {
	r := &ResultStep{
		wizard:  w,
		company: company,
		input:   newInput("you@example.com", 40),
		width:   60,
	}
	r.Sync()
	return r
}

// Sync copies the wizard's email into the input.
func (r *ResultStep) Sync() {
	if v := r.wizard.State().Email; v != r.input.Value() {
		r.input.SetValue(v)
	}
}

func (r *ResultStep) Focus() tea.Cmd {
	r.Sync()
	return r.input.Focus()
}

func (r *ResultStep) Blur() {
	r.input.Blur()
}

func (r *ResultStep) SetSize(width, height int) {
	r.width = width
}

// Submitted reports whether a valid email has been submitted.
func (r *ResultStep) Submitted() bool {
	return r.submitted
}

// Reset clears the submission banner.
func (r *ResultStep) Reset() {
	r.submitted = false
	r.err = ""
	r.Sync()
}

// Update handles input for the result step.
func (r *ResultStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok && keyMsg.String() == "enter" {
		if err := r.wizard.SubmitEmail(); err != nil {
			r.err = "Enter a valid email address"
			return nil
		}
		r.err = ""
		r.submitted = true
		email := r.wizard.State().Email
		return func() tea.Msg { return ContactSubmittedMsg{Email: email} }
	}

	before := r.input.Value()
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	if v := r.input.Value(); v != before {
		r.err = ""
		r.submitted = false
		r.wizard.SetEmail(v)
	}
	return cmd
}

func (r *ResultStep) quoteView() string {
	q := r.wizard.Quote()
	q.Email = ""
	if r.rendered == "" || q != r.cacheKey || r.width != r.cacheW {
		r.cacheKey = q
		r.cacheW = r.width
		// The total is drawn separately below so it survives any markdown theme.
		md := q.Markdown(r.company)
		if i := strings.Index(md, "\n**Estimated total"); i >= 0 {
			md = md[:i]
		}
		r.rendered = renderMarkdown(md, r.width)
	}
	return r.rendered
}

// View renders the result step.
func (r *ResultStep) View() string {
	s := styles()
	state := r.wizard.State()

	var b strings.Builder
	b.WriteString(r.quoteView())
	b.WriteString("\n\n")
	b.WriteString(s.Label.Render("Estimated total:") + " ")
	b.WriteString(s.Amount.Render(estimator.FormatCurrency(state.Estimate)))
	b.WriteString("\n\n")
	b.WriteString(s.Label.Render("Want a detailed quote? Leave your email."))
	b.WriteString("\n")
	b.WriteString(fieldStyle(state.EmailStatus).Width(46).Render(r.input.View()))
	b.WriteString("\n")
	switch {
	case r.err != "":
		b.WriteString(s.ErrorText.Render("✗ " + r.err))
	case r.submitted:
		b.WriteString(s.SuccessText.Render("✓ Thanks! We'll reach out at " + state.Email))
	}
	b.WriteString("\n")
	return b.String()
}
