package wizard

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// toastDuration is how long a toast stays on screen.
const toastDuration = 3 * time.Second

// ToastDismissMsg is sent when the toast should be dismissed.
type ToastDismissMsg struct {
	id int
}

// Toast is a short-lived notification shown under the modal.
type Toast struct {
	message string
	id      int
}

// Show displays message and schedules its dismissal. Showing a new toast
// supersedes pending dismissals of older ones.
func (t *Toast) Show(message string) tea.Cmd {
	t.id++
	t.message = message
	id := t.id
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{id: id}
	})
}

// Update hides the toast when its dismissal fires.
func (t *Toast) Update(msg tea.Msg) {
	if m, ok := msg.(ToastDismissMsg); ok && m.id == t.id {
		t.message = ""
	}
}

// Message returns the visible message, or "" when hidden.
func (t *Toast) Message() string {
	return t.message
}

// View renders the toast.
func (t *Toast) View() string {
	if t.message == "" {
		return ""
	}
	return styles().Toast.Render(t.message)
}
