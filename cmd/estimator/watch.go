package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/events"
	"github.com/rbsiding/estimator/internal/tui/theme"
	"github.com/spf13/cobra"
)

var watchFlags struct {
	url     string
	session string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow estimator sessions live",
	Long: `Connect to a running session's events server and print every state
change. Start the session with 'estimator estimate --events-port 4222'.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFlags.url, "url", "nats://127.0.0.1:4222", "NATS server URL")
	watchCmd.Flags().StringVar(&watchFlags.session, "session", "", "Only show this session")
}

func runWatch(cmd *cobra.Command, args []string) error {
	nc, err := events.Connect(watchFlags.url)
	if err != nil {
		return err
	}
	defer func() { _ = events.Shutdown(nc, nil) }()

	filter := ""
	if watchFlags.session != "" {
		filter = events.SessionToken(watchFlags.session)
	}

	out := colorprofile.NewWriter(cmd.OutOrStdout(), os.Environ())
	lines := make(chan string, 64)
	sub, err := events.Subscribe(nc, func(ev events.Event) {
		if line, ok := formatEvent(ev, filter); ok {
			lines <- line
		}
	})
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s on %s\n", events.AllSubjects, watchFlags.url)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line := <-lines:
			_, _ = io.WriteString(out, line+"\n")
		}
	}
}

// formatEvent renders one event as a log line. Events from sessions other
// than filter (when set) are skipped.
func formatEvent(ev events.Event, filter string) (string, bool) {
	session := sessionOf(ev.Subject)
	if filter != "" && session != filter {
		return "", false
	}

	t := theme.NewCatppuccinMocha()
	tag := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)).Render(session)

	if ev.Kind == events.KindContact {
		ok := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Render("contact submitted")
		return fmt.Sprintf("%s %s", tag, ok), true
	}

	s := ev.Envelope.State
	status := func(v estimator.Status) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(t.StatusColor(v.String()))).Render(v.String())
	}
	return fmt.Sprintf("%s %s %-14s zip=%s(%s) sqft=%d estimate=%s email=%s",
		ev.Envelope.Timestamp.Format("15:04:05"), tag, s.Step,
		s.ZipCode, status(s.ZipCodeStatus), s.SquareFootage,
		estimator.FormatCurrency(s.Estimate), status(s.EmailStatus)), true
}

// sessionOf extracts the session token from estimator.<session>.<kind>.
func sessionOf(subject string) string {
	rest, ok := strings.CutPrefix(subject, "estimator.")
	if !ok {
		return ""
	}
	if i := strings.LastIndex(rest, "."); i >= 0 {
		return rest[:i]
	}
	return rest
}
