package main

import (
	"fmt"

	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var estimateFlags struct {
	events     bool
	eventsPort int
	session    string
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Run the interactive estimate wizard",
	Long: `Run the interactive estimate wizard in the terminal.

Keys: enter submits a step, esc goes back, F1-F3 jump between steps,
ctrl+r starts over, ctrl+c quits.

With --events every state change is published over an embedded NATS
server; pass --events-port to make it reachable by 'estimator watch'.`,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().BoolVar(&estimateFlags.events, "events", false, "Publish state changes over NATS")
	estimateCmd.Flags().IntVar(&estimateFlags.eventsPort, "events-port", 0, "Listen port for the events server (implies --events)")
	estimateCmd.Flags().StringVar(&estimateFlags.session, "session", "", "Session name used in event subjects")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	rt, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("events") {
		rt.cfg.Events.Enabled = estimateFlags.events
	}
	if flags.Changed("events-port") {
		rt.cfg.Events.Enabled = true
		rt.cfg.Events.Port = estimateFlags.eventsPort
	}
	if flags.Changed("session") {
		rt.cfg.Events.Session = estimateFlags.session
	}

	b, err := startBus(rt.cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to start events: %w", err)
	}
	defer b.Close()

	opts := rt.options()
	opts.Observer = b.observer()
	w := estimator.New(opts)

	outcome, err := wizard.Run(w, wizard.Settings{
		Company:          rt.cfg.CompanyName,
		MaxSquareFootage: rt.cfg.MaxSquareFootage,
		FootageStep:      rt.cfg.FootageStep,
		OnContact:        func(string) { b.acknowledge() },
	})
	if err != nil {
		return err
	}

	printOutcome(cmd, outcome)
	return nil
}

func printOutcome(cmd *cobra.Command, outcome *wizard.Outcome) {
	out := cmd.OutOrStdout()
	if outcome.State.Estimate > 0 {
		fmt.Fprintf(out, "Estimated total: %s\n", estimator.FormatCurrency(outcome.State.Estimate))
	}
	if outcome.ContactSubmitted {
		fmt.Fprintf(out, "We'll send a detailed quote to %s.\n", outcome.Quote.Email)
	}
}
