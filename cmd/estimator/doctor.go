package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/rbsiding/estimator/internal/config"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/events"
	"github.com/rbsiding/estimator/internal/postal"
	"github.com/rbsiding/estimator/internal/tui/theme"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, postal data and the events server",
	RunE:  runDoctor,
}

// check is one doctor result line.
type check struct {
	name string
	ok   bool
	info string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	checks := diagnose(cmd)
	// Downsample colors when stdout is not a terminal.
	printChecks(colorprofile.NewWriter(cmd.OutOrStdout(), os.Environ()), checks)
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%s check failed", c.name)
		}
	}
	return nil
}

func diagnose(cmd *cobra.Command) []check {
	var checks []check

	files := []string{}
	for _, p := range []string{config.GlobalPath(), config.ProjectPath()} {
		if fileExists(p) {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		checks = append(checks, check{name: "config files", ok: true, info: "none found, using defaults (run 'estimator setup')"})
	} else {
		checks = append(checks, check{name: "config files", ok: true, info: strings.Join(files, ", ")})
	}

	cfg, err := config.Load()
	if err != nil {
		return append(checks, check{name: "config", info: err.Error()})
	}
	applyOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		checks = append(checks, check{name: "config", info: strings.ReplaceAll(err.Error(), "\n", "; ")})
	} else {
		checks = append(checks, check{name: "config", ok: true, info: fmt.Sprintf("%s per sq ft, region %s", estimator.FormatCurrency(cfg.PricePerSqFt), cfg.ServiceRegion)})
	}

	places, err := postal.Load(cfg.PostalFile)
	if err != nil {
		checks = append(checks, check{name: "postal table", info: err.Error()})
	} else {
		checks = append(checks, check{name: "postal table", ok: true, info: fmt.Sprintf("%d codes in %s", places.Len(), strings.Join(places.Regions(), " "))})
		if cfg.RequireServiceArea {
			n := places.CountIn(cfg.ServiceRegion)
			checks = append(checks, check{name: "service area", ok: n > 0, info: fmt.Sprintf("%d codes in %s", n, cfg.ServiceRegion)})
		}
	}

	ns, err := events.StartEmbedded(0)
	if err != nil {
		checks = append(checks, check{name: "events server", info: err.Error()})
	} else {
		_ = events.Shutdown(nil, ns)
		checks = append(checks, check{name: "events server", ok: true, info: "embedded NATS starts"})
	}

	return checks
}

func printChecks(out io.Writer, checks []check) {
	t := theme.NewCatppuccinMocha()
	pass := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Render("✓")
	fail := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)).Render("✗")
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))

	for _, c := range checks {
		mark := pass
		if !c.ok {
			mark = fail
		}
		fmt.Fprintf(out, "%s %-14s %s\n", mark, c.name, muted.Render(c.info))
	}
}
