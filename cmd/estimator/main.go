package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/rbsiding/estimator/internal/logger"
	"github.com/rbsiding/estimator/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀█ ▄█▄ █▄▄   █▀ █ █▀▄ █ █▄ █ █▀▀"
	logoText2 = "█▀▄ ▀█▀ █▄█   ▄█ █ █▄▀ █ █ ▀█ █▄█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "estimator",
	Short: "Siding cost estimator",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Accent)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Accent)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

estimator walks a homeowner through a three-step siding estimate:
service-area zip code, square footage, and the resulting price with an
optional email for a detailed quote.

The same wizard can be driven from the terminal UI (estimate), from flags
(quote), or by an agent over MCP (mcp). Sessions can publish every state
change over NATS for live monitoring (watch).`

	addOverrideFlags(rootCmd)

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(doctorCmd)
}
