package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/logger"
	"github.com/spf13/cobra"
)

var quoteFlags struct {
	zip    string
	sqft   int
	email  string
	asJSON bool
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute an estimate without the interactive wizard",
	Long: `Run the wizard headlessly from flags and print the quote.

The zip code must be in the service area and the square footage must be
positive (unless allow_zero_footage is set). Square footage is clamped to
[0, max_square_footage] and rounded to the nearest footage_step. --email is optional and is
validated the same way as in the wizard.`,
	Example: `  estimator quote --zip 98101 --sqft 2000
  estimator quote --zip 98101 --sqft 2000 --email me@example.com --json`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteFlags.zip, "zip", "z", "", "Property zip code (required)")
	quoteCmd.Flags().IntVarP(&quoteFlags.sqft, "sqft", "s", 0, "Square footage of siding (required)")
	quoteCmd.Flags().StringVarP(&quoteFlags.email, "email", "e", "", "Email address for a detailed quote")
	quoteCmd.Flags().BoolVar(&quoteFlags.asJSON, "json", false, "Print the quote as JSON")
	_ = quoteCmd.MarkFlagRequired("zip")
	_ = quoteCmd.MarkFlagRequired("sqft")
}

func runQuote(cmd *cobra.Command, args []string) error {
	rt, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	limits := footageLimits{max: rt.cfg.MaxSquareFootage, step: rt.cfg.FootageStep}
	q, err := headlessQuote(estimator.New(rt.options()), limits, quoteFlags.zip, quoteFlags.sqft, quoteFlags.email)
	if err != nil {
		return err
	}
	return writeQuote(cmd.OutOrStdout(), q, rt.cfg.CompanyName, quoteFlags.asJSON)
}

// footageLimits is the range and granularity square footage is clamped to.
type footageLimits struct {
	max  int
	step int
}

// headlessQuote drives w through every step with the given inputs.
// Square footage is clamped to limits before it reaches the wizard.
func headlessQuote(w *estimator.Wizard, limits footageLimits, zip string, sqft int, email string) (estimator.Quote, error) {
	if len(zip) > estimator.MaxZipCodeLength {
		return estimator.Quote{}, fmt.Errorf("zip code %q: at most %d digits", zip, estimator.MaxZipCodeLength)
	}
	w.SetZipCode(zip)
	if err := w.SubmitZipCode(); err != nil {
		return estimator.Quote{}, describe(err, w.State())
	}

	clamped := estimator.ClampFootage(sqft, limits.max, limits.step)
	if clamped != sqft {
		logger.Warn("Square footage %d adjusted to %d", sqft, clamped)
	}
	w.SetSquareFootage(clamped)
	if err := w.SubmitSquareFootage(); err != nil {
		return estimator.Quote{}, describe(err, w.State())
	}

	if email != "" {
		w.SetEmail(email)
		if err := w.SubmitEmail(); err != nil {
			return estimator.Quote{}, describe(err, w.State())
		}
	}
	return w.Quote(), nil
}

// describe turns a rejected submit into a message for the user.
func describe(err error, s estimator.State) error {
	kind, ok := estimator.KindOf(err)
	if !ok {
		return err
	}
	switch kind {
	case estimator.InvalidZip:
		if s.ZipCode == "" {
			return fmt.Errorf("zip code is required: %w", err)
		}
		return fmt.Errorf("zip code %q is outside the service area: %w", s.ZipCode, err)
	case estimator.ZeroFootage:
		return fmt.Errorf("square footage %d is not billable: %w", s.SquareFootage, err)
	case estimator.InvalidEmail:
		return fmt.Errorf("email %q is not valid: %w", s.Email, err)
	}
	return err
}

func writeQuote(out io.Writer, q estimator.Quote, company string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	}
	_, err := io.WriteString(out, q.Markdown(company))
	return err
}
