package estimator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// Quote summarizes the estimate the wizard has derived so far.
type Quote struct {
	ZipCode       string  `json:"zip_code"`
	Region        string  `json:"region,omitempty"`
	City          string  `json:"city,omitempty"`
	SquareFootage int     `json:"square_footage"`
	PricePerSqFt  float64 `json:"price_per_sqft"`
	Estimate      float64 `json:"estimate"`
	Email         string  `json:"email,omitempty"`
}

// Quote returns the current quote. Email is only included once it is Valid.
func (w *Wizard) Quote() Quote {
	q := Quote{
		ZipCode:       w.state.ZipCode,
		Region:        w.state.Region,
		City:          w.state.City,
		SquareFootage: w.state.SquareFootage,
		PricePerSqFt:  w.opts.PricePerSqFt,
		Estimate:      w.state.Estimate,
	}
	if w.state.EmailStatus == StatusValid {
		q.Email = w.state.Email
	}
	return q
}

// FormatCurrency renders an amount in US dollars, e.g. "$9,000.00".
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return "-" + currencyPrinter.Sprintf("$%.2f", -amount)
	}
	return currencyPrinter.Sprintf("$%.2f", amount)
}

// FormatCount renders an integer with thousands separators, e.g. "2,000".
func FormatCount(n int) string {
	return currencyPrinter.Sprintf("%d", n)
}

// Markdown renders the quote as a short markdown document.
func (q Quote) Markdown(company string) string {
	var b strings.Builder
	if company != "" {
		fmt.Fprintf(&b, "# %s estimate\n\n", company)
	} else {
		b.WriteString("# Estimate\n\n")
	}
	location := q.ZipCode
	if q.City != "" {
		location = fmt.Sprintf("%s, %s %s", q.City, q.Region, q.ZipCode)
	}
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Location | %s |\n", location)
	fmt.Fprintf(&b, "| Square footage | %s sq ft |\n", FormatCount(q.SquareFootage))
	fmt.Fprintf(&b, "| Price per sq ft | %s |\n", FormatCurrency(q.PricePerSqFt))
	fmt.Fprintf(&b, "\n**Estimated total: %s**\n", FormatCurrency(q.Estimate))
	return b.String()
}
