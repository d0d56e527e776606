package wizard

import (
	"fmt"
	"strings"

	"github.com/rbsiding/estimator/internal/estimator"
)

// renderStepIndicator renders "1 Zip Code ─ 2 Square Footage ─ 3 Your Estimate"
// with the current step highlighted.
func renderStepIndicator(current estimator.Step) string {
	s := styles()
	parts := make([]string, 0, len(estimator.Steps()))
	for _, step := range estimator.Steps() {
		label := fmt.Sprintf("%d %s", step.Index(), step.Label())
		if step == current {
			parts = append(parts, s.StepActive.Render(label))
		} else {
			parts = append(parts, s.StepInactive.Render(label))
		}
	}
	return strings.Join(parts, s.HintSeparator.Render(" ─ "))
}
