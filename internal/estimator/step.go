package estimator

import "fmt"

// Step identifies a screen of the estimator wizard.
type Step int

const (
	StepZipCode       Step = iota // Service-area zip code entry
	StepSquareFootage             // Square-footage selection
	StepResult                    // Estimate and contact email
)

// Steps returns the wizard steps in forward order.
func Steps() []Step {
	return []Step{StepZipCode, StepSquareFootage, StepResult}
}

// String returns the machine name of the step.
func (s Step) String() string {
	switch s {
	case StepZipCode:
		return "zip_code"
	case StepSquareFootage:
		return "square_footage"
	case StepResult:
		return "result"
	default:
		return "unknown"
	}
}

// Label returns the human readable title shown in step indicators.
func (s Step) Label() string {
	switch s {
	case StepZipCode:
		return "Zip Code"
	case StepSquareFootage:
		return "Square Footage"
	case StepResult:
		return "Your Estimate"
	default:
		return "Unknown"
	}
}

// Index returns the 1-based position of the step, or 0 for an unknown step.
func (s Step) Index() int {
	if !s.Valid() {
		return 0
	}
	return int(s) + 1
}

// Valid reports whether s is one of the three wizard steps.
func (s Step) Valid() bool {
	return s >= StepZipCode && s <= StepResult
}

// ParseStep parses a step name as produced by String.
// The 1-based step numbers "1", "2" and "3" are accepted as well.
func ParseStep(name string) (Step, error) {
	switch name {
	case "zip_code", "zip", "1":
		return StepZipCode, nil
	case "square_footage", "sqft", "2":
		return StepSquareFootage, nil
	case "result", "3":
		return StepResult, nil
	default:
		return StepZipCode, fmt.Errorf("unknown step: %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Step) UnmarshalText(text []byte) error {
	parsed, err := ParseStep(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Status is the validation state of a free-form field.
type Status int

const (
	StatusEmpty Status = iota
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "empty"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "empty":
		*s = StatusEmpty
	case "valid":
		*s = StatusValid
	case "invalid":
		*s = StatusInvalid
	default:
		return fmt.Errorf("unknown status: %q", text)
	}
	return nil
}
