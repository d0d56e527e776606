package estimator

import "errors"

// Kind classifies why a submit was rejected.
type Kind int

const (
	InvalidZip Kind = iota + 1
	ZeroFootage
	InvalidEmail
)

func (k Kind) String() string {
	switch k {
	case InvalidZip:
		return "invalid_zip"
	case ZeroFootage:
		return "zero_footage"
	case InvalidEmail:
		return "invalid_email"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrInvalidZip   = errors.New("zip code is not in the service area")
	ErrZeroFootage  = errors.New("square footage must be greater than zero")
	ErrInvalidEmail = errors.New("email address is not valid")

	errValidation = errors.New("validation failed")
)

// ValidationError is returned by the submit operations when the current
// step's input does not pass validation. The wizard state is left untouched.
type ValidationError struct {
	Kind Kind
}

func (e *ValidationError) Error() string {
	return e.sentinel().Error()
}

// Unwrap returns the sentinel error for the kind.
func (e *ValidationError) Unwrap() error {
	return e.sentinel()
}

func (e *ValidationError) sentinel() error {
	switch e.Kind {
	case InvalidZip:
		return ErrInvalidZip
	case ZeroFootage:
		return ErrZeroFootage
	case InvalidEmail:
		return ErrInvalidEmail
	default:
		return errValidation
	}
}

// KindOf extracts the validation kind from err.
// Returns false if err is not a *ValidationError.
func KindOf(err error) (Kind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return 0, false
}
