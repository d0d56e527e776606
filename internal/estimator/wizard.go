// Package estimator implements the siding estimate wizard: a three step
// flow that collects a service-area zip code, a square footage and a
// contact email, and derives a price quote from them.
//
// The wizard performs no I/O. Presentation layers forward raw input into
// the set operations, call the submit operations from their "Next"
// controls, and render the State snapshot they get back.
package estimator

import (
	"github.com/rbsiding/estimator/internal/logger"
)

// DefaultPricePerSqFt is the price quoted per square foot of siding.
const DefaultPricePerSqFt = 4.50

// DefaultServiceRegion is the region whose zip codes are accepted.
const DefaultServiceRegion = "WA"

// State is a read-only snapshot of the wizard.
type State struct {
	Step          Step    `json:"step"`
	ZipCode       string  `json:"zip_code"`
	ZipCodeStatus Status  `json:"zip_code_status"`
	Region        string  `json:"region,omitempty"` // Resolved region while ZipCodeStatus is Valid
	City          string  `json:"city,omitempty"`
	SquareFootage int     `json:"square_footage"`
	Estimate      float64 `json:"estimate"`
	Email         string  `json:"email"`
	EmailStatus   Status  `json:"email_status"`
}

// Observer is notified with a fresh snapshot after every operation.
type Observer func(State)

// Options configures a Wizard.
type Options struct {
	PricePerSqFt float64
	Resolver     Resolver

	// ServiceRegion is the only region accepted when RequireServiceArea is set.
	ServiceRegion      string
	RequireServiceArea bool

	// AllowZeroFootage lets the square footage step advance at zero.
	AllowZeroFootage bool

	Observer Observer
}

// DefaultOptions returns the region-restricted, zero-forbidding contract.
func DefaultOptions(resolver Resolver) Options {
	return Options{
		PricePerSqFt:       DefaultPricePerSqFt,
		Resolver:           resolver,
		ServiceRegion:      DefaultServiceRegion,
		RequireServiceArea: true,
	}
}

// Wizard owns the state of one estimator session.
// It is not safe for concurrent use; callers that share a Wizard across
// goroutines must serialize access.
type Wizard struct {
	opts  Options
	state State
}

// New creates a wizard positioned on the zip code step.
func New(opts Options) *Wizard {
	w := &Wizard{opts: opts}
	w.state = initialState()
	return w
}

func initialState() State {
	return State{
		Step:          StepZipCode,
		ZipCodeStatus: StatusEmpty,
		EmailStatus:   StatusEmpty,
	}
}

// State returns a snapshot of the current state.
func (w *Wizard) State() State {
	return w.state
}

// Options returns the options the wizard was created with.
func (w *Wizard) Options() Options {
	return w.opts
}

// Reset discards all input and returns to the zip code step.
func (w *Wizard) Reset() State {
	w.state = initialState()
	logger.Debug("estimator: reset")
	return w.emit()
}

// SetZipCode stores raw and recomputes the zip code status. Input longer
// than five characters is discarded; the status is then recomputed against
// the value already stored.
func (w *Wizard) SetZipCode(raw string) State {
	if len(raw) <= MaxZipCodeLength {
		w.state.ZipCode = raw
	} else {
		logger.Debug("estimator: zip code %q exceeds %d characters, keeping %q", raw, MaxZipCodeLength, w.state.ZipCode)
	}
	w.refreshZipCodeStatus()
	return w.emit()
}

func (w *Wizard) refreshZipCodeStatus() {
	region := ""
	if w.opts.RequireServiceArea {
		region = w.opts.ServiceRegion
	}
	status, place := ZipCodeStatus(w.state.ZipCode, w.opts.Resolver, region)
	w.state.ZipCodeStatus = status
	w.state.Region = place.Region
	w.state.City = place.City
}

// SubmitZipCode advances to the square footage step.
// Fails with InvalidZip unless the zip code status is Valid; a rejected
// submit always leaves the status at Invalid.
func (w *Wizard) SubmitZipCode() error {
	if w.state.ZipCodeStatus != StatusValid {
		logger.Info("estimator: rejected zip code %q", w.state.ZipCode)
		w.state.ZipCodeStatus = StatusInvalid
		w.emit()
		return &ValidationError{Kind: InvalidZip}
	}
	w.advance(StepSquareFootage)
	return nil
}

// SetSquareFootage stores the footage and recomputes the estimate.
// Range and step granularity are enforced by the caller, see ClampFootage.
func (w *Wizard) SetSquareFootage(squareFootage int) State {
	w.state.SquareFootage = squareFootage
	w.state.Estimate = Estimate(squareFootage, w.opts.PricePerSqFt)
	return w.emit()
}

// SubmitSquareFootage advances to the result step.
// Fails with ZeroFootage when the footage is zero, unless AllowZeroFootage is set.
func (w *Wizard) SubmitSquareFootage() error {
	if !w.footageSubmittable() {
		logger.Info("estimator: rejected square footage %d", w.state.SquareFootage)
		w.emit()
		return &ValidationError{Kind: ZeroFootage}
	}
	w.advance(StepResult)
	return nil
}

func (w *Wizard) footageSubmittable() bool {
	if w.opts.AllowZeroFootage {
		return w.state.SquareFootage >= 0
	}
	return w.state.SquareFootage > 0
}

// SetEmail stores the contact email and recomputes its status.
func (w *Wizard) SetEmail(raw string) State {
	w.state.Email = raw
	w.state.EmailStatus = EmailStatus(raw)
	return w.emit()
}

// SubmitEmail accepts the contact email. There is no step after Result, so
// success leaves the step where it is. A rejected submit leaves the status
// at Invalid.
func (w *Wizard) SubmitEmail() error {
	if EmailStatus(w.state.Email) != StatusValid {
		logger.Info("estimator: rejected email %q", w.state.Email)
		w.state.EmailStatus = StatusInvalid
		w.emit()
		return &ValidationError{Kind: InvalidEmail}
	}
	w.state.EmailStatus = StatusValid
	logger.Debug("estimator: email accepted")
	w.emit()
	return nil
}

// GoToStep jumps to target without checking any validation status.
// Step indicators use it for free navigation in both directions.
// Targets outside the three known steps are ignored.
func (w *Wizard) GoToStep(target Step) State {
	if !target.Valid() {
		logger.Warn("estimator: ignoring jump to unknown step %d", int(target))
		return w.emit()
	}
	logger.Debug("estimator: jump %s -> %s", w.state.Step, target)
	w.state.Step = target
	return w.emit()
}

// CanSubmit reports whether submitting the current step would succeed.
func (w *Wizard) CanSubmit() bool {
	switch w.state.Step {
	case StepZipCode:
		return w.state.ZipCodeStatus == StatusValid
	case StepSquareFootage:
		return w.footageSubmittable()
	case StepResult:
		return w.state.EmailStatus == StatusValid
	default:
		return false
	}
}

func (w *Wizard) advance(to Step) {
	logger.Debug("estimator: advance %s -> %s", w.state.Step, to)
	w.state.Step = to
	w.emit()
}

func (w *Wizard) emit() State {
	snapshot := w.state
	if w.opts.Observer != nil {
		w.opts.Observer(snapshot)
	}
	return snapshot
}

// Observers fans a snapshot out to every non-nil observer in order.
func Observers(observers ...Observer) Observer {
	return func(s State) {
		for _, o := range observers {
			if o != nil {
				o(s)
			}
		}
	}
}
