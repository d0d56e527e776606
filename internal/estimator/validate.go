package estimator

import (
	"regexp"

	"github.com/rbsiding/estimator/internal/postal"
)

// MaxZipCodeLength is the longest zip code the wizard will store.
const MaxZipCodeLength = 5

var (
	zipCodePattern = regexp.MustCompile(`^[0-9]{0,5}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Resolver maps a postal code to the place it belongs to.
type Resolver interface {
	Lookup(code string) (postal.Place, bool)
}

// ZipCodeStatus classifies a zip code. A code is Valid only when it is made
// of digits, resolves, and (when region is non-empty) resolves into region.
// Everything else, including the empty string, is Invalid.
func ZipCodeStatus(code string, resolver Resolver, region string) (Status, postal.Place) {
	if !zipCodePattern.MatchString(code) || resolver == nil {
		return StatusInvalid, postal.Place{}
	}
	place, ok := resolver.Lookup(code)
	if !ok {
		return StatusInvalid, postal.Place{}
	}
	if region != "" && place.Region != region {
		return StatusInvalid, postal.Place{}
	}
	return StatusValid, place
}

// EmailStatus classifies an email address. The empty string is Invalid.
func EmailStatus(email string) Status {
	if email == "" || !emailPattern.MatchString(email) {
		return StatusInvalid
	}
	return StatusValid
}

// Estimate is the quoted price for squareFootage at pricePerSqFt.
func Estimate(squareFootage int, pricePerSqFt float64) float64 {
	return float64(squareFootage) * pricePerSqFt
}

// Default footage domain used by every input surface.
const (
	DefaultMaxSquareFootage = 10000
	DefaultFootageStep      = 100
)

// ClampFootage snaps v to the nearest multiple of step within [0, max].
// Non-positive max or step fall back to the defaults.
func ClampFootage(v, max, step int) int {
	if step <= 0 {
		step = DefaultFootageStep
	}
	if max <= 0 {
		max = DefaultMaxSquareFootage
	}
	if v <= 0 {
		return 0
	}
	if v >= max {
		return max / step * step
	}
	v = (v + step/2) / step * step
	if v > max {
		v -= step
	}
	return v
}
