// Package postal resolves postal codes to the region they belong to using a
// static table. It stands in for a geocoding service.
package postal

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/rbsiding/estimator/internal/logger"
	"gopkg.in/yaml.v3"
)

//go:embed places.yml
var embeddedPlaces []byte

// Place is a resolved postal code.
type Place struct {
	Code   string `yaml:"code" json:"code"`
	Region string `yaml:"region" json:"region"` // State or province code, e.g. "WA"
	City   string `yaml:"city" json:"city"`
}

type document struct {
	Places []Place `yaml:"places"`
}

// Table is an in-memory lookup table keyed by 5-digit postal code.
type Table struct {
	places map[string]Place
}

// NewTable builds a table from places. Later duplicates win.
func NewTable(places []Place) *Table {
	t := &Table{places: make(map[string]Place, len(places))}
	for _, p := range places {
		t.places[p.Code] = p
	}
	return t
}

// Embedded returns the table shipped with the binary.
func Embedded() (*Table, error) {
	t, err := Parse(embeddedPlaces)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded places: %w", err)
	}
	return t, nil
}

// Load returns the table stored at path, or the embedded table when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Embedded()
	}
	return LoadFile(path)
}

// LoadFile reads a YAML places file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading places file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing places file %s: %w", path, err)
	}
	logger.Debug("Loaded %d postal codes from %s", t.Len(), path)
	return t, nil
}

// Parse decodes a YAML places document. Every code must be exactly five
// ASCII digits and carry a region.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for i, p := range doc.Places {
		if !isFiveDigits(p.Code) {
			return nil, fmt.Errorf("place %d: invalid code %q", i, p.Code)
		}
		if p.Region == "" {
			return nil, fmt.Errorf("place %d (%s): missing region", i, p.Code)
		}
	}
	return NewTable(doc.Places), nil
}

// Lookup resolves code. Anything other than five ASCII digits never resolves.
func (t *Table) Lookup(code string) (Place, bool) {
	if t == nil || !isFiveDigits(code) {
		return Place{}, false
	}
	p, ok := t.places[code]
	return p, ok
}

// Len returns the number of known codes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.places)
}

// Regions returns the distinct regions in the table, sorted.
func (t *Table) Regions() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, p := range t.places {
		seen[p.Region] = struct{}{}
	}
	regions := make([]string, 0, len(seen))
	for r := range seen {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// CountIn returns how many codes resolve into region.
func (t *Table) CountIn(region string) int {
	if t == nil {
		return 0
	}
	n := 0
	for _, p := range t.places {
		if p.Region == region {
			n++
		}
	}
	return n
}

func isFiveDigits(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
