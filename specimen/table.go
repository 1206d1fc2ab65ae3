// Package specimen holds the ASTM D2216 reference table that maps a maximum
// particle size to the minimum specimen mass, the balance legibility and the
// test method, and decides whether a specimen is large enough.
package specimen

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// Method is the ASTM D2216 procedure a particle size falls under.
type Method string

const (
	// MethodA applies to coarse specimens (results to 1%).
	MethodA Method = "A"
	// MethodB applies to fine specimens (results to 0.1%).
	MethodB Method = "B"
)

// Valid reports whether m is one of the two known methods.
func (m Method) Valid() bool {
	return m == MethodA || m == MethodB
}

// Entry is one row of the reference table.
type Entry struct {
	ParticleSize     string  `json:"tamano"`
	MinimumMassGrams float64 `json:"masa_minima_g"`
	LegibilityGrams  float64 `json:"legibilidad_g"`
	Method           Method  `json:"metodo"`
}

// MassLabel renders the minimum mass the way the report grid shows it
// ("5 kg", "250 g").
func (e Entry) MassLabel() string {
	return formatGrams(e.MinimumMassGrams)
}

// LegibilityLabel renders the legibility ("0.1 g", "0.01 g").
func (e Entry) LegibilityLabel() string {
	return strconv.FormatFloat(e.LegibilityGrams, 'f', -1, 64) + " g"
}

// ErrInvalidTable is wrapped by every NewTable construction failure.
var ErrInvalidTable = errors.New("invalid specimen table")

// Table is an immutable, ordered lookup table. A *Table is safe for
// concurrent use.
type Table struct {
	entries []Entry
	bySize  map[string]int
}

// NewTable validates entries and builds a Table. Each particle size must appear
// once and carry exactly one valid method.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidTable)
	}
	t := &Table{
		entries: make([]Entry, len(entries)),
		bySize:  make(map[string]int, len(entries)),
	}
	copy(t.entries, entries)

	for i, e := range t.entries {
		if e.ParticleSize == "" {
			return nil, fmt.Errorf("%w: row %d has no particle size", ErrInvalidTable, i)
		}
		if !e.Method.Valid() {
			return nil, fmt.Errorf("%w: %q has method %q", ErrInvalidTable, e.ParticleSize, e.Method)
		}
		if e.MinimumMassGrams <= 0 || e.LegibilityGrams <= 0 {
			return nil, fmt.Errorf("%w: %q has non-positive mass or legibility", ErrInvalidTable, e.ParticleSize)
		}
		if j, dup := t.bySize[e.ParticleSize]; dup {
			return nil, fmt.Errorf("%w: %q listed twice (methods %s and %s)",
				ErrInvalidTable, e.ParticleSize, t.entries[j].Method, e.Method)
		}
		t.bySize[e.ParticleSize] = i
	}
	return t, nil
}

// Classify looks up an exact particle-size label. The label is compared as is,
// without unit or whitespace normalization.
func (t *Table) Classify(particleSize string) (Entry, bool) {
	i, ok := t.bySize[particleSize]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of all rows in table order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Rows returns the rows for one method, in table order.
func (t *Table) Rows(m Method) []Entry {
	var out []Entry
	for _, e := range t.entries {
		if e.Method == m {
			out = append(out, e)
		}
	}
	return out
}

// ReferenceEntries is the ASTM D2216-19 data used by Default.
var ReferenceEntries = []Entry{
	{ParticleSize: "3 in", MinimumMassGrams: 5000, LegibilityGrams: 0.1, Method: MethodA},
	{ParticleSize: "1 1/2 in", MinimumMassGrams: 1000, LegibilityGrams: 0.1, Method: MethodA},
	{ParticleSize: "3/4 in", MinimumMassGrams: 250, LegibilityGrams: 0.1, Method: MethodA},
	{ParticleSize: "3/8 in", MinimumMassGrams: 500, LegibilityGrams: 0.01, Method: MethodB},
	{ParticleSize: "No. 4", MinimumMassGrams: 250, LegibilityGrams: 0.01, Method: MethodB},
	{ParticleSize: "No. 10", MinimumMassGrams: 250, LegibilityGrams: 0.01, Method: MethodB},
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide reference table. It panics if the built-in
// data is inconsistent.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := NewTable(ReferenceEntries)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

func formatGrams(g float64) string {
	if g >= 1000 {
		return strconv.FormatFloat(g/1000, 'f', -1, 64) + " kg"
	}
	return strconv.FormatFloat(g, 'f', -1, 64) + " g"
}
