// Package propagation holds the rule table that decides, for each named array
// operation, how units flow from operands to the result.
//
// Every rule is a table entry keyed by operation name and arity. Resolve turns
// an entry plus operand units into a Plan: which operands to convert, into
// what, and which units to attach to the result. Operations without an entry
// fail with errs.ErrUnsupportedOperation.
package propagation

import (
	"sort"
	"strconv"
)

// Category selects the propagation policy of an entry.
type Category uint8

const (
	// Unrecognized operations are rejected.
	Unrecognized Category = iota
	// Strip drops units from the result.
	Strip
	// Passthrough keeps the operand units.
	Passthrough
	// PowerLaw raises the operand units to Entry.Power.
	PowerLaw
	// AngleIn converts the operand to radians and strips the result.
	AngleIn
	// AngleOut converts the operand to dimensionless and tags the result as radians.
	AngleOut
	// RadToDeg converts the operand to radians and tags the result as degrees.
	RadToDeg
	// DegToRad converts the operand to degrees and tags the result as radians.
	DegToRad
	// SameUnits converts every operand to the first operand's units and keeps them.
	SameUnits
	// Compare tests equality; incompatible operands short-circuit.
	Compare
	// OrderingCompare converts to the first operand's units and strips the result.
	OrderingCompare
	// Combine multiplies or divides units.
	Combine
	// Power raises the base units to a unitless, uniform exponent.
	Power
	// Remainder keeps the dividend units.
	Remainder
	// Arctan2 converts to the first operand's units and tags the result as radians.
	Arctan2
)

var categoryNames = [...]string{
	Unrecognized:    "unrecognized",
	Strip:           "strip",
	Passthrough:     "passthrough",
	PowerLaw:        "power_law",
	AngleIn:         "angle_in",
	AngleOut:        "angle_out",
	RadToDeg:        "rad_to_deg",
	DegToRad:        "deg_to_rad",
	SameUnits:       "same_units",
	Compare:         "compare",
	OrderingCompare: "ordering_compare",
	Combine:         "combine",
	Power:           "power",
	Remainder:       "remainder",
	Arctan2:         "arctan2",
}

// String returns the snake_case name of the category.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}

	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// Entry is one row of the table.
type Entry struct {
	Name     string
	Arity    int
	Category Category
	Power    float64 // PowerLaw exponent
	Quotient bool    // Combine divides instead of multiplying
	Negated  bool    // Compare tests inequality
}

type key struct {
	name  string
	arity int
}

// Table maps (name, arity) to entries. A Table is read-only after construction.
type Table struct {
	entries map[key]Entry
}

// NewTable builds a table from entries. Later entries replace earlier ones
// with the same name and arity.
func NewTable(entries ...Entry) *Table {
	t := &Table{entries: make(map[key]Entry, len(entries))}
	for _, e := range entries {
		t.entries[key{e.Name, e.Arity}] = e
	}

	return t
}

// With returns a copy of t with entries added or replaced.
func (t *Table) With(entries ...Entry) *Table {
	out := &Table{entries: make(map[key]Entry, len(t.entries)+len(entries))}
	for k, e := range t.entries {
		out.entries[k] = e
	}
	for _, e := range entries {
		out.entries[key{e.Name, e.Arity}] = e
	}

	return out
}

// Lookup returns the entry for name with the given arity.
func (t *Table) Lookup(name string, arity int) (Entry, bool) {
	e, ok := t.entries[key{name, arity}]
	if !ok || e.Category == Unrecognized {
		return Entry{}, false
	}

	return e, true
}

// Entries returns all entries sorted by name then arity.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return out[i].Arity < out[j].Arity
	})

	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

func unary(c Category, names ...string) []Entry {
	out := make([]Entry, len(names))
	for i, n := range names {
		out[i] = Entry{Name: n, Arity: 1, Category: c}
	}

	return out
}

func binary(c Category, names ...string) []Entry {
	out := make([]Entry, len(names))
	for i, n := range names {
		out[i] = Entry{Name: n, Arity: 2, Category: c}
	}

	return out
}

func defaultEntries() []Entry {
	var es []Entry
	es = append(es, unary(Strip, "isfinite", "isinf", "isnan", "isnat", "sign", "signbit")...)
	es = append(es, unary(Passthrough, "negative", "positive", "absolute", "fabs", "rint", "floor", "ceil", "trunc")...)
	es = append(es,
		Entry{Name: "sqrt", Arity: 1, Category: PowerLaw, Power: 0.5},
		Entry{Name: "square", Arity: 1, Category: PowerLaw, Power: 2},
		Entry{Name: "cbrt", Arity: 1, Category: PowerLaw, Power: 1.0 / 3.0},
		Entry{Name: "reciprocal", Arity: 1, Category: PowerLaw, Power: -1},
	)
	es = append(es, unary(AngleIn, "sin", "cos", "tan", "sinh", "cosh", "tanh")...)
	es = append(es, unary(AngleOut, "arcsin", "arccos", "arctan", "arcsinh", "arccosh", "arctanh")...)
	es = append(es, unary(RadToDeg, "degrees", "rad2deg")...)
	es = append(es, unary(DegToRad, "radians", "deg2rad")...)

	es = append(es, binary(Strip, "copysign")...)
	es = append(es,
		Entry{Name: "equal", Arity: 2, Category: Compare},
		Entry{Name: "not_equal", Arity: 2, Category: Compare, Negated: true},
	)
	es = append(es, binary(OrderingCompare, "greater", "greater_equal", "less", "less_equal", "hypot")...)
	es = append(es, binary(SameUnits, "add", "subtract", "maximum", "minimum", "fmax", "fmin")...)
	es = append(es,
		Entry{Name: "multiply", Arity: 2, Category: Combine},
		Entry{Name: "matmul", Arity: 2, Category: Combine},
		Entry{Name: "divide", Arity: 2, Category: Combine, Quotient: true},
		Entry{Name: "true_divide", Arity: 2, Category: Combine, Quotient: true},
		Entry{Name: "floor_divide", Arity: 2, Category: Combine, Quotient: true},
	)
	es = append(es, binary(Power, "power", "float_power")...)
	es = append(es, binary(Remainder, "remainder", "mod", "fmod")...)
	es = append(es, binary(Arctan2, "arctan2")...)

	return es
}

var defaultTable = NewTable(defaultEntries()...)

// Default returns the built-in table.
func Default() *Table {
	return defaultTable
}
