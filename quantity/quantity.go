// Package quantity implements a single numeric value bound to units.
//
// Arithmetic checks dimensional compatibility before touching values: sums,
// differences and remainders convert the right operand into the left operand's
// units, products and quotients combine the units. Numeric kinds follow the
// lossless promotion rules of package scalar.
package quantity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/arloliu/qty/errs"
	num "github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/units"
)

// wholeTolerance is the relative distance from an integer below which a
// conversion factor still counts as whole.
const wholeTolerance = 1e-12

// equivalenceTolerance is the relative tolerance IsEquivalent allows for
// conversion round-off.
const equivalenceTolerance = 1e-12

// Quantity is a number tagged with units. The zero Quantity is invalid.
type Quantity struct {
	value num.Value
	units units.Units
}

// New creates a quantity from any Go number or scalar.Value. A residual numeric
// factor in u, such as the 1000 in "1000*m", is folded into the value.
func New(value any, u units.Units) (Quantity, error) {
	v, err := num.Of(value)
	if err != nil {
		return Quantity{}, err
	}

	factor, bare := u.PullFactor()

	return Quantity{value: convert(v, 0, factor), units: bare}, nil
}

// Parse creates a quantity from a value and a unit expression.
func Parse(value any, expr string) (Quantity, error) {
	u, err := units.Parse(expr)
	if err != nil {
		return Quantity{}, err
	}

	return New(value, u)
}

// MustParse is Parse that panics on error.
func MustParse(value any, expr string) Quantity {
	q, err := Parse(value, expr)
	if err != nil {
		panic(err)
	}

	return q
}

// Value returns the numeric value.
func (q Quantity) Value() num.Value {
	return q.value
}

// Float64 returns the value as a float64.
func (q Quantity) Float64() float64 {
	return q.value.Float64()
}

// Kind returns the numeric kind of the value.
func (q Quantity) Kind() num.Kind {
	return q.value.Kind()
}

// Units returns the units.
func (q Quantity) Units() units.Units {
	return q.units
}

// IsValid reports whether q holds a value.
func (q Quantity) IsValid() bool {
	return q.value.IsValid()
}

// IsDimensionless reports whether the units have no dimension.
func (q Quantity) IsDimensionless() bool {
	return q.units.IsDimensionless()
}

// IsCompatible reports whether q and o have the same dimension.
func (q Quantity) IsCompatible(o Quantity) bool {
	return q.units.IsCompatible(o.units)
}

// IsEquivalent reports whether o, converted to q's units, has q's value within
// conversion round-off.
func (q Quantity) IsEquivalent(o Quantity) bool {
	if !q.IsCompatible(o) {
		return false
	}
	c, err := o.To(q.units)
	if err != nil {
		return false
	}
	if q.value.Kind().IsComplex() || c.value.Kind().IsComplex() {
		a, b := q.value.Complex128(), c.value.Complex128()
		return scalar.EqualWithinAbsOrRel(real(a), real(b), 0, equivalenceTolerance) &&
			scalar.EqualWithinAbsOrRel(imag(a), imag(b), 0, equivalenceTolerance)
	}

	return scalar.EqualWithinAbsOrRel(q.value.Float64(), c.value.Float64(), 0, equivalenceTolerance)
}

// Equal reports whether q and o have the same kind, equal units and equal
// values. It never fails: mismatches compare unequal.
func (q Quantity) Equal(o Quantity) bool {
	return q.Kind() == o.Kind() && q.units.Equal(o.units) && num.Equal(q.value, o.value)
}

// To returns q converted to u. Integer kinds are kept when the conversion
// factor and offset are whole numbers and become float64 otherwise, so
// 0 degC converts to 273.15 K rather than 273 K.
func (q Quantity) To(u units.Units) (Quantity, error) {
	factor, offset, err := units.ConversionFactor(q.units, u)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{value: convert(q.value, offset, factor), units: u}, nil
}

// convert returns (v - offset) * factor, moving integer and bool values to
// float64 first unless both factor and offset are whole.
func convert(v num.Value, offset, factor float64) num.Value {
	if k := v.Kind(); (k.IsInteger() || k.IsBool()) && !(isWhole(offset) && isWhole(factor)) {
		v = v.Convert(num.Float64)
	}

	return v.Affine(offset, factor)
}

// isWhole reports whether f is an integer up to conversion round-off, e.g.
// the 1e6 between mol and umol.
func isWhole(f float64) bool {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}

	return math.Abs(f-math.Round(f)) <= wholeTolerance*math.Max(1, math.Abs(f))
}

// ToExpr is To with a unit expression.
func (q Quantity) ToExpr(expr string) (Quantity, error) {
	u, err := units.Parse(expr)
	if err != nil {
		return Quantity{}, err
	}

	return q.To(u)
}

// SetUnits converts q into u in place. q is unchanged on error.
func (q *Quantity) SetUnits(u units.Units) error {
	c, err := q.To(u)
	if err != nil {
		return err
	}
	*q = c

	return nil
}

// Compare orders q and o, returning -1, 0 or +1. Ordering requires equal units.
func (q Quantity) Compare(o Quantity) (int, error) {
	if !q.units.Equal(o.units) {
		return 0, fmt.Errorf("%w: cannot order %q and %q", errs.ErrIncompatibleUnits, q.units, o.units)
	}

	return num.Cmp(q.value, o.value)
}

// Less reports q < o.
func (q Quantity) Less(o Quantity) (bool, error) {
	c, err := q.Compare(o)
	return c < 0 && err == nil, err
}

// String renders the value followed by the units, e.g. "1.5 m".
func (q Quantity) String() string {
	u := q.units.String()
	if u == "" {
		return q.value.String()
	}

	return q.value.String() + " " + u
}
