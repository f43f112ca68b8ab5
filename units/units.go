// Package units implements unit expressions and their algebra.
//
// A Units value is a dimension vector plus a scale and an offset relative to the
// SI base of that dimension, together with the symbolic terms it was built from:
//
//	base = (v - offset) * scale
//
// Units values are immutable; Mul, Div and Pow return new values. The explicit
// MulInPlace, DivInPlace and PowInPlace operators rewrite the receiver.
//
// The zero value is the empty sentinel: dimensionless, scale 1, IsEmpty() true.
// It is what Parse returns for "" and "n/a", and alongside any parse error.
package units

import (
	"fmt"
	"math"
	"sort"

	"github.com/arloliu/qty/dimension"
	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/internal/hash"
)

// Term is one symbolic factor of a unit expression, e.g. "km**2".
type Term struct {
	Symbol   string // canonical symbol, e.g. "m" for "meter"
	Prefix   string // canonical SI prefix, e.g. "u" for "µ"
	Exponent float64

	dim    dimension.Dimension
	mag    float64 // prefix value times the symbol scale
	offset float64
}

// Name returns the prefixed symbol, e.g. "km".
func (t Term) Name() string {
	return t.Prefix + t.Symbol
}

func (t Term) sameSymbol(o Term) bool {
	return t.Symbol == o.Symbol && t.Prefix == o.Prefix
}

// factorTerm is a numeric factor of an expression, e.g. 0.1 in "0.1*s".
// Factors are kept by value so that a factor divided by itself cancels
// exactly instead of leaving rounding noise in the product.
type factorTerm struct {
	value    float64
	exponent float64
}

// Units is a parsed unit of measure.
type Units struct {
	terms  []Term
	nums   []factorTerm
	factor float64 // product of nums
	dim    dimension.Dimension
	scale  float64
	offset float64
	set    bool
}

// Empty returns the empty sentinel units.
func Empty() Units {
	return Units{}
}

// Dimensionless returns non-empty units with no dimension and scale 1.
func Dimensionless() Units {
	return Units{factor: 1, scale: 1, set: true}
}

func newUnits(terms []Term, nums []factorTerm) Units {
	u := Units{terms: terms, nums: nums, set: true}
	u.compute()

	return u
}

// compute derives factor, dimension, scale and offset from terms and nums.
// Both are folded in sorted order so that equal unit sets get bitwise-equal
// scales.
func (u *Units) compute() {
	nums := make([]factorTerm, len(u.nums))
	copy(nums, u.nums)
	sort.Slice(nums, func(a, b int) bool { return nums[a].value < nums[b].value })
	u.factor = 1
	for _, n := range nums {
		if n.exponent == 1 {
			u.factor *= n.value
		} else {
			u.factor *= math.Pow(n.value, n.exponent)
		}
	}

	order := make([]int, len(u.terms))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return u.terms[order[a]].Name() < u.terms[order[b]].Name()
	})

	scale := u.factor
	var d dimension.Dimension
	for _, i := range order {
		t := u.terms[i]
		d = d.Add(t.dim.Scale(t.Exponent))
		scale *= math.Pow(t.mag, t.Exponent)
	}
	u.dim = d
	u.scale = scale

	u.offset = 0
	if len(u.terms) == 1 && u.terms[0].Exponent == 1 && u.factor == 1 {
		u.offset = u.terms[0].offset
	}
}

// mergeTerm appends t to terms, adding exponents when the symbol is already
// present and dropping terms whose exponent cancels to zero. terms is never
// modified in place beyond its length.
func mergeTerm(terms []Term, t Term) []Term {
	for i := range terms {
		if !terms[i].sameSymbol(t) {
			continue
		}
		exp := dimension.Snap(terms[i].Exponent + t.Exponent)
		out := make([]Term, 0, len(terms))
		out = append(out, terms[:i]...)
		if exp != 0 {
			merged := terms[i]
			merged.Exponent = exp
			out = append(out, merged)
		}

		return append(out, terms[i+1:]...)
	}

	if t.Exponent == 0 {
		return terms
	}

	return append(terms, t)
}

// mergeFactor is mergeTerm for numeric factors; a factor of 1 is dropped.
func mergeFactor(nums []factorTerm, n factorTerm) []factorTerm {
	if n.value == 1 || n.exponent == 0 {
		return nums
	}
	for i := range nums {
		if nums[i].value != n.value {
			continue
		}
		exp := dimension.Snap(nums[i].exponent + n.exponent)
		out := make([]factorTerm, 0, len(nums))
		out = append(out, nums[:i]...)
		if exp != 0 {
			out = append(out, factorTerm{value: n.value, exponent: exp})
		}

		return append(out, nums[i+1:]...)
	}

	return append(nums, n)
}

// Terms returns a copy of the symbolic terms.
func (u Units) Terms() []Term {
	out := make([]Term, len(u.terms))
	copy(out, u.terms)

	return out
}

// Dimension returns the dimension vector.
func (u Units) Dimension() dimension.Dimension {
	return u.dim
}

// Scale returns the multiplier to the SI base of the dimension.
func (u Units) Scale() float64 {
	if u.scale == 0 {
		return 1
	}

	return u.scale
}

// Offset returns the affine offset; zero for everything but bare temperature scales.
func (u Units) Offset() float64 {
	return u.offset
}

// Factor returns the residual numeric factor, e.g. 1000 for "1000*m".
func (u Units) Factor() float64 {
	if u.factor == 0 {
		return 1
	}

	return u.factor
}

// HasFactor reports whether the residual numeric factor differs from 1.
func (u Units) HasFactor() bool {
	return u.Factor() != 1
}

// IsEmpty reports whether the units were never specified ("" or "n/a").
func (u Units) IsEmpty() bool {
	return !u.set
}

// IsDimensionless reports whether every dimension exponent is zero.
func (u Units) IsDimensionless() bool {
	return u.dim.IsZero()
}

// IsUnitless reports whether values in u need no conversion to be read as
// plain numbers: dimensionless with scale 1. "" and "m/m" are unitless, "km/m"
// is not.
func (u Units) IsUnitless() bool {
	return u.IsDimensionless() && u.Scale() == 1
}

// IsIdentity reports whether multiplying by u changes nothing: no terms and factor 1.
func (u Units) IsIdentity() bool {
	return len(u.terms) == 0 && u.Factor() == 1
}

// IsAffine reports whether u carries an offset.
func (u Units) IsAffine() bool {
	return u.offset != 0
}

// IsCompatible reports whether u and o share a dimension.
func (u Units) IsCompatible(o Units) bool {
	return u.dim.Equal(o.dim)
}

// Equal reports whether u and o are compatible with identical scale and offset.
// Spelling does not matter: "m" equals "meter", "" equals "n/a".
func (u Units) Equal(o Units) bool {
	return u.IsCompatible(o) && u.Scale() == o.Scale() && u.offset == o.offset
}

// Fingerprint returns an xxHash64 of dimension, scale and offset. Equal units
// have equal fingerprints.
func (u Units) Fingerprint() uint64 {
	vals := make([]float64, 0, dimension.NumBase+2)
	vals = append(vals, u.dim[:]...)
	vals = append(vals, u.Scale(), u.offset+0)

	return hash.Float64s(vals...)
}

// PullFactor splits u into its residual numeric factor and the same units with
// factor 1.
func (u Units) PullFactor() (float64, Units) {
	f := u.Factor()
	if f == 1 {
		return 1, u
	}
	r := newUnits(u.terms, nil)
	r.set = u.set

	return f, r
}

// Mul returns a*b.
func Mul(a, b Units) (Units, error) {
	return combine(a, b, 1)
}

// Div returns a/b.
func Div(a, b Units) (Units, error) {
	return combine(a, b, -1)
}

// Pow returns u**e.
func Pow(u Units, e float64) (Units, error) {
	switch {
	case math.IsNaN(e) || math.IsInf(e, 0):
		return Units{}, fmt.Errorf("%w: exponent %v", errs.ErrInvalidOperation, e)
	case e == 1:
		return u, nil
	case e == 0:
		r := Dimensionless()
		r.set = u.set

		return r, nil
	case u.IsAffine():
		return Units{}, fmt.Errorf("%w: cannot raise offset units %q to a power", errs.ErrInvalidOperation, u)
	}

	terms := make([]Term, 0, len(u.terms))
	for _, t := range u.terms {
		t.Exponent = dimension.Snap(t.Exponent * e)
		if t.Exponent != 0 {
			terms = append(terms, t)
		}
	}
	nums := make([]factorTerm, 0, len(u.nums))
	for _, n := range u.nums {
		n.exponent = dimension.Snap(n.exponent * e)
		if n.exponent != 0 {
			nums = append(nums, n)
		}
	}
	r := newUnits(terms, nums)
	r.set = u.set

	return r, nil
}

func combine(a, b Units, sign float64) (Units, error) {
	if b.IsIdentity() {
		a.set = a.set || b.set
		return a, nil
	}
	if a.IsIdentity() && sign > 0 {
		b.set = true
		return b, nil
	}
	if a.IsAffine() || b.IsAffine() {
		op := "multiply"
		if sign < 0 {
			op = "divide"
		}

		return Units{}, fmt.Errorf("%w: cannot %s offset units %q and %q", errs.ErrInvalidOperation, op, a, b)
	}

	terms := make([]Term, 0, len(a.terms)+len(b.terms))
	terms = append(terms, a.terms...)
	for _, t := range b.terms {
		t.Exponent *= sign
		terms = mergeTerm(terms, t)
	}
	nums := make([]factorTerm, 0, len(a.nums)+len(b.nums))
	nums = append(nums, a.nums...)
	for _, n := range b.nums {
		n.exponent *= sign
		nums = mergeFactor(nums, n)
	}

	return newUnits(terms, nums), nil
}

// Mul returns u*o.
func (u Units) Mul(o Units) (Units, error) {
	return Mul(u, o)
}

// Div returns u/o.
func (u Units) Div(o Units) (Units, error) {
	return Div(u, o)
}

// Pow returns u**e.
func (u Units) Pow(e float64) (Units, error) {
	return Pow(u, e)
}

// MulInPlace sets u to u*o. u is unchanged on error.
func (u *Units) MulInPlace(o Units) error {
	r, err := Mul(*u, o)
	if err != nil {
		return err
	}
	*u = r

	return nil
}

// DivInPlace sets u to u/o. u is unchanged on error.
func (u *Units) DivInPlace(o Units) error {
	r, err := Div(*u, o)
	if err != nil {
		return err
	}
	*u = r

	return nil
}

// PowInPlace sets u to u**e. u is unchanged on error.
func (u *Units) PowInPlace(e float64) error {
	r, err := Pow(*u, e)
	if err != nil {
		return err
	}
	*u = r

	return nil
}

// ConversionFactor returns factor and offset such that a value v in from
// converts to (v - offset) * factor in to.
func ConversionFactor(from, to Units) (factor, offset float64, err error) {
	if !from.IsCompatible(to) {
		return 0, 0, fmt.Errorf("%w: cannot convert %q (%s) to %q (%s)",
			errs.ErrIncompatibleUnits, from, from.dim, to, to.dim)
	}
	fs, ts := from.Scale(), to.Scale()
	factor = fs / ts
	offset = from.offset - to.offset*ts/fs

	return factor, offset, nil
}

// Convert converts v from one unit to another.
func Convert(v float64, from, to Units) (float64, error) {
	factor, offset, err := ConversionFactor(from, to)
	if err != nil {
		return 0, err
	}

	return (v - offset) * factor, nil
}

// IsIdentityConversion reports whether converting from -> to leaves values unchanged.
func IsIdentityConversion(from, to Units) bool {
	return from.IsCompatible(to) && from.Scale() == to.Scale() && from.offset == to.offset
}

// MarshalText renders u in parseable form.
func (u Units) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText parses text with the default registry.
func (u *Units) UnmarshalText(text []byte) error {
	r, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = r

	return nil
}
