// Package dimension implements the base-dimension exponent vector used by units.
//
// A Dimension records one exponent per base dimension. Exponents are float64 so
// that fractional powers such as sqrt(m) stay representable.
package dimension

import (
	"math"
	"strconv"
	"strings"
)

// Base identifies a base dimension.
type Base uint8

const (
	Length Base = iota
	Mass
	Time
	Temperature
	Current
	Amount
	Luminosity
	Angle // pseudo-dimension so that rad and deg stay distinguishable from plain numbers

	// NumBase is the number of base dimensions.
	NumBase = 8
)

const (
	// snapTolerance is how close an exponent must be to a snap point to be moved onto it.
	snapTolerance = 1e-9
	// snapDenominator is lcm(1..12); snap points are its multiples' reciprocals,
	// so halves, thirds, tenths and twelfths all have one canonical float.
	snapDenominator = 27720
)

var baseNames = [NumBase]string{
	"length", "mass", "time", "temperature", "current", "amount", "luminosity", "angle",
}

// String returns the lower-case name of the base dimension.
func (b Base) String() string {
	if int(b) < NumBase {
		return baseNames[b]
	}

	return "Base(" + strconv.Itoa(int(b)) + ")"
}

// ParseBase returns the base dimension with the given name.
func ParseBase(name string) (Base, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range baseNames {
		if n == name {
			return Base(i), true
		}
	}

	return 0, false
}

// Dimension is an exponent vector over the base dimensions.
// The zero value is dimensionless.
type Dimension [NumBase]float64

// Of returns the dimension with exponent 1 for the given base.
func Of(b Base) Dimension {
	var d Dimension
	d[b] = 1

	return d
}

// Add returns d + o, the dimension of a product.
func (d Dimension) Add(o Dimension) Dimension {
	for i := range d {
		d[i] = Snap(d[i] + o[i])
	}

	return d
}

// Sub returns d - o, the dimension of a quotient.
func (d Dimension) Sub(o Dimension) Dimension {
	for i := range d {
		d[i] = Snap(d[i] - o[i])
	}

	return d
}

// Scale returns every exponent multiplied by e, the dimension of a power.
func (d Dimension) Scale(e float64) Dimension {
	for i := range d {
		d[i] = Snap(d[i] * e)
	}

	return d
}

// Equal reports whether both dimensions have identical exponents.
func (d Dimension) Equal(o Dimension) bool {
	return d == o
}

// IsZero reports whether the dimension is dimensionless.
func (d Dimension) IsZero() bool {
	return d == Dimension{}
}

// IsAngle reports whether the dimension is exactly one power of angle.
func (d Dimension) IsAngle() bool {
	return d == Of(Angle)
}

// String renders non-zero exponents, e.g. "length*time**-1".
func (d Dimension) String() string {
	if d.IsZero() {
		return "dimensionless"
	}

	var sb strings.Builder
	for i, e := range d {
		if e == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('*')
		}
		sb.WriteString(baseNames[i])
		if e != 1 {
			sb.WriteString("**")
			sb.WriteString(strconv.FormatFloat(e, 'g', -1, 64))
		}
	}

	return sb.String()
}

// Snap rounds an exponent onto the nearest multiple of 1/27720 when it is
// within rounding noise of it, e.g. 0.10000000000000003 becomes 0.1 and
// 1.9999999999 becomes 2.
func Snap(v float64) float64 {
	n := math.Round(v * snapDenominator)
	r := n / snapDenominator
	if math.Abs(v-r) < snapTolerance {
		if n == 0 {
			return 0 // normalise -0
		}

		return r
	}

	return v
}
