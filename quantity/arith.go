package quantity

import (
	"fmt"

	"github.com/arloliu/qty/errs"
	num "github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/units"
)

// aligned converts o into q's units, failing when the dimensions differ.
func (q Quantity) aligned(o Quantity, op string) (num.Value, error) {
	factor, offset, err := units.ConversionFactor(o.units, q.units)
	if err != nil {
		return num.Value{}, fmt.Errorf("%s: %w", op, err)
	}
	// convert in the promoted kind so float operands keep their fraction
	k, err := num.Promote(q.Kind(), o.Kind())
	if err != nil {
		return num.Value{}, fmt.Errorf("%s: %w", op, err)
	}

	return convert(o.value.Convert(k), offset, factor), nil
}

// Add returns q + o in q's units.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	v, err := q.aligned(o, "add")
	if err != nil {
		return Quantity{}, err
	}
	r, err := num.Add(q.value, v)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{value: r, units: q.units}, nil
}

// Sub returns q - o in q's units.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	v, err := q.aligned(o, "subtract")
	if err != nil {
		return Quantity{}, err
	}
	r, err := num.Sub(q.value, v)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{value: r, units: q.units}, nil
}

// Mod returns the floored remainder of q / o in q's units.
func (q Quantity) Mod(o Quantity) (Quantity, error) {
	v, err := q.aligned(o, "remainder")
	if err != nil {
		return Quantity{}, err
	}
	r, err := num.Mod(q.value, v)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{value: r, units: q.units}, nil
}

// Mul returns q * o with multiplied units.
func (q Quantity) Mul(o Quantity) (Quantity, error) {
	return q.combine(o, units.Mul, num.Mul)
}

// Div returns q / o with divided units. Integer kinds truncate.
func (q Quantity) Div(o Quantity) (Quantity, error) {
	return q.combine(o, units.Div, num.Div)
}

// FloorDiv returns floor(q / o) with divided units.
func (q Quantity) FloorDiv(o Quantity) (Quantity, error) {
	return q.combine(o, units.Div, num.FloorDiv)
}

func (q Quantity) combine(
	o Quantity,
	unitsOp func(a, b units.Units) (units.Units, error),
	valueOp func(a, b num.Value) (num.Value, error),
) (Quantity, error) {
	u, err := unitsOp(q.units, o.units)
	if err != nil {
		return Quantity{}, err
	}
	v, err := valueOp(q.value, o.value)
	if err != nil {
		return Quantity{}, err
	}
	factor, bare := u.PullFactor()

	return Quantity{value: convert(v, 0, factor), units: bare}, nil
}

// Scale returns q multiplied by a plain number, keeping q's units.
func (q Quantity) Scale(factor any) (Quantity, error) {
	f, err := num.Of(factor)
	if err != nil {
		return Quantity{}, err
	}
	v, err := num.Mul(q.value, f)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{value: v, units: q.units}, nil
}

// Pow returns q ** exp, optionally reduced modulo mod.
//
// exp is a Go number, a scalar.Value or a Quantity whose units are unitless, such as ""
// or "m/m"; other exponent units and complex exponents fail with
// errs.ErrUnsupportedOperation.
// mod, when non-nil, must be compatible with the result and is converted into
// the result units first.
func (q Quantity) Pow(exp any, mod *Quantity) (Quantity, error) {
	e, err := exponentValue(exp)
	if err != nil {
		return Quantity{}, err
	}

	u, err := units.Pow(q.units, e.Float64())
	if err != nil {
		return Quantity{}, err
	}
	v, err := num.Pow(q.value, e)
	if err != nil {
		return Quantity{}, err
	}
	factor, bare := u.PullFactor()
	r := Quantity{value: convert(v, 0, factor), units: bare}

	if mod == nil {
		return r, nil
	}

	return r.Mod(*mod)
}

func exponentValue(exp any) (num.Value, error) {
	var e num.Value
	switch x := exp.(type) {
	case Quantity:
		if !x.units.IsUnitless() {
			return num.Value{}, fmt.Errorf("%w: exponent carries units %q", errs.ErrUnsupportedOperation, x.units)
		}
		e = x.value
	case *Quantity:
		return exponentValue(*x)
	default:
		v, err := num.Of(exp)
		if err != nil {
			return num.Value{}, err
		}
		e = v
	}
	if e.Kind().IsComplex() {
		return num.Value{}, fmt.Errorf("%w: complex exponent", errs.ErrUnsupportedOperation)
	}

	return e, nil
}

// Neg returns -q.
func (q Quantity) Neg() Quantity {
	return Quantity{value: num.Neg(q.value), units: q.units}
}

// Abs returns |q|.
func (q Quantity) Abs() Quantity {
	return Quantity{value: num.Abs(q.value), units: q.units}
}

func (q *Quantity) assign(r Quantity, err error) error {
	if err != nil {
		return err
	}
	*q = r

	return nil
}

// AddInPlace sets q to q + o. q is unchanged on error.
func (q *Quantity) AddInPlace(o Quantity) error {
	return q.assign(q.Add(o))
}

// SubInPlace sets q to q - o.
func (q *Quantity) SubInPlace(o Quantity) error {
	return q.assign(q.Sub(o))
}

// MulInPlace sets q to q * o.
func (q *Quantity) MulInPlace(o Quantity) error {
	return q.assign(q.Mul(o))
}

// DivInPlace sets q to q / o.
func (q *Quantity) DivInPlace(o Quantity) error {
	return q.assign(q.Div(o))
}

// FloorDivInPlace sets q to floor(q / o).
func (q *Quantity) FloorDivInPlace(o Quantity) error {
	return q.assign(q.FloorDiv(o))
}

// ModInPlace sets q to q mod o.
func (q *Quantity) ModInPlace(o Quantity) error {
	return q.assign(q.Mod(o))
}

// PowInPlace sets q to q ** exp.
func (q *Quantity) PowInPlace(exp any) error {
	return q.assign(q.Pow(exp, nil))
}
