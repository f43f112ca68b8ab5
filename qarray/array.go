// Package qarray implements arrays of numbers sharing one set of units.
//
// An Array pairs a Buffer with units.Units. Arithmetic goes through a
// Dispatcher, which consults the propagation table to convert operands and
// label results, then hands the raw buffers to an Engine. The default engine
// is the dense ndarray implementation.
package qarray

import (
	"fmt"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/internal/options"
	"github.com/arloliu/qty/quantity"
	"github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/units"
)

// UnitBearer is anything that reports units. Values that also implement
// Buffer take part in dispatch as unit-bearing operands.
type UnitBearer interface {
	Units() units.Units
}

// Array is a Buffer tagged with units. Arrays are not safe for concurrent
// mutation.
type Array struct {
	buf    Buffer
	units  units.Units
	engine Engine
}

type arrayConfig struct {
	units    units.Units
	hasUnits bool
	engine   Engine
}

// ArrayOption configures New.
type ArrayOption = options.Option[*arrayConfig]

// WithUnits sets the array units.
func WithUnits(u units.Units) ArrayOption {
	return options.NoError(func(c *arrayConfig) {
		c.units = u
		c.hasUnits = true
	})
}

// WithUnitsExpr parses expr with the default registry and sets the result as
// the array units.
func WithUnitsExpr(expr string) ArrayOption {
	return options.Named("WithUnitsExpr", func(c *arrayConfig) error {
		u, err := units.Parse(expr)
		if err != nil {
			return err
		}
		c.units = u
		c.hasUnits = true

		return nil
	})
}

// WithArrayEngine sets the engine that stores and computes the array.
func WithArrayEngine(e Engine) ArrayOption {
	return options.NoError(func(c *arrayConfig) {
		if e != nil {
			c.engine = e
		}
	})
}

// New creates an array from input, which may be an *Array, a
// quantity.Quantity, a Buffer (optionally bearing units), a Go number or a
// nested slice of numbers. The data is always copied.
//
// Units default to those borne by input, else empty. When input bears units
// and WithUnits names different ones, the values are converted. Otherwise any
// residual numeric factor of the units, such as the 1000 in "1000*m", is folded
// into the values.
func New(input any, opts ...ArrayOption) (*Array, error) {
	cfg := &arrayConfig{engine: Dense()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	e := cfg.engine

	var (
		buf    Buffer
		from   units.Units
		bears  bool
		source Buffer
	)
	switch x := input.(type) {
	case *Array:
		if x == nil {
			return nil, fmt.Errorf("%w: nil array", errs.ErrInvalidArrayData)
		}
		source, from, bears = x.buf, x.units, true
	case quantity.Quantity:
		b, err := e.Wrap(x.Value())
		if err != nil {
			return nil, err
		}
		source, from, bears = b, x.Units(), true
	case *quantity.Quantity:
		return New(*x, opts...)
	default:
		b, err := e.Wrap(input)
		if err != nil {
			return nil, err
		}
		source = b
		if ub, ok := input.(UnitBearer); ok {
			from, bears = ub.Units(), true
		}
	}

	if bears && cfg.hasUnits {
		factor, offset, err := units.ConversionFactor(from, cfg.units)
		if err != nil {
			return nil, err
		}
		if buf, err = e.Affine(source, offset, factor); err != nil {
			return nil, err
		}

		return &Array{buf: buf, units: cfg.units, engine: e}, nil
	}

	u := cfg.units
	if bears {
		u = from
	}
	factor, bare := u.PullFactor()
	buf, err := e.Affine(source, 0, factor)
	if err != nil {
		return nil, err
	}

	return &Array{buf: buf, units: bare, engine: e}, nil
}

// MustNew is New that panics on error.
func MustNew(input any, opts ...ArrayOption) *Array {
	a, err := New(input, opts...)
	if err != nil {
		panic(err)
	}

	return a
}

// Units returns the array units.
func (a *Array) Units() units.Units {
	return a.units
}

// Engine returns the engine the array was built with.
func (a *Array) Engine() Engine {
	return a.engine
}

// Shape returns the array shape.
func (a *Array) Shape() []int {
	return a.buf.Shape()
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.buf.Shape())
}

// Size returns the number of elements.
func (a *Array) Size() int {
	return a.buf.Size()
}

// Kind returns the element kind.
func (a *Array) Kind() scalar.Kind {
	return a.buf.Kind()
}

// Values returns the underlying buffer. Writes through it bypass unit checks.
func (a *Array) Values() Buffer {
	return a.buf
}

// ValuesCopy returns a copy of the underlying buffer.
func (a *Array) ValuesCopy() (Buffer, error) {
	return a.engine.Copy(a.buf)
}

// Float64s returns the values converted to float64 in row-major order.
func (a *Array) Float64s() []float64 {
	out := make([]float64, a.buf.Size())
	for i := range out {
		out[i] = a.buf.At(i).Float64()
	}

	return out
}

// IsDimensionless reports whether the units have no dimension.
func (a *Array) IsDimensionless() bool {
	return a.units.IsDimensionless()
}

// IsCompatible reports whether o's units share a's dimension.
func (a *Array) IsCompatible(o UnitBearer) bool {
	return a.units.IsCompatible(o.Units())
}

// IsEquivalent reports whether o has a's shape and, converted to a's units,
// a's values within conversion round-off.
func (a *Array) IsEquivalent(o *Array) bool {
	if !a.IsCompatible(o) || !sameShape(a.Shape(), o.Shape()) {
		return false
	}
	ok, err := AllClose(a, o, equivalenceTolerance, 0)

	return ok && err == nil
}

// equivalenceTolerance is the relative tolerance IsEquivalent allows.
const equivalenceTolerance = 1e-12

// To returns a copy converted to u. Integer kinds round to nearest.
func (a *Array) To(u units.Units) (*Array, error) {
	factor, offset, err := units.ConversionFactor(a.units, u)
	if err != nil {
		return nil, err
	}
	buf, err := a.engine.Affine(a.buf, offset, factor)
	if err != nil {
		return nil, err
	}

	return &Array{buf: buf, units: u, engine: a.engine}, nil
}

// ToExpr is To with a unit expression.
func (a *Array) ToExpr(expr string) (*Array, error) {
	u, err := units.Parse(expr)
	if err != nil {
		return nil, err
	}

	return a.To(u)
}

// SetUnits converts the values into u in place. a is unchanged on error.
func (a *Array) SetUnits(u units.Units) error {
	c, err := a.To(u)
	if err != nil {
		return err
	}
	a.buf, a.units = c.buf, c.units

	return nil
}

// Item returns the element at idx. Arrays whose units are dimensionless with
// scale 1 yield a bare scalar.Value; all others a quantity.Quantity, so a
// scale such as the 1000 in "km/m" is never dropped.
func (a *Array) Item(idx ...int) (any, error) {
	flat, err := flatIndex(a.buf.Shape(), idx)
	if err != nil {
		return nil, err
	}
	v := a.buf.At(flat)
	if a.units.IsUnitless() {
		return v, nil
	}

	return quantity.New(v, a.units)
}

// Quantity returns the element at idx as a quantity, whatever the units.
func (a *Array) Quantity(idx ...int) (quantity.Quantity, error) {
	flat, err := flatIndex(a.buf.Shape(), idx)
	if err != nil {
		return quantity.Quantity{}, err
	}

	return quantity.New(a.buf.At(flat), a.units)
}

// Sub returns row i along the first axis as an array sharing a's storage and
// units.
func (a *Array) Sub(i int) (*Array, error) {
	buf, err := a.engine.Sub(a.buf, i)
	if err != nil {
		return nil, err
	}

	return &Array{buf: buf, units: a.units, engine: a.engine}, nil
}

// SetItem stores value at idx. Quantities are converted into a's units
// first; plain numbers are taken to be in a's units already. The value must
// cast losslessly into the array kind.
func (a *Array) SetItem(value any, idx ...int) error {
	flat, err := flatIndex(a.buf.Shape(), idx)
	if err != nil {
		return err
	}

	var v scalar.Value
	switch x := value.(type) {
	case quantity.Quantity:
		c, err := x.To(a.units)
		if err != nil {
			return err
		}
		v = c.Value()
	case *quantity.Quantity:
		return a.SetItem(*x, idx...)
	default:
		if v, err = scalar.Of(value); err != nil {
			return err
		}
	}

	return a.buf.SetAt(flat, v)
}

// String renders the values followed by the units, e.g. "[1 2 3] m".
func (a *Array) String() string {
	var s string
	if st, ok := a.buf.(fmt.Stringer); ok {
		s = st.String()
	} else {
		s = fmt.Sprint(a.Float64s())
	}
	if u := a.units.String(); u != "" {
		return s + " " + u
	}

	return s
}
