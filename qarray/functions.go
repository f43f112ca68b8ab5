package qarray

import (
	"fmt"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/ndarray"
	"github.com/arloliu/qty/scalar"
)

// Default tolerances of IsClose and AllClose.
const (
	DefaultRTol = 1e-5
	DefaultATol = 1e-8
)

// Concatenate joins arrays along the first axis. Every array is converted to
// the units of the first; incompatible units fail.
func Concatenate(arrays ...*Array) (*Array, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("concatenate: %w: no arrays", errs.ErrShapeMismatch)
	}
	first := arrays[0]
	bufs := make([]Buffer, len(arrays))
	for i, a := range arrays {
		c, err := a.To(first.units)
		if err != nil {
			return nil, fmt.Errorf("concatenate: array %d: %w", i, err)
		}
		bufs[i] = c.buf
	}
	buf, err := first.engine.Concatenate(bufs)
	if err != nil {
		return nil, fmt.Errorf("concatenate: %w", err)
	}

	return &Array{buf: buf, units: first.units, engine: first.engine}, nil
}

// ArrayEqual reports whether a and b have the same shape and, after
// converting b into a's units, equal elements. Incompatible units are unequal.
func ArrayEqual(a, b *Array) bool {
	if !sameShape(a.Shape(), b.Shape()) {
		return false
	}

	return ArrayEquiv(a, b)
}

// ArrayEquiv is ArrayEqual for shapes that broadcast to each other.
func ArrayEquiv(a, b *Array) bool {
	if !a.IsCompatible(b) {
		return false
	}
	r, err := a.Apply("equal", b)
	if err != nil {
		return false
	}

	return all(r.buf)
}

// IsClose compares a and b element-wise with |a - b| <= atol + rtol*|b| after
// converting b into a's units; atol is in a's units. Incompatible units give
// an all-false result. The result has empty units.
func IsClose(a, b *Array, rtol, atol float64) (*Array, error) {
	if !a.IsCompatible(b) {
		shape, err := ndarray.BroadcastShapes(a.Shape(), b.Shape())
		if err != nil {
			return nil, fmt.Errorf("isclose: %w", err)
		}
		buf, err := a.engine.Full(scalar.OfBool(false), shape...)
		if err != nil {
			return nil, err
		}

		return &Array{buf: buf, engine: a.engine}, nil
	}
	c, err := b.To(a.units)
	if err != nil {
		return nil, fmt.Errorf("isclose: %w", err)
	}
	buf, err := a.engine.IsClose(a.buf, c.buf, rtol, atol)
	if err != nil {
		return nil, fmt.Errorf("isclose: %w", err)
	}

	return &Array{buf: buf, engine: a.engine}, nil
}

// AllClose reports whether every element of IsClose(a, b, rtol, atol) holds.
// Incompatible units give false without error.
func AllClose(a, b *Array, rtol, atol float64) (bool, error) {
	if !a.IsCompatible(b) {
		return false, nil
	}
	r, err := IsClose(a, b, rtol, atol)
	if err != nil {
		return false, err
	}

	return all(r.buf), nil
}

func all(b Buffer) bool {
	for i := range b.Size() {
		if b.At(i).IsZero() {
			return false
		}
	}

	return true
}
