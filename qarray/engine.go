package qarray

import (
	"fmt"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/ndarray"
	"github.com/arloliu/qty/scalar"
)

// Buffer is the numeric storage behind an Array: a row-major block of
// elements of one kind.
type Buffer interface {
	Shape() []int
	Kind() scalar.Kind
	Size() int
	At(flat int) scalar.Value
	SetAt(flat int, v scalar.Value) error
}

// Engine creates buffers and evaluates named operations on them. An Engine
// knows nothing about units; the Dispatcher converts operands before calling
// Apply and labels the result afterwards.
type Engine interface {
	// Wrap converts Go input (numbers, nested slices, Buffers) into a Buffer.
	// A Buffer input may be returned as is.
	Wrap(input any) (Buffer, error)
	FromValues(kind scalar.Kind, shape []int, vals []scalar.Value) (Buffer, error)
	Full(v scalar.Value, shape ...int) (Buffer, error)
	// Sub returns a view of row i along the first axis sharing storage with b.
	Sub(b Buffer, i int) (Buffer, error)
	Copy(b Buffer) (Buffer, error)
	// Affine returns (b - offset) * factor in b's kind.
	Affine(b Buffer, offset, factor float64) (Buffer, error)
	Apply(op string, args []Buffer) (Buffer, error)
	Concatenate(bufs []Buffer) (Buffer, error)
	IsClose(a, b Buffer, rtol, atol float64) (Buffer, error)
}

// Dense returns the engine backed by package ndarray.
func Dense() Engine {
	return denseEngine{}
}

type denseEngine struct {
	nd ndarray.Engine
}

// dense returns b as an ndarray, copying foreign buffers.
func dense(b Buffer) (*ndarray.Array, error) {
	if a, ok := b.(*ndarray.Array); ok {
		return a, nil
	}
	vals := make([]scalar.Value, b.Size())
	for i := range vals {
		vals[i] = b.At(i)
	}

	return ndarray.FromValuesKind(b.Kind(), b.Shape(), vals)
}

func denseAll(bufs []Buffer) ([]*ndarray.Array, error) {
	out := make([]*ndarray.Array, len(bufs))
	for i, b := range bufs {
		a, err := dense(b)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}

	return out, nil
}

func (denseEngine) Wrap(input any) (Buffer, error) {
	var (
		a   *ndarray.Array
		err error
	)
	if b, ok := input.(Buffer); ok {
		a, err = dense(b)
	} else {
		a, err = ndarray.Wrap(input)
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (denseEngine) FromValues(kind scalar.Kind, shape []int, vals []scalar.Value) (Buffer, error) {
	a, err := ndarray.FromValuesKind(kind, shape, vals)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (denseEngine) Full(v scalar.Value, shape ...int) (Buffer, error) {
	a, err := ndarray.Full(v, shape...)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (denseEngine) Sub(b Buffer, i int) (Buffer, error) {
	a, err := dense(b)
	if err != nil {
		return nil, err
	}
	s, err := a.Sub(i)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (denseEngine) Copy(b Buffer) (Buffer, error) {
	if a, ok := b.(*ndarray.Array); ok {
		return a.Copy(), nil
	}

	// dense already copies foreign buffers
	a, err := dense(b)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (denseEngine) Affine(b Buffer, offset, factor float64) (Buffer, error) {
	a, err := dense(b)
	if err != nil {
		return nil, err
	}

	return ndarray.Affine(a, offset, factor), nil
}

func (e denseEngine) Apply(op string, args []Buffer) (Buffer, error) {
	as, err := denseAll(args)
	if err != nil {
		return nil, err
	}
	r, err := e.nd.Apply(op, as, nil)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (denseEngine) Concatenate(bufs []Buffer) (Buffer, error) {
	as, err := denseAll(bufs)
	if err != nil {
		return nil, err
	}
	r, err := ndarray.Concatenate(as)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (denseEngine) IsClose(a, b Buffer, rtol, atol float64) (Buffer, error) {
	x, err := dense(a)
	if err != nil {
		return nil, err
	}
	y, err := dense(b)
	if err != nil {
		return nil, err
	}
	r, err := ndarray.IsClose(x, y, rtol, atol)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// store copies src into dst. Shapes must match and src must cast losslessly
// into dst's kind; dst is untouched on failure.
func store(dst, src Buffer) error {
	if !sameShape(dst.Shape(), src.Shape()) {
		return fmt.Errorf("%w: cannot store %v into %v", errs.ErrShapeMismatch, src.Shape(), dst.Shape())
	}
	if !scalar.CanCast(src.Kind(), dst.Kind()) {
		return fmt.Errorf("%w: cannot store %s into %s", errs.ErrIncompatibleValueType, src.Kind(), dst.Kind())
	}
	for i := range src.Size() {
		if err := dst.SetAt(i, src.At(i)); err != nil {
			return err
		}
	}

	return nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// uniform returns the value shared by every element of b.
func uniform(b Buffer) (scalar.Value, bool) {
	n := b.Size()
	if n == 0 {
		return scalar.Value{}, false
	}
	first := b.At(0)
	for i := 1; i < n; i++ {
		if !scalar.Equal(first, b.At(i)) {
			return scalar.Value{}, false
		}
	}

	return first, true
}

// flatIndex converts a full multi-index into a row-major position.
func flatIndex(shape, idx []int) (int, error) {
	if len(idx) != len(shape) {
		return 0, fmt.Errorf("%w: %d indices for %d dimensions", errs.ErrIndexOutOfRange, len(idx), len(shape))
	}
	flat := 0
	for ax, i := range idx {
		d := shape[ax]
		if i < 0 {
			i += d
		}
		if i < 0 || i >= d {
			return 0, fmt.Errorf("%w: index %d on axis %d of length %d", errs.ErrIndexOutOfRange, idx[ax], ax, d)
		}
		flat = flat*d + i
	}

	return flat, nil
}
