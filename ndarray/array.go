// Package ndarray is the default dense numeric buffer behind quantity arrays.
//
// An Array is a C-ordered, row-major block of scalar.Value elements of one
// kind. Sub views share their parent's storage; everything else copies.
// Element-wise operations follow the usual broadcasting rules: shapes are
// aligned from the right and axes of length one stretch to match.
package ndarray

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/scalar"
)

// Array is a dense n-dimensional array. A zero-dimensional Array holds one
// element.
type Array struct {
	kind   scalar.Kind
	shape  []int
	offset int
	data   []scalar.Value
}

func sizeOf(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension %d", errs.ErrShapeMismatch, d)
		}
		n *= d
	}

	return n, nil
}

func cloneShape(shape []int) []int {
	out := make([]int, len(shape))
	copy(out, shape)

	return out
}

// Zeros returns an array of the given kind and shape filled with zero.
func Zeros(kind scalar.Kind, shape ...int) (*Array, error) {
	return Full(scalar.Zero(kind), shape...)
}

// Full returns an array of the given shape with every element set to v.
func Full(v scalar.Value, shape ...int) (*Array, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: invalid fill value", errs.ErrIncompatibleValueType)
	}
	n, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	data := make([]scalar.Value, n)
	for i := range data {
		data[i] = v
	}

	return &Array{kind: v.Kind(), shape: cloneShape(shape), data: data}, nil
}

// Scalar returns a zero-dimensional array holding v.
func Scalar(v scalar.Value) *Array {
	return &Array{kind: v.Kind(), shape: []int{}, data: []scalar.Value{v}}
}

// FromValues builds an array of the given shape. The kind is the promotion of
// every element's kind; an empty array defaults to float64.
func FromValues(shape []int, vals []scalar.Value) (*Array, error) {
	n, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	if n != len(vals) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", errs.ErrShapeMismatch, shape, n, len(vals))
	}
	kind, err := commonKind(vals)
	if err != nil {
		return nil, err
	}

	return FromValuesKind(kind, shape, vals)
}

// FromValuesKind builds an array of the given kind and shape, converting
// each element into kind.
func FromValuesKind(kind scalar.Kind, shape []int, vals []scalar.Value) (*Array, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", errs.ErrIncompatibleValueType, kind)
	}
	n, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	if n != len(vals) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", errs.ErrShapeMismatch, shape, n, len(vals))
	}
	data := make([]scalar.Value, n)
	for i, v := range vals {
		if !v.IsValid() {
			return nil, fmt.Errorf("%w: invalid element %d", errs.ErrIncompatibleValueType, i)
		}
		data[i] = v.Convert(kind)
	}

	return &Array{kind: kind, shape: cloneShape(shape), data: data}, nil
}

// FromFloat64s builds a float64 array of the given shape.
func FromFloat64s(shape []int, vals []float64) (*Array, error) {
	n, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	if n != len(vals) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", errs.ErrShapeMismatch, shape, n, len(vals))
	}

	return &Array{kind: scalar.Float64, shape: cloneShape(shape), data: float64Values(vals)}, nil
}

func float64Values(vals []float64) []scalar.Value {
	data := make([]scalar.Value, len(vals))
	for i, f := range vals {
		data[i] = scalar.OfFloat64(f)
	}

	return data
}

func commonKind(vals []scalar.Value) (scalar.Kind, error) {
	if len(vals) == 0 {
		return scalar.Float64, nil
	}
	k := vals[0].Kind()
	for _, v := range vals[1:] {
		var err error
		if k, err = scalar.Promote(k, v.Kind()); err != nil {
			return scalar.Invalid, err
		}
	}

	return k, nil
}

// Wrap converts Go input into an array. It accepts *Array (returned as is),
// scalar.Value, Go numbers and bools, and nested slices or arrays of them.
// Ragged input fails with errs.ErrShapeMismatch.
func Wrap(input any) (*Array, error) {
	switch x := input.(type) {
	case *Array:
		return x, nil
	case []float64:
		return FromFloat64s([]int{len(x)}, x)
	case []scalar.Value:
		return FromValues([]int{len(x)}, x)
	}

	if v, err := scalar.Of(input); err == nil {
		return Scalar(v), nil
	}

	rv := reflect.ValueOf(input)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, fmt.Errorf("%w: cannot wrap %T", errs.ErrIncompatibleValueType, input)
	}

	var (
		shape []int
		vals  []scalar.Value
	)
	for v := rv; v.Kind() == reflect.Slice || v.Kind() == reflect.Array; {
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
		for v.Kind() == reflect.Interface {
			v = v.Elem()
		}
	}
	if err := flatten(rv, shape, &vals); err != nil {
		return nil, err
	}

	return FromValues(shape, vals)
}

func flatten(v reflect.Value, shape []int, out *[]scalar.Value) error {
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if len(shape) == 0 {
		if !v.IsValid() || !v.CanInterface() {
			return fmt.Errorf("%w: invalid element", errs.ErrIncompatibleValueType)
		}
		s, err := scalar.Of(v.Interface())
		if err != nil {
			return err
		}
		*out = append(*out, s)

		return nil
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Errorf("%w: ragged input", errs.ErrShapeMismatch)
	}
	if v.Len() != shape[0] {
		return fmt.Errorf("%w: ragged input: length %d, want %d", errs.ErrShapeMismatch, v.Len(), shape[0])
	}
	for i := 0; i < v.Len(); i++ {
		if err := flatten(v.Index(i), shape[1:], out); err != nil {
			return err
		}
	}

	return nil
}

// Kind returns the element kind.
func (a *Array) Kind() scalar.Kind {
	return a.kind
}

// Shape returns a copy of the shape.
func (a *Array) Shape() []int {
	return cloneShape(a.shape)
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.shape)
}

// Size returns the number of elements.
func (a *Array) Size() int {
	n, _ := sizeOf(a.shape)
	return n
}

// At returns the element at a flat row-major position.
func (a *Array) At(flat int) scalar.Value {
	return a.data[a.offset+flat]
}

// SetAt stores v at a flat row-major position, converting it into the array
// kind. Values that do not cast losslessly fail.
func (a *Array) SetAt(flat int, v scalar.Value) error {
	if flat < 0 || flat >= a.Size() {
		return fmt.Errorf("%w: flat index %d of %d", errs.ErrIndexOutOfRange, flat, a.Size())
	}
	c, err := v.Cast(a.kind)
	if err != nil {
		return err
	}
	a.data[a.offset+flat] = c

	return nil
}

// Index converts a multi-index into a flat position. Negative indices count
// from the end of their axis.
func (a *Array) Index(idx ...int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, fmt.Errorf("%w: %d indices for %d dimensions", errs.ErrIndexOutOfRange, len(idx), len(a.shape))
	}
	flat := 0
	for ax, i := range idx {
		d := a.shape[ax]
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

// Item returns the element at a multi-index.
func (a *Array) Item(idx ...int) (scalar.Value, error) {
	flat, err := a.Index(idx...)
	if err != nil {
		return scalar.Value{}, err
	}

	return a.At(flat), nil
}

// Sub returns a view of row i along the first axis. The view shares storage.
func (a *Array) Sub(i int) (*Array, error) {
	if len(a.shape) == 0 {
		return nil, fmt.Errorf("%w: cannot index a zero-dimensional array", errs.ErrIndexOutOfRange)
	}
	d := a.shape[0]
	if i < 0 {
		i += d
	}
	if i < 0 || i >= d {
		return nil, fmt.Errorf("%w: index %d on axis 0 of length %d", errs.ErrIndexOutOfRange, i, d)
	}
	rest := cloneShape(a.shape[1:])
	n, _ := sizeOf(rest)

	return &Array{kind: a.kind, shape: rest, offset: a.offset + i*n, data: a.data}, nil
}

// Copy returns a deep copy with its own storage.
func (a *Array) Copy() *Array {
	return &Array{kind: a.kind, shape: cloneShape(a.shape), data: a.Values()}
}

// Values returns a copy of the elements in row-major order.
func (a *Array) Values() []scalar.Value {
	out := make([]scalar.Value, a.Size())
	copy(out, a.data[a.offset:])

	return out
}

// Float64s returns the elements converted to float64.
func (a *Array) Float64s() []float64 {
	out := make([]float64, a.Size())
	for i := range out {
		out[i] = a.At(i).Float64()
	}

	return out
}

// AsKind returns a copy converted into kind k.
func (a *Array) AsKind(k scalar.Kind) *Array {
	vals := make([]scalar.Value, a.Size())
	for i := range vals {
		vals[i] = a.At(i).Convert(k)
	}

	return &Array{kind: k, shape: cloneShape(a.shape), data: vals}
}

// Reshape returns a view with a new shape of the same size.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	n, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	if n != a.Size() {
		return nil, fmt.Errorf("%w: cannot reshape %v into %v", errs.ErrShapeMismatch, a.shape, shape)
	}

	return &Array{kind: a.kind, shape: cloneShape(shape), offset: a.offset, data: a.data}, nil
}

// Uniform returns the value shared by every element. It reports false for
// empty arrays and for arrays holding more than one distinct value.
func (a *Array) Uniform() (scalar.Value, bool) {
	n := a.Size()
	if n == 0 {
		return scalar.Value{}, false
	}
	first := a.At(0)
	for i := 1; i < n; i++ {
		if !scalar.Equal(first, a.At(i)) {
			return scalar.Value{}, false
		}
	}

	return first, true
}

// All reports whether every element is non-zero.
func (a *Array) All() bool {
	for i := range a.Size() {
		if a.At(i).IsZero() {
			return false
		}
	}

	return true
}

// Any reports whether at least one element is non-zero.
func (a *Array) Any() bool {
	for i := range a.Size() {
		if !a.At(i).IsZero() {
			return true
		}
	}

	return false
}

// String renders the elements with nested brackets, e.g. "[[1 2] [3 4]]".
func (a *Array) String() string {
	var sb strings.Builder
	a.write(&sb, 0, 0)

	return sb.String()
}

func (a *Array) write(sb *strings.Builder, axis, flat int) {
	if axis == len(a.shape) {
		sb.WriteString(a.At(flat).String())
		return
	}
	stride := 1
	for _, d := range a.shape[axis+1:] {
		stride *= d
	}
	sb.WriteByte('[')
	for i := range a.shape[axis] {
		if i > 0 {
			sb.WriteByte(' ')
		}
		a.write(sb, axis+1, flat+i*stride)
	}
	sb.WriteByte(']')
}
