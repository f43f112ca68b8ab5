package ndarray

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/scalar"
)

// Engine evaluates named element-wise operations. The zero Engine is ready
// to use.
type Engine struct{}

// Ops returns the names of every supported operation with the given arity.
func (Engine) Ops(arity int) []string {
	var names []string
	switch arity {
	case 1:
		for n := range unaryKernels {
			names = append(names, n)
		}
	case 2:
		for n := range binaryKernels {
			names = append(names, n)
		}
		names = append(names, "matmul")
	}
	sort.Strings(names)

	return names
}

// Supports reports whether op is defined for arity operands.
func (Engine) Supports(op string, arity int) bool {
	switch arity {
	case 1:
		_, ok := unaryKernels[op]
		return ok
	case 2:
		_, ok := binaryKernels[op]
		return ok || op == "matmul"
	default:
		return false
	}
}

// Apply evaluates op on args. When out is non-nil the result is written into
// it and out is returned; out keeps its kind, and results that do not cast
// losslessly into it fail. Nothing is written when evaluation fails.
func (e Engine) Apply(op string, args []*Array, out *Array) (*Array, error) {
	var (
		res *Array
		err error
	)
	switch {
	case len(args) == 1 && e.Supports(op, 1):
		res, err = applyUnary(unaryKernels[op], args[0])
	case len(args) == 2 && op == "matmul":
		res, err = MatMul(args[0], args[1])
	case len(args) == 2 && e.Supports(op, 2):
		res, err = applyBinary(binaryKernels[op], args[0], args[1])
	default:
		err = fmt.Errorf("%w: no kernel for %s with %d operand(s)", errs.ErrUnsupportedOperation, op, len(args))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out == nil {
		return res, nil
	}
	if err := Assign(out, res); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Assign copies src into dst element by element. Shapes must match and src
// must cast losslessly into dst's kind.
func Assign(dst, src *Array) error {
	if !equalShape(dst.shape, src.shape) {
		return fmt.Errorf("%w: cannot store %v into %v", errs.ErrShapeMismatch, src.shape, dst.shape)
	}
	if !scalar.CanCast(src.kind, dst.kind) {
		return fmt.Errorf("%w: cannot store %s into %s", errs.ErrIncompatibleValueType, src.kind, dst.kind)
	}
	vals := src.Values()
	for i, v := range vals {
		dst.data[dst.offset+i] = v.Convert(dst.kind)
	}

	return nil
}

func applyUnary(kern unaryKernel, a *Array) (*Array, error) {
	k, err := kern.result(a.kind)
	if err != nil {
		return nil, err
	}
	vals := make([]scalar.Value, a.Size())
	for i := range vals {
		r, err := kern.eval(a.At(i), k)
		if err != nil {
			return nil, err
		}
		vals[i] = r.Convert(k)
	}

	return &Array{kind: k, shape: a.Shape(), data: vals}, nil
}

func applyBinary(kern binaryKernel, a, b *Array) (*Array, error) {
	k, err := kern.result(a.kind, b.kind)
	if err != nil {
		return nil, err
	}
	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}

	if kern.f64 != nil && k == scalar.Float64 && a.kind == scalar.Float64 && b.kind == scalar.Float64 &&
		equalShape(a.shape, b.shape) {
		dst := make([]float64, a.Size())
		kern.f64(dst, a.Float64s(), b.Float64s())

		return &Array{kind: k, shape: shape, data: float64Values(dst)}, nil
	}

	ia, ib := newIndexer(a.shape, shape), newIndexer(b.shape, shape)
	n, _ := sizeOf(shape)
	vals := make([]scalar.Value, n)
	for i := range vals {
		r, err := kern.eval(a.At(ia.at(i)), b.At(ib.at(i)), k)
		if err != nil {
			return nil, err
		}
		vals[i] = r.Convert(k)
	}

	return &Array{kind: k, shape: shape, data: vals}, nil
}

// Affine returns (a - offset) * factor in a's kind. This is the unit
// conversion kernel for whole arrays.
func Affine(a *Array, offset, factor float64) *Array {
	if offset == 0 && factor == 1 {
		return a.Copy()
	}
	if a.kind == scalar.Float64 {
		vals := a.Float64s()
		floats.AddConst(-offset, vals)
		floats.Scale(factor, vals)

		return &Array{kind: a.kind, shape: a.Shape(), data: float64Values(vals)}
	}
	vals := make([]scalar.Value, a.Size())
	for i := range vals {
		vals[i] = a.At(i).Affine(offset, factor)
	}

	return &Array{kind: a.kind, shape: a.Shape(), data: vals}
}

// MatMul returns the matrix product of one- or two-dimensional arrays. A
// one-dimensional left operand is a row vector and a one-dimensional right
// operand a column vector; their unit axes are dropped from the result.
func MatMul(a, b *Array) (*Array, error) {
	if a.NDim() == 0 || b.NDim() == 0 {
		return nil, fmt.Errorf("%w: matmul needs at least one dimension", errs.ErrShapeMismatch)
	}
	if a.NDim() > 2 || b.NDim() > 2 {
		return nil, fmt.Errorf("%w: matmul on more than two dimensions", errs.ErrUnsupportedOperation)
	}
	k, err := scalar.Promote(a.kind, b.kind)
	if err != nil {
		return nil, err
	}

	rows, inner := 1, a.shape[0]
	if a.NDim() == 2 {
		rows, inner = a.shape[0], a.shape[1]
	}
	bInner, cols := b.shape[0], 1
	if b.NDim() == 2 {
		cols = b.shape[1]
	}
	if inner != bInner {
		return nil, fmt.Errorf("%w: matmul %v by %v", errs.ErrShapeMismatch, a.shape, b.shape)
	}
	shape := []int{}
	if a.NDim() == 2 {
		shape = append(shape, rows)
	}
	if b.NDim() == 2 {
		shape = append(shape, cols)
	}

	vals := make([]scalar.Value, rows*cols)
	if k.IsFloat() && rows > 0 && inner > 0 && cols > 0 {
		var c mat.Dense
		c.Mul(mat.NewDense(rows, inner, a.Float64s()), mat.NewDense(inner, cols, b.Float64s()))
		for i := range rows {
			for j := range cols {
				vals[i*cols+j] = scalar.FromFloat64(k, c.At(i, j))
			}
		}

		return &Array{kind: k, shape: shape, data: vals}, nil
	}

	for i := range rows {
		for j := range cols {
			acc := scalar.Zero(k)
			for p := range inner {
				prod, err := scalar.Mul(a.At(i*inner+p).Convert(k), b.At(p*cols+j).Convert(k))
				if err != nil {
					return nil, err
				}
				if acc, err = scalar.Add(acc, prod); err != nil {
					return nil, err
				}
			}
			vals[i*cols+j] = acc
		}
	}

	return &Array{kind: k, shape: shape, data: vals}, nil
}

// Concatenate joins arrays along the first axis. Trailing shapes must match;
// the result kind is the promotion of every input kind.
func Concatenate(arrays []*Array) (*Array, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", errs.ErrShapeMismatch)
	}
	first := arrays[0]
	if first.NDim() == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional arrays cannot be concatenated", errs.ErrShapeMismatch)
	}
	k := first.kind
	rows := 0
	for _, a := range arrays {
		if a.NDim() != first.NDim() || !equalShape(a.shape[1:], first.shape[1:]) {
			return nil, fmt.Errorf("%w: cannot concatenate %v with %v", errs.ErrShapeMismatch, first.shape, a.shape)
		}
		var err error
		if k, err = scalar.Promote(k, a.kind); err != nil {
			return nil, err
		}
		rows += a.shape[0]
	}

	shape := first.Shape()
	shape[0] = rows
	vals := make([]scalar.Value, 0, rows*(first.Size()/max(first.shape[0], 1)))
	for _, a := range arrays {
		for i := range a.Size() {
			vals = append(vals, a.At(i).Convert(k))
		}
	}

	return &Array{kind: k, shape: shape, data: vals}, nil
}

// IsClose compares a and b element-wise with |a - b| <= atol + rtol*|b|.
// NaN is never close; equal infinities are.
func IsClose(a, b *Array, rtol, atol float64) (*Array, error) {
	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}
	ia, ib := newIndexer(a.shape, shape), newIndexer(b.shape, shape)
	n, _ := sizeOf(shape)
	vals := make([]scalar.Value, n)
	for i := range vals {
		x, y := a.At(ia.at(i)), b.At(ib.at(i))
		vals[i] = scalar.OfBool(isClose(x, y, rtol, atol))
	}

	return &Array{kind: scalar.Bool, shape: shape, data: vals}, nil
}

func isClose(x, y scalar.Value, rtol, atol float64) bool {
	if x.Kind().IsComplex() || y.Kind().IsComplex() {
		cx, cy := x.Complex128(), y.Complex128()
		if cmplx.IsNaN(cx) || cmplx.IsNaN(cy) {
			return false
		}
		if cx == cy {
			return true
		}

		return cmplx.Abs(cx-cy) <= atol+rtol*cmplx.Abs(cy)
	}
	fx, fy := x.Float64(), y.Float64()
	if math.IsNaN(fx) || math.IsNaN(fy) {
		return false
	}
	if fx == fy {
		return true
	}

	return math.Abs(fx-fy) <= atol+rtol*math.Abs(fy)
}
