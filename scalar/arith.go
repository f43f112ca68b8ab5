package scalar

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/arloliu/qty/errs"
)

// binaryOp holds one kernel per kind class. A nil kernel means the operation
// is not defined for that class.
type binaryOp struct {
	name     string
	signed   func(a, b int64) (int64, error)
	unsigned func(a, b uint64) (uint64, error)
	float    func(a, b float64) float64
	complex  func(a, b complex128) complex128
}

var (
	opAdd = binaryOp{
		name:     "add",
		signed:   func(a, b int64) (int64, error) { return a + b, nil },
		unsigned: func(a, b uint64) (uint64, error) { return a + b, nil },
		float:    func(a, b float64) float64 { return a + b },
		complex:  func(a, b complex128) complex128 { return a + b },
	}
	opSub = binaryOp{
		name:     "subtract",
		signed:   func(a, b int64) (int64, error) { return a - b, nil },
		unsigned: func(a, b uint64) (uint64, error) { return a - b, nil },
		float:    func(a, b float64) float64 { return a - b },
		complex:  func(a, b complex128) complex128 { return a - b },
	}
	opMul = binaryOp{
		name:     "multiply",
		signed:   func(a, b int64) (int64, error) { return a * b, nil },
		unsigned: func(a, b uint64) (uint64, error) { return a * b, nil },
		float:    func(a, b float64) float64 { return a * b },
		complex:  func(a, b complex128) complex128 { return a * b },
	}
	opDiv = binaryOp{
		name: "divide",
		signed: func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, errDivZero
			}

			return a / b, nil
		},
		unsigned: func(a, b uint64) (uint64, error) {
			if b == 0 {
				return 0, errDivZero
			}

			return a / b, nil
		},
		float:   func(a, b float64) float64 { return a / b },
		complex: func(a, b complex128) complex128 { return a / b },
	}
	opFloorDiv = binaryOp{
		name: "floor_divide",
		signed: func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, errDivZero
			}
			q := a / b
			if a%b != 0 && (a < 0) != (b < 0) {
				q--
			}

			return q, nil
		},
		unsigned: func(a, b uint64) (uint64, error) {
			if b == 0 {
				return 0, errDivZero
			}

			return a / b, nil
		},
		float: func(a, b float64) float64 { return math.Floor(a / b) },
	}
	opMod = binaryOp{
		name: "remainder",
		signed: func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, errDivZero
			}
			r := a % b
			if r != 0 && (r < 0) != (b < 0) {
				r += b
			}

			return r, nil
		},
		unsigned: func(a, b uint64) (uint64, error) {
			if b == 0 {
				return 0, errDivZero
			}

			return a % b, nil
		},
		float: FloorMod,
	}
	opFmod = binaryOp{
		name: "fmod",
		signed: func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, errDivZero
			}

			return a % b, nil
		},
		unsigned: func(a, b uint64) (uint64, error) {
			if b == 0 {
				return 0, errDivZero
			}

			return a % b, nil
		},
		float: math.Mod,
	}
	opPow = binaryOp{
		name: "power",
		signed: func(a, b int64) (int64, error) {
			if b < 0 {
				return 0, fmt.Errorf("%w: integers to negative integer powers are not allowed", errs.ErrInvalidOperation)
			}

			return ipow(a, uint64(b)), nil
		},
		unsigned: func(a, b uint64) (uint64, error) { return upow(a, b), nil },
		float:    math.Pow,
		complex:  cmplx.Pow,
	}
)

var errDivZero = fmt.Errorf("%w: integer division by zero", errs.ErrInvalidOperation)

// FloorMod returns the floored remainder of a/b; the result has the sign of b.
func FloorMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}

	return r
}

func ipow(base int64, exp uint64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}

	return result
}

func upow(base, exp uint64) uint64 {
	result := uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}

	return result
}

func apply(op binaryOp, a, b Value) (Value, error) {
	k, err := Promote(a.kind, b.kind)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", op.name, err)
	}
	x, y := a.Convert(k), b.Convert(k)

	switch {
	case k.IsSigned() && op.signed != nil:
		r, err := op.signed(x.i, y.i)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", op.name, err)
		}

		return Value{kind: k, i: wrapSigned(k, r)}, nil
	case k.IsUnsigned() && op.unsigned != nil:
		r, err := op.unsigned(x.u, y.u)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", op.name, err)
		}

		return Value{kind: k, u: wrapUnsigned(k, r)}, nil
	case k.IsFloat() && op.float != nil:
		return FromFloat64(k, op.float(x.f, y.f)), nil
	case k.IsComplex() && op.complex != nil:
		return FromComplex128(k, op.complex(x.c, y.c)), nil
	default:
		return Value{}, fmt.Errorf("%w: %s is not defined for %s", errs.ErrUnsupportedOperation, op.name, k)
	}
}

// Add returns a + b.
func Add(a, b Value) (Value, error) { return apply(opAdd, a, b) }

// Sub returns a - b.
func Sub(a, b Value) (Value, error) { return apply(opSub, a, b) }

// Mul returns a * b.
func Mul(a, b Value) (Value, error) { return apply(opMul, a, b) }

// Div returns a / b. Integer division truncates toward zero and fails on a zero divisor.
func Div(a, b Value) (Value, error) { return apply(opDiv, a, b) }

// FloorDiv returns floor(a / b).
func FloorDiv(a, b Value) (Value, error) { return apply(opFloorDiv, a, b) }

// Mod returns the floored remainder of a / b; the result takes the sign of b.
func Mod(a, b Value) (Value, error) { return apply(opMod, a, b) }

// Fmod returns the truncated remainder of a / b; the result takes the sign of a.
func Fmod(a, b Value) (Value, error) { return apply(opFmod, a, b) }

// Pow returns a ** b. Complex exponents are not supported.
func Pow(a, b Value) (Value, error) {
	if b.kind.IsComplex() {
		return Value{}, fmt.Errorf("%w: complex exponent", errs.ErrUnsupportedOperation)
	}

	return apply(opPow, a, b)
}

// TrueDiv returns a / b computed in floating point: integer operands are
// promoted to float64 first.
func TrueDiv(a, b Value) (Value, error) {
	if a.kind.IsInteger() && b.kind.IsInteger() {
		return OfFloat64(a.Float64() / b.Float64()), nil
	}

	return Div(a, b)
}

// Neg returns -v. Unsigned kinds wrap.
func Neg(v Value) Value {
	switch {
	case v.kind.IsSigned():
		return Value{kind: v.kind, i: wrapSigned(v.kind, -v.i)}
	case v.kind.IsUnsigned():
		return Value{kind: v.kind, u: wrapUnsigned(v.kind, -v.u)}
	case v.kind.IsFloat():
		return Value{kind: v.kind, f: -v.f}
	case v.kind.IsComplex():
		return Value{kind: v.kind, c: -v.c}
	default:
		return v
	}
}

// Abs returns |v|. Complex values keep their kind and have a zero imaginary part.
func Abs(v Value) Value {
	switch {
	case v.kind.IsSigned():
		if v.i < 0 {
			return Neg(v)
		}

		return v
	case v.kind.IsFloat():
		return Value{kind: v.kind, f: math.Abs(v.f)}
	case v.kind.IsComplex():
		return FromComplex128(v.kind, complex(cmplx.Abs(v.c), 0))
	default:
		return v
	}
}

// Cmp compares a and b after promotion, returning -1, 0 or +1. NaN operands and
// complex kinds are unordered and fail with errs.ErrUnsupportedOperation.
func Cmp(a, b Value) (int, error) {
	k, err := Promote(a.kind, b.kind)
	if err != nil {
		return 0, err
	}
	x, y := a.Convert(k), b.Convert(k)

	switch {
	case k.IsSigned():
		return cmp3(x.i < y.i, x.i > y.i), nil
	case k.IsUnsigned() || k == Bool:
		return cmp3(x.u < y.u, x.u > y.u), nil
	case k.IsFloat():
		if math.IsNaN(x.f) || math.IsNaN(y.f) {
			return 0, fmt.Errorf("%w: NaN is unordered", errs.ErrUnsupportedOperation)
		}

		return cmp3(x.f < y.f, x.f > y.f), nil
	default:
		return 0, fmt.Errorf("%w: %s values are unordered", errs.ErrUnsupportedOperation, k)
	}
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}

// Equal reports whether a and b are numerically equal after promotion.
// Kinds that cannot be promoted compare unequal; NaN never equals anything.
func Equal(a, b Value) bool {
	k, err := Promote(a.kind, b.kind)
	if err != nil {
		return false
	}
	x, y := a.Convert(k), b.Convert(k)

	switch {
	case k.IsSigned():
		return x.i == y.i
	case k.IsUnsigned() || k == Bool:
		return x.u == y.u
	case k.IsFloat():
		return x.f == y.f
	default:
		return x.c == y.c
	}
}

// Less reports a < b with NaN comparing false, the way IEEE ordering does.
// Complex operands fail.
func Less(a, b Value) (bool, error) {
	return order(a, b, func(c int) bool { return c < 0 })
}

// LessEqual reports a <= b.
func LessEqual(a, b Value) (bool, error) {
	return order(a, b, func(c int) bool { return c <= 0 })
}

// Greater reports a > b.
func Greater(a, b Value) (bool, error) {
	return order(a, b, func(c int) bool { return c > 0 })
}

// GreaterEqual reports a >= b.
func GreaterEqual(a, b Value) (bool, error) {
	return order(a, b, func(c int) bool { return c >= 0 })
}

func order(a, b Value, pred func(int) bool) (bool, error) {
	if a.kind.IsComplex() || b.kind.IsComplex() {
		return false, fmt.Errorf("%w: complex values are unordered", errs.ErrUnsupportedOperation)
	}
	if a.IsNaN() || b.IsNaN() {
		if _, err := Promote(a.kind, b.kind); err != nil {
			return false, err
		}

		return false, nil
	}
	c, err := Cmp(a, b)
	if err != nil {
		return false, err
	}

	return pred(c), nil
}
