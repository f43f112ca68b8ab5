package ndarray

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/scalar"
)

type unaryKernel struct {
	result func(k scalar.Kind) (scalar.Kind, error)
	eval   func(v scalar.Value, k scalar.Kind) (scalar.Value, error)
}

type binaryKernel struct {
	result func(a, b scalar.Kind) (scalar.Kind, error)
	eval   func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error)
	// f64 computes dst from equally shaped float64 operands.
	f64 func(dst, a, b []float64)
}

func sameKind(k scalar.Kind) (scalar.Kind, error) { return k, nil }

func boolKind(scalar.Kind) (scalar.Kind, error) { return scalar.Bool, nil }

// floatKind keeps float and complex kinds and moves everything else to float64.
func floatKind(k scalar.Kind) (scalar.Kind, error) {
	if k.IsFloat() || k.IsComplex() {
		return k, nil
	}

	return scalar.Float64, nil
}

func realFloatKind(k scalar.Kind) (scalar.Kind, error) {
	if k.IsComplex() {
		return scalar.Invalid, fmt.Errorf("%w: complex input", errs.ErrUnsupportedOperation)
	}

	return floatKind(k)
}

// absKind maps complex kinds to the float kind of their magnitude.
func absKind(k scalar.Kind) (scalar.Kind, error) {
	switch k {
	case scalar.Complex64:
		return scalar.Float32, nil
	case scalar.Complex128:
		return scalar.Float64, nil
	default:
		return k, nil
	}
}

func promoted(a, b scalar.Kind) (scalar.Kind, error) { return scalar.Promote(a, b) }

func promotedBool(a, b scalar.Kind) (scalar.Kind, error) {
	if _, err := scalar.Promote(a, b); err != nil {
		return scalar.Invalid, err
	}

	return scalar.Bool, nil
}

func promotedRealFloat(a, b scalar.Kind) (scalar.Kind, error) {
	k, err := scalar.Promote(a, b)
	if err != nil {
		return scalar.Invalid, err
	}

	return realFloatKind(k)
}

func promotedDivide(a, b scalar.Kind) (scalar.Kind, error) {
	k, err := scalar.Promote(a, b)
	if err != nil {
		return scalar.Invalid, err
	}
	if k.IsInteger() || k.IsBool() {
		return scalar.Float64, nil
	}

	return k, nil
}

func promotedInteger(a, b scalar.Kind) (scalar.Kind, error) {
	k, err := scalar.Promote(a, b)
	if err != nil {
		return scalar.Invalid, err
	}
	if !k.IsInteger() && !k.IsBool() {
		return scalar.Invalid, fmt.Errorf("%w: bitwise operation on %s", errs.ErrUnsupportedOperation, k)
	}

	return k, nil
}

func widestFloat(a, b scalar.Kind) (scalar.Kind, error) {
	if a.IsComplex() || b.IsComplex() {
		return scalar.Complex128, nil
	}

	return scalar.Float64, nil
}

// mathFunc evaluates a float function in kind k; fc may be nil when the
// function has no complex form.
func mathFunc(fr func(float64) float64, fc func(complex128) complex128) func(scalar.Value, scalar.Kind) (scalar.Value, error) {
	return func(v scalar.Value, k scalar.Kind) (scalar.Value, error) {
		if k.IsComplex() {
			if fc == nil {
				return scalar.Value{}, fmt.Errorf("%w: complex input", errs.ErrUnsupportedOperation)
			}

			return scalar.FromComplex128(k, fc(v.Complex128())), nil
		}

		return scalar.FromFloat64(k, fr(v.Float64())), nil
	}
}

// roundFunc applies a rounding function to float kinds and leaves integers alone.
func roundFunc(f func(float64) float64) func(scalar.Value, scalar.Kind) (scalar.Value, error) {
	return func(v scalar.Value, k scalar.Kind) (scalar.Value, error) {
		switch {
		case k.IsComplex():
			return scalar.Value{}, fmt.Errorf("%w: complex input", errs.ErrUnsupportedOperation)
		case k.IsFloat():
			return scalar.FromFloat64(k, f(v.Float64())), nil
		default:
			return v.Convert(k), nil
		}
	}
}

func predicate(fr func(float64) bool, fc func(complex128) bool) func(scalar.Value, scalar.Kind) (scalar.Value, error) {
	return func(v scalar.Value, _ scalar.Kind) (scalar.Value, error) {
		switch {
		case v.Kind().IsComplex():
			return scalar.OfBool(fc(v.Complex128())), nil
		case v.Kind().IsFloat():
			return scalar.OfBool(fr(v.Float64())), nil
		default:
			return scalar.OfBool(fr(0)), nil
		}
	}
}

func sign(v scalar.Value, k scalar.Kind) (scalar.Value, error) {
	switch {
	case k.IsComplex():
		c := v.Complex128()
		if c == 0 {
			return scalar.Zero(k), nil
		}

		return scalar.FromComplex128(k, c/complex(cmplx.Abs(c), 0)), nil
	case k.IsFloat() && v.IsNaN():
		return v, nil
	case v.IsZero():
		return scalar.Zero(k), nil
	case k.IsUnsigned() || k.IsBool():
		return scalar.FromFloat64(k, 1), nil
	default:
		return scalar.FromFloat64(k, math.Copysign(1, v.Float64())), nil
	}
}

func signbit(v scalar.Value, _ scalar.Kind) (scalar.Value, error) {
	switch {
	case v.Kind().IsComplex():
		return scalar.Value{}, fmt.Errorf("%w: signbit of complex", errs.ErrUnsupportedOperation)
	case v.Kind().IsSigned():
		return scalar.OfBool(v.Int64() < 0), nil
	case v.Kind().IsFloat():
		return scalar.OfBool(math.Signbit(v.Float64())), nil
	default:
		return scalar.OfBool(false), nil
	}
}

func absolute(v scalar.Value, k scalar.Kind) (scalar.Value, error) {
	if v.Kind().IsComplex() {
		return scalar.FromFloat64(k, cmplx.Abs(v.Complex128())), nil
	}

	return scalar.Abs(v), nil
}

func reciprocal(v scalar.Value, k scalar.Kind) (scalar.Value, error) {
	one := scalar.FromFloat64(k, 1)
	if k.IsBool() {
		one = scalar.OfBool(true)
	}

	return scalar.Div(one, v)
}

func cbrt(v scalar.Value, k scalar.Kind) (scalar.Value, error) {
	if k.IsComplex() {
		return scalar.Value{}, fmt.Errorf("%w: cbrt of complex", errs.ErrUnsupportedOperation)
	}

	return scalar.FromFloat64(k, math.Cbrt(v.Float64())), nil
}

func scaleBy(f float64) func(float64) float64 {
	return func(x float64) float64 { return x * f }
}

var unaryKernels = map[string]unaryKernel{
	"isfinite": {boolKind, predicate(
		func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) },
		func(c complex128) bool { return !cmplx.IsNaN(c) && !cmplx.IsInf(c) },
	)},
	"isinf":   {boolKind, predicate(func(f float64) bool { return math.IsInf(f, 0) }, cmplx.IsInf)},
	"isnan":   {boolKind, predicate(math.IsNaN, cmplx.IsNaN)},
	"isnat":   {boolKind, predicate(func(float64) bool { return false }, func(complex128) bool { return false })},
	"sign":    {sameKind, sign},
	"signbit": {boolKind, signbit},

	"negative": {sameKind, func(v scalar.Value, k scalar.Kind) (scalar.Value, error) {
		if k.IsBool() {
			return scalar.Value{}, fmt.Errorf("%w: negative of bool", errs.ErrUnsupportedOperation)
		}

		return scalar.Neg(v), nil
	}},
	"positive": {sameKind, func(v scalar.Value, _ scalar.Kind) (scalar.Value, error) { return v, nil }},
	"absolute": {absKind, absolute},
	"fabs":     {realFloatKind, mathFunc(math.Abs, nil)},
	"rint":     {sameKind, roundFunc(math.RoundToEven)},
	"floor":    {sameKind, roundFunc(math.Floor)},
	"ceil":     {sameKind, roundFunc(math.Ceil)},
	"trunc":    {sameKind, roundFunc(math.Trunc)},

	"sqrt":       {floatKind, mathFunc(math.Sqrt, cmplx.Sqrt)},
	"square":     {sameKind, func(v scalar.Value, _ scalar.Kind) (scalar.Value, error) { return scalar.Mul(v, v) }},
	"cbrt":       {floatKind, cbrt},
	"reciprocal": {sameKind, reciprocal},

	"sin":     {floatKind, mathFunc(math.Sin, cmplx.Sin)},
	"cos":     {floatKind, mathFunc(math.Cos, cmplx.Cos)},
	"tan":     {floatKind, mathFunc(math.Tan, cmplx.Tan)},
	"sinh":    {floatKind, mathFunc(math.Sinh, cmplx.Sinh)},
	"cosh":    {floatKind, mathFunc(math.Cosh, cmplx.Cosh)},
	"tanh":    {floatKind, mathFunc(math.Tanh, cmplx.Tanh)},
	"arcsin":  {floatKind, mathFunc(math.Asin, cmplx.Asin)},
	"arccos":  {floatKind, mathFunc(math.Acos, cmplx.Acos)},
	"arctan":  {floatKind, mathFunc(math.Atan, cmplx.Atan)},
	"arcsinh": {floatKind, mathFunc(math.Asinh, cmplx.Asinh)},
	"arccosh": {floatKind, mathFunc(math.Acosh, cmplx.Acosh)},
	"arctanh": {floatKind, mathFunc(math.Atanh, cmplx.Atanh)},

	"degrees": {realFloatKind, mathFunc(scaleBy(180/math.Pi), nil)},
	"rad2deg": {realFloatKind, mathFunc(scaleBy(180/math.Pi), nil)},
	"radians": {realFloatKind, mathFunc(scaleBy(math.Pi/180), nil)},
	"deg2rad": {realFloatKind, mathFunc(scaleBy(math.Pi/180), nil)},

	"invert": {func(k scalar.Kind) (scalar.Kind, error) { return promotedInteger(k, k) }, invert},
}

func invert(v scalar.Value, k scalar.Kind) (scalar.Value, error) {
	switch {
	case k.IsBool():
		return scalar.OfBool(v.IsZero()), nil
	case k.IsSigned():
		return scalar.OfInt64(^v.Int64()).Convert(k), nil
	default:
		return scalar.OfUint64(^v.Uint64()).Convert(k), nil
	}
}

// arith evaluates f with both operands converted into the result kind.
func arith(f func(a, b scalar.Value) (scalar.Value, error)) func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
	return func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
		r, err := f(a.Convert(k), b.Convert(k))
		if err != nil {
			return scalar.Value{}, err
		}

		return r.Convert(k), nil
	}
}

func float2(f func(a, b float64) float64) func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
	return func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
		return scalar.FromFloat64(k, f(a.Float64(), b.Float64())), nil
	}
}

func order(pred func(a, b scalar.Value) (bool, error)) func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
	return func(a, b scalar.Value, _ scalar.Kind) (scalar.Value, error) {
		r, err := pred(a, b)
		if err != nil {
			return scalar.Value{}, err
		}

		return scalar.OfBool(r), nil
	}
}

// extremum picks a or b. NaN propagates unless ignoreNaN is set, in which case
// the other operand wins.
func extremum(greater, ignoreNaN bool) func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
	return func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
		x, y := a.Convert(k), b.Convert(k)
		switch {
		case x.IsNaN() && ignoreNaN:
			return y, nil
		case y.IsNaN() && ignoreNaN:
			return x, nil
		case x.IsNaN():
			return x, nil
		case y.IsNaN():
			return y, nil
		}
		c, err := scalar.Cmp(x, y)
		if err != nil {
			return scalar.Value{}, err
		}
		if (c >= 0) == greater {
			return x, nil
		}

		return y, nil
	}
}

func floatPower(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
	if k.IsComplex() {
		return scalar.OfComplex128(cmplx.Pow(a.Complex128(), b.Complex128())), nil
	}

	return scalar.OfFloat64(math.Pow(a.Float64(), b.Float64())), nil
}

func bitwise(op func(x, y uint64) uint64) func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
	return func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
		r := op(a.Convert(k).Uint64(), b.Convert(k).Uint64())
		if k.IsBool() {
			return scalar.OfBool(r != 0), nil
		}

		return scalar.OfUint64(r).Convert(k), nil
	}
}

func shift(left bool) func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
	return func(a, b scalar.Value, k scalar.Kind) (scalar.Value, error) {
		n := b.Convert(k)
		if n.Kind().IsSigned() && n.Int64() < 0 {
			return scalar.Value{}, fmt.Errorf("%w: negative shift count", errs.ErrInvalidOperation)
		}
		count := n.Uint64()
		x := a.Convert(k)
		switch {
		case left && k.IsSigned():
			return scalar.OfInt64(x.Int64() << count).Convert(k), nil
		case left:
			return scalar.OfUint64(x.Uint64() << count).Convert(k), nil
		case k.IsSigned():
			return scalar.OfInt64(x.Int64() >> count).Convert(k), nil
		default:
			return scalar.OfUint64(x.Uint64() >> count).Convert(k), nil
		}
	}
}

func addTo(dst, a, b []float64) { floats.AddTo(dst, a, b) }
func subTo(dst, a, b []float64) { floats.SubTo(dst, a, b) }
func mulTo(dst, a, b []float64) { floats.MulTo(dst, a, b) }
func divTo(dst, a, b []float64) { floats.DivTo(dst, a, b) }

var binaryKernels = map[string]binaryKernel{
	"add":          {result: promoted, eval: arith(scalar.Add), f64: addTo},
	"subtract":     {result: promoted, eval: arith(scalar.Sub), f64: subTo},
	"multiply":     {result: promoted, eval: arith(scalar.Mul), f64: mulTo},
	"divide":       {result: promotedDivide, eval: arith(scalar.TrueDiv), f64: divTo},
	"true_divide":  {result: promotedDivide, eval: arith(scalar.TrueDiv), f64: divTo},
	"floor_divide": {result: promoted, eval: arith(scalar.FloorDiv)},
	"remainder":    {result: promoted, eval: arith(scalar.Mod)},
	"mod":          {result: promoted, eval: arith(scalar.Mod)},
	"fmod":         {result: promoted, eval: arith(scalar.Fmod)},
	"power":        {result: promoted, eval: arith(scalar.Pow)},
	"float_power":  {result: widestFloat, eval: floatPower},

	"maximum": {result: promoted, eval: extremum(true, false)},
	"minimum": {result: promoted, eval: extremum(false, false)},
	"fmax":    {result: promoted, eval: extremum(true, true)},
	"fmin":    {result: promoted, eval: extremum(false, true)},

	"equal": {result: promotedBool, eval: order(func(a, b scalar.Value) (bool, error) {
		return scalar.Equal(a, b), nil
	})},
	"not_equal": {result: promotedBool, eval: order(func(a, b scalar.Value) (bool, error) {
		return !scalar.Equal(a, b), nil
	})},
	"greater":       {result: promotedBool, eval: order(scalar.Greater)},
	"greater_equal": {result: promotedBool, eval: order(scalar.GreaterEqual)},
	"less":          {result: promotedBool, eval: order(scalar.Less)},
	"less_equal":    {result: promotedBool, eval: order(scalar.LessEqual)},

	"hypot":    {result: promotedRealFloat, eval: float2(math.Hypot)},
	"arctan2":  {result: promotedRealFloat, eval: float2(math.Atan2)},
	"copysign": {result: promotedRealFloat, eval: float2(math.Copysign)},

	"bitwise_and": {result: promotedInteger, eval: bitwise(func(x, y uint64) uint64 { return x & y })},
	"bitwise_or":  {result: promotedInteger, eval: bitwise(func(x, y uint64) uint64 { return x | y })},
	"bitwise_xor": {result: promotedInteger, eval: bitwise(func(x, y uint64) uint64 { return x ^ y })},
	"left_shift":  {result: promotedInteger, eval: shift(true)},
	"right_shift": {result: promotedInteger, eval: shift(false)},
}
