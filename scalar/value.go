package scalar

import (
	"fmt"
	"math"
	"math/cmplx"
	"strconv"

	"github.com/arloliu/qty/errs"
)

// Value is a single number of one of the supported kinds.
// The zero Value has kind Invalid.
type Value struct {
	kind Kind
	i    int64      // signed kinds
	u    uint64     // unsigned kinds and bool
	f    float64    // float kinds
	c    complex128 // complex kinds
}

// OfInt8 returns an int8 Value.
func OfInt8(v int8) Value { return Value{kind: Int8, i: int64(v)} }

// OfInt16 returns an int16 Value.
func OfInt16(v int16) Value { return Value{kind: Int16, i: int64(v)} }

// OfInt32 returns an int32 Value.
func OfInt32(v int32) Value { return Value{kind: Int32, i: int64(v)} }

// OfInt64 returns an int64 Value.
func OfInt64(v int64) Value { return Value{kind: Int64, i: v} }

// OfUint8 returns a uint8 Value.
func OfUint8(v uint8) Value { return Value{kind: Uint8, u: uint64(v)} }

// OfUint16 returns a uint16 Value.
func OfUint16(v uint16) Value { return Value{kind: Uint16, u: uint64(v)} }

// OfUint32 returns a uint32 Value.
func OfUint32(v uint32) Value { return Value{kind: Uint32, u: uint64(v)} }

// OfUint64 returns a uint64 Value.
func OfUint64(v uint64) Value { return Value{kind: Uint64, u: v} }

// OfFloat32 returns a float32 Value.
func OfFloat32(v float32) Value { return Value{kind: Float32, f: float64(v)} }

// OfFloat64 returns a float64 Value.
func OfFloat64(v float64) Value { return Value{kind: Float64, f: v} }

// OfComplex64 returns a complex64 Value.
func OfComplex64(v complex64) Value { return Value{kind: Complex64, c: complex128(v)} }

// OfComplex128 returns a complex128 Value.
func OfComplex128(v complex128) Value { return Value{kind: Complex128, c: v} }

// OfBool returns a bool Value.
func OfBool(v bool) Value {
	if v {
		return Value{kind: Bool, u: 1}
	}

	return Value{kind: Bool}
}

// Of converts a Go number into a Value. int and uint map to Int64 and Uint64.
func Of(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		if !x.kind.IsValid() {
			return Value{}, fmt.Errorf("%w: invalid value", errs.ErrIncompatibleValueType)
		}

		return x, nil
	case bool:
		return OfBool(x), nil
	case int:
		return OfInt64(int64(x)), nil
	case int8:
		return OfInt8(x), nil
	case int16:
		return OfInt16(x), nil
	case int32:
		return OfInt32(x), nil
	case int64:
		return OfInt64(x), nil
	case uint:
		return OfUint64(uint64(x)), nil
	case uint8:
		return OfUint8(x), nil
	case uint16:
		return OfUint16(x), nil
	case uint32:
		return OfUint32(x), nil
	case uint64:
		return OfUint64(x), nil
	case float32:
		return OfFloat32(x), nil
	case float64:
		return OfFloat64(x), nil
	case complex64:
		return OfComplex64(x), nil
	case complex128:
		return OfComplex128(x), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", errs.ErrIncompatibleValueType, v)
	}
}

// MustOf is Of that panics on unsupported types.
func MustOf(v any) Value {
	s, err := Of(v)
	if err != nil {
		panic(err)
	}

	return s
}

// Zero returns the zero Value of kind k.
func Zero(k Kind) Value {
	return Value{kind: k}
}

// FromFloat64 converts f into kind k. Integer kinds round to nearest and
// saturate at the kind's range; NaN becomes zero.
func FromFloat64(k Kind, f float64) Value {
	switch {
	case k.IsSigned():
		return Value{kind: k, i: wrapSigned(k, saturateSigned(k, f))}
	case k.IsUnsigned():
		return Value{kind: k, u: saturateUnsigned(k, f)}
	case k == Float32:
		return Value{kind: k, f: float64(float32(f))}
	case k == Float64:
		return Value{kind: k, f: f}
	case k.IsComplex():
		return FromComplex128(k, complex(f, 0))
	case k == Bool:
		return OfBool(f != 0)
	default:
		return Value{}
	}
}

// FromComplex128 converts c into kind k. Non-complex kinds drop the imaginary part.
func FromComplex128(k Kind, c complex128) Value {
	switch k {
	case Complex64:
		return Value{kind: k, c: complex128(complex64(c))}
	case Complex128:
		return Value{kind: k, c: c}
	default:
		return FromFloat64(k, real(c))
	}
}

func saturateSigned(k Kind, f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	limit := math.Ldexp(1, k.bits()-1)
	r := math.Round(f)
	switch {
	case r >= limit:
		if k == Int64 {
			return math.MaxInt64
		}

		return int64(limit) - 1
	case r < -limit:
		if k == Int64 {
			return math.MinInt64
		}

		return -int64(limit)
	default:
		return int64(r)
	}
}

func saturateUnsigned(k Kind, f float64) uint64 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	bits := k.bits()
	r := math.Round(f)
	if bits == 64 {
		if r >= math.MaxUint64 {
			return math.MaxUint64
		}

		return uint64(r)
	}
	hi := uint64(1)<<bits - 1
	if r >= float64(hi) {
		return hi
	}

	return uint64(r)
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether v holds a number.
func (v Value) IsValid() bool {
	return v.kind.IsValid()
}

// Float64 returns v as a float64; complex values lose their imaginary part.
func (v Value) Float64() float64 {
	switch {
	case v.kind.IsSigned():
		return float64(v.i)
	case v.kind.IsUnsigned() || v.kind == Bool:
		return float64(v.u)
	case v.kind.IsFloat():
		return v.f
	case v.kind.IsComplex():
		return real(v.c)
	default:
		return 0
	}
}

// Complex128 returns v as a complex128.
func (v Value) Complex128() complex128 {
	if v.kind.IsComplex() {
		return v.c
	}

	return complex(v.Float64(), 0)
}

// Int64 returns v as an int64. Floats truncate toward zero.
func (v Value) Int64() int64 {
	switch {
	case v.kind.IsSigned():
		return v.i
	case v.kind.IsUnsigned():
		return int64(v.u)
	default:
		return int64(v.Float64())
	}
}

// Uint64 returns v as a uint64.
func (v Value) Uint64() uint64 {
	switch {
	case v.kind.IsUnsigned():
		return v.u
	case v.kind.IsSigned():
		return uint64(v.i)
	default:
		return uint64(v.Float64())
	}
}

// Interface returns v as a Go value of the matching type, e.g. int16 or complex64.
func (v Value) Interface() any {
	switch v.kind {
	case Int8:
		return int8(v.i)
	case Int16:
		return int16(v.i)
	case Int32:
		return int32(v.i)
	case Int64:
		return v.i
	case Uint8:
		return uint8(v.u)
	case Uint16:
		return uint16(v.u)
	case Uint32:
		return uint32(v.u)
	case Uint64:
		return v.u
	case Float32:
		return float32(v.f)
	case Float64:
		return v.f
	case Complex64:
		return complex64(v.c)
	case Complex128:
		return v.c
	case Bool:
		return v.u != 0
	default:
		return nil
	}
}

// Cast converts v to kind k when the conversion is lossless.
func (v Value) Cast(k Kind) (Value, error) {
	if !CanCast(v.kind, k) {
		return Value{}, fmt.Errorf("%w: cannot cast %s to %s", errs.ErrIncompatibleValueType, v.kind, k)
	}

	return v.Convert(k), nil
}

// Convert converts v to kind k, rounding or truncating as needed.
func (v Value) Convert(k Kind) Value {
	if v.kind == k {
		return v
	}
	switch {
	case k == Bool:
		return OfBool(!v.IsZero())
	case k.IsSigned() && v.kind.IsSigned():
		return Value{kind: k, i: wrapSigned(k, v.i)}
	case k.IsSigned() && v.kind.IsUnsigned():
		return Value{kind: k, i: wrapSigned(k, int64(v.u))}
	case k.IsUnsigned() && v.kind.IsUnsigned():
		return Value{kind: k, u: wrapUnsigned(k, v.u)}
	case k.IsUnsigned() && v.kind.IsSigned():
		return Value{kind: k, u: wrapUnsigned(k, uint64(v.i))}
	case v.kind.IsComplex():
		return FromComplex128(k, v.c)
	default:
		return FromFloat64(k, v.Float64())
	}
}

// Affine returns (v - offset) * factor in v's kind. This is the unit conversion
// kernel; integer kinds round to nearest.
func (v Value) Affine(offset, factor float64) Value {
	if offset == 0 && factor == 1 {
		return v
	}
	if v.kind.IsComplex() {
		return FromComplex128(v.kind, (v.c-complex(offset, 0))*complex(factor, 0))
	}

	return FromFloat64(v.kind, (v.Float64()-offset)*factor)
}

// IsNaN reports whether v is a float or complex NaN.
func (v Value) IsNaN() bool {
	switch {
	case v.kind.IsFloat():
		return math.IsNaN(v.f)
	case v.kind.IsComplex():
		return cmplx.IsNaN(v.c)
	default:
		return false
	}
}

// IsInf reports whether v is infinite.
func (v Value) IsInf() bool {
	switch {
	case v.kind.IsFloat():
		return math.IsInf(v.f, 0)
	case v.kind.IsComplex():
		return cmplx.IsInf(v.c)
	default:
		return false
	}
}

// IsZero reports whether v equals zero. A false Bool is zero.
func (v Value) IsZero() bool {
	switch {
	case v.kind.IsSigned():
		return v.i == 0
	case v.kind.IsUnsigned() || v.kind == Bool:
		return v.u == 0
	case v.kind.IsFloat():
		return v.f == 0
	default:
		return v.c == 0
	}
}

// String formats v like strconv does for its Go type.
func (v Value) String() string {
	switch {
	case v.kind.IsSigned():
		return strconv.FormatInt(v.i, 10)
	case v.kind.IsUnsigned():
		return strconv.FormatUint(v.u, 10)
	case v.kind == Float32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case v.kind == Float64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case v.kind == Complex64:
		return strconv.FormatComplex(v.c, 'g', -1, 64)
	case v.kind == Complex128:
		return strconv.FormatComplex(v.c, 'g', -1, 128)
	case v.kind == Bool:
		return strconv.FormatBool(v.u != 0)
	default:
		return "<invalid>"
	}
}

func wrapSigned(k Kind, x int64) int64 {
	switch k {
	case Int8:
		return int64(int8(x))
	case Int16:
		return int64(int16(x))
	case Int32:
		return int64(int32(x))
	default:
		return x
	}
}

func wrapUnsigned(k Kind, x uint64) uint64 {
	switch k {
	case Uint8:
		return uint64(uint8(x))
	case Uint16:
		return uint64(uint16(x))
	case Uint32:
		return uint64(uint32(x))
	default:
		return x
	}
}
