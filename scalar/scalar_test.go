package scalar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/qty/errs"
)

func TestCanCast(t *testing.T) {
	tests := []struct {
		from, to Kind
		want     bool
	}{
		{Int8, Int64, true},
		{Int64, Int8, false},
		{Uint8, Int16, true},
		{Uint16, Int16, false},
		{Int8, Uint64, false},
		{Uint32, Uint64, true},
		{Int64, Float64, true},
		{Uint64, Float64, true},
		{Int32, Float32, false},
		{Int16, Float32, true},
		{Float32, Float64, true},
		{Float64, Float32, false},
		{Float64, Complex128, true},
		{Float64, Complex64, false},
		{Float32, Complex64, true},
		{Complex64, Complex128, true},
		{Complex128, Float64, false},
		{Invalid, Int8, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, CanCast(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	t.Run("reflexive", func(t *testing.T) {
		for _, k := range Kinds {
			require.True(t, CanCast(k, k), k.String())
		}
	})
}

func TestPromote(t *testing.T) {
	k, err := Promote(Float64, Int64)
	require.NoError(t, err)
	require.Equal(t, Float64, k)

	k, err = Promote(Int8, Int32)
	require.NoError(t, err)
	require.Equal(t, Int32, k)

	_, err = Promote(Int64, Uint64)
	require.ErrorIs(t, err, errs.ErrIncompatibleValueType)

	_, err = Promote(Float32, Int64)
	require.ErrorIs(t, err, errs.ErrIncompatibleValueType)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}

	_, err := ParseKind("invalid")
	require.ErrorIs(t, err, errs.ErrIncompatibleValueType)
}

func TestOf(t *testing.T) {
	tests := []struct {
		in   any
		kind Kind
	}{
		{1, Int64},
		{int8(1), Int8},
		{uint(1), Uint64},
		{uint16(1), Uint16},
		{float32(1), Float32},
		{1.5, Float64},
		{complex64(1i), Complex64},
		{1 + 2i, Complex128},
		{OfInt16(3), Int16},
	}
	for _, tt := range tests {
		v, err := Of(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.kind, v.Kind())
	}

	_, err := Of("1")
	require.ErrorIs(t, err, errs.ErrIncompatibleValueType)
	_, err = Of(Value{})
	require.ErrorIs(t, err, errs.ErrIncompatibleValueType)
	require.Panics(t, func() { MustOf("x") })
}

func TestValue_Interface(t *testing.T) {
	require.Equal(t, int16(-3), OfInt16(-3).Interface())
	require.Equal(t, uint8(200), OfUint8(200).Interface())
	require.Equal(t, float32(1.5), OfFloat32(1.5).Interface())
	require.Equal(t, complex64(1+1i), OfComplex64(1+1i).Interface())
	require.Nil(t, Value{}.Interface())
}

func TestFromFloat64(t *testing.T) {
	t.Run("integers round to nearest", func(t *testing.T) {
		require.Equal(t, int64(3), FromFloat64(Int32, 2.6).Int64())
		require.Equal(t, int64(-3), FromFloat64(Int64, -2.5).Int64())
		require.Equal(t, int64(1000000), FromFloat64(Int64, 999999.9999999999).Int64())
	})

	t.Run("integers saturate", func(t *testing.T) {
		require.Equal(t, int64(127), FromFloat64(Int8, 1e6).Int64())
		require.Equal(t, int64(-128), FromFloat64(Int8, -1e6).Int64())
		require.Equal(t, int64(math.MaxInt64), FromFloat64(Int64, 1e30).Int64())
		require.Equal(t, int64(math.MinInt64), FromFloat64(Int64, -1e30).Int64())
		require.Equal(t, uint64(255), FromFloat64(Uint8, 300).Uint64())
		require.Equal(t, uint64(0), FromFloat64(Uint16, -5).Uint64())
		require.Equal(t, uint64(math.MaxUint64), FromFloat64(Uint64, 1e30).Uint64())
		require.Equal(t, int64(0), FromFloat64(Int32, math.NaN()).Int64())
	})

	t.Run("float32 rounds", func(t *testing.T) {
		require.InDelta(t, float64(float32(0.1)), FromFloat64(Float32, 0.1).Float64(), 0)
	})
}

func TestValue_Affine(t *testing.T) {
	require.InDelta(t, 273.15, OfFloat64(0).Affine(-273.15, 1).Float64(), 1e-12)
	require.Equal(t, int64(1000000), OfInt64(1).Affine(0, 1e6).Int64())
	require.Equal(t, Int64, OfInt64(1).Affine(0, 1e6).Kind())
	require.Equal(t, complex(200, 100), OfComplex128(2+1i).Affine(0, 100).Complex128())

	v := OfInt8(5)
	require.Equal(t, v, v.Affine(0, 1))
}

func TestValue_Convert(t *testing.T) {
	require.Equal(t, int64(-1), OfUint8(255).Convert(Int8).Int64())
	require.Equal(t, uint64(255), OfInt16(-1).Convert(Uint8).Uint64())
	require.InDelta(t, 2.0, OfComplex128(2+3i).Convert(Float64).Float64(), 0)

	_, err := OfFloat64(1).Cast(Int64)
	require.ErrorIs(t, err, errs.ErrIncompatibleValueType)

	v, err := OfInt32(7).Cast(Float64)
	require.NoError(t, err)
	require.Equal(t, Float64, v.Kind())
	require.InDelta(t, 7.0, v.Float64(), 0)
}

func TestArithmetic(t *testing.T) {
	t.Run("result kind follows promotion", func(t *testing.T) {
		v, err := Add(OfFloat64(1.5), OfInt64(2))
		require.NoError(t, err)
		require.Equal(t, Float64, v.Kind())
		require.InDelta(t, 3.5, v.Float64(), 0)

		v, err = Mul(OfInt8(3), OfInt32(4))
		require.NoError(t, err)
		require.Equal(t, Int32, v.Kind())
		require.Equal(t, int64(12), v.Int64())

		_, err = Add(OfInt64(1), OfUint64(1))
		require.ErrorIs(t, err, errs.ErrIncompatibleValueType)
	})

	t.Run("integers wrap at their width", func(t *testing.T) {
		v, err := Add(OfInt8(127), OfInt8(1))
		require.NoError(t, err)
		require.Equal(t, int64(-128), v.Int64())

		v, err = Sub(OfUint8(0), OfUint8(1))
		require.NoError(t, err)
		require.Equal(t, uint64(255), v.Uint64())
	})

	t.Run("division", func(t *testing.T) {
		v, err := Div(OfInt64(-7), OfInt64(2))
		require.NoError(t, err)
		require.Equal(t, int64(-3), v.Int64())

		v, err = FloorDiv(OfInt64(-7), OfInt64(2))
		require.NoError(t, err)
		require.Equal(t, int64(-4), v.Int64())

		v, err = FloorDiv(OfFloat64(-7), OfFloat64(2))
		require.NoError(t, err)
		require.InDelta(t, -4.0, v.Float64(), 0)

		v, err = TrueDiv(OfInt64(7), OfInt64(2))
		require.NoError(t, err)
		require.Equal(t, Float64, v.Kind())
		require.InDelta(t, 3.5, v.Float64(), 0)

		_, err = Div(OfInt64(1), OfInt64(0))
		require.ErrorIs(t, err, errs.ErrInvalidOperation)

		v, err = Div(OfFloat64(1), OfFloat64(0))
		require.NoError(t, err)
		require.True(t, v.IsInf())
	})

	t.Run("remainders", func(t *testing.T) {
		v, err := Mod(OfInt64(-7), OfInt64(3))
		require.NoError(t, err)
		require.Equal(t, int64(2), v.Int64())

		v, err = Fmod(OfInt64(-7), OfInt64(3))
		require.NoError(t, err)
		require.Equal(t, int64(-1), v.Int64())

		v, err = Mod(OfFloat64(7.5), OfFloat64(-2))
		require.NoError(t, err)
		require.InDelta(t, -0.5, v.Float64(), 1e-12)

		_, err = Mod(OfComplex128(1), OfComplex128(2))
		require.ErrorIs(t, err, errs.ErrUnsupportedOperation)

		_, err = Mod(OfInt32(1), OfInt32(0))
		require.ErrorIs(t, err, errs.ErrInvalidOperation)
	})

	t.Run("power", func(t *testing.T) {
		v, err := Pow(OfInt64(3), OfInt64(4))
		require.NoError(t, err)
		require.Equal(t, int64(81), v.Int64())

		_, err = Pow(OfInt64(3), OfInt64(-1))
		require.ErrorIs(t, err, errs.ErrInvalidOperation)

		v, err = Pow(OfFloat64(4), OfFloat64(0.5))
		require.NoError(t, err)
		require.InDelta(t, 2.0, v.Float64(), 0)

		v, err = Pow(OfComplex128(1i), OfFloat64(2))
		require.NoError(t, err)
		require.InDelta(t, -1.0, real(v.Complex128()), 1e-12)

		_, err = Pow(OfFloat64(2), OfComplex128(1i))
		require.ErrorIs(t, err, errs.ErrUnsupportedOperation)
	})
}

func TestUnary(t *testing.T) {
	require.Equal(t, int64(-5), Neg(OfInt64(5)).Int64())
	require.Equal(t, int64(5), Abs(OfInt16(-5)).Int64())
	require.InDelta(t, 2.5, Abs(OfFloat64(-2.5)).Float64(), 0)
	require.InDelta(t, 5.0, Abs(OfComplex128(3+4i)).Float64(), 1e-12)
	require.Equal(t, uint64(3), Abs(OfUint8(3)).Uint64())
}

func TestCompare(t *testing.T) {
	c, err := Cmp(OfInt64(1), OfFloat64(1.5))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = Cmp(OfUint8(3), OfUint8(3))
	require.NoError(t, err)
	require.Equal(t, 0, c)

	_, err = Cmp(OfComplex128(1), OfComplex128(2))
	require.ErrorIs(t, err, errs.ErrUnsupportedOperation)

	less, err := Less(OfFloat64(math.NaN()), OfFloat64(1))
	require.NoError(t, err)
	require.False(t, less)

	ge, err := GreaterEqual(OfInt64(2), OfInt64(2))
	require.NoError(t, err)
	require.True(t, ge)

	_, err = Greater(OfComplex64(1), OfFloat32(1))
	require.ErrorIs(t, err, errs.ErrUnsupportedOperation)

	require.True(t, Equal(OfInt64(2), OfFloat64(2)))
	require.False(t, Equal(OfInt64(2), OfUint64(2)))
	require.False(t, Equal(OfFloat64(math.NaN()), OfFloat64(math.NaN())))
}

func TestValue_String(t *testing.T) {
	require.Equal(t, "-3", OfInt8(-3).String())
	require.Equal(t, "0.1", OfFloat32(0.1).String())
	require.Equal(t, "1.5", OfFloat64(1.5).String())
	require.Equal(t, "(1+2i)", OfComplex128(1+2i).String())
	require.Equal(t, "<invalid>", Value{}.String())
}

func TestBool(t *testing.T) {
	require.True(t, CanCast(Bool, Int8))
	require.True(t, CanCast(Bool, Complex128))
	require.False(t, CanCast(Uint8, Bool))

	k, err := Promote(Bool, Float32)
	require.NoError(t, err)
	require.Equal(t, Float32, k)

	v := MustOf(true)
	require.Equal(t, Bool, v.Kind())
	require.Equal(t, true, v.Interface())
	require.Equal(t, 1.0, v.Float64())
	require.Equal(t, "true", v.String())
	require.True(t, OfBool(false).IsZero())

	require.Equal(t, Bool, OfFloat64(0.5).Convert(Bool).Kind())
	require.Equal(t, true, OfFloat64(0.5).Convert(Bool).Interface())
	require.Equal(t, int32(1), OfBool(true).Convert(Int32).Interface())

	sum, err := Add(OfBool(true), OfInt16(2))
	require.NoError(t, err)
	require.Equal(t, int16(3), sum.Interface())

	require.True(t, Equal(OfBool(true), OfBool(true)))
	require.False(t, Equal(OfBool(true), OfBool(false)))
	require.Equal(t, OfBool(true), Neg(OfBool(true)))
}
