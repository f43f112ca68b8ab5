package scalar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/qty/errs"
)

func TestValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"int", OfInt16(-7), `-7`},
		{"uint64", OfUint64(math.MaxUint64), `18446744073709551615`},
		{"float", OfFloat64(1.5), `1.5`},
		{"nan", OfFloat64(math.NaN()), `"NaN"`},
		{"neg inf", OfFloat32(float32(math.Inf(-1))), `"-Inf"`},
		{"complex", OfComplex128(1 - 2i), `[1,-2]`},
		{"bool", OfBool(true), `true`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.MarshalJSON()
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestFromJSON(t *testing.T) {
	decode := func(t *testing.T, k Kind, text string) (Value, error) {
		t.Helper()
		var raw any
		require.NoError(t, JSON().UnmarshalFromString(text, &raw))

		return FromJSON(k, raw)
	}

	t.Run("large integers survive", func(t *testing.T) {
		v, err := decode(t, Uint64, `18446744073709551615`)
		require.NoError(t, err)
		require.Equal(t, uint64(math.MaxUint64), v.Interface())

		v, err = decode(t, Int64, `-9223372036854775808`)
		require.NoError(t, err)
		require.Equal(t, int64(math.MinInt64), v.Interface())
	})

	t.Run("floats", func(t *testing.T) {
		v, err := decode(t, Float32, `0.25`)
		require.NoError(t, err)
		require.Equal(t, float32(0.25), v.Interface())

		v, err = decode(t, Float64, `"NaN"`)
		require.NoError(t, err)
		require.True(t, v.IsNaN())

		v, err = decode(t, Float64, `"+Inf"`)
		require.NoError(t, err)
		require.True(t, math.IsInf(v.Float64(), 1))
	})

	t.Run("complex", func(t *testing.T) {
		v, err := decode(t, Complex64, `[1.5, "-Inf"]`)
		require.NoError(t, err)
		require.Equal(t, Complex64, v.Kind())
		require.Equal(t, 1.5, real(v.Complex128()))
		require.True(t, math.IsInf(imag(v.Complex128()), -1))
	})

	t.Run("bool", func(t *testing.T) {
		v, err := decode(t, Bool, `false`)
		require.NoError(t, err)
		require.Equal(t, OfBool(false), v)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := decode(t, Int8, `300`)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)

		_, err = decode(t, Int32, `1.5`)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)

		_, err = decode(t, Complex128, `1`)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)

		_, err = decode(t, Float64, `"fast"`)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)

		_, err = FromJSON(Invalid, 1.0)
		require.ErrorIs(t, err, errs.ErrUnsupportedValueKind)
	})
}
