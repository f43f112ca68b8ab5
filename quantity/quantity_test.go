package quantity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/qty/errs"
	num "github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/units"
)

func TestNew(t *testing.T) {
	t.Run("keeps the value kind", func(t *testing.T) {
		q, err := Parse(int32(5), "m")
		require.NoError(t, err)
		require.Equal(t, num.Int32, q.Kind())
		require.Equal(t, "5 m", q.String())
	})

	t.Run("pulls the numeric factor into the value", func(t *testing.T) {
		q, err := Parse(2.0, "1000*m")
		require.NoError(t, err)
		require.InDelta(t, 2000.0, q.Float64(), 0)
		require.False(t, q.Units().HasFactor())
		require.Equal(t, "2000 m", q.String())
	})

	t.Run("rejects unsupported values", func(t *testing.T) {
		_, err := New("five", units.MustParse("m"))
		require.ErrorIs(t, err, errs.ErrIncompatibleValueType)
	})

	t.Run("rejects bad units", func(t *testing.T) {
		_, err := Parse(1, "bogus")
		require.ErrorIs(t, err, errs.ErrUnitsParse)
	})

	t.Run("plain values render without units", func(t *testing.T) {
		require.Equal(t, "3", MustParse(3, "").String())
	})
}

func TestQuantity_To(t *testing.T) {
	tests := []struct {
		value any
		from  string
		to    string
		want  float64
	}{
		{1.0, "m", "cm", 100},
		{1.0, "kg", "g", 1000},
		{0.0, "degC", "K", 273.15},
		{0, "degC", "K", 273.15},
		{5, "m", "km", 0.005},
		{uint8(100), "degC", "degF", 212},
		{212.0, "degF", "degC", 100},
		{90.0, "km/hr", "m/s", 25},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			q, err := MustParse(tt.value, tt.from).ToExpr(tt.to)
			require.NoError(t, err)
			require.InDelta(t, tt.want, q.Float64(), 1e-9)
			require.True(t, q.Units().Equal(units.MustParse(tt.to)))
		})
	}

	t.Run("integers become floats for fractional conversions", func(t *testing.T) {
		q, err := MustParse(0, "degC").ToExpr("K")
		require.NoError(t, err)
		require.Equal(t, num.Float64, q.Kind())
		require.InDelta(t, 273.15, q.Float64(), 1e-9)

		sum, err := MustParse(5, "km").Add(MustParse(3, "m"))
		require.NoError(t, err)
		require.Equal(t, num.Float64, sum.Kind())
		require.InDelta(t, 5.003, sum.Float64(), 1e-12)

		half, err := New(3, units.MustParse("0.5*m"))
		require.NoError(t, err)
		require.InDelta(t, 1.5, half.Float64(), 0)
	})

	t.Run("integers stay integers", func(t *testing.T) {
		q, err := MustParse(1, "mol").ToExpr("umol")
		require.NoError(t, err)
		require.Equal(t, num.Int64, q.Kind())
		require.Equal(t, int64(1000000), q.Value().Int64())
	})

	t.Run("incompatible", func(t *testing.T) {
		_, err := MustParse(1.0, "m").ToExpr("s")
		require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
	})

	t.Run("set units converts in place", func(t *testing.T) {
		q := MustParse(1.5, "km")
		require.NoError(t, q.SetUnits(units.MustParse("m")))
		require.InDelta(t, 1500.0, q.Float64(), 1e-9)

		err := q.SetUnits(units.MustParse("s"))
		require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
		require.Equal(t, "1500 m", q.String())
	})
}

func TestQuantity_AddSub(t *testing.T) {
	m, cm := units.MustParse("m"), units.MustParse("cm")

	t.Run("same units", func(t *testing.T) {
		r, err := MustParse(5.0, "m").Add(MustParse(3.0, "m"))
		require.NoError(t, err)
		require.True(t, r.Equal(MustParse(8.0, "m")))
	})

	t.Run("result takes the left operand units", func(t *testing.T) {
		r, err := MustParse(1.0, "m").Add(MustParse(100.0, "cm"))
		require.NoError(t, err)
		require.True(t, r.Units().Equal(m))
		require.InDelta(t, 2.0, r.Float64(), 1e-12)

		r, err = MustParse(100.0, "cm").Add(MustParse(1.0, "m"))
		require.NoError(t, err)
		require.True(t, r.Units().Equal(cm))
		require.InDelta(t, 200.0, r.Float64(), 1e-12)

		r, err = MustParse(1.0, "m").Sub(MustParse(50.0, "cm"))
		require.NoError(t, err)
		require.InDelta(t, 0.5, r.Float64(), 1e-12)
	})

	t.Run("incompatible units", func(t *testing.T) {
		_, err := MustParse(5.0, "m").Add(MustParse(3.0, "s"))
		require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
	})

	t.Run("incompatible kinds", func(t *testing.T) {
		_, err := MustParse(int64(5), "m").Add(MustParse(uint64(3), "m"))
		require.ErrorIs(t, err, errs.ErrIncompatibleValueType)
	})

	t.Run("int plus float promotes", func(t *testing.T) {
		r, err := MustParse(1, "m").Add(MustParse(50.0, "cm"))
		require.NoError(t, err)
		require.Equal(t, num.Float64, r.Kind())
		require.InDelta(t, 1.5, r.Float64(), 1e-12)
	})
}

func TestQuantity_MulDiv(t *testing.T) {
	t.Run("multiply combines units", func(t *testing.T) {
		r, err := MustParse(1.0, "m").Mul(MustParse(50.0, "s"))
		require.NoError(t, err)
		require.True(t, r.IsEquivalent(MustParse(50.0, "m*s")))
		require.Equal(t, "50 m*s", r.String())

		r, err = MustParse(100.0, "cm").Mul(MustParse(0.5, "m"))
		require.NoError(t, err)
		require.True(t, r.IsEquivalent(MustParse(5000.0, "cm**2")))
		require.False(t, r.IsEquivalent(MustParse(5000.0, "m**2")))
	})

	t.Run("divide", func(t *testing.T) {
		r, err := MustParse(10.0, "m").Div(MustParse(4.0, "s"))
		require.NoError(t, err)
		require.InDelta(t, 2.5, r.Float64(), 0)
		require.Equal(t, "m/s", r.Units().String())

		r, err = MustParse(7, "m").Div(MustParse(2, "s"))
		require.NoError(t, err)
		require.Equal(t, int64(3), r.Value().Int64())

		_, err = MustParse(7, "m").Div(MustParse(0, "s"))
		require.ErrorIs(t, err, errs.ErrInvalidOperation)
	})

	t.Run("floor divide", func(t *testing.T) {
		r, err := MustParse(-7.0, "m").FloorDiv(MustParse(2.0, "m"))
		require.NoError(t, err)
		require.InDelta(t, -4.0, r.Float64(), 0)
		require.True(t, r.IsDimensionless())
	})

	t.Run("offset units cannot be multiplied", func(t *testing.T) {
		_, err := MustParse(20.0, "degC").Mul(MustParse(2.0, "m"))
		require.ErrorIs(t, err, errs.ErrInvalidOperation)
	})

	t.Run("scale keeps units", func(t *testing.T) {
		_, err := MustParse(int64(1), "m").Scale(uint64(2))
		require.ErrorIs(t, err, errs.ErrIncompatibleValueType)

		r, err := MustParse(1.5, "m").Scale(2)
		require.NoError(t, err)
		require.Equal(t, "3 m", r.String())
	})
}

func TestQuantity_Mod(t *testing.T) {
	r, err := MustParse(7.0, "m").Mod(MustParse(200.0, "cm"))
	require.NoError(t, err)
	require.InDelta(t, 1.0, r.Float64(), 1e-12)
	require.Equal(t, "m", r.Units().String())

	_, err = MustParse(7.0, "m").Mod(MustParse(2.0, "s"))
	require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
}

func TestQuantity_Pow(t *testing.T) {
	t.Run("integer exponent", func(t *testing.T) {
		r, err := MustParse(3.0, "m").Pow(2, nil)
		require.NoError(t, err)
		require.True(t, r.Equal(MustParse(9.0, "m**2")))
	})

	t.Run("fractional exponent", func(t *testing.T) {
		r, err := MustParse(4.0, "m**2").Pow(0.5, nil)
		require.NoError(t, err)
		require.True(t, r.Equal(MustParse(2.0, "m")))
	})

	t.Run("plain quantity exponent", func(t *testing.T) {
		r, err := MustParse(2.0, "s").Pow(MustParse(3.0, ""), nil)
		require.NoError(t, err)
		require.InDelta(t, 8.0, r.Float64(), 0)
	})

	t.Run("ratio exponent", func(t *testing.T) {
		r, err := MustParse(2.0, "s").Pow(MustParse(3.0, "m/m"), nil)
		require.NoError(t, err)
		require.InDelta(t, 8.0, r.Float64(), 0)
		require.True(t, r.Units().Equal(units.MustParse("s**3")))
	})

	t.Run("unit-bearing exponent", func(t *testing.T) {
		_, err := MustParse(2.0, "s").Pow(MustParse(3.0, "m"), nil)
		require.ErrorIs(t, err, errs.ErrUnsupportedOperation)

		_, err = MustParse(2.0, "s").Pow(MustParse(3.0, "km/m"), nil)
		require.ErrorIs(t, err, errs.ErrUnsupportedOperation, "scaled ratios are not plain numbers")
	})

	t.Run("complex exponent", func(t *testing.T) {
		_, err := MustParse(2.0, "").Pow(1i, nil)
		require.ErrorIs(t, err, errs.ErrUnsupportedOperation)
	})

	t.Run("modulus", func(t *testing.T) {
		mod := MustParse(5, "m**2")
		r, err := MustParse(3, "m").Pow(2, &mod)
		require.NoError(t, err)
		require.Equal(t, int64(4), r.Value().Int64())

		bad := MustParse(5, "s")
		_, err = MustParse(3, "m").Pow(2, &bad)
		require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
	})

	t.Run("offset base", func(t *testing.T) {
		_, err := MustParse(3.0, "degC").Pow(2, nil)
		require.ErrorIs(t, err, errs.ErrInvalidOperation)
	})
}

func TestQuantity_Compare(t *testing.T) {
	c, err := MustParse(1.0, "m").Compare(MustParse(2.0, "m"))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	less, err := MustParse(1.0, "m").Less(MustParse(2.0, "meter"))
	require.NoError(t, err)
	require.True(t, less)

	_, err = MustParse(1.0, "m").Compare(MustParse(2.0, "cm"))
	require.ErrorIs(t, err, errs.ErrIncompatibleUnits)

	t.Run("equality never fails", func(t *testing.T) {
		require.True(t, MustParse(1.0, "m").Equal(MustParse(1.0, "meter")))
		require.False(t, MustParse(1.0, "m").Equal(MustParse(100.0, "cm")))
		require.False(t, MustParse(1.0, "m").Equal(MustParse(int64(1), "m")))
		require.False(t, MustParse(1.0, "m").Equal(MustParse(1.0, "s")))
		require.True(t, MustParse(1.0, "m").IsEquivalent(MustParse(100.0, "cm")))
	})
}

func TestQuantity_InPlace(t *testing.T) {
	q := MustParse(1.0, "m")
	require.NoError(t, q.AddInPlace(MustParse(50.0, "cm")))
	require.InDelta(t, 1.5, q.Float64(), 1e-12)

	require.NoError(t, q.SubInPlace(MustParse(0.5, "m")))
	require.NoError(t, q.MulInPlace(MustParse(2.0, "s")))
	require.Equal(t, "2 m*s", q.String())

	require.NoError(t, q.DivInPlace(MustParse(4.0, "s")))
	require.Equal(t, "0.5 m", q.String())

	require.NoError(t, q.PowInPlace(2))
	require.Equal(t, "0.25 m**2", q.String())

	require.NoError(t, q.ModInPlace(MustParse(0.2, "m**2")))
	require.InDelta(t, 0.05, q.Float64(), 1e-12)

	require.NoError(t, q.FloorDivInPlace(MustParse(0.02, "m**2")))
	require.InDelta(t, 2.0, q.Float64(), 0)
	require.True(t, q.IsDimensionless())

	before := q
	require.ErrorIs(t, q.AddInPlace(MustParse(1.0, "s")), errs.ErrIncompatibleUnits)
	require.True(t, q.Equal(before))
}

func TestQuantity_NegAbs(t *testing.T) {
	q := MustParse(-2.5, "km")
	require.Equal(t, "2.5 km", q.Abs().String())
	require.Equal(t, "2.5 km", q.Neg().String())
}

func TestQuantity_JSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, q := range []Quantity{
			MustParse(1.5, "km/s"),
			MustParse(int64(math.MaxInt64), "mol"),
			MustParse(uint8(7), ""),
			MustParse(complex64(1+2i), "V"),
			MustParse(math.Inf(-1), "degC"),
		} {
			data, err := q.MarshalJSON()
			require.NoError(t, err)

			var back Quantity
			require.NoError(t, back.UnmarshalJSON(data))
			require.True(t, q.Equal(back), "%s -> %s", q, data)
		}
	})

	t.Run("shape", func(t *testing.T) {
		data, err := MustParse(2, "m").MarshalJSON()
		require.NoError(t, err)
		require.JSONEq(t, `{"value":2,"kind":"int64","units":"m"}`, string(data))
	})

	t.Run("kind defaults to float64", func(t *testing.T) {
		var q Quantity
		require.NoError(t, q.UnmarshalJSON([]byte(`{"value":2.5,"units":"s"}`)))
		require.Equal(t, "2.5 s", q.String())
	})

	t.Run("errors", func(t *testing.T) {
		var q Quantity
		require.ErrorIs(t, q.UnmarshalJSON([]byte(`{"value":2.5,"units":"bogus"}`)), errs.ErrUnitsParse)
		require.ErrorIs(t, q.UnmarshalJSON([]byte(`{"value":2.5,"kind":"int8","units":"m"}`)), errs.ErrInvalidPayload)
		require.ErrorIs(t, q.UnmarshalJSON([]byte(`not json`)), errs.ErrInvalidPayload)

		_, err := Quantity{}.MarshalJSON()
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})
}
