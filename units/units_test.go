package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/qty/dimension"
	"github.com/arloliu/qty/errs"
)

func TestParse_Basic(t *testing.T) {
	tests := []struct {
		expr  string
		dim   dimension.Dimension
		scale float64
		str   string
	}{
		{"m", dLength, 1, "m"},
		{"meter", dLength, 1, "m"},
		{"km", dLength, 1000, "km"},
		{"kg", dMass, 1, "kg"},
		{"g", dMass, 1e-3, "g"},
		{"s", dTime, 1, "s"},
		{"hr", dTime, 3600, "hr"},
		{"m/s", dim(1, 0, -1), 1, "m/s"},
		{"m s^-1", dim(1, 0, -1), 1, "m/s"},
		{"m*s**-2", dim(1, 0, -2), 1, "m/s**2"},
		{"kg m**2 / s**2", dEnergy, 1, "kg*m**2/s**2"},
		{"g**2", dim(0, 2), 1e-6, "g**2"},
		{"km*s", dim(1, 0, 1), 1000, "km*s"},
		{"µs", dTime, 1e-6, "us"},
		{"umol", dAmount, 1e-6, "umol"},
		{"m^0.5", dim(0.5), 1, "m**0.5"},
		{"deg", dAngle, math.Pi / 180, "deg"},
		{"1/s", dFrequency, 1, "1/s"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			u, err := Parse(tt.expr)
			require.NoError(t, err)
			require.Equal(t, tt.dim, u.Dimension())
			require.InDelta(t, tt.scale, u.Scale(), tt.scale*1e-12)
			require.Equal(t, tt.str, u.String())
			require.False(t, u.IsEmpty())
		})
	}
}

func TestParse_EmptySentinel(t *testing.T) {
	for _, expr := range []string{"", "n/a", "  "} {
		u, err := Parse(expr)
		require.NoError(t, err)
		require.True(t, u.IsEmpty())
		require.True(t, u.IsDimensionless())
		require.InDelta(t, 1.0, u.Scale(), 0)
		require.Empty(t, u.String())
	}

	require.True(t, MustParse("").Equal(MustParse("n/a")))
	require.True(t, Empty().Equal(MustParse("")))
}

func TestParse_Errors(t *testing.T) {
	for _, expr := range []string{"invalid", "m/", "*m", "m**", "m^x", "m$", "m2", "2*", "0*m"} {
		t.Run(expr, func(t *testing.T) {
			u, err := Parse(expr)
			require.ErrorIs(t, err, errs.ErrUnitsParse)
			require.True(t, u.IsEmpty())
		})
	}
}

func TestParse_OffsetUnits(t *testing.T) {
	t.Run("bare offset units parse", func(t *testing.T) {
		for _, expr := range []string{"degC", "°C", "celsius"} {
			u, err := Parse(expr)
			require.NoError(t, err)
			require.InDelta(t, -273.15, u.Offset(), 0)
			require.Equal(t, "degC", u.String())
		}
	})

	t.Run("offset units cannot be combined", func(t *testing.T) {
		for _, expr := range []string{"degC/s", "degC**2", "1000*degC", "degC/degC", "kdegC"} {
			_, err := Parse(expr)
			require.ErrorIs(t, err, errs.ErrUnitsParse, expr)
		}

		_, err := Parse("degC/s")
		require.ErrorIs(t, err, errs.ErrInvalidOperation)
	})
}

func TestParse_NumericFactor(t *testing.T) {
	u := MustParse("1000*m")
	require.True(t, u.HasFactor())
	require.InDelta(t, 1000.0, u.Factor(), 0)
	require.True(t, u.Equal(MustParse("km")))
	require.Equal(t, "1000*m", u.String())

	f, pulled := u.PullFactor()
	require.InDelta(t, 1000.0, f, 0)
	require.False(t, pulled.HasFactor())
	require.True(t, pulled.Equal(MustParse("m")))

	require.Equal(t, "0.001*m", MustParse("m/1000").String())
	require.Equal(t, "1e+20*m", MustParse("1e20 m").String())
}

func TestParse_Reflexive(t *testing.T) {
	for _, expr := range []string{"m", "km/hr", "kg*m**2/s**2", "1/s", "1000*g", "m**0.5/s", "degF", "mA*V", "µmol/L"} {
		t.Run(expr, func(t *testing.T) {
			u := MustParse(expr)
			again, err := Parse(u.String())
			require.NoError(t, err)
			require.True(t, u.Equal(again), "%s -> %s", expr, u)
		})
	}
}

func TestUnits_Compatibility(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"cm", "m", true},
		{"cm", "s", false},
		{"hr", "d", true},
		{"degC", "K", true},
		{"J", "kg*m**2/s**2", true},
		{"", "m/m", true},
		{"rad", "", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, MustParse(tt.a).IsCompatible(MustParse(tt.b)), "%s vs %s", tt.a, tt.b)
	}
}

func TestUnits_Equal(t *testing.T) {
	require.True(t, MustParse("m").Equal(MustParse("meter")))
	require.False(t, MustParse("m").Equal(MustParse("cm")))
	require.True(t, MustParse("hr").Equal(MustParse("h")))
	require.True(t, MustParse("m*s").Equal(MustParse("s*m")))
	require.False(t, MustParse("degC").Equal(MustParse("K")))
	require.Equal(t, MustParse("m*s").Fingerprint(), MustParse("s m").Fingerprint())
	require.NotEqual(t, MustParse("m").Fingerprint(), MustParse("cm").Fingerprint())
}

func TestUnits_IsUnitless(t *testing.T) {
	require.True(t, Empty().IsUnitless())
	require.True(t, Dimensionless().IsUnitless())
	require.True(t, MustParse("m/m").IsUnitless())
	require.True(t, MustParse("rad/rad").IsUnitless())
	require.False(t, MustParse("km/m").IsUnitless())
	require.False(t, MustParse("1000").IsUnitless())
	require.False(t, MustParse("m").IsUnitless())
}

func TestUnits_ProductQuotientRoundTrip(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"m", "s"},
		{"km", "ms"},
		{"3*m", "0.1*s"},
		{"0.1*m**2", "0.1*m"},
		{"m**0.1", "m**0.2"},
		{"km**0.25", "s**-1.5"},
		{"kg*m/s**2", "1/3*s"},
		{"1000*g", "1000*g"},
		{"umol/L", "0.7*mL**0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.a+" by "+tt.b, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)

			ab, err := Mul(a, b)
			require.NoError(t, err)
			back, err := Div(ab, b)
			require.NoError(t, err)
			require.True(t, back.Equal(a), "%s != %s", back, a)
			require.True(t, back.IsCompatible(a))
			require.Equal(t, a.String(), back.String())

			quot, err := Div(a, b)
			require.NoError(t, err)
			back, err = Mul(quot, b)
			require.NoError(t, err)
			require.True(t, back.Equal(a), "%s != %s", back, a)
		})
	}

	t.Run("powers invert", func(t *testing.T) {
		for _, expr := range []string{"3*m", "km**0.5/s", "0.1*kg"} {
			u := MustParse(expr)
			sq, err := u.Pow(3)
			require.NoError(t, err)
			back, err := sq.Pow(1.0 / 3.0)
			require.NoError(t, err)
			require.True(t, back.Equal(u), "%s != %s", back, u)
		}
	})
}

func TestUnits_Algebra(t *testing.T) {
	m, s := MustParse("m"), MustParse("s")

	t.Run("multiply then divide round trips", func(t *testing.T) {
		ms, err := Mul(m, s)
		require.NoError(t, err)
		require.Equal(t, "m*s", ms.String())

		back, err := Div(ms, s)
		require.NoError(t, err)
		require.True(t, back.Equal(m))
		require.Equal(t, "m", back.String())
	})

	t.Run("like terms merge", func(t *testing.T) {
		mm, err := m.Mul(m)
		require.NoError(t, err)
		require.Equal(t, "m**2", mm.String())

		none, err := m.Div(m)
		require.NoError(t, err)
		require.True(t, none.IsDimensionless())
		require.False(t, none.IsEmpty())
	})

	t.Run("pow", func(t *testing.T) {
		u := MustParse("km/s")

		p1, err := Pow(u, 1)
		require.NoError(t, err)
		require.True(t, p1.Equal(u))

		p0, err := Pow(u, 0)
		require.NoError(t, err)
		require.True(t, p0.IsDimensionless())
		require.InDelta(t, 1.0, p0.Scale(), 0)

		p2, err := u.Pow(2)
		require.NoError(t, err)
		require.Equal(t, "km**2/s**2", p2.String())
		require.InDelta(t, 1e6, p2.Scale(), 1e-6)

		root, err := MustParse("m**2").Pow(0.5)
		require.NoError(t, err)
		require.True(t, root.Equal(m))

		_, err = u.Pow(math.NaN())
		require.ErrorIs(t, err, errs.ErrInvalidOperation)
	})

	t.Run("numeric factors combine", func(t *testing.T) {
		u, err := Mul(MustParse("1000*m"), MustParse("2*s"))
		require.NoError(t, err)
		require.InDelta(t, 2000.0, u.Factor(), 0)
		require.Equal(t, "2000*m*s", u.String())
	})

	t.Run("empty is the identity", func(t *testing.T) {
		u, err := Mul(Empty(), m)
		require.NoError(t, err)
		require.True(t, u.Equal(m))
		require.False(t, u.IsEmpty())

		u, err = Div(m, Empty())
		require.NoError(t, err)
		require.True(t, u.Equal(m))

		u, err = Mul(Empty(), Empty())
		require.NoError(t, err)
		require.True(t, u.IsEmpty())

		inv, err := Div(Empty(), s)
		require.NoError(t, err)
		require.Equal(t, "1/s", inv.String())
	})
}

func TestUnits_OffsetGuard(t *testing.T) {
	degC := MustParse("degC")

	_, err := Mul(degC, MustParse("m"))
	require.ErrorIs(t, err, errs.ErrInvalidOperation)

	_, err = Div(MustParse("J"), degC)
	require.ErrorIs(t, err, errs.ErrInvalidOperation)

	_, err = Pow(degC, 2)
	require.ErrorIs(t, err, errs.ErrInvalidOperation)

	t.Run("identity combinations are allowed", func(t *testing.T) {
		u, err := Mul(degC, Empty())
		require.NoError(t, err)
		require.True(t, u.Equal(degC))

		u, err = Pow(degC, 1)
		require.NoError(t, err)
		require.True(t, u.Equal(degC))

		u, err = Pow(degC, 0)
		require.NoError(t, err)
		require.True(t, u.IsDimensionless())
	})
}

func TestUnits_InPlace(t *testing.T) {
	u := MustParse("m")
	require.NoError(t, u.MulInPlace(MustParse("m")))
	require.Equal(t, "m**2", u.String())

	require.NoError(t, u.DivInPlace(MustParse("s")))
	require.Equal(t, "m**2/s", u.String())

	require.NoError(t, u.PowInPlace(2))
	require.Equal(t, "m**4/s**2", u.String())

	t.Run("receiver unchanged on error", func(t *testing.T) {
		before := u
		require.ErrorIs(t, u.MulInPlace(MustParse("degC")), errs.ErrInvalidOperation)
		require.True(t, u.Equal(before))
		require.Equal(t, before.String(), u.String())
	})

	t.Run("shared values are not affected", func(t *testing.T) {
		base := MustParse("m")
		alias := base
		require.NoError(t, alias.MulInPlace(MustParse("s")))
		require.Equal(t, "m", base.String())
		require.Equal(t, "m", MustParse("m").String())
	})
}

func TestConversionFactor(t *testing.T) {
	tests := []struct {
		from, to string
		in, want float64
	}{
		{"m", "cm", 1, 100},
		{"kg", "g", 1, 1000},
		{"mol", "umol", 1, 1e6},
		{"hr", "min", 2, 120},
		{"degC", "K", 0, 273.15},
		{"K", "degC", 273.15, 0},
		{"degC", "degF", 100, 212},
		{"degF", "degC", 32, 0},
		{"degF", "K", 32, 273.15},
		{"deg", "rad", 180, math.Pi},
		{"km/hr", "m/s", 36, 10},
		{"mi", "km", 1, 1.609344},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := Convert(tt.in, MustParse(tt.from), MustParse(tt.to))
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}

	t.Run("round trip", func(t *testing.T) {
		degF, k := MustParse("degF"), MustParse("K")
		v, err := Convert(98.6, degF, k)
		require.NoError(t, err)
		back, err := Convert(v, k, degF)
		require.NoError(t, err)
		require.InDelta(t, 98.6, back, 1e-9)
	})

	t.Run("incompatible", func(t *testing.T) {
		_, _, err := ConversionFactor(MustParse("m"), MustParse("s"))
		require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
	})

	t.Run("identity", func(t *testing.T) {
		require.True(t, IsIdentityConversion(MustParse("m"), MustParse("meter")))
		require.False(t, IsIdentityConversion(MustParse("m"), MustParse("km")))
	})
}

func TestUnits_Text(t *testing.T) {
	var u Units
	require.NoError(t, u.UnmarshalText([]byte("km/s")))
	text, err := u.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "km/s", string(text))

	require.ErrorIs(t, u.UnmarshalText([]byte("bogus")), errs.ErrUnitsParse)
	require.Equal(t, "km/s", u.String())
	require.Equal(t, `units.MustParse("km/s")`, u.GoString())
}

func TestRadiansDegrees(t *testing.T) {
	require.True(t, Radians().Dimension().IsAngle())
	require.True(t, Degrees().IsCompatible(Radians()))
	require.InDelta(t, math.Pi/180, Degrees().Scale(), 0)
}
