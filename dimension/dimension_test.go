package dimension

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDimension_Algebra(t *testing.T) {
	velocity := Of(Length).Sub(Of(Time))

	t.Run("product adds exponents", func(t *testing.T) {
		d := velocity.Add(Of(Time))
		require.True(t, d.Equal(Of(Length)))
	})

	t.Run("quotient of equal dimensions is dimensionless", func(t *testing.T) {
		require.True(t, velocity.Sub(velocity).IsZero())
	})

	t.Run("fractional powers are kept", func(t *testing.T) {
		d := Of(Length).Scale(0.5)
		require.InDelta(t, 0.5, d[Length], 0)
	})

	t.Run("powers snap back onto integers", func(t *testing.T) {
		d := Of(Length).Scale(1.0 / 3.0).Scale(3)
		require.True(t, d.Equal(Of(Length)))
	})

	t.Run("scaling by zero gives dimensionless", func(t *testing.T) {
		require.True(t, velocity.Scale(0).IsZero())
	})
}

func TestSnap(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"integer noise", 1.9999999999, 2},
		{"tenths", 0.1 + 0.2, 0.3},
		{"fraction remainder", (0.1 + 0.2) - 0.2, 0.1},
		{"thirds", (1.0 / 3.0) * 2, 2.0 / 3.0},
		{"negative zero", -1e-17, 0},
		{"irregular values stay", 0.123456, 0.123456},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Snap(tt.in))
		})
	}

	require.False(t, math.Signbit(Snap(-1e-17)))
}

func TestDimension_String(t *testing.T) {
	require.Equal(t, "dimensionless", Dimension{}.String())
	require.Equal(t, "length*time**-1", Of(Length).Sub(Of(Time)).String())
	require.Equal(t, "length**2", Of(Length).Scale(2).String())
}

func TestDimension_IsAngle(t *testing.T) {
	require.True(t, Of(Angle).IsAngle())
	require.False(t, Of(Angle).Scale(2).IsAngle())
	require.False(t, Dimension{}.IsAngle())
}

func TestParseBase(t *testing.T) {
	b, ok := ParseBase("Temperature")
	require.True(t, ok)
	require.Equal(t, Temperature, b)
	require.Equal(t, "temperature", b.String())

	_, ok = ParseBase("charm")
	require.False(t, ok)
}
