package qarray

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/scalar"
)

func TestArray_JSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		a := mustArray(t, [][]int{{1, 2}, {3, 4}}, "m/s")
		data, err := a.MarshalJSON()
		require.NoError(t, err)
		require.JSONEq(t, `{"units":"m/s","kind":"int64","shape":[2,2],"values":[1,2,3,4]}`, string(data))
	})

	t.Run("round trip", func(t *testing.T) {
		a := mustArray(t, [][]float64{{1.5, -2}, {0, 8}}, "kg")
		data, err := scalar.JSON().Marshal(a)
		require.NoError(t, err)

		var b Array
		require.NoError(t, scalar.JSON().Unmarshal(data, &b))
		require.Equal(t, []int{2, 2}, b.Shape())
		require.Equal(t, scalar.Float64, b.Kind())
		require.True(t, ArrayEqual(a, &b))
	})

	t.Run("complex values", func(t *testing.T) {
		var a Array
		require.NoError(t, a.UnmarshalJSON([]byte(`{"units":"V","kind":"complex128","values":[[1,2],[3,"NaN"]]}`)))
		require.Equal(t, []int{2}, a.Shape())
		require.Equal(t, complex(1, 2), a.Values().At(0).Complex128())
	})

	t.Run("defaults and factors", func(t *testing.T) {
		var a Array
		require.NoError(t, a.UnmarshalJSON([]byte(`{"units":"1000*m","values":[1,2]}`)))
		require.Equal(t, scalar.Float64, a.Kind())
		require.Equal(t, []float64{1000, 2000}, a.Float64s())
		requireUnits(t, "m", &a)
	})

	t.Run("errors", func(t *testing.T) {
		var a Array
		require.ErrorIs(t, a.UnmarshalJSON([]byte(`{"values":`)), errs.ErrInvalidPayload)
		require.ErrorIs(t, a.UnmarshalJSON([]byte(`{"kind":"int8","values":[1.5]}`)), errs.ErrInvalidPayload)
		require.ErrorIs(t, a.UnmarshalJSON([]byte(`{"units":"bogus","values":[1]}`)), errs.ErrUnitsParse)
		require.ErrorIs(t, a.UnmarshalJSON([]byte(`{"shape":[3],"values":[1]}`)), errs.ErrShapeMismatch)
	})
}
