package blob

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/format"
	"github.com/arloliu/qty/qarray"
	"github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/section"
	"github.com/arloliu/qty/units"
)

func mustArray(t *testing.T, input any, opts ...qarray.ArrayOption) *qarray.Array {
	t.Helper()
	a, err := qarray.New(input, opts...)
	require.NoError(t, err)

	return a
}

func roundTrip(t *testing.T, a *qarray.Array, opts ...ArrayEncoderOption) (*qarray.Array, []byte) {
	t.Helper()

	enc, err := NewArrayEncoder(opts...)
	require.NoError(t, err)
	data, err := enc.Encode(a)
	require.NoError(t, err)

	dec, err := NewArrayDecoder()
	require.NoError(t, err)
	got, err := dec.Decode(data)
	require.NoError(t, err)

	return got, data
}

func requireSameArray(t *testing.T, want, got *qarray.Array) {
	t.Helper()

	require.Equal(t, want.Shape(), got.Shape())
	require.Equal(t, want.Kind(), got.Kind())
	require.Equal(t, want.Units().IsEmpty(), got.Units().IsEmpty())
	require.True(t, want.Units().Equal(got.Units()), "units %s vs %s", want.Units(), got.Units())
	for i := range want.Size() {
		require.Equal(t, want.Values().At(i), got.Values().At(i), "element %d", i)
	}
}

func TestArrayEncoder_RoundTrip(t *testing.T) {
	series := make([]float64, 500)
	for i := range series {
		series[i] = 20 + math.Sin(float64(i)/10)
	}

	arrays := map[string]*qarray.Array{
		"float64 vector":  mustArray(t, series, qarray.WithUnitsExpr("degC")),
		"float32 matrix":  mustArray(t, [][]float32{{1.5, 2.5}, {-3, 4}}, qarray.WithUnitsExpr("m/s")),
		"int32 cube":      mustArray(t, [][][]int32{{{1, 2}}, {{3, -4}}}, qarray.WithUnitsExpr("kg")),
		"uint8":           mustArray(t, []uint8{0, 128, 255}, qarray.WithUnitsExpr("N")),
		"complex128":      mustArray(t, []complex128{complex(1, 2), complex(-0.5, 0)}, qarray.WithUnitsExpr("V")),
		"complex64":       mustArray(t, []complex64{complex(3, 4)}),
		"bool":            mustArray(t, []bool{true, false, true}),
		"scalar":          mustArray(t, 9.81, qarray.WithUnitsExpr("m/s**2")),
		"dimensionless":   mustArray(t, []float64{0.5}, qarray.WithUnits(units.Dimensionless())),
		"no units":        mustArray(t, []int64{math.MinInt64, math.MaxInt64}),
		"empty":           mustArray(t, []float64{}, qarray.WithUnitsExpr("s")),
		"compound units":  mustArray(t, []float64{1, 2}, qarray.WithUnitsExpr("kg*m**2/s**2")),
		"prefixed units":  mustArray(t, []float64{3}, qarray.WithUnitsExpr("km")),
		"angle":           mustArray(t, []float64{math.Pi}, qarray.WithUnitsExpr("rad")),
		"negative powers": mustArray(t, []float64{4}, qarray.WithUnitsExpr("1/m")),
	}

	configs := map[string][]ArrayEncoderOption{
		"default": nil,
		"gorilla zstd": {
			WithValueEncoding(format.TypeGorilla),
			WithCompression(format.CompressionZstd),
		},
		"raw s2 big endian": {
			WithCompression(format.CompressionS2),
			WithBigEndian(),
		},
		"gorilla lz4 big endian": {
			WithValueEncoding(format.TypeGorilla),
			WithCompression(format.CompressionLZ4),
			WithBigEndian(),
		},
	}

	for name, a := range arrays {
		for cfgName, opts := range configs {
			t.Run(name+"/"+cfgName, func(t *testing.T) {
				got, _ := roundTrip(t, a, opts...)
				requireSameArray(t, a, got)
			})
		}
	}
}

func TestArrayEncoder_DimensionlessVersusEmpty(t *testing.T) {
	empty, _ := roundTrip(t, mustArray(t, []float64{1}))
	require.True(t, empty.Units().IsEmpty())

	dimless, data := roundTrip(t, mustArray(t, []float64{1}, qarray.WithUnits(units.Dimensionless())))
	require.False(t, dimless.Units().IsEmpty())
	require.True(t, dimless.Units().IsDimensionless())

	info, err := Inspect(data)
	require.NoError(t, err)
	require.True(t, info.HasUnits)
	require.Empty(t, info.Units)
}

func TestArrayEncoder_GorillaFallsBackForIntegers(t *testing.T) {
	enc, err := NewArrayEncoder(WithValueEncoding(format.TypeGorilla))
	require.NoError(t, err)

	ints, err := enc.Encode(mustArray(t, []int16{1, 2, 3}))
	require.NoError(t, err)
	info, err := Inspect(ints)
	require.NoError(t, err)
	require.Equal(t, format.TypeRaw, info.Encoding)

	floats, err := enc.Encode(mustArray(t, []float64{1, 2, 3}))
	require.NoError(t, err)
	info, err = Inspect(floats)
	require.NoError(t, err)
	require.Equal(t, format.TypeGorilla, info.Encoding)
}

func TestArrayEncoder_GorillaShrinksSmoothSeries(t *testing.T) {
	vals := make([]float64, 1000)
	for i := range vals {
		vals[i] = 101.325
	}
	a := mustArray(t, vals, qarray.WithUnitsExpr("m"))

	_, raw := roundTrip(t, a)
	_, gorilla := roundTrip(t, a, WithValueEncoding(format.TypeGorilla))
	require.Less(t, len(gorilla), len(raw)/10)
}

func TestInspect(t *testing.T) {
	a := mustArray(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, qarray.WithUnitsExpr("km"))
	_, data := roundTrip(t, a, WithCompression(format.CompressionZstd), WithBigEndian())

	info, err := Inspect(data)
	require.NoError(t, err)
	require.Equal(t, scalar.Float64, info.Kind)
	require.Equal(t, []int{2, 3}, info.Shape)
	require.Equal(t, 6, info.Count)
	require.Equal(t, "km", info.Units)
	require.True(t, info.HasUnits)
	require.Equal(t, format.TypeRaw, info.Encoding)
	require.Equal(t, format.CompressionZstd, info.Compression)
	require.True(t, info.BigEndian)
	require.Equal(t, len(data)-section.HeaderSize-2*section.AxisSize-1-len("km"), info.PayloadSize)
}

func TestNewArrayEncoder_Options(t *testing.T) {
	_, err := NewArrayEncoder(WithValueEncoding(format.EncodingType(2)))
	require.ErrorIs(t, err, errs.ErrInvalidValueEncoding)

	_, err = NewArrayEncoder(WithCompression(format.CompressionType(0)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	enc, err := NewArrayEncoder(WithBigEndian(), WithLittleEndian())
	require.NoError(t, err)
	data, err := enc.Encode(mustArray(t, []float64{1}))
	require.NoError(t, err)
	info, err := Inspect(data)
	require.NoError(t, err)
	require.False(t, info.BigEndian)
}

func TestArrayEncoder_Errors(t *testing.T) {
	enc, err := NewArrayEncoder()
	require.NoError(t, err)

	_, err = enc.Encode(nil)
	require.ErrorIs(t, err, errs.ErrInvalidArrayData)

	sym := strings.Repeat("x", section.MaxUnitsLen+1)
	reg, err := units.NewRegistry(units.WithUnit(units.Definition{
		Symbol:    sym,
		Dimension: units.MustParse("m").Dimension(),
		Scale:     1,
	}))
	require.NoError(t, err)
	long, err := reg.Parse(sym)
	require.NoError(t, err)

	_, err = enc.Encode(mustArray(t, []float64{1}, qarray.WithUnits(long)))
	require.ErrorIs(t, err, errs.ErrUnitsStringTooLong)
}

func TestArrayDecoder_Corruption(t *testing.T) {
	a := mustArray(t, []float64{1, 2, 3, 4}, qarray.WithUnitsExpr("m"))
	_, data := roundTrip(t, a, WithCompression(format.CompressionS2))

	dec, err := NewArrayDecoder()
	require.NoError(t, err)

	clone := func() []byte { return append([]byte(nil), data...) }

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		err    error
	}{
		{"truncated header", func(b []byte) []byte { return b[:10] }, errs.ErrInvalidHeaderSize},
		{"bad magic", func(b []byte) []byte { b[1] ^= 0x40; return b }, errs.ErrInvalidMagicNumber},
		{"unknown encoding", func(b []byte) []byte { b[2] = 0x2; return b }, errs.ErrInvalidValueEncoding},
		{"unknown compression", func(b []byte) []byte { b[3] = 0x9; return b }, errs.ErrInvalidCompression},
		{"unknown kind", func(b []byte) []byte { b[4] = 0xFF; return b }, errs.ErrUnsupportedValueKind},
		{"truncated payload", func(b []byte) []byte { return b[:len(b)-1] }, errs.ErrInvalidPayload},
		{"trailing bytes", func(b []byte) []byte { return append(b, 0) }, errs.ErrInvalidPayload},
		{"flipped payload bit", func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b }, errs.ErrInvalidPayload},
		{"wrong count", func(b []byte) []byte { b[8]++; return b }, errs.ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dec.Decode(tt.mutate(clone()))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestArrayDecoder_Options(t *testing.T) {
	reg, err := units.NewRegistry(units.WithUnit(units.Definition{
		Symbol:    "furlong",
		Dimension: units.MustParse("m").Dimension(),
		Scale:     201.168,
	}))
	require.NoError(t, err)

	fur, err := reg.Parse("furlong")
	require.NoError(t, err)
	a := mustArray(t, []float64{1, 2}, qarray.WithUnits(fur))

	enc, err := NewArrayEncoder()
	require.NoError(t, err)
	data, err := enc.Encode(a)
	require.NoError(t, err)

	dec, err := NewArrayDecoder()
	require.NoError(t, err)
	_, err = dec.Decode(data)
	require.ErrorIs(t, err, errs.ErrUnitsParse)

	dec, err = NewArrayDecoder(WithRegistry(reg), WithDecoderEngine(qarray.Dense()))
	require.NoError(t, err)
	got, err := dec.Decode(data)
	require.NoError(t, err)
	requireSameArray(t, a, got)
}
