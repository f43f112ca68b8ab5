package encoding

import (
	"math"
	"testing"

	"github.com/arloliu/qty/scalar"
)

type gorillaBenchDataset struct {
	name    string
	values  []scalar.Value
	encoded []byte
}

var (
	gorillaBenchDatasets = []gorillaBenchDataset{
		buildGorillaDataset("constant_1000", generateValues(1000, func(int) float64 { return 101.325 })),
		buildGorillaDataset("drift_1000", generateValues(1000, func(i int) float64 {
			return math.Round((21+2*math.Sin(float64(i)/300))*10) / 10
		})),
		buildGorillaDataset("noisy_256", generateValues(256, func(i int) float64 {
			return math.Sin(float64(i)*1.7) * 1e3
		})),
	}
	benchmarkFloatSink float64
)

func generateValues(n int, f func(int) float64) []scalar.Value {
	out := make([]scalar.Value, n)
	for i := range out {
		out[i] = scalar.OfFloat64(f(i))
	}

	return out
}

func buildGorillaDataset(name string, values []scalar.Value) gorillaBenchDataset {
	enc, err := NewGorillaEncoder(scalar.Float64)
	if err != nil {
		panic(err)
	}
	defer enc.Finish()

	for _, v := range values {
		if err := enc.Write(v); err != nil {
			panic(err)
		}
	}

	return gorillaBenchDataset{
		name:    name,
		values:  values,
		encoded: append([]byte(nil), enc.Bytes()...),
	}
}

func BenchmarkGorillaEncoder(b *testing.B) {
	for _, dataset := range gorillaBenchDatasets {
		b.Run(dataset.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(dataset.values) * 8))

			for b.Loop() {
				enc, _ := NewGorillaEncoder(scalar.Float64)
				for _, v := range dataset.values {
					_ = enc.Write(v)
				}
				_ = enc.Bytes()
				enc.Finish()
			}
		})
	}
}

func BenchmarkGorillaDecoder(b *testing.B) {
	for _, dataset := range gorillaBenchDatasets {
		b.Run(dataset.name, func(b *testing.B) {
			dec := NewGorillaDecoder(scalar.Float64)
			data := dataset.encoded
			count := len(dataset.values)

			b.ReportAllocs()
			b.ResetTimer()

			var sum float64
			for b.Loop() {
				values, err := dec.Decode(data, count)
				if err != nil {
					b.Fatal(err)
				}
				sum += values[count-1].Float64()
			}

			benchmarkFloatSink = sum
		})
	}
}
