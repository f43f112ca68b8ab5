package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
		{"long string", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestFloat64s(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, Float64s(1, 0.001, -273.15), Float64s(1, 0.001, -273.15))
	})

	t.Run("order matters", func(t *testing.T) {
		require.NotEqual(t, Float64s(1, 2), Float64s(2, 1))
	})

	t.Run("no values hashes like an empty string", func(t *testing.T) {
		require.Equal(t, ID(""), Float64s())
	})
}

func BenchmarkFloat64s(b *testing.B) {
	for b.Loop() {
		Float64s(1, 0, 0, 0, 0, 0, 0, 0, 1000, 0)
	}
}

func TestChecksum32(t *testing.T) {
	require.Equal(t, uint32(0x51d8e999), Checksum32(nil))
	require.Equal(t, uint32(0xdb678139), Checksum32([]byte("test")))
	require.NotEqual(t, Checksum32([]byte{1, 2}), Checksum32([]byte{2, 1}))
}
