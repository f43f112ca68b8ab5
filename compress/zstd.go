package compress

// ZstdCompressor uses Zstandard frames. It gives the best ratio of the
// built-in codecs, which suits archived arrays.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec at the default level.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
