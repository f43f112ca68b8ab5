// Package compress provides the payload compression codecs an array blob can
// record in its header.
//
// Four codecs are available, selected by format.CompressionType:
//
//   - None: returns its input unchanged
//   - Zstd: best ratio, slowest; pure Go by default, or cgo through
//     github.com/valyala/gozstd when built with the gozstd tag
//   - S2: a faster Snappy derivative from klauspost/compress
//   - LZ4: block compression from pierrec/lz4
//
// All codecs are stateless values and safe for concurrent use. Encoders and
// decoders that benefit from warm-up are pooled internally.
//
// Example:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(payload)
package compress
