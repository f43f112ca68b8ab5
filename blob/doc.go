// Package blob serializes quantity arrays into a compact, self-describing
// binary form.
//
// A blob is laid out as:
//
//	+--------------------+  offset 0
//	| header (32 bytes)  |  magic, flags, kind, ndim, count, offsets, checksum
//	+--------------------+  offset 32
//	| axis lengths       |  ndim x uint32
//	| units string       |  uint8 length + bytes
//	+--------------------+  PayloadOffset
//	| value payload      |  raw or Gorilla encoded, then compressed
//	+--------------------+
//
// See package section for the header fields. Multi-byte fields use the byte
// order recorded in the header, except the first two option bytes which are
// always little-endian so the order can be detected.
//
// Encoding:
//
//	enc, err := blob.NewArrayEncoder(
//		blob.WithValueEncoding(format.TypeGorilla),
//		blob.WithCompression(format.CompressionZstd),
//	)
//	data, err := enc.Encode(arr)
//
// Decoding:
//
//	dec, err := blob.NewArrayDecoder()
//	arr, err := dec.Decode(data)
//
// Encoders and decoders hold only configuration and are safe for concurrent
// use once built.
package blob
