package blob

import (
	"fmt"

	"github.com/arloliu/qty/compress"
	"github.com/arloliu/qty/endian"
	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/format"
	"github.com/arloliu/qty/internal/options"
	"github.com/arloliu/qty/section"
	"github.com/arloliu/qty/scalar"
)

// ArrayEncoderConfig holds the settings every Encode call starts from.
type ArrayEncoderConfig struct {
	header *section.ArrayHeader
	engine endian.EndianEngine
	codec  compress.Codec
}

func newArrayEncoderConfig() *ArrayEncoderConfig {
	header := section.NewArrayHeader(scalar.Float64)

	return &ArrayEncoderConfig{
		header: header,
		engine: header.Flag.GetEndianEngine(),
	}
}

// endianness represents the byte order configuration option.
type endianness uint8

const (
	littleEndianOpt endianness = iota
	bigEndianOpt
)

func (c *ArrayEncoderConfig) setEndianness(e endianness) {
	if e == bigEndianOpt {
		c.header.Flag.WithBigEndian()
	} else {
		c.header.Flag.WithLittleEndian()
	}
	c.engine = c.header.Flag.GetEndianEngine()
}

func (c *ArrayEncoderConfig) setValueEncoding(enc format.EncodingType) error {
	switch enc { //nolint: exhaustive
	case format.TypeRaw, format.TypeGorilla:
		c.header.Flag.SetValueEncoding(enc)
		return nil
	default:
		return fmt.Errorf("%w: %v", errs.ErrInvalidValueEncoding, enc)
	}
}

func (c *ArrayEncoderConfig) setCompression(comp format.CompressionType) error {
	if !comp.IsValid() {
		return fmt.Errorf("%w: %v", errs.ErrInvalidCompression, comp)
	}
	c.header.Flag.SetCompression(comp)

	return nil
}

// ArrayEncoderOption configures NewArrayEncoder.
type ArrayEncoderOption = options.Option[*ArrayEncoderConfig]

// WithLittleEndian writes multi-byte fields least significant byte first.
// It is the default option.
func WithLittleEndian() ArrayEncoderOption {
	return options.NoError(func(c *ArrayEncoderConfig) {
		c.setEndianness(littleEndianOpt)
	})
}

// WithBigEndian writes multi-byte fields most significant byte first.
func WithBigEndian() ArrayEncoderOption {
	return options.NoError(func(c *ArrayEncoderConfig) {
		c.setEndianness(bigEndianOpt)
	})
}

// WithValueEncoding selects the value encoding. Gorilla applies to float
// arrays only; other kinds are written raw and the header says so.
func WithValueEncoding(enc format.EncodingType) ArrayEncoderOption {
	return options.Named("WithValueEncoding", func(c *ArrayEncoderConfig) error {
		return c.setValueEncoding(enc)
	})
}

// WithCompression selects the payload compression.
func WithCompression(comp format.CompressionType) ArrayEncoderOption {
	return options.Named("WithCompression", func(c *ArrayEncoderConfig) error {
		return c.setCompression(comp)
	})
}
