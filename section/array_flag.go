package section

import (
	"fmt"

	"github.com/arloliu/qty/endian"
	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/format"
)

// ArrayFlag is the packed first four bytes of the array header.
type ArrayFlag struct {
	// Options packs the magic number (bits 4-15), the endianness bit (bit 1)
	// and the units bit (bit 0). Bits 2-3 are reserved.
	Options uint16
	// EncodingType is the value encoding in bits 0-3.
	EncodingType uint8
	// CompressionType is the payload compression in bits 0-3.
	CompressionType uint8
}

// NewArrayFlag returns the default flag: little-endian, raw values, no
// compression, empty units.
func NewArrayFlag() ArrayFlag {
	return ArrayFlag{
		Options:         MagicArrayV1,
		EncodingType:    uint8(format.TypeRaw),
		CompressionType: uint8(format.CompressionNone),
	}
}

// HasUnits reports whether the blob carries units, even dimensionless ones.
func (f ArrayFlag) HasUnits() bool {
	return f.Options&UnitsMask != 0
}

// SetHasUnits sets or clears the units bit.
func (f *ArrayFlag) SetHasUnits(set bool) {
	if set {
		f.Options |= UnitsMask
	} else {
		f.Options &^= UnitsMask
	}
}

// IsLittleEndian reports whether the blob is little-endian.
func (f ArrayFlag) IsLittleEndian() bool {
	return f.Options&EndiannessMask == 0
}

// IsBigEndian reports whether the blob is big-endian.
func (f ArrayFlag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// WithLittleEndian selects little-endian byte order.
func (f *ArrayFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian selects big-endian byte order.
func (f *ArrayFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number bits of Options.
func (f ArrayFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// ValueEncoding returns the value encoding.
func (f ArrayFlag) ValueEncoding() format.EncodingType {
	return format.EncodingType(f.EncodingType & 0x0F)
}

// SetValueEncoding sets the value encoding.
func (f *ArrayFlag) SetValueEncoding(enc format.EncodingType) {
	f.EncodingType = uint8(enc) & 0x0F
}

// Compression returns the payload compression.
func (f ArrayFlag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType & 0x0F)
}

// SetCompression sets the payload compression.
func (f *ArrayFlag) SetCompression(c format.CompressionType) {
	f.CompressionType = uint8(c) & 0x0F
}

// Validate checks the magic number, the reserved bits and the encoding and
// compression enums.
func (f ArrayFlag) Validate() error {
	if f.GetMagicNumber() != MagicArrayV1 {
		return fmt.Errorf("%w: 0x%04X", errs.ErrInvalidMagicNumber, f.GetMagicNumber())
	}
	if f.Options&ReservedBitsMask != 0 || f.EncodingType&0xF0 != 0 || f.CompressionType&0xF0 != 0 {
		return errs.ErrInvalidHeaderFlags
	}
	if !f.ValueEncoding().IsValid() {
		return fmt.Errorf("%w: %d", errs.ErrInvalidValueEncoding, f.EncodingType)
	}
	if !f.Compression().IsValid() {
		return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, f.CompressionType)
	}

	return nil
}

// GetEndianEngine returns the engine for the flag's byte order.
func (f ArrayFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
