package encoding

import (
	"fmt"

	"github.com/arloliu/qty/endian"
	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/format"
	"github.com/arloliu/qty/scalar"
)

// NewValueEncoder returns the encoder for enc and element kind k.
func NewValueEncoder(enc format.EncodingType, k scalar.Kind, engine endian.EndianEngine) (ValueEncoder, error) {
	switch enc {
	case format.TypeRaw:
		return NewRawEncoder(k, engine)
	case format.TypeGorilla:
		return NewGorillaEncoder(k)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidValueEncoding, enc)
	}
}

// NewValueDecoder returns the decoder for enc and element kind k.
func NewValueDecoder(enc format.EncodingType, k scalar.Kind, engine endian.EndianEngine) (ValueDecoder, error) {
	switch enc {
	case format.TypeRaw:
		return NewRawDecoder(k, engine), nil
	case format.TypeGorilla:
		return NewGorillaDecoder(k), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidValueEncoding, enc)
	}
}

// Supports reports whether enc can carry elements of kind k.
func Supports(enc format.EncodingType, k scalar.Kind) bool {
	switch enc {
	case format.TypeRaw:
		return k.IsValid()
	case format.TypeGorilla:
		return k.IsFloat()
	default:
		return false
	}
}
