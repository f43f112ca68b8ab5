package section

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/scalar"
)

// ArrayHeader is the fixed-size header at the start of an array blob.
type ArrayHeader struct {
	Flag ArrayFlag // byte offset 0-3
	// Kind is the element kind.
	Kind scalar.Kind // byte offset 4
	// NDim is the number of axes; zero for a single element.
	NDim uint8 // byte offset 5
	// Count is the number of elements.
	Count uint64 // byte offset 8-15
	// MetaOffset is the byte offset of the shape and units section.
	MetaOffset uint32 // byte offset 16-19
	// PayloadOffset is the byte offset of the value payload.
	PayloadOffset uint32 // byte offset 20-23
	// PayloadSize is the stored (compressed) payload length.
	PayloadSize uint32 // byte offset 24-27
	// Checksum is the low 32 bits of the payload's xxHash64.
	Checksum uint32 // byte offset 28-31
}

// NewArrayHeader creates a header for an array of the given kind. Counts,
// offsets and checksum are set by the encoder.
func NewArrayHeader(kind scalar.Kind) *ArrayHeader {
	return &ArrayHeader{
		Flag:       NewArrayFlag(),
		Kind:       kind,
		MetaOffset: MetaOffset,
	}
}

// Parse parses exactly HeaderSize bytes into h and validates them.
func (h *ArrayHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	h.Flag.Options = binary.LittleEndian.Uint16(data[0:2])
	h.Flag.EncodingType = data[2]
	h.Flag.CompressionType = data[3]
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.Kind = scalar.Kind(data[4])
	h.NDim = data[5]
	if reserved := engine.Uint16(data[6:8]); reserved != 0 {
		return fmt.Errorf("%w: reserved bytes set", errs.ErrInvalidHeaderFlags)
	}
	h.Count = engine.Uint64(data[8:16])
	h.MetaOffset = engine.Uint32(data[16:20])
	h.PayloadOffset = engine.Uint32(data[20:24])
	h.PayloadSize = engine.Uint32(data[24:28])
	h.Checksum = engine.Uint32(data[28:32])

	return h.validate()
}

func (h *ArrayHeader) validate() error {
	if !h.Kind.IsValid() {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedValueKind, h.Kind)
	}
	if h.MetaOffset != MetaOffset {
		return fmt.Errorf("%w: meta offset %d", errs.ErrInvalidPayload, h.MetaOffset)
	}
	if h.PayloadOffset < h.MetaOffset+uint32(h.NDim)*AxisSize+1 {
		return fmt.Errorf("%w: payload offset %d overlaps meta", errs.ErrInvalidPayload, h.PayloadOffset)
	}

	return nil
}

// Bytes serializes the header into HeaderSize bytes.
func (h *ArrayHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.Flag.GetEndianEngine()

	binary.LittleEndian.PutUint16(b[0:2], h.Flag.Options)
	b[2] = h.Flag.EncodingType
	b[3] = h.Flag.CompressionType
	b[4] = uint8(h.Kind)
	b[5] = h.NDim
	engine.PutUint64(b[8:16], h.Count)
	engine.PutUint32(b[16:20], h.MetaOffset)
	engine.PutUint32(b[20:24], h.PayloadOffset)
	engine.PutUint32(b[24:28], h.PayloadSize)
	engine.PutUint32(b[28:32], h.Checksum)

	return b
}

// ParseArrayHeader parses the header at the start of data.
func ParseArrayHeader(data []byte) (ArrayHeader, error) {
	if len(data) < HeaderSize {
		return ArrayHeader{}, fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	h := ArrayHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return ArrayHeader{}, err
	}

	return h, nil
}
