package blob

import (
	"fmt"
	"math"

	"github.com/arloliu/qty/compress"
	"github.com/arloliu/qty/encoding"
	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/format"
	"github.com/arloliu/qty/internal/hash"
	"github.com/arloliu/qty/internal/options"
	"github.com/arloliu/qty/qarray"
	"github.com/arloliu/qty/section"
)

// ArrayEncoder turns arrays into blobs. It is reusable and safe for
// concurrent use.
type ArrayEncoder struct {
	cfg *ArrayEncoderConfig
}

// NewArrayEncoder creates an encoder. Without options it writes
// little-endian, raw, uncompressed blobs.
func NewArrayEncoder(opts ...ArrayEncoderOption) (*ArrayEncoder, error) {
	cfg := newArrayEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(cfg.header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	cfg.codec = codec

	return &ArrayEncoder{cfg: cfg}, nil
}

// Encode serializes a with its shape, element kind and units.
//
// It fails with ErrTooManyDimensions above section.MaxDimensions axes and
// with ErrUnitsStringTooLong when the rendered units exceed
// section.MaxUnitsLen bytes.
func (e *ArrayEncoder) Encode(a *qarray.Array) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil array", errs.ErrInvalidArrayData)
	}

	shape := a.Shape()
	if len(shape) > section.MaxDimensions {
		return nil, fmt.Errorf("%w: %d axes, max %d", errs.ErrTooManyDimensions, len(shape), section.MaxDimensions)
	}
	for i, n := range shape {
		if n < 0 || uint64(n) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: axis %d has length %d", errs.ErrInvalidArrayData, i, n)
		}
	}

	// Clone so concurrent calls never share computed fields.
	header := *e.cfg.header
	header.Kind = a.Kind()
	header.NDim = uint8(len(shape)) //nolint:gosec // checked above
	header.Count = uint64(a.Size()) //nolint:gosec // sizes are non-negative

	u := a.Units()
	header.Flag.SetHasUnits(!u.IsEmpty())
	if !encoding.Supports(header.Flag.ValueEncoding(), header.Kind) {
		header.Flag.SetValueEncoding(format.TypeRaw)
	}

	meta, err := e.encodeMeta(shape, u.String())
	if err != nil {
		return nil, err
	}

	values, err := e.encodeValues(header, a)
	if err != nil {
		return nil, err
	}
	payload, err := e.cfg.codec.Compress(values)
	if err != nil {
		return nil, fmt.Errorf("failed to compress value payload: %w", err)
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes", errs.ErrInvalidPayload, len(payload))
	}

	header.MetaOffset = section.MetaOffset
	header.PayloadOffset = section.MetaOffset + uint32(len(meta)) //nolint:gosec // bounded by ndim and units length
	header.PayloadSize = uint32(len(payload))                     //nolint:gosec // checked above
	header.Checksum = hash.Checksum32(payload)

	blob := make([]byte, 0, int(header.PayloadOffset)+len(payload))
	blob = append(blob, header.Bytes()...)
	blob = append(blob, meta...)
	blob = append(blob, payload...)

	return blob, nil
}

// encodeMeta writes the axis lengths followed by the units string.
func (e *ArrayEncoder) encodeMeta(shape []int, unitsStr string) ([]byte, error) {
	strEnc := encoding.NewVarStringEncoder()
	defer strEnc.Finish()

	if err := strEnc.Write(unitsStr); err != nil {
		return nil, err
	}

	meta := make([]byte, 0, len(shape)*section.AxisSize+strEnc.Size())
	for _, n := range shape {
		meta = e.cfg.engine.AppendUint32(meta, uint32(n)) //nolint:gosec // checked by Encode
	}

	return append(meta, strEnc.Bytes()...), nil
}

func (e *ArrayEncoder) encodeValues(header section.ArrayHeader, a *qarray.Array) ([]byte, error) {
	valEnc, err := encoding.NewValueEncoder(header.Flag.ValueEncoding(), header.Kind, e.cfg.engine)
	if err != nil {
		return nil, err
	}
	defer valEnc.Finish()

	buf := a.Values()
	for i := range buf.Size() {
		if err := valEnc.Write(buf.At(i)); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
	}

	// Copy out before Finish returns the buffer to the pool.
	return append([]byte(nil), valEnc.Bytes()...), nil
}
