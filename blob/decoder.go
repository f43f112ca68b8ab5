package blob

import (
	"fmt"

	"github.com/arloliu/qty/compress"
	"github.com/arloliu/qty/encoding"
	"github.com/arloliu/qty/endian"
	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/format"
	"github.com/arloliu/qty/internal/hash"
	"github.com/arloliu/qty/internal/options"
	"github.com/arloliu/qty/qarray"
	"github.com/arloliu/qty/scalar"
	"github.com/arloliu/qty/section"
	"github.com/arloliu/qty/units"
)

// Info describes a blob without decoding its values.
type Info struct {
	Kind        scalar.Kind
	Shape       []int
	Count       int
	Units       string
	HasUnits    bool
	Encoding    format.EncodingType
	Compression format.CompressionType
	BigEndian   bool
	PayloadSize int
}

type decoderConfig struct {
	registry *units.Registry
	engine   qarray.Engine
}

// ArrayDecoderOption configures NewArrayDecoder.
type ArrayDecoderOption = options.Option[*decoderConfig]

// WithRegistry parses stored units with r instead of the default registry.
func WithRegistry(r *units.Registry) ArrayDecoderOption {
	return options.NoError(func(c *decoderConfig) {
		if r != nil {
			c.registry = r
		}
	})
}

// WithDecoderEngine builds decoded arrays on e instead of the dense engine.
func WithDecoderEngine(e qarray.Engine) ArrayDecoderOption {
	return options.NoError(func(c *decoderConfig) {
		if e != nil {
			c.engine = e
		}
	})
}

// ArrayDecoder turns blobs back into arrays. It is reusable and safe for
// concurrent use.
type ArrayDecoder struct {
	cfg decoderConfig
}

// NewArrayDecoder creates a decoder.
func NewArrayDecoder(opts ...ArrayDecoderOption) (*ArrayDecoder, error) {
	cfg := &decoderConfig{
		registry: units.Default(),
		engine:   qarray.Dense(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &ArrayDecoder{cfg: *cfg}, nil
}

// Decode rebuilds the array stored in data. The checksum, the section
// offsets and the element count are all verified; any mismatch fails with
// ErrInvalidPayload.
func (d *ArrayDecoder) Decode(data []byte) (*qarray.Array, error) {
	p, err := parse(data)
	if err != nil {
		return nil, err
	}

	u := units.Empty()
	if p.header.Flag.HasUnits() {
		if u, err = d.cfg.registry.Parse(p.units); err != nil {
			return nil, err
		}
		if u.IsEmpty() {
			u = units.Dimensionless()
		}
	}

	codec, err := compress.GetCodec(p.header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(p.payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decompress value payload: %w", errs.ErrInvalidPayload, err)
	}

	engine := p.header.Flag.GetEndianEngine()
	dec, err := encoding.NewValueDecoder(p.header.Flag.ValueEncoding(), p.header.Kind, engine)
	if err != nil {
		return nil, err
	}
	vals, err := dec.Decode(raw, int(p.header.Count)) //nolint:gosec // bounded by the shape product
	if err != nil {
		return nil, err
	}

	buf, err := d.cfg.engine.FromValues(p.header.Kind, p.shape, vals)
	if err != nil {
		return nil, err
	}

	return qarray.New(buf, qarray.WithUnits(u), qarray.WithArrayEngine(d.cfg.engine))
}

// Inspect reads the header and meta section of data.
func Inspect(data []byte) (Info, error) {
	p, err := parse(data)
	if err != nil {
		return Info{}, err
	}

	return Info{
		Kind:        p.header.Kind,
		Shape:       p.shape,
		Count:       int(p.header.Count), //nolint:gosec // bounded by the shape product
		Units:       p.units,
		HasUnits:    p.header.Flag.HasUnits(),
		Encoding:    p.header.Flag.ValueEncoding(),
		Compression: p.header.Flag.Compression(),
		BigEndian:   p.header.Flag.IsBigEndian(),
		PayloadSize: len(p.payload),
	}, nil
}

type parsed struct {
	header  section.ArrayHeader
	shape   []int
	units   string
	payload []byte
}

func parse(data []byte) (parsed, error) {
	header, err := section.ParseArrayHeader(data)
	if err != nil {
		return parsed{}, err
	}

	end := uint64(header.PayloadOffset) + uint64(header.PayloadSize)
	if uint64(len(data)) != end {
		return parsed{}, fmt.Errorf("%w: blob is %d bytes, header describes %d", errs.ErrInvalidPayload, len(data), end)
	}
	payload := data[header.PayloadOffset:end]
	if sum := hash.Checksum32(payload); sum != header.Checksum {
		return parsed{}, fmt.Errorf("%w: checksum 0x%08X, want 0x%08X", errs.ErrInvalidPayload, sum, header.Checksum)
	}

	meta := data[header.MetaOffset:header.PayloadOffset]
	shape, rest, err := decodeShape(meta, int(header.NDim), header.Flag.GetEndianEngine())
	if err != nil {
		return parsed{}, err
	}

	count := uint64(1)
	for _, n := range shape {
		count *= uint64(n)
	}
	if count != header.Count {
		return parsed{}, fmt.Errorf("%w: shape %v holds %d elements, header says %d", errs.ErrInvalidPayload, shape, count, header.Count)
	}

	unitsStr, n, err := encoding.DecodeVarString(rest)
	if err != nil {
		return parsed{}, err
	}
	if n != len(rest) {
		return parsed{}, fmt.Errorf("%w: %d stray bytes after units", errs.ErrInvalidPayload, len(rest)-n)
	}

	return parsed{header: header, shape: shape, units: unitsStr, payload: payload}, nil
}

func decodeShape(meta []byte, ndim int, engine endian.EndianEngine) ([]int, []byte, error) {
	if len(meta) < ndim*section.AxisSize {
		return nil, nil, fmt.Errorf("%w: meta section too short for %d axes", errs.ErrInvalidPayload, ndim)
	}

	shape := make([]int, ndim)
	for i := range shape {
		shape[i] = int(engine.Uint32(meta[i*section.AxisSize:]))
	}

	return shape, meta[ndim*section.AxisSize:], nil
}
