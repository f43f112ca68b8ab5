package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/qty/endian"
	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/internal/pool"
	"github.com/arloliu/qty/scalar"
)

// RawEncoder writes each element at its kind's fixed width.
//
// Layout per kind:
//   - integers: two's complement at 1, 2, 4 or 8 bytes
//   - floats: IEEE-754 bits at 4 or 8 bytes
//   - complex: real part then imaginary part, each a float of half the width
//   - bool: one byte, 0 or 1
type RawEncoder struct {
	engine endian.EndianEngine
	buf    *pool.ByteBuffer
	kind   scalar.Kind
	count  int
}

var _ ValueEncoder = (*RawEncoder)(nil)

// NewRawEncoder creates a raw encoder for elements of kind k.
func NewRawEncoder(k scalar.Kind, engine endian.EndianEngine) (*RawEncoder, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedValueKind, k)
	}

	return &RawEncoder{
		engine: engine,
		buf:    pool.GetArrayBuffer(),
		kind:   k,
	}, nil
}

// Write appends v, cast losslessly to the encoder's kind.
func (e *RawEncoder) Write(v scalar.Value) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write values after Finish()")
	}

	v, err := v.Cast(e.kind)
	if err != nil {
		return err
	}

	e.buf.Grow(e.kind.Size())
	b := e.buf.Bytes()

	switch e.kind {
	case scalar.Int8, scalar.Uint8:
		b = append(b, byte(v.Uint64()))
	case scalar.Int16, scalar.Uint16:
		b = e.engine.AppendUint16(b, uint16(v.Uint64()))
	case scalar.Int32, scalar.Uint32:
		b = e.engine.AppendUint32(b, uint32(v.Uint64()))
	case scalar.Int64, scalar.Uint64:
		b = e.engine.AppendUint64(b, v.Uint64())
	case scalar.Float32:
		b = e.engine.AppendUint32(b, math.Float32bits(float32(v.Float64())))
	case scalar.Float64:
		b = e.engine.AppendUint64(b, math.Float64bits(v.Float64()))
	case scalar.Complex64:
		c := v.Complex128()
		b = e.engine.AppendUint32(b, math.Float32bits(float32(real(c))))
		b = e.engine.AppendUint32(b, math.Float32bits(float32(imag(c))))
	case scalar.Complex128:
		c := v.Complex128()
		b = e.engine.AppendUint64(b, math.Float64bits(real(c)))
		b = e.engine.AppendUint64(b, math.Float64bits(imag(c)))
	case scalar.Bool:
		if v.IsZero() {
			b = append(b, 0)
		} else {
			b = append(b, 1)
		}
	}

	e.buf.B = b
	e.count++

	return nil
}

// WriteSlice appends every value in order.
func (e *RawEncoder) WriteSlice(values []scalar.Value) error {
	e.buf.Grow(len(values) * e.kind.Size())
	for _, v := range values {
		if err := e.Write(v); err != nil {
			return err
		}
	}

	return nil
}

// Bytes returns the encoded bytes.
func (e *RawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded elements.
func (e *RawEncoder) Len() int {
	return e.count
}

// Size returns the number of encoded bytes.
func (e *RawEncoder) Size() int {
	if e.buf == nil {
		return 0
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *RawEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutArrayBuffer(e.buf)
	e.buf = nil
}

// RawDecoder reads elements written by RawEncoder.
type RawDecoder struct {
	engine endian.EndianEngine
	kind   scalar.Kind
}

var _ ValueDecoder = RawDecoder{}

// NewRawDecoder creates a raw decoder for elements of kind k.
func NewRawDecoder(k scalar.Kind, engine endian.EndianEngine) RawDecoder {
	return RawDecoder{engine: engine, kind: k}
}

// Decode reads exactly count elements; data must hold nothing else.
func (d RawDecoder) Decode(data []byte, count int) ([]scalar.Value, error) {
	if !d.kind.IsValid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedValueKind, d.kind)
	}

	size := d.kind.Size()
	if count < 0 || len(data) != count*size {
		return nil, fmt.Errorf("%w: %d bytes for %d %s values", errs.ErrInvalidPayload, len(data), count, d.kind)
	}

	out := make([]scalar.Value, count)
	for i := range out {
		v, err := d.at(data[i*size : (i+1)*size])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func (d RawDecoder) at(b []byte) (scalar.Value, error) {
	switch d.kind {
	case scalar.Int8:
		return scalar.OfInt8(int8(b[0])), nil
	case scalar.Int16:
		return scalar.OfInt16(int16(d.engine.Uint16(b))), nil
	case scalar.Int32:
		return scalar.OfInt32(int32(d.engine.Uint32(b))), nil
	case scalar.Int64:
		return scalar.OfInt64(int64(d.engine.Uint64(b))), nil
	case scalar.Uint8:
		return scalar.OfUint8(b[0]), nil
	case scalar.Uint16:
		return scalar.OfUint16(d.engine.Uint16(b)), nil
	case scalar.Uint32:
		return scalar.OfUint32(d.engine.Uint32(b)), nil
	case scalar.Uint64:
		return scalar.OfUint64(d.engine.Uint64(b)), nil
	case scalar.Float32:
		return scalar.OfFloat32(math.Float32frombits(d.engine.Uint32(b))), nil
	case scalar.Float64:
		return scalar.OfFloat64(math.Float64frombits(d.engine.Uint64(b))), nil
	case scalar.Complex64:
		re := math.Float32frombits(d.engine.Uint32(b[0:4]))
		im := math.Float32frombits(d.engine.Uint32(b[4:8]))

		return scalar.OfComplex64(complex(re, im)), nil
	case scalar.Complex128:
		re := math.Float64frombits(d.engine.Uint64(b[0:8]))
		im := math.Float64frombits(d.engine.Uint64(b[8:16]))

		return scalar.OfComplex128(complex(re, im)), nil
	case scalar.Bool:
		if b[0] > 1 {
			return scalar.Value{}, fmt.Errorf("%w: bool byte 0x%02X", errs.ErrInvalidPayload, b[0])
		}

		return scalar.OfBool(b[0] == 1), nil
	default:
		return scalar.Value{}, fmt.Errorf("%w: %d", errs.ErrUnsupportedValueKind, d.kind)
	}
}
