package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/internal/pool"
	"github.com/arloliu/qty/scalar"
)

// GorillaEncoder compresses float elements with the XOR scheme from
// Facebook's Gorilla paper (https://www.vldb.org/pvldb/vol8/p1816-teller.pdf).
//
// The first value is stored as its 64 float64 bits. Each following value is
// XORed with its predecessor:
//   - XOR zero: a single 0 bit
//   - meaningful bits fit the previous window: bits 10 then the window
//   - otherwise: bits 11, 5 bits of leading zeros, 6 bits of window length
//     minus one, then the window
//
// Float32 elements are widened to float64 first, which is exact.
// The bit stream is always most significant bit first, whatever byte order
// the rest of the blob uses.
type GorillaEncoder struct {
	bitBuf        uint64
	prevValue     uint64
	bitCount      int
	count         int
	prevLeading   int
	prevTrailing  int
	prevBlockSize int
	flushed       bool

	buf  *pool.ByteBuffer
	kind scalar.Kind
}

var _ ValueEncoder = (*GorillaEncoder)(nil)

// NewGorillaEncoder creates a Gorilla encoder for Float32 or Float64 elements.
func NewGorillaEncoder(k scalar.Kind) (*GorillaEncoder, error) {
	if !k.IsFloat() {
		return nil, fmt.Errorf("%w: gorilla encoding needs a float kind, got %s", errs.ErrUnsupportedValueKind, k)
	}

	return &GorillaEncoder{
		buf:  pool.GetArrayBuffer(),
		kind: k,
	}, nil
}

// Write appends v, cast losslessly to the encoder's kind.
func (e *GorillaEncoder) Write(v scalar.Value) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write values after Finish()")
	}
	if e.flushed {
		return fmt.Errorf("%w: gorilla stream already closed by Bytes", errs.ErrInvalidOperation)
	}

	v, err := v.Cast(e.kind)
	if err != nil {
		return err
	}

	valBits := math.Float64bits(v.Float64())
	e.count++
	if e.count == 1 {
		e.prevValue = valBits
		e.writeBits(valBits, 64)

		return nil
	}

	e.writeValue(valBits)

	return nil
}

// Bytes flushes pending bits and returns the stream. The stream is closed
// afterwards; further writes fail.
func (e *GorillaEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}
	if !e.flushed {
		e.flushBits()
		e.flushed = true
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded elements.
func (e *GorillaEncoder) Len() int {
	return e.count
}

// Size returns the number of flushed bytes. Pending bits are not counted
// until Bytes is called.
func (e *GorillaEncoder) Size() int {
	if e.buf == nil {
		return 0
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *GorillaEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutArrayBuffer(e.buf)
	e.buf = nil
}

func (e *GorillaEncoder) writeValue(valBits uint64) {
	xor := valBits ^ e.prevValue
	e.prevValue = valBits

	if xor == 0 {
		e.writeBits(0, 1)
		return
	}

	leading := bits.LeadingZeros64(xor)
	trailing := bits.TrailingZeros64(xor)
	// Leading zeros are stored in 5 bits.
	if leading > 31 {
		leading = 31
	}

	if e.prevBlockSize > 0 && leading >= e.prevLeading && trailing >= e.prevTrailing {
		e.writeBits(0b10, 2)
		e.writeBits(xor>>e.prevTrailing, e.prevBlockSize)

		return
	}

	blockSize := 64 - leading - trailing
	e.writeBits(0b11, 2)
	e.writeBits(uint64(leading), 5)     //nolint:gosec // 0-31
	e.writeBits(uint64(blockSize-1), 6) //nolint:gosec // 0-63
	e.writeBits(xor>>trailing, blockSize)

	e.prevLeading = leading
	e.prevTrailing = trailing
	e.prevBlockSize = blockSize
}

// writeBits appends the low numBits bits of value, numBits in 1..64.
func (e *GorillaEncoder) writeBits(value uint64, numBits int) {
	if numBits < 64 {
		value &= (1 << numBits) - 1
	}

	available := 64 - e.bitCount
	if numBits <= available {
		if numBits == 64 {
			e.bitBuf = value
		} else {
			e.bitBuf = (e.bitBuf << numBits) | value
		}
		e.bitCount += numBits
		if e.bitCount == 64 {
			e.flushBits()
		}

		return
	}

	// Split across the 64-bit boundary.
	low := numBits - available
	e.bitBuf = (e.bitBuf << available) | (value >> low)
	e.bitCount = 64
	e.flushBits()

	e.bitBuf = value & ((1 << low) - 1)
	e.bitCount = low
}

// flushBits appends the pending bits, left aligned and zero padded to a byte.
func (e *GorillaEncoder) flushBits() {
	if e.bitCount == 0 {
		return
	}

	numBytes := (e.bitCount + 7) / 8
	aligned := e.bitBuf << (64 - e.bitCount)

	start := e.buf.Len()
	e.buf.ExtendOrGrow(numBytes)
	bs := e.buf.Slice(start, start+numBytes)
	if numBytes == 8 {
		binary.BigEndian.PutUint64(bs, aligned)
	} else {
		for i := range numBytes {
			bs[i] = byte(aligned >> (56 - i*8))
		}
	}

	e.bitBuf = 0
	e.bitCount = 0
}

// GorillaDecoder reads streams written by GorillaEncoder.
type GorillaDecoder struct {
	kind scalar.Kind
}

var _ ValueDecoder = GorillaDecoder{}

// NewGorillaDecoder creates a Gorilla decoder producing elements of kind k.
func NewGorillaDecoder(k scalar.Kind) GorillaDecoder {
	return GorillaDecoder{kind: k}
}

// Decode reads count elements. Truncated or malformed streams fail with
// ErrInvalidPayload.
func (d GorillaDecoder) Decode(data []byte, count int) ([]scalar.Value, error) {
	if !d.kind.IsFloat() {
		return nil, fmt.Errorf("%w: gorilla encoding needs a float kind, got %s", errs.ErrUnsupportedValueKind, d.kind)
	}
	// Every element after the first takes at least one bit.
	if count < 0 || (count > 0 && count-1 > (len(data)-8)*8) {
		return nil, fmt.Errorf("%w: %d bytes cannot hold %d values", errs.ErrInvalidPayload, len(data), count)
	}

	out := make([]scalar.Value, 0, count)
	if count == 0 {
		return out, nil
	}

	br := &bitReader{data: data}
	prev, ok := br.readBits(64)
	if !ok {
		return nil, fmt.Errorf("%w: truncated gorilla stream", errs.ErrInvalidPayload)
	}
	out = append(out, d.value(prev))

	var trailing, blockSize int
	for len(out) < count {
		changed, ok := br.readBits(1)
		if !ok {
			return nil, fmt.Errorf("%w: truncated gorilla stream at %d", errs.ErrInvalidPayload, len(out))
		}
		if changed == 0 {
			out = append(out, d.value(prev))
			continue
		}

		newBlock, ok := br.readBits(1)
		if !ok {
			return nil, fmt.Errorf("%w: truncated gorilla stream at %d", errs.ErrInvalidPayload, len(out))
		}
		if newBlock == 1 {
			leading, ok1 := br.readBits(5)
			size, ok2 := br.readBits(6)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("%w: truncated gorilla block header", errs.ErrInvalidPayload)
			}
			blockSize = int(size) + 1                //nolint:gosec // 1-64
			trailing = 64 - int(leading) - blockSize //nolint:gosec // 0-63
			if trailing < 0 {
				return nil, fmt.Errorf("%w: gorilla block exceeds 64 bits", errs.ErrInvalidPayload)
			}
		} else if blockSize == 0 {
			return nil, fmt.Errorf("%w: gorilla block reused before definition", errs.ErrInvalidPayload)
		}

		meaningful, ok := br.readBits(blockSize)
		if !ok {
			return nil, fmt.Errorf("%w: truncated gorilla value at %d", errs.ErrInvalidPayload, len(out))
		}
		prev ^= meaningful << trailing
		out = append(out, d.value(prev))
	}

	return out, nil
}

func (d GorillaDecoder) value(b uint64) scalar.Value {
	f := math.Float64frombits(b)
	if d.kind == scalar.Float32 {
		return scalar.OfFloat32(float32(f))
	}

	return scalar.OfFloat64(f)
}

// bitReader reads a byte slice most significant bit first.
type bitReader struct {
	data     []byte
	bytePos  int
	bitBuf   uint64
	bitCount int
}

// readBits reads numBits bits, numBits in 1..64, right aligned.
func (br *bitReader) readBits(numBits int) (uint64, bool) {
	if numBits <= br.bitCount {
		result := br.bitBuf >> (64 - numBits)
		br.bitBuf <<= numBits
		br.bitCount -= numBits

		return result, true
	}

	var result uint64
	for numBits > 0 {
		if br.bitCount == 0 && !br.fillBuffer() {
			return 0, false
		}

		n := min(numBits, br.bitCount)
		result = (result << n) | (br.bitBuf >> (64 - n))
		br.bitBuf <<= n
		br.bitCount -= n
		numBits -= n
	}

	return result, true
}

func (br *bitReader) fillBuffer() bool {
	if br.bytePos >= len(br.data) {
		return false
	}

	n := min(8, len(br.data)-br.bytePos)
	if n == 8 {
		br.bitBuf = binary.BigEndian.Uint64(br.data[br.bytePos:])
	} else {
		br.bitBuf = 0
		for i := range n {
			br.bitBuf = (br.bitBuf << 8) | uint64(br.data[br.bytePos+i])
		}
		br.bitBuf <<= (8 - n) * 8
	}
	br.bytePos += n
	br.bitCount = n * 8

	return true
}
