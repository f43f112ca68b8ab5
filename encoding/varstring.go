package encoding

import (
	"fmt"

	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/internal/pool"
)

// MaxStringLength is the longest string a uint8 length prefix can describe.
const MaxStringLength = 255

// VarStringEncoder writes strings as a uint8 length followed by the bytes.
type VarStringEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

// NewVarStringEncoder creates a string encoder on a pooled buffer.
func NewVarStringEncoder() *VarStringEncoder {
	return &VarStringEncoder{buf: pool.GetArrayBuffer()}
}

// Write appends s. Strings longer than MaxStringLength fail with
// ErrUnitsStringTooLong.
func (e *VarStringEncoder) Write(s string) error {
	if len(s) > MaxStringLength {
		return fmt.Errorf("%w: %d bytes, max %d", errs.ErrUnitsStringTooLong, len(s), MaxStringLength)
	}

	e.buf.Grow(1 + len(s))
	e.buf.B = append(e.buf.B, uint8(len(s))) //nolint:gosec // checked above
	e.buf.B = append(e.buf.B, s...)
	e.count++

	return nil
}

// Bytes returns the encoded strings.
func (e *VarStringEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of encoded strings.
func (e *VarStringEncoder) Len() int {
	return e.count
}

// Size returns the number of encoded bytes.
func (e *VarStringEncoder) Size() int {
	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *VarStringEncoder) Finish() {
	if e.buf == nil {
		return
	}

	pool.PutArrayBuffer(e.buf)
	e.buf = nil
}

// DecodeVarString reads one length-prefixed string from the start of data and
// returns it with the number of bytes consumed.
func DecodeVarString(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("%w: missing string length", errs.ErrInvalidPayload)
	}

	n := int(data[0])
	if len(data) < 1+n {
		return "", 0, fmt.Errorf("%w: string needs %d bytes, have %d", errs.ErrInvalidPayload, n, len(data)-1)
	}

	return string(data[1 : 1+n]), 1 + n, nil
}
