package encoding

import "github.com/arloliu/qty/scalar"

// ValueEncoder encodes array elements in order.
type ValueEncoder interface {
	// Write encodes v. The value must cast losslessly into the encoder's kind.
	Write(v scalar.Value) error
	// Bytes returns the encoded bytes. The slice is owned by the encoder and
	// valid until the next Write or Finish.
	Bytes() []byte
	// Len returns the number of encoded elements.
	Len() int
	// Size returns the number of encoded bytes.
	Size() int
	// Finish returns the buffer to the pool. The encoder is unusable afterwards.
	Finish()
}

// ValueDecoder decodes count elements of a fixed kind.
type ValueDecoder interface {
	Decode(data []byte, count int) ([]scalar.Value, error)
}
