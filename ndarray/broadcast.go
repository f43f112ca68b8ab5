package ndarray

import (
	"fmt"

	"github.com/arloliu/qty/errs"
)

// BroadcastShapes returns the shape that every input shape stretches to.
func BroadcastShapes(shapes ...[]int) ([]int, error) {
	ndim := 0
	for _, s := range shapes {
		ndim = max(ndim, len(s))
	}
	out := make([]int, ndim)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		pad := ndim - len(s)
		for i, d := range s {
			switch o := out[pad+i]; {
			case o == d || d == 1:
			case o == 1:
				out[pad+i] = d
			default:
				return nil, fmt.Errorf("%w: cannot broadcast %v", errs.ErrShapeMismatch, shapes)
			}
		}
	}

	return out, nil
}

// indexer maps a flat position in a broadcast result to the flat position of
// one operand.
type indexer struct {
	identity bool
	out      []int
	strides  []int // per result axis; zero on stretched axes
}

func newIndexer(in, out []int) indexer {
	if equalShape(in, out) {
		return indexer{identity: true}
	}
	strides := make([]int, len(out))
	pad := len(out) - len(in)
	stride := 1
	for i := len(in) - 1; i >= 0; i-- {
		if in[i] != 1 {
			strides[pad+i] = stride
		}
		stride *= in[i]
	}

	return indexer{out: out, strides: strides}
}

func (ix indexer) at(flat int) int {
	if ix.identity {
		return flat
	}
	pos := 0
	for ax := len(ix.out) - 1; ax >= 0; ax-- {
		d := ix.out[ax]
		pos += (flat % d) * ix.strides[ax]
		flat /= d
	}

	return pos
}

func equalShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
