// Package scalar implements the closed set of numeric kinds a quantity can hold
// and the lossless castability relation between them.
//
// Mixed-kind binary operations resolve to the left kind when the right kind
// casts to it losslessly, else to the right kind when the left casts to it,
// and fail with errs.ErrIncompatibleValueType otherwise.
package scalar

import (
	"fmt"
	"strconv"

	"github.com/arloliu/qty/errs"
)

// Kind identifies the numeric representation of a Value.
type Kind uint8

const (
	Invalid Kind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Complex64
	Complex128
	Bool
)

var kindNames = [...]string{
	Invalid:    "invalid",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Uint8:      "uint8",
	Uint16:     "uint16",
	Uint32:     "uint32",
	Uint64:     "uint64",
	Float32:    "float32",
	Float64:    "float64",
	Complex64:  "complex64",
	Complex128: "complex128",
	Bool:       "bool",
}

// Kinds lists every valid kind.
var Kinds = []Kind{Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float32, Float64, Complex64, Complex128, Bool}

// String returns the Go type name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the kind named s, e.g. "float64".
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s && Kind(i) != Invalid {
			return Kind(i), nil
		}
	}

	return Invalid, fmt.Errorf("%w: unknown kind %q", errs.ErrIncompatibleValueType, s)
}

// IsValid reports whether k is one of Kinds.
func (k Kind) IsValid() bool {
	return k > Invalid && k <= Bool
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool {
	return k >= Int8 && k <= Int64
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool {
	return k >= Uint8 && k <= Uint64
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k Kind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

// IsFloat reports whether k is float32 or float64.
func (k Kind) IsFloat() bool {
	return k == Float32 || k == Float64
}

// IsComplex reports whether k is complex64 or complex128.
func (k Kind) IsComplex() bool {
	return k == Complex64 || k == Complex128
}

// IsBool reports whether k is the boolean kind. Bool only appears as the
// result of predicates and comparisons.
func (k Kind) IsBool() bool {
	return k == Bool
}

// Size returns the width of the kind in bytes.
func (k Kind) Size() int {
	switch k {
	case Int8, Uint8, Bool:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		return 0
	}
}

// bits returns the integer width; zero for non-integer kinds.
func (k Kind) bits() int {
	if k.IsInteger() {
		return k.Size() * 8
	}

	return 0
}

// CanCast reports whether every value of kind from is representable in kind to.
func CanCast(from, to Kind) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from == to || from == Bool {
		return true
	}

	switch to {
	case Complex128:
		return true
	case Complex64:
		return from == Float32 || from.bits() == 8 || from.bits() == 16
	case Float64:
		return !from.IsComplex()
	case Float32:
		return from.bits() == 8 || from.bits() == 16
	}

	switch {
	case to.IsSigned():
		if from.IsSigned() {
			return from.bits() <= to.bits()
		}

		return from.IsUnsigned() && from.bits() < to.bits()
	case to.IsUnsigned():
		return from.IsUnsigned() && from.bits() <= to.bits()
	}

	return false
}

// Promote returns the kind a binary operation between a and b computes in.
func Promote(a, b Kind) (Kind, error) {
	switch {
	case CanCast(b, a):
		return a, nil
	case CanCast(a, b):
		return b, nil
	default:
		return Invalid, fmt.Errorf("%w: cannot combine %s and %s", errs.ErrIncompatibleValueType, a, b)
	}
}
