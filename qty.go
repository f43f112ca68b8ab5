// Package qty provides physical quantities: numbers and arrays tagged with
// units of measure, checked for dimensional compatibility before any
// arithmetic and converted between compatible units, including affine
// temperature scales.
//
// # Core Features
//
//   - Unit expressions such as "kg*m/s**2", "1/m", "km", "degC"
//   - Scalar quantities with lossless numeric kind promotion
//   - Unit-aware arrays whose operations follow a static propagation table
//   - Binary serialization of arrays with optional Gorilla encoding and
//     Zstd, S2 or LZ4 compression
//   - JSON for quantities and arrays
//
// # Basic Usage
//
// Scalar quantities:
//
//	d, _ := qty.NewQuantity(5, "m")
//	t, _ := qty.NewQuantity(2, "s")
//	v, _ := d.Div(t) // 2.5 m/s
//
//	c, _ := qty.NewQuantity(25.0, "degC")
//	k, _ := c.ToExpr("K") // 298.15 K
//
// Arrays:
//
//	a, _ := qty.NewArray([]float64{1, 2, 3}, "m")
//	b, _ := qty.NewArray([]float64{10, 20, 30}, "cm")
//	sum, _ := a.Add(b) // [1.1 2.2 3.3] m
//
// Persisting arrays:
//
//	data, _ := qty.Encode(sum, blob.WithCompression(format.CompressionZstd))
//	back, _ := qty.Decode(data)
//
// # Package Structure
//
// This package wraps the most common entry points. Use the units, quantity,
// qarray and blob packages directly for registries, dispatcher options, custom
// engines and wire format details.
package qty

import (
	"github.com/arloliu/qty/blob"
	"github.com/arloliu/qty/format"
	"github.com/arloliu/qty/qarray"
	"github.com/arloliu/qty/quantity"
	"github.com/arloliu/qty/units"
)

var defaultEncoderOptions = []blob.ArrayEncoderOption{
	blob.WithLittleEndian(),
	blob.WithValueEncoding(format.TypeGorilla),
	blob.WithCompression(format.CompressionNone),
}

// ParseUnits parses a unit expression with the default registry.
//
// "" and "n/a" give the empty units; unknown symbols and malformed exponents
// fail with errs.ErrUnitsParse.
func ParseUnits(expr string) (units.Units, error) {
	return units.Parse(expr)
}

// NewQuantity creates a quantity from a Go number or scalar.Value and a unit
// expression.
func NewQuantity(value any, expr string) (quantity.Quantity, error) {
	return quantity.Parse(value, expr)
}

// NewArray creates an array from a Go number or a nested slice of numbers and
// a unit expression. An empty expression leaves the units empty.
func NewArray(input any, expr string) (*qarray.Array, error) {
	return qarray.New(input, qarray.WithUnitsExpr(expr))
}

// Dispatch applies the named array operation, e.g. "add", "multiply",
// "sqrt" or "equal", to the operands with the default dispatcher.
//
// Operands may be arrays, quantities, plain numbers or nested slices. The
// propagation table decides how operand units are converted and what units
// the result carries; unknown operations fail with
// errs.ErrUnsupportedOperation.
func Dispatch(op string, operands ...any) (*qarray.Array, error) {
	return qarray.Dispatch(op, operands)
}

// Encode serializes a into a blob.
//
// Without options floats are Gorilla encoded and left uncompressed, and other
// kinds are written raw. Options replace the defaults one by one.
//
// Example:
//
//	data, err := qty.Encode(arr,
//	    blob.WithCompression(format.CompressionZstd),
//	    blob.WithBigEndian(),
//	)
func Encode(a *qarray.Array, opts ...blob.ArrayEncoderOption) ([]byte, error) {
	all := make([]blob.ArrayEncoderOption, 0, len(defaultEncoderOptions)+len(opts))
	all = append(all, defaultEncoderOptions...)
	all = append(all, opts...)

	enc, err := blob.NewArrayEncoder(all...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(a)
}

// Decode rebuilds an array from a blob written by Encode.
func Decode(data []byte, opts ...blob.ArrayDecoderOption) (*qarray.Array, error) {
	dec, err := blob.NewArrayDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return dec.Decode(data)
}
