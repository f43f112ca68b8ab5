// Package errs defines the sentinel errors shared by every qty package.
//
// Callers match them with errors.Is; call sites wrap them with context using
// fmt.Errorf("...: %w", errs.ErrX).
package errs

import "errors"

// Units and quantity algebra errors.
var (
	// ErrUnitsParse is returned when a unit expression cannot be parsed.
	ErrUnitsParse = errors.New("qty: cannot parse units")
	// ErrIncompatibleUnits is returned when two units have different dimensions.
	ErrIncompatibleUnits = errors.New("qty: incompatible units")
	// ErrIncompatibleValueType is returned when two numeric kinds cannot be combined losslessly.
	ErrIncompatibleValueType = errors.New("qty: incompatible value type")
	// ErrUnsupportedOperation is returned for operations that have no unit propagation rule.
	ErrUnsupportedOperation = errors.New("qty: unsupported operation")
	// ErrInvalidOperation is returned for operations that are defined but invalid for the operands,
	// such as combining offset units or integer division by zero.
	ErrInvalidOperation = errors.New("qty: invalid operation")
)

// Array errors.
var (
	ErrShapeMismatch    = errors.New("qty: shape mismatch")
	ErrIndexOutOfRange  = errors.New("qty: index out of range")
	ErrInvalidArrayData = errors.New("qty: invalid array data")
)

// Registry errors.
var (
	ErrInvalidDefinition  = errors.New("qty: invalid unit definition")
	ErrDuplicateSymbol    = errors.New("qty: duplicate unit symbol")
	ErrHashCollision      = errors.New("qty: parse cache hash collision")
	ErrInvalidUnitsSymbol = errors.New("qty: invalid unit symbol")
)

// Wire format errors.
var (
	ErrInvalidHeaderSize    = errors.New("qty: invalid header size")
	ErrInvalidMagicNumber   = errors.New("qty: invalid magic number")
	ErrInvalidHeaderFlags   = errors.New("qty: invalid header flags")
	ErrInvalidPayload       = errors.New("qty: invalid payload")
	ErrInvalidCompression   = errors.New("qty: invalid compression type")
	ErrInvalidValueEncoding = errors.New("qty: invalid value encoding")
	ErrUnitsStringTooLong   = errors.New("qty: units string too long")
	ErrTooManyDimensions    = errors.New("qty: too many dimensions")
	ErrUnsupportedValueKind = errors.New("qty: unsupported value kind")
)
