// Package encoding turns array elements into bytes and back.
//
// Two value encodings are available:
//
//   - Raw: every element at its kind's fixed width in the chosen byte order.
//     Works for every kind.
//   - Gorilla: the XOR scheme from Facebook's Gorilla paper for float kinds.
//     Runs of equal or slowly changing values shrink to a few bits each.
//
// VarStringEncoder writes the uint8 length-prefixed strings used for the units
// section of a blob.
//
// Encoders take a pooled buffer on creation; call Finish to give it back.
// Decoders are stateless values and safe for concurrent use.
package encoding
