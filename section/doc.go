// Package section defines the fixed-size structures at the start of an array
// blob: the 32-byte ArrayHeader and its packed ArrayFlag.
//
// An array blob is laid out as:
//
//	┌──────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                     │
//	├──────────────────────────────────────────────┤
//	│ Meta (variable)                              │
//	│  - NDim × uint32 axis lengths                │
//	│  - units string, uint8 length prefix         │
//	├──────────────────────────────────────────────┤
//	│ Value payload (variable)                     │
//	│  - encoded, then compressed                  │
//	└──────────────────────────────────────────────┘
//
// Header format:
//
//	Bytes  | Field         | Type   | Description
//	-------|---------------|--------|------------------------------------------
//	0-1    | Options       | uint16 | magic (bits 4-15), endianness, units bit
//	2      | Encoding      | uint8  | value encoding (format.EncodingType)
//	3      | Compression   | uint8  | payload compression (format.CompressionType)
//	4      | Kind          | uint8  | element kind (scalar.Kind)
//	5      | NDim          | uint8  | number of axes
//	6-7    | Reserved      | uint16 | must be zero
//	8-15   | Count         | uint64 | number of elements
//	16-19  | MetaOffset    | uint32 | start of the meta section
//	20-23  | PayloadOffset | uint32 | start of the value payload
//	24-27  | PayloadSize   | uint32 | stored payload length in bytes
//	28-31  | Checksum      | uint32 | xxHash64 of the stored payload, low 32 bits
//
// Options is always little-endian so the endianness bit can be read before
// the rest of the header; every other multi-byte field uses the blob's byte
// order.
package section
