package section

// Bit masks of ArrayFlag.Options.
const (
	UnitsMask        = 0x0001 // units were set; clear means empty units
	EndiannessMask   = 0x0002 // 0=little, 1=big
	ReservedBitsMask = 0x000C // bits 2-3, must be zero
	MagicNumberMask  = 0xFFF0 // bits 4-15

	// MagicArrayV1 identifies version 1 of the array blob format.
	MagicArrayV1 = 0xEC10
)

// Section sizes and limits.
const (
	// HeaderSize is the fixed header size in bytes.
	HeaderSize = 32
	// MetaOffset is where the meta section starts.
	MetaOffset = HeaderSize
	// AxisSize is the stored width of one axis length.
	AxisSize = 4
	// MaxDimensions bounds NDim, which is stored in one byte.
	MaxDimensions = 255
	// MaxUnitsLen bounds the units string, which has a uint8 length prefix.
	MaxUnitsLen = 255
)
