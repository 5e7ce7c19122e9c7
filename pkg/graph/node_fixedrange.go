package graph

import "github.com/blockberries/binarybay/pkg/bbrt"

// fixedRangeNode is an opaque byte span of fixed length within the
// enclosing segment; its Go value is a [N]byte array, matching the
// original's NodeFixedRange.
type fixedRangeNode struct {
	ByteLen int
}

// floatNode is a 32- or 64-bit IEEE-754 value occupying a fixed byte range;
// it reuses the FixedRange range-allocation shape but is encoded/decoded
// through bbrt's float helpers rather than the integer codec.
type floatNode struct {
	Bits   int
	Endian bbrt.Endian
}
