package graph

import (
	"strconv"

	"github.com/blockberries/binarybay/pkg/bbrt"
)

// intNode is an integer of Bits width (sub-byte widths subdivide the
// current byte LSB-first; widths >= 8 must be byte-aligned multiples of 8
// and get widened to the next power-of-two Go integer type).
type intNode struct {
	Bits   int
	Signed bool
	Endian bbrt.Endian
}

// goType returns the Go integer type this node widens to: the smallest
// of int8/16/32/64 (or the unsigned equivalents) that can hold Bits bits.
func (n *intNode) goType() string {
	w := widenBitsFor(n.Bits)
	if n.Signed {
		return "int" + strconv.Itoa(w)
	}
	return "uint" + strconv.Itoa(w)
}

func widenBitsFor(bits int) int {
	switch {
	case bits <= 8:
		return 8
	case bits <= 16:
		return 16
	case bits <= 32:
		return 32
	default:
		return 64
	}
}
