package graph

// rangeKind discriminates the three ways a node can come to occupy a bit
// range: not yet allocated, allocated by linear/subdivided consumption of
// a cursor, or allocated as one of several overlaid enum variants that all
// start at the same offset.
type rangeKind int

const (
	rangeUnset rangeKind = iota
	rangeLocal
	rangeEnumVariant
)

// byteRange is a half-open [start, start+length) bit range expressed in
// bvec units.
type byteRange struct {
	start  bvec
	length bvec
}

func (r byteRange) end() bvec { return r.start.add(r.length) }

// rangeAlloc is the tagged union every range-occupying node carries,
// mirroring the original's RangeAlloc enum (Unset/Local/Enum). Local holds
// a single concrete range; EnumVariant holds a range plus a pointer back to
// the shared overlay tracker so that widening one variant widens the
// enum's reported total size.
type rangeAlloc struct {
	kind    rangeKind
	local   byteRange
	variant *enumOverlay
}

// enumOverlay is shared by every variant (and the dummy) of one enum node.
// Each variant is allocated starting at the same offset; maxLength grows to
// the widest variant seen so the enum as a whole is sized to fit all of
// them.
type enumOverlay struct {
	start     bvec
	maxLength bvec
}

func newEnumOverlay(start bvec) *enumOverlay {
	return &enumOverlay{start: start}
}

// allocate widens the overlay if length exceeds what's been seen so far and
// returns a rangeAlloc for the variant occupying [start, start+length).
func (e *enumOverlay) allocate(length bvec) *rangeAlloc {
	if e.maxLength.less(length) {
		e.maxLength = length
	}
	return &rangeAlloc{
		kind:    rangeEnumVariant,
		local:   byteRange{start: e.start, length: length},
		variant: e,
	}
}

func (e *enumOverlay) totalLength() bvec { return e.maxLength }

// cursor tracks linear consumption of bits within one fixed-size serial
// segment (or within one subdivided bitfield group). modifyRange allocates
// the next `length` bits starting at the cursor's current position and
// advances it, mirroring ScopeMut_::modify_range.
type cursor struct {
	pos bvec
}

func (c *cursor) modifyRange(length bvec) *rangeAlloc {
	start := c.pos
	c.pos = c.pos.add(length)
	return &rangeAlloc{kind: rangeLocal, local: byteRange{start: start, length: length}}
}

func (c *cursor) consumed() bvec { return c.pos }
