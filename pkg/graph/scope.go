package graph

import (
	"fmt"

	"github.com/blockberries/binarybay/pkg/bbrt"
)

// parentKind discriminates how a Scope relates to its enclosing Scope.
// Contained scopes are transparent to id-uniqueness and dependency lifting
// (a serial's segments, an object's direct fields). ArrayElement scopes are
// not: a dynamic array's element scope is instantiated once per element at
// runtime, so an id declared inside it is not unique across the whole
// schema and a dependency computed inside it cannot be referred to from
// outside without being lifted out through the array's own length/value
// nodes first. The id-uniqueness walk and the dependency-lifting walk both
// stop climbing past an ArrayElement boundary.
type parentKind int

const (
	parentNone parentKind = iota
	parentContained
	parentArrayElement
)

type escapableParent struct {
	kind  parentKind
	scope *Scope
}

// Scope is one node in the scope tree: either the schema root, a Serial's
// segment list, an object's field list, an enum variant's field list, or a
// dynamic array's per-element scope. It owns the id namespace and bit
// cursor for whatever range-allocating nodes are declared directly inside
// it.
type Scope struct {
	schema *Schema
	parent escapableParent
	endian bbrt.Endian

	cur cursor

	children []Ref
	localIDs map[string]bool

	// enumCtx is non-nil when this Scope is one variant's field list of an
	// enclosing Enum node; variant allocation goes through its overlay
	// instead of cur.
	enumCtx *enumOverlay

	// ownerRef and hasOwner identify the node this Scope is the field list
	// of (an Obj or an Enum variant/dummy), if any. addDep consults this to
	// know which node to mark with an external dependency when lifting a
	// reference out across this Scope's boundary; the root scope and a
	// DynamicArray's element scope have no owner node of their own.
	ownerRef Ref
	hasOwner bool
}

func newScope(s *Schema, parent escapableParent, endian bbrt.Endian) *Scope {
	return &Scope{
		schema:   s,
		parent:   parent,
		endian:   endian,
		localIDs: make(map[string]bool),
	}
}

// Endian reports the byte order new int/float nodes in this scope default
// to unless overridden.
func (sc *Scope) Endian() bbrt.Endian { return sc.endian }

// WithEndian returns a child view of sc that defaults to endian instead.
// Scope itself is not copied; this only affects nodes built through the
// returned value within the same underlying id/cursor space, which is why
// it is used for "the rest of this object is big-endian" rather than for
// introducing a real nested scope.
func (sc *Scope) WithEndian(endian bbrt.Endian) *Scope {
	clone := *sc
	clone.endian = endian
	return &clone
}

// takeID registers id as used in sc and returns an error if id collides
// with another id visible from sc: either declared directly in sc, or in an
// ancestor reached by walking up through Contained relations. The walk
// halts at the first ArrayElement boundary, since ids declared inside one
// element iteration cannot collide with ids outside the array.
func (sc *Scope) takeID(id string) error {
	if id == "" {
		return fmt.Errorf("graph: node id must not be empty")
	}
	for s := sc; s != nil; {
		if s.localIDs[id] {
			return fmt.Errorf("graph: duplicate node id %q", id)
		}
		if s.parent.kind != parentContained {
			break
		}
		s = s.parent.scope
	}
	sc.localIDs[id] = true
	return nil
}

// ancestry returns sc followed by its Contained ancestors, nearest first,
// ending with the first scope whose own parent is not Contained (the root,
// or a DynamicArray element scope); that last scope is included.
// It is used by dependency lifting to find how many scopes a reference
// needs to be redirected through to become visible at a consuming site.
func (sc *Scope) ancestry() []*Scope {
	var out []*Scope
	for s := sc; s != nil; {
		out = append(out, s)
		if s.parent.kind != parentContained {
			break
		}
		s = s.parent.scope
	}
	return out
}

// isDescendantOf reports whether sc is anc or a Contained descendant of
// anc, without crossing an ArrayElement boundary.
func (sc *Scope) isDescendantOf(anc *Scope) bool {
	for _, s := range sc.ancestry() {
		if s == anc {
			return true
		}
	}
	return false
}

func (sc *Scope) addChild(r Ref) {
	sc.children = append(sc.children, r)
}

// allocRange allocates `length` bits at the current cursor position of sc.
// In an enum variant's field scope the cursor counts from the shared
// overlay's start, and the overlay is widened to cover the variant so far.
func (sc *Scope) allocRange(length bvec) *rangeAlloc {
	if sc.enumCtx != nil {
		start := sc.cur.pos
		sc.cur.pos = start.add(length)
		r := sc.enumCtx.allocate(sc.cur.pos)
		r.local = byteRange{start: sc.enumCtx.start.add(start), length: length}
		return r
	}
	return sc.cur.modifyRange(length)
}

// --- node-constructing builder methods ---

// FixedRange declares a node occupying exactly byteLen whole bytes of the
// enclosing fixed-size segment, with no further interpretation; callers
// read/write the raw bytes themselves.
func (sc *Scope) FixedRange(id string, byteLen int) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	rng := sc.allocRange(bvecBytes(byteLen))
	return sc.schema.newNode(id, KindFixedRange, sc, rng, &fixedRangeNode{ByteLen: byteLen}), nil
}

// FixedBytes declares a node whose value is a constant-length []byte.
func (sc *Scope) FixedBytes(id string, byteLen int) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	rng := sc.allocRange(bvecBytes(byteLen))
	return sc.schema.newNode(id, KindFixedBytes, sc, rng, &fixedBytesNode{ByteLen: byteLen}), nil
}

// Int declares an integer field of the given bit width (sub-byte widths
// subdivide the current byte; >=8-bit widths must be byte-aligned and a
// multiple of 8).
func (sc *Scope) Int(id string, bits int, signed bool) (Ref, error) {
	return sc.intWithEndian(id, bits, signed, sc.endian)
}

func (sc *Scope) intWithEndian(id string, bits int, signed bool, endian bbrt.Endian) (Ref, error) {
	if bits <= 0 {
		return Ref{}, fmt.Errorf("graph: int node %q must have positive bit width", id)
	}
	if bits > 8 && (bits%8 != 0) {
		return Ref{}, fmt.Errorf("graph: int node %q with width > 8 bits must be a multiple of 8, got %d", id, bits)
	}
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	var length bvec
	if bits < 8 {
		length = bvec{bits: bits}
	} else {
		length = bvecBytes(bits / 8)
	}
	rng := sc.allocRange(length)
	return sc.schema.newNode(id, KindInt, sc, rng, &intNode{Bits: bits, Signed: signed, Endian: endian}), nil
}

// Bool is sugar for a 1-bit unsigned Int interpreted as a Go bool.
func (sc *Scope) Bool(id string) (Ref, error) {
	r, err := sc.Int(id+"__raw", 1, false)
	if err != nil {
		return Ref{}, err
	}
	sc.localIDs[id] = true
	return sc.schema.newNode(id, KindCustom, sc, nil, &customNode{
		GoType:   "bool",
		Reads:    []Ref{r},
		ReadExpr: func(vals []string) string { return vals[0] + " != 0" },
		WriteExpr: func(self string) []string {
			return []string{fmt.Sprintf("boolToUint(%s)", self)}
		},
	}), nil
}

// Float declares a 32- or 64-bit IEEE-754 float node.
func (sc *Scope) Float(id string, bits int) (Ref, error) {
	if bits != 32 && bits != 64 {
		return Ref{}, fmt.Errorf("graph: float node %q must be 32 or 64 bits, got %d", id, bits)
	}
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	rng := sc.allocRange(bvecBytes(bits / 8))
	return sc.schema.newNode(id, KindFixedRange, sc, rng, &floatNode{Bits: bits, Endian: sc.endian}), nil
}

// DynamicBytes declares a byte slice whose length is read from lengthOf, a
// previously declared Int node.
func (sc *Scope) DynamicBytes(id string, lengthOf Ref) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	n := sc.schema.newNode(id, KindDynamicBytes, sc, nil, &dynamicBytesNode{Length: lengthOf})
	if err := sc.schema.addDep(n, lengthOf); err != nil {
		return Ref{}, err
	}
	return n, nil
}

// DelimitedBytes declares a byte slice terminated by delim, consumed from
// the stream one byte at a time.
func (sc *Scope) DelimitedBytes(id string, delim []byte) (Ref, error) {
	if len(delim) == 0 {
		return Ref{}, fmt.Errorf("graph: delimited_bytes node %q needs a non-empty delimiter", id)
	}
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	return sc.schema.newNode(id, KindDelimitedBytes, sc, nil, &delimitedBytesNode{Delim: append([]byte(nil), delim...)}), nil
}

// RemainingBytes declares a byte slice consuming everything left in the
// stream on read, and everything in the slice on write. It may only be the
// final node in whatever scope contains it; that invariant is enforced at
// Generate time, since more nodes can legally be appended after a
// remaining_bytes node is declared but before Generate runs.
func (sc *Scope) RemainingBytes(id string) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	return sc.schema.newNode(id, KindRemainingBytes, sc, nil, &remainingBytesNode{}), nil
}

// DynamicArray declares a slice of elements whose count is read from
// lengthOf. build is called once with a fresh ArrayElement-relation Scope
// to describe a single element; the returned Ref is that element's root
// node (often an Obj, but any node kind is legal for the element).
func (sc *Scope) DynamicArray(id string, lengthOf Ref, build func(elem *Scope) (Ref, error)) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	elemScope := newScope(sc.schema, escapableParent{kind: parentArrayElement, scope: sc}, sc.endian)
	elem, err := build(elemScope)
	if err != nil {
		return Ref{}, err
	}
	n := sc.schema.newNode(id, KindDynamicArray, sc, nil, &dynamicArrayNode{Length: lengthOf, Elem: elem, ElemScope: elemScope})
	if err := sc.schema.addDep(n, lengthOf); err != nil {
		return Ref{}, err
	}
	return n, nil
}

// Const declares a literal byte sequence on the wire: on read it consumes
// len(value) bytes and fails with ErrConstMismatch unless they equal value,
// and on write it always emits value.
func (sc *Scope) Const(id string, value []byte) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	return sc.schema.newNode(id, KindConst, sc, nil, &constNode{Value: append([]byte(nil), value...)}), nil
}

// Align declares padding that advances the cursor to the next multiple of
// boundaryBytes without producing a usable value.
func (sc *Scope) Align(id string, boundaryBytes int) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	return sc.schema.newNode(id, KindAlign, sc, nil, &alignNode{Boundary: boundaryBytes}), nil
}

// Custom declares a node whose value is derived by Go expressions supplied
// by the caller from the values of reads (on the read path) or computed
// into writeExpr results consumed by the listed reads' own encoders (on the
// write path). This is the escape hatch used to build Bool/StringUTF8 and
// any other convenience view over a more primitive node.
func (sc *Scope) Custom(id string, goType string, reads []Ref, readExpr func(vals []string) string, writeExpr func(self string) []string) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	n := sc.schema.newNode(id, KindCustom, sc, nil, &customNode{
		GoType:    goType,
		Reads:     reads,
		ReadExpr:  readExpr,
		WriteExpr: writeExpr,
	})
	for _, r := range reads {
		if err := sc.schema.addDep(n, r); err != nil {
			return Ref{}, err
		}
	}
	return n, nil
}

// StringUTF8 is sugar for a DynamicBytes node converted to/from a Go
// string. The bytes read are not checked for valid UTF-8.
func (sc *Scope) StringUTF8(id string, lengthOf Ref) (Ref, error) {
	raw, err := sc.DynamicBytes(id+"__raw", lengthOf)
	if err != nil {
		return Ref{}, err
	}
	sc.localIDs[id] = true
	return sc.schema.newNode(id, KindCustom, sc, nil, &customNode{
		GoType: "string",
		Reads:  []Ref{raw},
		ReadExpr: func(vals []string) string {
			return fmt.Sprintf("string(%s)", vals[0])
		},
		WriteExpr: func(self string) []string {
			return []string{fmt.Sprintf("[]byte(%s)", self)}
		},
	}), nil
}

// Object declares a named, reusable record type: a field list built by
// build against a Contained child Scope. Multiple Object calls with the
// same name must describe structurally identical field sets (checked by
// registerObjType when each later call's build returns); the first one
// seen is canonical.
func (sc *Scope) Object(id string, typeName string, build func(fields *Scope) error) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	fieldScope := newScope(sc.schema, escapableParent{kind: parentContained, scope: sc}, sc.endian)
	on := &objNode{TypeName: typeName}
	n := sc.schema.newNode(id, KindObj, sc, nil, on)
	fieldScope.ownerRef = n
	fieldScope.hasOwner = true
	if err := build(fieldScope); err != nil {
		return Ref{}, err
	}
	on.Fields = fieldScope.children
	on.Scope = fieldScope
	if err := sc.schema.registerObjType(typeName, n); err != nil {
		return Ref{}, err
	}
	return n, nil
}

// EnumVariant describes one tagged alternative of an Enum node.
type EnumVariant struct {
	Name   string
	Tag    int64
	TypeName string
	Build  func(fields *Scope) error
}

// Enum declares a tagged union: tagOf supplies the already-read discriminant
// (typically a preceding Int field), and each variant's field list is
// allocated starting at the same bit offset via an overlay so the enum as a
// whole occupies exactly as much space as its widest variant. dummy, if
// non-nil, supplies a variant used when the tag matches none of variants
// (e.g. a catch-all "Unknown" case) instead of failing the read.
func (sc *Scope) Enum(id string, tagOf Ref, variants []EnumVariant, typeName string, dummy *EnumVariant) (Ref, error) {
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	overlay := newEnumOverlay(sc.cur.consumed())
	n := &enumNode{TagOf: tagOf, TypeName: typeName, Overlay: overlay}
	ref := sc.schema.newNode(id, KindEnum, sc, nil, n)
	for _, v := range variants {
		vs := newScope(sc.schema, escapableParent{kind: parentContained, scope: sc}, sc.endian)
		vs.enumCtx = overlay
		vs.ownerRef = ref
		vs.hasOwner = true
		if err := v.Build(vs); err != nil {
			return Ref{}, err
		}
		n.Variants = append(n.Variants, enumVariantNode{Name: v.Name, Tag: v.Tag, TypeName: v.TypeName, Fields: vs.children, Scope: vs})
	}
	if dummy != nil {
		vs := newScope(sc.schema, escapableParent{kind: parentContained, scope: sc}, sc.endian)
		vs.enumCtx = overlay
		vs.ownerRef = ref
		vs.hasOwner = true
		if err := dummy.Build(vs); err != nil {
			return Ref{}, err
		}
		n.Dummy = &enumVariantNode{Name: dummy.Name, TypeName: dummy.TypeName, Fields: vs.children, Scope: vs}
	}
	if err := sc.schema.addDep(ref, tagOf); err != nil {
		return Ref{}, err
	}
	// advance this scope's cursor by the widest variant now that all
	// variants have been built
	sc.cur.pos = overlay.start.add(overlay.totalLength())
	if err := sc.schema.registerEnumType(typeName, ref.node()); err != nil {
		return Ref{}, err
	}
	return ref, nil
}

// Subrange carves a bit-width view out of an existing fixed-range or
// fixed-bytes node's already-decoded bytes, letting two separate build
// closures (typically an enum's variants) share one physical range instead
// of each declaring their own. It does not allocate any new wire space: the
// canonical read/write of those bytes stays with shared itself, and
// Subrange only derives an integer interpretation of bytes already in
// scope, so it never double-consumes from the stream.
func (sc *Scope) Subrange(id string, shared Ref, bits int, signed bool) (Ref, error) {
	if bits <= 0 {
		return Ref{}, fmt.Errorf("graph: subrange node %q must have positive bit width", id)
	}
	if shared.Kind() != KindFixedRange && shared.Kind() != KindFixedBytes {
		return Ref{}, fmt.Errorf("graph: subrange node %q: shared node %q must be a fixed_range or fixed_bytes node, got %s", id, shared.ID(), shared.Kind())
	}
	byteLen := 0
	switch v := shared.node().variant.(type) {
	case *fixedRangeNode:
		byteLen = v.ByteLen
	case *fixedBytesNode:
		byteLen = v.ByteLen
	}
	if bits > 8*byteLen || (bits > 8 && bits%8 != 0) {
		return Ref{}, fmt.Errorf("graph: subrange node %q: %d bits do not fit shared node %q", id, bits, shared.ID())
	}
	if err := sc.takeID(id); err != nil {
		return Ref{}, err
	}
	endianExpr := "bbrt.LittleEndian"
	if sc.endian == bbrt.BigEndian {
		endianExpr = "bbrt.BigEndian"
	}
	n := sc.schema.newNode(id, KindCustom, sc, nil, &customNode{
		GoType: (&intNode{Bits: bits, Signed: signed}).goType(),
		Reads:  []Ref{shared},
		ReadExpr: func(vals []string) string {
			return fmt.Sprintf("bbrt.MustDecodeInt(%s[:], 0, %d, %s, %t)", vals[0], bits, endianExpr, signed)
		},
		WriteExpr: func(self string) []string { return nil },
	})
	if err := sc.schema.addDep(n, shared); err != nil {
		return Ref{}, err
	}
	return n, nil
}
