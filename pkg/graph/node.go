package graph

import "fmt"

// NodeKind discriminates the closed set of node variants a Scope can hold.
// The set is closed deliberately: Generate's scheduler and range allocator
// both switch exhaustively over it, and adding a variant means touching
// both.
type NodeKind int

const (
	KindSerial NodeKind = iota
	KindSerialSegment
	KindFixedRange
	KindFixedBytes
	KindInt
	KindDynamicBytes
	KindDelimitedBytes
	KindRemainingBytes
	KindDynamicArray
	KindEnum
	KindEnumDummy
	KindConst
	KindCustom
	KindAlign
	KindObjField
	KindObj
)

func (k NodeKind) String() string {
	switch k {
	case KindSerial:
		return "serial"
	case KindSerialSegment:
		return "serial_segment"
	case KindFixedRange:
		return "fixed_range"
	case KindFixedBytes:
		return "fixed_bytes"
	case KindInt:
		return "int"
	case KindDynamicBytes:
		return "dynamic_bytes"
	case KindDelimitedBytes:
		return "delimited_bytes"
	case KindRemainingBytes:
		return "remaining_bytes"
	case KindDynamicArray:
		return "dynamic_array"
	case KindEnum:
		return "enum"
	case KindEnumDummy:
		return "enum_dummy"
	case KindConst:
		return "const"
	case KindCustom:
		return "custom"
	case KindAlign:
		return "align"
	case KindObjField:
		return "obj_field"
	case KindObj:
		return "obj"
	default:
		return "unknown"
	}
}

// Ref is a handle to a node, stable across the lifetime of a Schema. It is
// what dependency lists, array lengths, and enum tags are expressed in
// terms of, rather than raw pointers, so that lifting a dependency across a
// scope boundary only ever means marking the intermediate owner nodes via
// addExternalDep, never rewriting every holder of the original reference.
type Ref struct {
	g    *Schema
	slot int
}

func (r Ref) node() *nodeState {
	return r.g.nodes[r.slot]
}

func (r Ref) ID() string { return r.node().id }

func (r Ref) Kind() NodeKind { return r.node().kind }

// nodeState is the common envelope every concrete node variant embeds data
// into. Concrete variants live in node_*.go and are reached through the
// Variant field via a type switch at emission time, mirroring the
// TypeRef-interface/type-switch idiom used for schema.TypeRef.
type nodeState struct {
	id      string
	kind    NodeKind
	scope   *Scope
	variant any

	// deps are other nodes this node's write path must have values for
	// before it can run (e.g. a dynamic array's length field, an enum's
	// tag field). They are populated at construction time by
	// Schema.addDep; the emitter does not read them, since it orders code
	// by declaration order (buildSteps in emit.go).
	deps []Ref

	// externalDeps holds the values this node's emitted Read/Write needs
	// from an enclosing scope it cannot otherwise see: an object whose
	// field list refers to a value from its outer scope, or an enum whose
	// variants do. hasExternalDeps mirrors the original's has_external_deps
	// flag: when set, the emitter threads externalDeps through as extra
	// parameters on this type's Read/Write functions instead of emitting
	// them self-contained, since they cannot be (de)serialized without
	// externally supplied values. Set by Schema.addDep walking the
	// consuming scope's Contained ancestry up to where the dependency is
	// actually declared, marking every intermediate scope's owner node
	// along the way.
	externalDeps    []Ref
	hasExternalDeps bool

	// rng is set for nodes that occupy a bit range of a fixed-size
	// serial segment (FixedRange, Float, FixedBytes, Int, Align). Nodes with
	// a dynamic/unbounded size or no range of their own (DynamicBytes,
	// DelimitedBytes, RemainingBytes, DynamicArray, Enum, Obj, Const,
	// Custom) leave it nil.
	rng *rangeAlloc
}

// addExternalDep records that this node's Read/Write needs dep threaded in
// as an extra parameter, idempotently.
func (n *nodeState) addExternalDep(dep Ref) {
	for _, d := range n.externalDeps {
		if d == dep {
			return
		}
	}
	n.externalDeps = append(n.externalDeps, dep)
	n.hasExternalDeps = true
}

func (n *nodeState) String() string {
	return fmt.Sprintf("%s(%s)", n.kind, n.id)
}
