package graph

// objNode is a named record type: an ordered field list, emitted as a Go
// struct plus a Read<TypeName> function and a Write method. Every Object call
// sharing TypeName across the whole schema must describe the same field
// set; Schema.registerObjType checks this the moment a second definition
// is seen.
type objNode struct {
	TypeName string
	Fields   []Ref
	Scope    *Scope
}

// enumVariantNode is one tagged alternative of an enum, or its dummy
// fallback when Tag is unused (the zero value is never treated specially;
// Dummy is a separate field on enumNode instead).
type enumVariantNode struct {
	Name     string
	Tag      int64
	TypeName string
	Fields   []Ref
	Scope    *Scope
}

// enumNode is a tagged union: TagOf supplies the discriminant (read ahead
// of the enum itself), and each variant in Variants occupies the same
// starting bit offset via Overlay so the enum as a whole is sized to its
// widest variant. Dummy, if set, is used when the tag matches no declared
// variant instead of producing ErrUnknownEnumTag.
type enumNode struct {
	TagOf    Ref
	TypeName string
	Variants []enumVariantNode
	Dummy    *enumVariantNode
	Overlay  *enumOverlay
}
