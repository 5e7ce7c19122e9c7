package graph

import (
	"fmt"
	"strings"
)

// rawOwner records that a node (typically a Bool/StringUTF8 sugar node's
// "__raw" backing node) is never exposed as its own struct field; its
// write-time value comes from evaluating its owning Custom node's
// WriteExpr against the owner's own field access instead.
type rawOwner struct {
	owner Ref
	index int
}

// emitter walks a validated Schema once and assembles the Go source
// string Generate returns. It is not reused across calls; newEmitter
// performs a single analysis pass (derivedLen/enumTagOwner/rawOwner) before
// run() does the actual textual assembly.
type emitter struct {
	s   *Schema
	cfg GenerateConfig

	derivedLen   map[int]Ref // length-int slot -> the DynamicBytes/DynamicArray consuming it
	enumTagOwner map[int]Ref // tag-int slot -> the Enum node deriving it
	rawOwner     map[int]rawOwner

	helpers map[string]bool
	body    strings.Builder
}

func newEmitter(s *Schema, cfg GenerateConfig) *emitter {
	e := &emitter{
		s:            s,
		cfg:          cfg,
		derivedLen:   make(map[int]Ref),
		enumTagOwner: make(map[int]Ref),
		rawOwner:     make(map[int]rawOwner),
		helpers:      make(map[string]bool),
	}
	e.analyze()
	return e
}

func (r Ref) slotIdx() int { return r.slot }

func (e *emitter) analyze() {
	for i, ns := range e.s.nodes {
		ref := Ref{g: e.s, slot: i}
		switch ns.kind {
		case KindDynamicBytes:
			e.derivedLen[ns.variant.(*dynamicBytesNode).Length.slotIdx()] = ref
		case KindDynamicArray:
			e.derivedLen[ns.variant.(*dynamicArrayNode).Length.slotIdx()] = ref
		case KindEnum:
			e.enumTagOwner[ns.variant.(*enumNode).TagOf.slotIdx()] = ref
		case KindCustom:
			cn := ns.variant.(*customNode)
			for idx, r := range cn.Reads {
				if strings.HasSuffix(r.ID(), "__raw") {
					e.rawOwner[r.slotIdx()] = rawOwner{owner: ref, index: idx}
				}
			}
		}
	}
}

func exportedFieldName(ref Ref) string { return toPascalCase(ref.ID()) }
func localVarName(ref Ref) string      { return safeIdent(toCamelCase(ref.ID())) }

func (e *emitter) fieldAccess(ref Ref) string { return structAccess(ref) }

// isSuppressed reports whether ref is computed rather than stored as its
// own struct field: a length prefix, an enum tag, or a Bool/StringUTF8 raw
// backing field.
func (e *emitter) isSuppressed(ref Ref) bool {
	slot := ref.slotIdx()
	_, isLen := e.derivedLen[slot]
	_, isTag := e.enumTagOwner[slot]
	_, isRaw := e.rawOwner[slot]
	return isLen || isTag || isRaw
}

// intWriteExpr returns the int64 Go expression used to encode an Int node
// on the write path: the struct field itself (resolved through access),
// unless the node's value is derived (a length prefix, an enum tag, or a
// Bool/StringUTF8 raw backing field), in which case it is computed from
// whatever node actually holds the information instead.
func (e *emitter) intWriteExpr(ref Ref, access func(Ref) string) string {
	slot := ref.slotIdx()
	if consumer, ok := e.derivedLen[slot]; ok {
		return fmt.Sprintf("int64(len(%s))", e.resolveAccess(consumer, access))
	}
	if owner, ok := e.enumTagOwner[slot]; ok {
		en := owner.node().variant.(*enumNode)
		return fmt.Sprintf("%s(%s)", tagFuncName(en.TypeName), access(owner))
	}
	if ro, ok := e.rawOwner[slot]; ok {
		cn := ro.owner.node().variant.(*customNode)
		exprs := cn.WriteExpr(access(ro.owner))
		return exprs[ro.index]
	}
	return fmt.Sprintf("int64(%s)", access(ref))
}

func tagFuncName(enumTypeName string) string { return "tagFor" + enumTypeName }

// extParams renders ext as trailing Go parameter declarations ("", or
// ", depName depType, ...") for a Read/Write function whose record has
// external dependencies lifted in from an enclosing scope. Each parameter
// is named after the dependency's own local variable name, so the same
// identifier threads unchanged through however many nesting levels
// separate the declaring scope from the one that needed it.
func extParams(ext []Ref) string {
	if len(ext) == 0 {
		return ""
	}
	var b strings.Builder
	for _, dep := range ext {
		fmt.Fprintf(&b, ", %s %s", localVarName(dep), goType(dep))
	}
	return b.String()
}

// extArgs renders ext as trailing Go call arguments ("", or ", depName,
// ...") matching extParams, for a call site that already has dep's value
// in scope under its local variable name.
func extArgs(ext []Ref) string {
	if len(ext) == 0 {
		return ""
	}
	var b strings.Builder
	for _, dep := range ext {
		fmt.Fprintf(&b, ", %s", localVarName(dep))
	}
	return b.String()
}

// extWriteArgs renders ext as trailing Go call arguments for a Write call
// site made from within enclosing (the scope whose own Write method body
// this call site sits in). Unlike a Read body, a Write body has no local
// variable per field to fall back on: a dependency declared directly in
// enclosing is resolved through access (the receiver's own field access),
// while one declared further out was itself threaded into enclosing's own
// Write function as an extra parameter (by the same addDep walk that put
// it in ext here), so it is already a bare identifier in scope.
func (e *emitter) extWriteArgs(ext []Ref, enclosing *Scope, access func(Ref) string) string {
	if len(ext) == 0 {
		return ""
	}
	var b strings.Builder
	for _, dep := range ext {
		if dep.node().scope == enclosing {
			fmt.Fprintf(&b, ", %s", e.resolveAccess(dep, access))
		} else {
			fmt.Fprintf(&b, ", %s", localVarName(dep))
		}
	}
	return b.String()
}

// readErrExpr returns the Go expression constructing a read failure for
// nodeID, honoring cfg.LowHeap: the default heap-backed bbrt.ReadError
// wrapping sentinel, or the bare-string bbrt.LowHeapReadError that drops the
// cause chain entirely.
func (e *emitter) readErrExpr(nodeID string, sentinel string) string {
	if e.cfg.LowHeap {
		return fmt.Sprintf("bbrt.NewLowHeapReadError(%q)", nodeID)
	}
	return fmt.Sprintf("bbrt.NewReadError(%q, %s)", nodeID, sentinel)
}

// resolveAccess resolves ref's current Go-typed value for writing: if ref
// is a suppressed Custom backing node (a Bool/StringUTF8 "__raw" field),
// its value is computed from the owning Custom node's WriteExpr instead of
// read directly off the receiver.
func (e *emitter) resolveAccess(ref Ref, access func(Ref) string) string {
	if ro, ok := e.rawOwner[ref.slotIdx()]; ok {
		cn := ro.owner.node().variant.(*customNode)
		exprs := cn.WriteExpr(access(ro.owner))
		return exprs[ro.index]
	}
	return access(ref)
}

// run assembles the full generated source: the package clause, an import
// block wide enough for anything the schema might use (formatSource prunes
// whatever turns out unused), any small helper functions the generated
// code calls into, then one record type per registered Enum, Object, and
// finally the root scope itself.
func (e *emitter) run() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", e.cfg.PackageName)
	b.WriteString("import (\n\t\"bytes\"\n\t\"context\"\n\n\t\"github.com/blockberries/binarybay/pkg/bbrt\"\n)\n\n")

	if e.usesBool() {
		b.WriteString("func boolToUint(b bool) int64 {\n\tif b {\n\t\treturn 1\n\t}\n\treturn 0\n}\n\n")
	}

	for _, name := range e.s.enumOrder {
		ref := e.s.enumTypes[name][0]
		en := ref.node().variant.(*enumNode)
		b.WriteString(e.emitEnumType(ref, en))
	}
	for _, name := range e.s.objOrder {
		ref := e.s.objTypes[name][0]
		on := ref.node().variant.(*objNode)
		b.WriteString(e.emitRecordType(on.TypeName, on.Fields, ref.node().externalDeps))
	}

	rootName := e.cfg.RootTypeName
	if rootName == "" {
		rootName = "Document"
	}
	b.WriteString(e.emitRecordType(rootName, e.s.root.children, nil))

	return b.String(), nil
}

func (e *emitter) usesBool() bool {
	for _, n := range e.s.nodes {
		if cn, ok := n.variant.(*customNode); ok && cn.GoType == "bool" {
			return true
		}
	}
	return false
}

// step is one unit of sequential read/write work within a scope: either a
// contiguous run of fixed-width nodes sharing one byte buffer, or a single
// node whose size is not known ahead of reading it.
type step struct {
	fixed []Ref
	dyn   Ref
	isDyn bool
}

func isFixedKind(k NodeKind) bool {
	switch k {
	case KindFixedRange, KindFixedBytes, KindInt, KindAlign:
		return true
	default:
		return false
	}
}

func buildSteps(children []Ref) []step {
	var steps []step
	var run []Ref
	flush := func() {
		if len(run) > 0 {
			steps = append(steps, step{fixed: run})
			run = nil
		}
	}
	for _, c := range children {
		if isFixedKind(c.Kind()) {
			run = append(run, c)
			continue
		}
		flush()
		steps = append(steps, step{dyn: c, isDyn: true})
	}
	flush()
	return steps
}

// segmentSpan returns the byte length of a fixed run and, for each node in
// it, its bit offset relative to the run's first byte.
func segmentSpan(nodes []Ref) (totalBytes int, offsets []bvec) {
	if len(nodes) == 0 {
		return 0, nil
	}
	start := nodes[0].node().rng.local.start
	var end bvec
	for _, n := range nodes {
		rel := n.node().rng.local.start.sub(start)
		offsets = append(offsets, rel)
		e := n.node().rng.local.end().sub(start)
		if end.less(e) {
			end = e
		}
	}
	totalBytes = end.bytes
	if end.bits > 0 {
		totalBytes++
	}
	return totalBytes, offsets
}
