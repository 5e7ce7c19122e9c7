package graph

import (
	"fmt"

	"github.com/blockberries/binarybay/pkg/bbrt"
)

// Schema owns every node built against any Scope descended from its Root,
// plus the named-type registry used to check that every Object/Enum
// sharing a type name across the whole schema describes the same shape.
// It is the single entry point a caller holds: construct one with New,
// build a graph through Root(), then call Generate.
type Schema struct {
	nodes []*nodeState

	objTypes  map[string][]Ref
	enumTypes map[string][]Ref
	objOrder  []string
	enumOrder []string

	root *Scope
}

// New creates an empty Schema whose root scope defaults to endian byte
// order for any Int/Float node that does not request otherwise.
func New(endian bbrt.Endian) *Schema {
	s := &Schema{
		objTypes:  make(map[string][]Ref),
		enumTypes: make(map[string][]Ref),
	}
	s.root = newScope(s, escapableParent{}, endian)
	return s
}

// Root returns the schema's top-level Scope. Nodes declared directly
// against it, in order, form the document's top-level Serial.
func (s *Schema) Root() *Scope { return s.root }

func (s *Schema) newNode(id string, kind NodeKind, scope *Scope, rng *rangeAlloc, variant any) Ref {
	ns := &nodeState{id: id, kind: kind, scope: scope, variant: variant, rng: rng}
	s.nodes = append(s.nodes, ns)
	ref := Ref{g: s, slot: len(s.nodes) - 1}
	scope.addChild(ref)
	return ref
}

// addDep records that ref's write path needs dep's value before it can
// run. If dep is declared in ref's own scope, or in a scope that is
// Contained-descended from ref's, no further action is needed. If ref's
// scope is itself Contained-descended from dep's (ref sits in an enum
// variant or nested object inside the scope that declares dep), dep must
// be lifted: every scope's owner node on the
// Contained path from ref's scope up to (but not including) dep's own
// scope is marked as having an external dependency on dep, so the emitter
// threads dep's value in as an extra parameter at each of those
// boundaries instead of recomputing it. Any other relationship between
// the two scopes means reaching dep would require crossing an
// ArrayElement boundary, which the data model forbids outright, so that
// case is rejected.
func (s *Schema) addDep(ref Ref, dep Ref) error {
	ref.node().deps = append(ref.node().deps, dep)
	consumer := ref.node().scope
	depScope := dep.node().scope
	if depScope == consumer || depScope.isDescendantOf(consumer) {
		return nil
	}
	if consumer.isDescendantOf(depScope) {
		for _, anc := range consumer.ancestry() {
			if anc == depScope {
				break
			}
			if anc.hasOwner {
				anc.ownerRef.node().addExternalDep(dep)
			}
		}
		return nil
	}
	return fmt.Errorf("graph: node %q cannot reach %q: no path between their scopes without crossing an array element boundary", ref.node().id, dep.node().id)
}

// registerObjType checks n's field shape against any prior Object sharing
// typeName, recording n as canonical if it is the first.
func (s *Schema) registerObjType(typeName string, n Ref) error {
	prior := s.objTypes[typeName]
	if len(prior) > 0 {
		if err := s.checkObjShape(prior[0], n); err != nil {
			return fmt.Errorf("graph: object type %q: %w", typeName, err)
		}
	} else {
		s.objOrder = append(s.objOrder, typeName)
	}
	s.objTypes[typeName] = append(prior, n)
	return nil
}

func (s *Schema) checkObjShape(a, b Ref) error {
	an := a.node().variant.(*objNode)
	bn := b.node().variant.(*objNode)
	if len(an.Fields) != len(bn.Fields) {
		return fmt.Errorf("field count mismatch: %d vs %d", len(an.Fields), len(bn.Fields))
	}
	for i := range an.Fields {
		fa, fb := an.Fields[i].node(), bn.Fields[i].node()
		if fa.id != fb.id {
			return fmt.Errorf("field %d id mismatch: %q vs %q", i, fa.id, fb.id)
		}
		if fa.kind != fb.kind {
			return fmt.Errorf("field %q kind mismatch: %s vs %s", fa.id, fa.kind, fb.kind)
		}
	}
	return nil
}

// registerEnumType checks n's variant shape (names, tags, and inner field
// shapes) against any prior Enum sharing typeName.
func (s *Schema) registerEnumType(typeName string, n *nodeState) error {
	var ref Ref
	for i, x := range s.nodes {
		if x == n {
			ref = Ref{g: s, slot: i}
			break
		}
	}
	prior := s.enumTypes[typeName]
	if len(prior) > 0 {
		if err := s.checkEnumShape(prior[0], ref); err != nil {
			return fmt.Errorf("graph: enum type %q: %w", typeName, err)
		}
	} else {
		s.enumOrder = append(s.enumOrder, typeName)
	}
	s.enumTypes[typeName] = append(prior, ref)
	return nil
}

func (s *Schema) checkEnumShape(a, b Ref) error {
	an := a.node().variant.(*enumNode)
	bn := b.node().variant.(*enumNode)
	if len(an.Variants) != len(bn.Variants) {
		return fmt.Errorf("variant count mismatch: %d vs %d", len(an.Variants), len(bn.Variants))
	}
	for i := range an.Variants {
		va, vb := an.Variants[i], bn.Variants[i]
		if va.Name != vb.Name || va.Tag != vb.Tag {
			return fmt.Errorf("variant %d mismatch: %s=%d vs %s=%d", i, va.Name, va.Tag, vb.Name, vb.Tag)
		}
		if len(va.Fields) != len(vb.Fields) {
			return fmt.Errorf("variant %s field count mismatch: %d vs %d", va.Name, len(va.Fields), len(vb.Fields))
		}
		for j := range va.Fields {
			fa, fb := va.Fields[j].node(), vb.Fields[j].node()
			if fa.id != fb.id || fa.kind != fb.kind {
				return fmt.Errorf("variant %s field %d mismatch: %s vs %s", va.Name, j, fa, fb)
			}
		}
	}
	return nil
}

// GenerateConfig selects which halves of the bidirectional codec to
// synthesize and in which concurrency flavor, mirroring the original's
// GenerateConfig (read/write/sync_/async_/low_heap).
type GenerateConfig struct {
	PackageName string

	// RootTypeName names the struct generated from the schema's top-level
	// scope. Defaults to "Document" if empty.
	RootTypeName string

	GenerateRead  bool
	GenerateWrite bool

	Sync  bool
	Async bool

	// LowHeap selects bbrt.LowHeapReadError (a bare string, no wrapped
	// cause chain) over bbrt.ReadError for every generated read failure.
	LowHeap bool
}

// DefaultConfig returns a GenerateConfig generating both directions in
// sync mode only, the most common combination for a freshly built schema.
func DefaultConfig(packageName string) GenerateConfig {
	return GenerateConfig{
		PackageName:   packageName,
		RootTypeName:  "Document",
		GenerateRead:  true,
		GenerateWrite: true,
		Sync:          true,
	}
}

// Generate validates the schema (id uniqueness and named-type consistency
// were enforced as the graph was built; this additionally checks the
// remaining-bytes-must-be-last invariant) and returns formatted Go source
// implementing cfg's requested directions and concurrency modes.
func (s *Schema) Generate(cfg GenerateConfig) (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}
	e := newEmitter(s, cfg)
	src, err := e.run()
	if err != nil {
		return "", err
	}
	return formatSource(src)
}

func (s *Schema) validate() error {
	for _, n := range s.nodes {
		if n.kind == KindRemainingBytes {
			siblings := n.scope.children
			if siblings[len(siblings)-1].ID() != n.id {
				return fmt.Errorf("graph: remaining_bytes node %q must be the last node in its scope", n.id)
			}
		}
	}
	return nil
}
