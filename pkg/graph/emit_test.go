package graph

import (
	"strings"
	"testing"

	"github.com/blockberries/binarybay/pkg/bbrt"
)

func buildSimpleSchema(t *testing.T) *Schema {
	t.Helper()
	s := New(bbrt.BigEndian)
	root := s.Root()
	if _, err := root.Int("id", 32, false); err != nil {
		t.Fatalf("Int(id): %v", err)
	}
	if _, err := root.FixedBytes("tag", 4); err != nil {
		t.Fatalf("FixedBytes(tag): %v", err)
	}
	return s
}

func TestGenerateEmitsStructAndFunctions(t *testing.T) {
	s := buildSimpleSchema(t)
	out, err := s.Generate(DefaultConfig("wire"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{
		"package wire",
		"type Document struct",
		"Id  uint32",
		"Tag []byte",
		"func ReadDocument(r bbrt.BufReader) (Document, error)",
		"func (v Document) Write(w bbrt.Writer) error",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q\n---\n%s", want, out)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	s := buildSimpleSchema(t)
	cfg := DefaultConfig("wire")
	first, err := s.Generate(cfg)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := s.Generate(cfg)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if first != second {
		t.Error("repeated Generate() calls on the same schema produced different output")
	}
}

func TestGenerateBigEndianIntUsesBigEndianCodec(t *testing.T) {
	s := buildSimpleSchema(t)
	out, err := s.Generate(DefaultConfig("wire"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "bbrt.BigEndian") {
		t.Errorf("expected a big-endian schema to reference bbrt.BigEndian:\n%s", out)
	}
}

func TestGenerateStringUTF8SuppressesRawAndLengthFields(t *testing.T) {
	s := New(bbrt.LittleEndian)
	root := s.Root()
	lenRef, err := root.Int("nameLen", 8, false)
	if err != nil {
		t.Fatalf("Int(nameLen): %v", err)
	}
	if _, err := root.StringUTF8("name", lenRef); err != nil {
		t.Fatalf("StringUTF8: %v", err)
	}
	out, err := s.Generate(DefaultConfig("wire"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "Name string") {
		t.Errorf("expected a Name string field:\n%s", out)
	}
	if strings.Contains(out, "NameLen ") || strings.Contains(out, "NameRaw ") {
		t.Errorf("length prefix and raw backing field must not become struct fields:\n%s", out)
	}
	if !strings.Contains(out, "int64(len(") {
		t.Errorf("expected the length prefix to be derived from len() of the backing bytes:\n%s", out)
	}
}

func TestGenerateBoolSugarSuppressesRawField(t *testing.T) {
	s := New(bbrt.LittleEndian)
	root := s.Root()
	if _, err := root.Bool("flag"); err != nil {
		t.Fatalf("Bool: %v", err)
	}
	out, err := s.Generate(DefaultConfig("wire"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "Flag bool") {
		t.Errorf("expected a Flag bool field:\n%s", out)
	}
	if strings.Contains(out, "FlagRaw") {
		t.Errorf("the bool's raw backing field must not become a struct field:\n%s", out)
	}
	if !strings.Contains(out, "boolToUint") {
		t.Errorf("expected the boolToUint helper to be emitted and used:\n%s", out)
	}
}

func TestGenerateEnumEmitsInterfaceAndTagFunc(t *testing.T) {
	s := New(bbrt.LittleEndian)
	root := s.Root()
	tag, err := root.Int("kind", 8, false)
	if err != nil {
		t.Fatalf("Int(kind): %v", err)
	}
	variants := []EnumVariant{
		{Name: "On", Tag: 1, TypeName: "StateOn", Build: func(fields *Scope) error {
			_, err := fields.Int("level", 8, false)
			return err
		}},
		{Name: "Off", Tag: 2, TypeName: "StateOff", Build: func(*Scope) error { return nil }},
	}
	if _, err := root.Enum("state", tag, variants, "State", nil); err != nil {
		t.Fatalf("Enum: %v", err)
	}
	out, err := s.Generate(DefaultConfig("wire"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{
		"type State interface",
		"func tagForState(v State) int64",
		"type StateOn struct",
		"type StateOff struct",
		"func ReadState(r bbrt.BufReader, tag int64) (State, error)",
		"func (StateOn) isState() {}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q\n---\n%s", want, out)
		}
	}
	if strings.Contains(out, "Kind ") {
		t.Errorf("the enum's own tag field must not become a struct field:\n%s", out)
	}
}

func TestGenerateEnumUnknownTagWithoutDummyReturnsError(t *testing.T) {
	s := New(bbrt.LittleEndian)
	root := s.Root()
	tag, _ := root.Int("kind", 8, false)
	variants := []EnumVariant{
		{Name: "On", Tag: 1, TypeName: "StateOn", Build: func(*Scope) error { return nil }},
	}
	if _, err := root.Enum("state", tag, variants, "State", nil); err != nil {
		t.Fatalf("Enum: %v", err)
	}
	out, err := s.Generate(DefaultConfig("wire"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "ErrUnknownEnumTag") {
		t.Errorf("expected an unhandled tag to fall through to ErrUnknownEnumTag:\n%s", out)
	}
}

func TestGenerateLowHeapUsesBareStringError(t *testing.T) {
	s := New(bbrt.LittleEndian)
	root := s.Root()
	tag, _ := root.Int("kind", 8, false)
	variants := []EnumVariant{
		{Name: "On", Tag: 1, TypeName: "StateOn", Build: func(*Scope) error { return nil }},
	}
	if _, err := root.Enum("state", tag, variants, "State", nil); err != nil {
		t.Fatalf("Enum: %v", err)
	}
	cfg := DefaultConfig("wire")
	cfg.LowHeap = true
	out, err := s.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "bbrt.NewLowHeapReadError") {
		t.Errorf("expected LowHeap config to select bbrt.NewLowHeapReadError:\n%s", out)
	}
	if strings.Contains(out, "bbrt.NewReadError") {
		t.Errorf("LowHeap config should not also emit bbrt.NewReadError:\n%s", out)
	}
}

func TestGenerateDynamicArrayOfInts(t *testing.T) {
	s := New(bbrt.LittleEndian)
	root := s.Root()
	lenRef, err := root.Int("count", 8, false)
	if err != nil {
		t.Fatalf("Int(count): %v", err)
	}
	_, err = root.DynamicArray("values", lenRef, func(elem *Scope) (Ref, error) {
		return elem.Int("v", 16, false)
	})
	if err != nil {
		t.Fatalf("DynamicArray: %v", err)
	}
	out, err := s.Generate(DefaultConfig("wire"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "Values []uint16") {
		t.Errorf("expected a []uint16 slice field for the array:\n%s", out)
	}
	if !strings.Contains(out, "make([]uint16, valuesLen)") {
		t.Errorf("expected the array to be allocated by its length prefix:\n%s", out)
	}
}

func TestGenerateObjectFieldRegistryConsistency(t *testing.T) {
	s := New(bbrt.LittleEndian)
	root := s.Root()
	build := func(fields *Scope) error {
		_, err := fields.Int("x", 8, false)
		return err
	}
	if _, err := root.Object("p1", "Point", build); err != nil {
		t.Fatalf("first Point: %v", err)
	}
	if _, err := root.Object("p2", "Point", build); err != nil {
		t.Fatalf("second identically-shaped Point should be accepted: %v", err)
	}
	out, err := s.Generate(DefaultConfig("wire"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Count(out, "type Point struct") != 1 {
		t.Errorf("expected exactly one Point struct definition despite two Object calls:\n%s", out)
	}
}

func TestGenerateAsyncModeEmitsAsyncFunctions(t *testing.T) {
	s := buildSimpleSchema(t)
	cfg := DefaultConfig("wire")
	cfg.Sync = false
	cfg.Async = true
	out, err := s.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "func ReadDocumentAsync(ctx context.Context, r bbrt.AsyncBufReader) (Document, error)") {
		t.Errorf("expected an async read function:\n%s", out)
	}
	if !strings.Contains(out, "func (v Document) WriteAsync(ctx context.Context, w bbrt.AsyncWriter) error") {
		t.Errorf("expected an async write method:\n%s", out)
	}
	if strings.Contains(out, "func ReadDocument(r bbrt.BufReader)") {
		t.Errorf("sync-only functions should not be emitted when Sync is false:\n%s", out)
	}
}

// TestGenerateEnumWithExternalDependency covers an enum whose variants both
// derive a value from a range declared outside the enum entirely (an outer
// fixed_range shared via Subrange), exercising the dependency-lifting path:
// the enum's dispatch functions and each variant's standalone constructor
// must all gain a matching extra parameter, and the shared range itself
// must not be read twice.
func TestGenerateEnumWithExternalDependency(t *testing.T) {
	s := New(bbrt.LittleEndian)
	root := s.Root()
	tag, err := root.Int("kind", 8, false)
	if err != nil {
		t.Fatalf("Int(kind): %v", err)
	}
	shared, err := root.FixedRange("shared", 1)
	if err != nil {
		t.Fatalf("FixedRange(shared): %v", err)
	}
	variants := []EnumVariant{
		{Name: "A", Tag: 1, TypeName: "PickA", Build: func(fields *Scope) error {
			_, err := fields.Subrange("view", shared, 8, false)
			return err
		}},
		{Name: "B", Tag: 2, TypeName: "PickB", Build: func(fields *Scope) error {
			_, err := fields.Subrange("view", shared, 8, true)
			return err
		}},
	}
	if _, err := root.Enum("pick", tag, variants, "Pick", nil); err != nil {
		t.Fatalf("Enum: %v", err)
	}
	out, err := s.Generate(DefaultConfig("wire"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{
		"func ReadPick(r bbrt.BufReader, tag int64, shared [1]byte) (Pick, error)",
		"Write(w bbrt.Writer, shared [1]byte) error",
		"func ReadPickA(r bbrt.BufReader, shared [1]byte) (PickA, error)",
		"bbrt.MustDecodeInt(shared[:], 0, 8,",
		"v.Pick.Write(w, v.Shared)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q\n---\n%s", want, out)
		}
	}
	if strings.Count(out, "var shared [1]byte") != 1 {
		t.Errorf("expected the shared range to be decoded off the wire exactly once:\n%s", out)
	}
}
