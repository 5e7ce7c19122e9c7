package graph

import (
	"fmt"
	"strings"
)

func variantTypeName(enumTypeName string, variantName string) string {
	return enumTypeName + toPascalCase(variantName)
}

// readEnum emits the statements dispatching to the already-generated
// Read<TypeName> function once this enum's tag field has been read.
func (e *emitter) readEnum(ref Ref, async bool, zeroExpr string) ([]string, string) {
	en := ref.node().variant.(*enumNode)
	name := localVarName(ref)
	tagVar := localVarName(en.TagOf)
	args := extArgs(ref.node().externalDeps)
	var lines []string
	if async {
		lines = append(lines, fmt.Sprintf("%s, err := Read%sAsync(ctx, r, int64(%s)%s)", name, en.TypeName, tagVar, args))
	} else {
		lines = append(lines, fmt.Sprintf("%s, err := Read%s(r, int64(%s)%s)", name, en.TypeName, tagVar, args))
	}
	lines = append(lines, fmt.Sprintf("if err != nil { return %s, err }", zeroExpr))
	return lines, name
}

// writeEnum emits a call through the value's own Write method; every
// variant struct implements the enum's interface, so no type switch is
// needed here (tagFor<TypeName> is where the switch lives, for the tag
// field's own write expression).
func (e *emitter) writeEnum(ref Ref, async bool, access func(Ref) string) []string {
	args := e.extWriteArgs(ref.node().externalDeps, ref.node().scope, access)
	if async {
		return []string{fmt.Sprintf("if err := %s.WriteAsync(ctx, w%s); err != nil { return err }", access(ref), args)}
	}
	return []string{fmt.Sprintf("if err := %s.Write(w%s); err != nil { return err }", access(ref), args)}
}

// emitReadCase emits one switch case's body: read the variant's fields
// and return the assembled variant struct as the enum's interface type.
func (e *emitter) emitReadCase(tag int64, typeName string, fields []Ref, async bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "case %d:\n", tag)
	for _, l := range e.emitReadBody(fields, async, "nil") {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("return %s{\n", typeName))
	for _, f := range e.fieldsOf(fields) {
		fmt.Fprintf(&b, "\t%s: %s,\n", exportedFieldName(f), localVarName(f))
	}
	b.WriteString("}, nil\n")
	return b.String()
}

// emitEnumType emits the enum's interface, its tag-derivation function,
// each variant's record type, and the Read<TypeName> dispatch function
// (plus their Async counterparts when requested). When ref's node has
// external dependencies (one of its variants derives a value from an
// enclosing scope, via e.g. Subrange), every signature below gains a
// matching extra parameter per dependency, named after its own local
// variable name so the identifier threads unchanged from the call site.
func (e *emitter) emitEnumType(ref Ref, en *enumNode) string {
	var b strings.Builder
	id := ref.ID()
	ext := ref.node().externalDeps
	params := extParams(ext)

	fmt.Fprintf(&b, "type %s interface {\n", en.TypeName)
	if e.cfg.GenerateWrite {
		if e.cfg.Sync {
			fmt.Fprintf(&b, "\tWrite(w bbrt.Writer%s) error\n", params)
		}
		if e.cfg.Async {
			fmt.Fprintf(&b, "\tWriteAsync(ctx context.Context, w bbrt.AsyncWriter%s) error\n", params)
		}
	}
	fmt.Fprintf(&b, "\tis%s()\n}\n\n", en.TypeName)

	fmt.Fprintf(&b, "func tagFor%s(v %s) int64 {\n\tswitch v.(type) {\n", en.TypeName, en.TypeName)
	for _, variant := range en.Variants {
		fmt.Fprintf(&b, "\tcase %s:\n\t\treturn %d\n", variantTypeName(en.TypeName, variant.Name), variant.Tag)
	}
	b.WriteString("\tdefault:\n\t\treturn 0\n\t}\n}\n\n")

	for _, variant := range en.Variants {
		vtName := variantTypeName(en.TypeName, variant.Name)
		b.WriteString(e.emitRecordType(vtName, variant.Fields, ext))
		fmt.Fprintf(&b, "func (%s) is%s() {}\n\n", vtName, en.TypeName)
	}
	if en.Dummy != nil {
		vtName := variantTypeName(en.TypeName, en.Dummy.Name)
		b.WriteString(e.emitRecordType(vtName, en.Dummy.Fields, ext))
		fmt.Fprintf(&b, "func (%s) is%s() {}\n\n", vtName, en.TypeName)
	}

	for _, async := range e.asyncModes() {
		if async {
			fmt.Fprintf(&b, "func Read%sAsync(ctx context.Context, r bbrt.AsyncBufReader, tag int64%s) (%s, error) {\n\tswitch tag {\n", en.TypeName, params, en.TypeName)
		} else {
			fmt.Fprintf(&b, "func Read%s(r bbrt.BufReader, tag int64%s) (%s, error) {\n\tswitch tag {\n", en.TypeName, params, en.TypeName)
		}
		for _, variant := range en.Variants {
			b.WriteString(e.emitReadCase(variant.Tag, variantTypeName(en.TypeName, variant.Name), variant.Fields, async))
		}
		b.WriteString("default:\n")
		if en.Dummy != nil {
			for _, l := range e.emitReadBody(en.Dummy.Fields, async, "nil") {
				b.WriteString(l)
				b.WriteString("\n")
			}
			vtName := variantTypeName(en.TypeName, en.Dummy.Name)
			b.WriteString(fmt.Sprintf("return %s{\n", vtName))
			for _, f := range e.fieldsOf(en.Dummy.Fields) {
				fmt.Fprintf(&b, "\t%s: %s,\n", exportedFieldName(f), localVarName(f))
			}
			b.WriteString("}, nil\n")
		} else {
			fmt.Fprintf(&b, "return nil, %s\n", e.readErrExpr(id, "bbrt.ErrUnknownEnumTag"))
		}
		b.WriteString("}\n}\n\n")
	}

	return b.String()
}

// asyncModes returns which (sync/async) read dispatch functions to emit,
// honoring the schema's requested concurrency modes.
func (e *emitter) asyncModes() []bool {
	var modes []bool
	if e.cfg.Sync {
		modes = append(modes, false)
	}
	if e.cfg.Async {
		modes = append(modes, true)
	}
	return modes
}
