package graph

import (
	"fmt"
	"strings"
)

// fieldsOf returns the subset of children that become struct fields: those
// with a value (not Const/Align) and not suppressed (a derived length, an
// enum tag, or a Bool/StringUTF8 raw backing field).
func (e *emitter) fieldsOf(children []Ref) []Ref {
	var out []Ref
	for _, c := range children {
		if hasValue(c.Kind()) && !e.isSuppressed(c) {
			out = append(out, c)
		}
	}
	return out
}

// emitReadBody walks children in declaration order, emitting the
// statements that read every node into a local variable. zeroExpr is the
// value paired with every early error return.
func (e *emitter) emitReadBody(children []Ref, async bool, zeroExpr string) []string {
	var lines []string
	for _, st := range buildSteps(children) {
		if st.isDyn {
			l, _ := e.readDynamicNode(st.dyn, async, zeroExpr)
			lines = append(lines, l...)
		} else {
			lines = append(lines, e.readFixedSegment(st.fixed, async, zeroExpr)...)
		}
	}
	return lines
}

// emitWriteBody walks children in declaration order, emitting the
// statements that write every node's current value, as resolved by
// access.
func (e *emitter) emitWriteBody(children []Ref, async bool, access func(Ref) string) []string {
	var lines []string
	for _, st := range buildSteps(children) {
		if st.isDyn {
			lines = append(lines, e.writeDynamicNode(st.dyn, async, access)...)
		} else {
			lines = append(lines, e.writeFixedSegment(st.fixed, async, access)...)
		}
	}
	return lines
}

func (e *emitter) emitReadFunc(typeName string, children []Ref, async bool, ext []Ref) string {
	var b strings.Builder
	params := extParams(ext)
	if async {
		fmt.Fprintf(&b, "func Read%sAsync(ctx context.Context, r bbrt.AsyncBufReader%s) (%s, error) {\n", typeName, params, typeName)
	} else {
		fmt.Fprintf(&b, "func Read%s(r bbrt.BufReader%s) (%s, error) {\n", typeName, params, typeName)
	}
	zero := typeName + "{}"
	for _, l := range e.emitReadBody(children, async, zero) {
		b.WriteString(l)
		b.WriteString("\n")
	}
	fields := e.fieldsOf(children)
	b.WriteString(fmt.Sprintf("return %s{\n", typeName))
	for _, f := range fields {
		fmt.Fprintf(&b, "\t%s: %s,\n", exportedFieldName(f), localVarName(f))
	}
	b.WriteString("}, nil\n}\n\n")
	return b.String()
}

func (e *emitter) emitWriteFunc(typeName string, children []Ref, async bool, ext []Ref) string {
	var b strings.Builder
	params := extParams(ext)
	if async {
		fmt.Fprintf(&b, "func (v %s) WriteAsync(ctx context.Context, w bbrt.AsyncWriter%s) error {\n", typeName, params)
	} else {
		fmt.Fprintf(&b, "func (v %s) Write(w bbrt.Writer%s) error {\n", typeName, params)
	}
	for _, l := range e.emitWriteBody(children, async, structAccess) {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("return nil\n}\n\n")
	return b.String()
}

// emitRecordType emits a Go struct plus its Read/Write (and, if requested,
// ReadAsync/WriteAsync) functions for one flat field list: an Object body
// or one variant of an Enum. ext lists the values this record's fields
// need from an enclosing scope (nil for the common case of none), which
// are threaded through every generated function as trailing parameters
// rather than gating whether the functions are emitted at all.
func (e *emitter) emitRecordType(typeName string, children []Ref, ext []Ref) string {
	var b strings.Builder
	fields := e.fieldsOf(children)
	fmt.Fprintf(&b, "type %s struct {\n", typeName)
	for _, f := range fields {
		fmt.Fprintf(&b, "\t%s %s\n", exportedFieldName(f), goType(f))
	}
	b.WriteString("}\n\n")

	if e.cfg.GenerateRead {
		if e.cfg.Sync {
			b.WriteString(e.emitReadFunc(typeName, children, false, ext))
		}
		if e.cfg.Async {
			b.WriteString(e.emitReadFunc(typeName, children, true, ext))
		}
	}
	if e.cfg.GenerateWrite {
		if e.cfg.Sync {
			b.WriteString(e.emitWriteFunc(typeName, children, false, ext))
		}
		if e.cfg.Async {
			b.WriteString(e.emitWriteFunc(typeName, children, true, ext))
		}
	}
	return b.String()
}
