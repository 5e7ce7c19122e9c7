package graph

import "fmt"

// readArray emits a slice built by reading Length elements, each parsed
// through the same steps its ElemScope was built from.
func (e *emitter) readArray(ref Ref, async bool, zeroExpr string) ([]string, string) {
	an := ref.node().variant.(*dynamicArrayNode)
	name := localVarName(ref)
	elemType := goType(an.Elem)

	var lines []string
	lines = append(lines, fmt.Sprintf("%sLen := int(%s)", name, localVarName(an.Length)))
	lines = append(lines, fmt.Sprintf("%s := make([]%s, %sLen)", name, elemType, name))
	lines = append(lines, fmt.Sprintf("for i := 0; i < %sLen; i++ {", name))
	lines = append(lines, e.emitReadBody(an.ElemScope.children, async, zeroExpr)...)
	lines = append(lines, fmt.Sprintf("%s[i] = %s", name, localVarName(an.Elem)))
	lines = append(lines, "}")
	return lines, name
}

// writeArray emits a range loop writing each element of the slice access
// resolves to. Every node inside one element's scope is either the
// element's own value or a value derived from it (a per-element length
// prefix, say), so a single loop variable is enough to resolve every
// access inside the loop body.
func (e *emitter) writeArray(ref Ref, async bool, access func(Ref) string) []string {
	an := ref.node().variant.(*dynamicArrayNode)
	elemVar := localVarName(an.Elem)

	var lines []string
	lines = append(lines, fmt.Sprintf("for _, %s := range %s {", elemVar, access(ref)))
	elemAccess := func(Ref) string { return elemVar }
	lines = append(lines, e.emitWriteBody(an.ElemScope.children, async, elemAccess)...)
	lines = append(lines, "}")
	return lines
}
