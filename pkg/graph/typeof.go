package graph

import "fmt"

// goType returns the Go type a node's value is represented as in generated
// struct fields and local variables.
func goType(ref Ref) string {
	n := ref.node()
	switch n.kind {
	case KindInt:
		return n.variant.(*intNode).goType()
	case KindFixedRange:
		if fl, ok := n.variant.(*floatNode); ok {
			if fl.Bits == 32 {
				return "float32"
			}
			return "float64"
		}
		return fmt.Sprintf("[%d]byte", n.variant.(*fixedRangeNode).ByteLen)
	case KindFixedBytes:
		return "[]byte"
	case KindDynamicBytes, KindDelimitedBytes, KindRemainingBytes:
		return "[]byte"
	case KindDynamicArray:
		dn := n.variant.(*dynamicArrayNode)
		return "[]" + goType(dn.Elem)
	case KindConst, KindAlign:
		return ""
	case KindCustom:
		return n.variant.(*customNode).GoType
	case KindObj:
		return n.variant.(*objNode).TypeName
	case KindEnum:
		return n.variant.(*enumNode).TypeName
	default:
		return "any"
	}
}

// hasValue reports whether a node kind produces a struct field at all;
// Const and Align are pure wire-format bookkeeping and store nothing.
func hasValue(kind NodeKind) bool {
	return kind != KindConst && kind != KindAlign
}
