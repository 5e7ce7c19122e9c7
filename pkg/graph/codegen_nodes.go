package graph

import (
	"fmt"
	"strings"

	"github.com/blockberries/binarybay/pkg/bbrt"
)

func bytesLiteral(b []byte) string {
	var sb strings.Builder
	sb.WriteString("[]byte{")
	for i, x := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "0x%02x", x)
	}
	sb.WriteString("}")
	return sb.String()
}

// structAccess is the access function used everywhere a node's value is
// read off the enclosing struct's receiver "v".
func structAccess(ref Ref) string { return "v." + exportedFieldName(ref) }

// readFixedSegment emits the statements reading one contiguous run of
// fixed-width nodes out of a single buffered read, declaring one local
// variable per non-Align node in the run. zeroExpr is the value returned
// alongside the error on an early return (the enclosing type's zero value,
// or "nil" inside a function returning a pointer/interface).
func (e *emitter) readFixedSegment(nodes []Ref, async bool, zeroExpr string) []string {
	total, offsets := segmentSpan(nodes)
	bufVar := localVarName(nodes[0]) + "Seg"
	var lines []string
	if async {
		lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadExactAsync(ctx, r, %d)", bufVar, total))
	} else {
		lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadExact(r, %d)", bufVar, total))
	}
	lines = append(lines, fmt.Sprintf("if err != nil { return %s, err }", zeroExpr))

	for i, ref := range nodes {
		off := offsets[i]
		name := localVarName(ref)
		switch ref.Kind() {
		case KindAlign:
			continue
		case KindInt:
			in := ref.node().variant.(*intNode)
			endian := "bbrt.LittleEndian"
			if in.Endian == bbrt.BigEndian {
				endian = "bbrt.BigEndian"
			}
			lines = append(lines, fmt.Sprintf("%sRaw, err := bbrt.DecodeInt(%s, %d, %d, %d, %s, %t)",
				name, bufVar, off.bytes, off.bits, in.Bits, endian, in.Signed))
			lines = append(lines, fmt.Sprintf("if err != nil { return %s, err }", zeroExpr))
			lines = append(lines, fmt.Sprintf("%s := %s(%sRaw)", name, in.goType(), name))
		case KindFixedRange:
			if fl, ok := ref.node().variant.(*floatNode); ok {
				endian := "bbrt.LittleEndian"
				if fl.Endian == bbrt.BigEndian {
					endian = "bbrt.BigEndian"
				}
				n := fl.Bits / 8
				lines = append(lines, fmt.Sprintf("%s, err := bbrt.DecodeFloat(%s[%d:%d], %s)", name, bufVar, off.bytes, off.bytes+n, endian))
				lines = append(lines, fmt.Sprintf("if err != nil { return %s, err }", zeroExpr))
			} else {
				n := ref.node().variant.(*fixedRangeNode).ByteLen
				lines = append(lines, fmt.Sprintf("var %s [%d]byte", name, n))
				lines = append(lines, fmt.Sprintf("copy(%s[:], %s[%d:%d])", name, bufVar, off.bytes, off.bytes+n))
			}
		case KindFixedBytes:
			n := ref.node().variant.(*fixedBytesNode).ByteLen
			lines = append(lines, fmt.Sprintf("%s := append([]byte(nil), %s[%d:%d]...)", name, bufVar, off.bytes, off.bytes+n))
		}
	}
	return lines
}

// writeFixedSegment emits the statements writing one contiguous run of
// fixed-width nodes into a freshly zeroed buffer. access resolves a node's
// current Go value: structAccess ("v.Field") at the top of a struct's
// Write method, or a plain loop-variable name when called for a scalar
// array element.
func (e *emitter) writeFixedSegment(nodes []Ref, async bool, access func(Ref) string) []string {
	total, offsets := segmentSpan(nodes)
	bufVar := localVarName(nodes[0]) + "Seg"
	var lines []string
	lines = append(lines, fmt.Sprintf("%s := make([]byte, %d)", bufVar, total))

	for i, ref := range nodes {
		off := offsets[i]
		switch ref.Kind() {
		case KindAlign:
			continue
		case KindInt:
			in := ref.node().variant.(*intNode)
			endian := "bbrt.LittleEndian"
			if in.Endian == bbrt.BigEndian {
				endian = "bbrt.BigEndian"
			}
			lines = append(lines, fmt.Sprintf("if err := bbrt.EncodeInt(%s, %d, %d, %d, %s, %t, %s); err != nil { return err }",
				bufVar, off.bytes, off.bits, in.Bits, endian, in.Signed, e.intWriteExpr(ref, access)))
		case KindFixedRange:
			if fl, ok := ref.node().variant.(*floatNode); ok {
				endian := "bbrt.LittleEndian"
				if fl.Endian == bbrt.BigEndian {
					endian = "bbrt.BigEndian"
				}
				n := fl.Bits / 8
				lines = append(lines, fmt.Sprintf("if err := bbrt.EncodeFloat(%s[%d:%d], %s, %s); err != nil { return err }",
					bufVar, off.bytes, off.bytes+n, endian, e.resolveAccess(ref, access)))
			} else {
				n := ref.node().variant.(*fixedRangeNode).ByteLen
				lines = append(lines, fmt.Sprintf("copy(%s[%d:%d], %s[:])", bufVar, off.bytes, off.bytes+n, e.resolveAccess(ref, access)))
			}
		case KindFixedBytes:
			n := ref.node().variant.(*fixedBytesNode).ByteLen
			lines = append(lines, fmt.Sprintf("copy(%s[%d:%d], %s)", bufVar, off.bytes, off.bytes+n, e.resolveAccess(ref, access)))
		}
	}
	if async {
		lines = append(lines, fmt.Sprintf("if err := bbrt.WriteAllAsync(ctx, w, %s); err != nil { return err }", bufVar))
	} else {
		lines = append(lines, fmt.Sprintf("if err := bbrt.WriteAll(w, %s); err != nil { return err }", bufVar))
	}
	return lines
}

// readDynamicNode emits the statements reading one node whose size is not
// known until some of it has been consumed (everything but the fixed
// kinds). It returns the statements plus the name of the local variable
// holding the node's value ("" for Const, which produces none).
func (e *emitter) readDynamicNode(ref Ref, async bool, zeroExpr string) ([]string, string) {
	name := localVarName(ref)
	var lines []string
	switch ref.Kind() {
	case KindDynamicBytes:
		lenRef := ref.node().variant.(*dynamicBytesNode).Length
		lines = append(lines, fmt.Sprintf("%sLen := int(%s)", name, localVarName(lenRef)))
		if async {
			lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadExactAsync(ctx, r, %sLen)", name, name))
		} else {
			lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadExact(r, %sLen)", name, name))
		}
		lines = append(lines, fmt.Sprintf("if err != nil { return %s, err }", zeroExpr))
	case KindDelimitedBytes:
		delim := bytesLiteral(ref.node().variant.(*delimitedBytesNode).Delim)
		if async {
			lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadDelimitedAsync(ctx, r, %s)", name, delim))
		} else {
			lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadDelimited(r, %s)", name, delim))
		}
		lines = append(lines, fmt.Sprintf("if err != nil { return %s, err }", zeroExpr))
	case KindRemainingBytes:
		if async {
			lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadRemainingAsync(ctx, r)", name))
		} else {
			lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadRemaining(r)", name))
		}
		lines = append(lines, fmt.Sprintf("if err != nil { return %s, err }", zeroExpr))
	case KindConst:
		cn := ref.node().variant.(*constNode)
		bufVar := name + "Const"
		if async {
			lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadExactAsync(ctx, r, %d)", bufVar, len(cn.Value)))
		} else {
			lines = append(lines, fmt.Sprintf("%s, err := bbrt.ReadExact(r, %d)", bufVar, len(cn.Value)))
		}
		lines = append(lines, fmt.Sprintf("if err != nil { return %s, err }", zeroExpr))
		lines = append(lines, fmt.Sprintf("if !bytes.Equal(%s, %s) { return %s, %s }",
			bufVar, bytesLiteral(cn.Value), zeroExpr, e.readErrExpr(ref.ID(), "bbrt.ErrConstMismatch")))
		return lines, ""
	case KindCustom:
		cn := ref.node().variant.(*customNode)
		var vals []string
		for _, r := range cn.Reads {
			vals = append(vals, localVarName(r))
		}
		lines = append(lines, fmt.Sprintf("%s := %s", name, cn.ReadExpr(vals)))
		return lines, name
	case KindObj:
		on := ref.node().variant.(*objNode)
		args := extArgs(ref.node().externalDeps)
		if async {
			lines = append(lines, fmt.Sprintf("%s, err := Read%sAsync(ctx, r%s)", name, on.TypeName, args))
		} else {
			lines = append(lines, fmt.Sprintf("%s, err := Read%s(r%s)", name, on.TypeName, args))
		}
		lines = append(lines, fmt.Sprintf("if err != nil { return %s, err }", zeroExpr))
	case KindDynamicArray:
		return e.readArray(ref, async, zeroExpr)
	case KindEnum:
		return e.readEnum(ref, async, zeroExpr)
	}
	return lines, name
}

func (e *emitter) writeDynamicNode(ref Ref, async bool, access func(Ref) string) []string {
	switch ref.Kind() {
	case KindDynamicBytes, KindRemainingBytes:
		expr := e.resolveAccess(ref, access)
		if async {
			return []string{fmt.Sprintf("if err := bbrt.WriteAllAsync(ctx, w, %s); err != nil { return err }", expr)}
		}
		return []string{fmt.Sprintf("if err := bbrt.WriteAll(w, %s); err != nil { return err }", expr)}
	case KindDelimitedBytes:
		delim := bytesLiteral(ref.node().variant.(*delimitedBytesNode).Delim)
		expr := e.resolveAccess(ref, access)
		if async {
			return []string{fmt.Sprintf("if err := bbrt.WriteDelimitedAsync(ctx, w, %s, %s); err != nil { return err }", expr, delim)}
		}
		return []string{fmt.Sprintf("if err := bbrt.WriteDelimited(w, %s, %s); err != nil { return err }", expr, delim)}
	case KindConst:
		cn := ref.node().variant.(*constNode)
		if async {
			return []string{fmt.Sprintf("if err := bbrt.WriteAllAsync(ctx, w, %s); err != nil { return err }", bytesLiteral(cn.Value))}
		}
		return []string{fmt.Sprintf("if err := bbrt.WriteAll(w, %s); err != nil { return err }", bytesLiteral(cn.Value))}
	case KindCustom:
		return nil
	case KindObj:
		args := e.extWriteArgs(ref.node().externalDeps, ref.node().scope, access)
		if async {
			return []string{fmt.Sprintf("if err := %s.WriteAsync(ctx, w%s); err != nil { return err }", access(ref), args)}
		}
		return []string{fmt.Sprintf("if err := %s.Write(w%s); err != nil { return err }", access(ref), args)}
	case KindDynamicArray:
		return e.writeArray(ref, async, access)
	case KindEnum:
		return e.writeEnum(ref, async, access)
	}
	return nil
}
