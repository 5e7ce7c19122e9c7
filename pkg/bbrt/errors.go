// Package bbrt provides the runtime primitives that binarybay-generated code
// calls into: bit-level integer codecs, byte-slice codecs, reader/writer
// capability interfaces (sync and async), and the tagged error types used to
// report decode failures.
//
// This package is the "concrete emitted read/write primitives" collaborator:
// the code generator in pkg/graph never performs I/O itself, it only emits
// calls into bbrt.
package bbrt

import (
	"errors"
	"fmt"
)

// Sentinel errors for the generated-code failure kinds.
// Callers of generated Read/Write methods can check these with errors.Is.
var (
	// ErrUnexpectedEOF indicates the stream ended before a fixed-length
	// read could be satisfied.
	ErrUnexpectedEOF = errors.New("bbrt: unexpected end of data")

	// ErrDelimiterNotFound indicates a Delimited-Bytes read exhausted the
	// stream without encountering its delimiter sequence.
	ErrDelimiterNotFound = errors.New("bbrt: delimiter not found")

	// ErrInvalidUTF8 indicates a byte sequence that is not valid UTF-8.
	// Generated code never returns it: StringUTF8 nodes convert their
	// bytes to a string without validating them.
	ErrInvalidUTF8 = errors.New("bbrt: invalid UTF-8")

	// ErrConstMismatch indicates a Const node's read value did not equal
	// the literal it asserts against.
	ErrConstMismatch = errors.New("bbrt: const value mismatch")

	// ErrUnknownEnumTag indicates an Enum node read a tag value with no
	// matching variant and no default variant defined.
	ErrUnknownEnumTag = errors.New("bbrt: unknown enum tag")

	// ErrBitOverflow indicates a bit-field read/write would exceed the
	// bounds of its backing fixed range.
	ErrBitOverflow = errors.New("bbrt: bit field overflow")

	// ErrNotByteAligned indicates a byte-oriented operation (Bytes, wide
	// Int) was attempted on a range that is not byte-aligned.
	ErrNotByteAligned = errors.New("bbrt: range is not byte-aligned")
)

// ReadError is the heap-backed error type: it tags an underlying failure
// with the id of the node that produced it. This is the default error mode
// (GenerateConfig.LowHeap == false).
type ReadError struct {
	Node string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("bbrt: node %s: %s", e.Node, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReadError tags err with the id of the node that encountered it.
func NewReadError(node string, err error) *ReadError {
	return &ReadError{Node: node, Err: err}
}

// LowHeapReadError is the low-heap error mode (GenerateConfig.LowHeap ==
// true): a bare string carrying only the node id prefix, with no wrapped
// cause chain, for constrained environments that want to avoid allocating
// an error value per field. It mirrors the original generator's
// `&'static str`-style error, realized in Go as a minimal string type.
type LowHeapReadError string

func (e LowHeapReadError) Error() string {
	return string(e)
}

// NewLowHeapReadError builds a LowHeapReadError carrying only node.
func NewLowHeapReadError(node string) LowHeapReadError {
	return LowHeapReadError(fmt.Sprintf("bbrt: error parsing, in node %s", node))
}
