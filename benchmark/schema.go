// Package benchmark compares binarybay-generated encoding against
// Protocol Buffers wire encoding and encoding/json, on the same two record
// shapes: a small mixed-type message and a scalar-heavy metrics record.
package benchmark

import (
	"github.com/blockberries/binarybay/pkg/bbrt"
	"github.com/blockberries/binarybay/pkg/graph"
)

// smallMessageSchema builds the schema gen/binarybay/small_message.go is
// the generated form of: a 64-bit signed id, a length-prefixed UTF-8 name,
// and a 1-bit bool sugar field.
func smallMessageSchema() (*graph.Schema, error) {
	s := graph.New(bbrt.LittleEndian)
	root := s.Root()
	if _, err := root.Int("id", 64, true); err != nil {
		return nil, err
	}
	nameLen, err := root.Int("nameLen", 8, false)
	if err != nil {
		return nil, err
	}
	if _, err := root.StringUTF8("name", nameLen); err != nil {
		return nil, err
	}
	if _, err := root.Bool("active"); err != nil {
		return nil, err
	}
	return s, nil
}

// metricsSchema builds the schema gen/binarybay/metrics.go is the generated
// form of: ten fixed-width scalar fields packed into one 80-byte segment.
func metricsSchema() (*graph.Schema, error) {
	s := graph.New(bbrt.LittleEndian)
	root := s.Root()
	if _, err := root.Int("count", 64, true); err != nil {
		return nil, err
	}
	for _, id := range []string{"sum", "min", "max", "avg", "p50", "p95", "p99"} {
		if _, err := root.Float(id, 64); err != nil {
			return nil, err
		}
	}
	if _, err := root.Int("totalBytes", 64, true); err != nil {
		return nil, err
	}
	if _, err := root.Int("errorCount", 64, true); err != nil {
		return nil, err
	}
	return s, nil
}
