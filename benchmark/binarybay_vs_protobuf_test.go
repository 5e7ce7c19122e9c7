package benchmark

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	bbgen "github.com/blockberries/binarybay/benchmark/gen/binarybay"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"
)

// ============================================================================
// Test data
// ============================================================================

func makeSmallMessage() bbgen.SmallMessage {
	return bbgen.SmallMessage{Id: 12345, Name: "test-item", Active: true}
}

func makeMetrics() bbgen.Metrics {
	return bbgen.Metrics{
		Count:      1000000,
		Sum:        12345678.90,
		Min:        0.001,
		Max:        99999.99,
		Avg:        12345.67,
		P50:        10000.0,
		P95:        50000.0,
		P99:        90000.0,
		TotalBytes: 1073741824,
		ErrorCount: 42,
	}
}

type jsonSmallMessage struct {
	Id     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type jsonMetrics struct {
	Count      int64   `json:"count"`
	Sum        float64 `json:"sum"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Avg        float64 `json:"avg"`
	P50        float64 `json:"p50"`
	P95        float64 `json:"p95"`
	P99        float64 `json:"p99"`
	TotalBytes int64   `json:"total_bytes"`
	ErrorCount int64   `json:"error_count"`
}

// ============================================================================
// Manual protobuf wire encoding (no .proto-generated package; field numbers
// chosen in declaration order the way protoc-gen-go would assign them)
// ============================================================================

func marshalProtoSmallMessage(m bbgen.SmallMessage) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Id))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, m.Name)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	active := uint64(0)
	if m.Active {
		active = 1
	}
	b = protowire.AppendVarint(b, active)
	return b
}

func unmarshalProtoSmallMessage(b []byte) (bbgen.SmallMessage, error) {
	var out bbgen.SmallMessage
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			out.Id = int64(v)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			out.Name = v
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			out.Active = v != 0
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return out, nil
}

func marshalProtoMetrics(m bbgen.Metrics) []byte {
	var b []byte
	appendVarintField := func(num protowire.Number, v int64) {
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(v))
	}
	appendDoubleField := func(num protowire.Number, v float64) {
		b = protowire.AppendTag(b, num, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, fixed64FromFloat(v))
	}
	appendVarintField(1, m.Count)
	appendDoubleField(2, m.Sum)
	appendDoubleField(3, m.Min)
	appendDoubleField(4, m.Max)
	appendDoubleField(5, m.Avg)
	appendDoubleField(6, m.P50)
	appendDoubleField(7, m.P95)
	appendDoubleField(8, m.P99)
	appendVarintField(9, m.TotalBytes)
	appendVarintField(10, m.ErrorCount)
	return b
}

func unmarshalProtoMetrics(b []byte) (bbgen.Metrics, error) {
	var out bbgen.Metrics
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1, 9, 10:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			switch num {
			case 1:
				out.Count = int64(v)
			case 9:
				out.TotalBytes = int64(v)
			case 10:
				out.ErrorCount = int64(v)
			}
			b = b[n:]
		case 2, 3, 4, 5, 6, 7, 8:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			f := floatFromFixed64(v)
			switch num {
			case 2:
				out.Sum = f
			case 3:
				out.Min = f
			case 4:
				out.Max = f
			case 5:
				out.Avg = f
			case 6:
				out.P50 = f
			case 7:
				out.P95 = f
			case 8:
				out.P99 = f
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return out, nil
}

// ============================================================================
// Small Message benchmarks
// ============================================================================

func BenchmarkSmallMessage_Binarybay_Encode(b *testing.B) {
	msg := makeSmallMessage()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		_ = msg.Write(&buf)
	}
}

func BenchmarkSmallMessage_Binarybay_Decode(b *testing.B) {
	msg := makeSmallMessage()
	var buf bytes.Buffer
	_ = msg.Write(&buf)
	data := buf.Bytes()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = bbgen.ReadSmallMessage(bytes.NewReader(data))
	}
}

func BenchmarkSmallMessage_Protobuf_Encode(b *testing.B) {
	msg := makeSmallMessage()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = marshalProtoSmallMessage(msg)
	}
}

func BenchmarkSmallMessage_Protobuf_Decode(b *testing.B) {
	data := marshalProtoSmallMessage(makeSmallMessage())
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = unmarshalProtoSmallMessage(data)
	}
}

func BenchmarkSmallMessage_JSON_Encode(b *testing.B) {
	msg := jsonSmallMessage{Id: 12345, Name: "test-item", Active: true}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(msg)
	}
}

func BenchmarkSmallMessage_JSON_Decode(b *testing.B) {
	data, _ := json.Marshal(jsonSmallMessage{Id: 12345, Name: "test-item", Active: true})
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var out jsonSmallMessage
		_ = json.Unmarshal(data, &out)
	}
}

// ============================================================================
// Metrics benchmarks
// ============================================================================

func BenchmarkMetrics_Binarybay_Encode(b *testing.B) {
	msg := makeMetrics()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		_ = msg.Write(&buf)
	}
}

func BenchmarkMetrics_Binarybay_Decode(b *testing.B) {
	msg := makeMetrics()
	var buf bytes.Buffer
	_ = msg.Write(&buf)
	data := buf.Bytes()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = bbgen.ReadMetrics(bytes.NewReader(data))
	}
}

func BenchmarkMetrics_Protobuf_Encode(b *testing.B) {
	msg := makeMetrics()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = marshalProtoMetrics(msg)
	}
}

func BenchmarkMetrics_Protobuf_Decode(b *testing.B) {
	data := marshalProtoMetrics(makeMetrics())
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = unmarshalProtoMetrics(data)
	}
}

func BenchmarkMetrics_JSON_Encode(b *testing.B) {
	m := makeMetrics()
	msg := jsonMetrics{m.Count, m.Sum, m.Min, m.Max, m.Avg, m.P50, m.P95, m.P99, m.TotalBytes, m.ErrorCount}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(msg)
	}
}

func BenchmarkMetrics_JSON_Decode(b *testing.B) {
	m := makeMetrics()
	data, _ := json.Marshal(jsonMetrics{m.Count, m.Sum, m.Min, m.Max, m.Avg, m.P50, m.P95, m.P99, m.TotalBytes, m.ErrorCount})
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var out jsonMetrics
		_ = json.Unmarshal(data, &out)
	}
}

// ============================================================================
// Round-trip and size comparison
// ============================================================================

func TestSmallMessageRoundTrip(t *testing.T) {
	msg := makeSmallMessage()
	var buf bytes.Buffer
	if err := msg.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := bbgen.ReadSmallMessage(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadSmallMessage: %v", err)
	}
	if diff := cmp.Diff(msg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMetricsRoundTrip(t *testing.T) {
	msg := makeMetrics()
	var buf bytes.Buffer
	if err := msg.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := bbgen.ReadMetrics(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadMetrics: %v", err)
	}
	if diff := cmp.Diff(msg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodedSizes(t *testing.T) {
	var small bytes.Buffer
	_ = makeSmallMessage().Write(&small)
	smallPb := marshalProtoSmallMessage(makeSmallMessage())
	smallJSON, _ := json.Marshal(jsonSmallMessage{Id: 12345, Name: "test-item", Active: true})

	var metrics bytes.Buffer
	_ = makeMetrics().Write(&metrics)
	metricsPb := marshalProtoMetrics(makeMetrics())
	m := makeMetrics()
	metricsJSON, _ := json.Marshal(jsonMetrics{m.Count, m.Sum, m.Min, m.Max, m.Avg, m.P50, m.P95, m.P99, m.TotalBytes, m.ErrorCount})

	t.Logf("SmallMessage: binarybay=%d protobuf=%d json=%d bytes", small.Len(), len(smallPb), len(smallJSON))
	t.Logf("Metrics: binarybay=%d protobuf=%d json=%d bytes", metrics.Len(), len(metricsPb), len(metricsJSON))
}

func fixed64FromFloat(v float64) uint64 {
	return math.Float64bits(v)
}

func floatFromFixed64(v uint64) float64 {
	return math.Float64frombits(v)
}
