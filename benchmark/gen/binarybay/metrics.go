package binarybaygen

import "github.com/blockberries/binarybay/pkg/bbrt"

// Metrics is the generated form of metricsSchema in ../schema.go: ten
// scalar fields, every one of them a fixed-width Int or Float, so the
// entire record lives in one contiguous read/write segment.
type Metrics struct {
	Count      int64
	Sum        float64
	Min        float64
	Max        float64
	Avg        float64
	P50        float64
	P95        float64
	P99        float64
	TotalBytes int64
	ErrorCount int64
}

const metricsSize = 8 * 10

func ReadMetrics(r bbrt.BufReader) (Metrics, error) {
	seg, err := bbrt.ReadExact(r, metricsSize)
	if err != nil {
		return Metrics{}, err
	}

	readI64 := func(off int) (int64, error) {
		return bbrt.DecodeInt(seg, off, 0, 64, bbrt.LittleEndian, true)
	}
	readF64 := func(off int) (float64, error) {
		return bbrt.DecodeFloat(seg[off:off+8], bbrt.LittleEndian)
	}

	count, err := readI64(0)
	if err != nil {
		return Metrics{}, err
	}
	sum, err := readF64(8)
	if err != nil {
		return Metrics{}, err
	}
	min, err := readF64(16)
	if err != nil {
		return Metrics{}, err
	}
	max, err := readF64(24)
	if err != nil {
		return Metrics{}, err
	}
	avg, err := readF64(32)
	if err != nil {
		return Metrics{}, err
	}
	p50, err := readF64(40)
	if err != nil {
		return Metrics{}, err
	}
	p95, err := readF64(48)
	if err != nil {
		return Metrics{}, err
	}
	p99, err := readF64(56)
	if err != nil {
		return Metrics{}, err
	}
	totalBytes, err := readI64(64)
	if err != nil {
		return Metrics{}, err
	}
	errorCount, err := readI64(72)
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{
		Count:      count,
		Sum:        sum,
		Min:        min,
		Max:        max,
		Avg:        avg,
		P50:        p50,
		P95:        p95,
		P99:        p99,
		TotalBytes: totalBytes,
		ErrorCount: errorCount,
	}, nil
}

func (v Metrics) Write(w bbrt.Writer) error {
	seg := make([]byte, metricsSize)

	writeI64 := func(off int, val int64) error {
		return bbrt.EncodeInt(seg, off, 0, 64, bbrt.LittleEndian, true, val)
	}
	writeF64 := func(off int, val float64) error {
		return bbrt.EncodeFloat(seg[off:off+8], bbrt.LittleEndian, val)
	}

	if err := writeI64(0, v.Count); err != nil {
		return err
	}
	if err := writeF64(8, v.Sum); err != nil {
		return err
	}
	if err := writeF64(16, v.Min); err != nil {
		return err
	}
	if err := writeF64(24, v.Max); err != nil {
		return err
	}
	if err := writeF64(32, v.Avg); err != nil {
		return err
	}
	if err := writeF64(40, v.P50); err != nil {
		return err
	}
	if err := writeF64(48, v.P95); err != nil {
		return err
	}
	if err := writeF64(56, v.P99); err != nil {
		return err
	}
	if err := writeI64(64, v.TotalBytes); err != nil {
		return err
	}
	if err := writeI64(72, v.ErrorCount); err != nil {
		return err
	}

	return bbrt.WriteAll(w, seg)
}
