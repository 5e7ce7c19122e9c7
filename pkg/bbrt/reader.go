package bbrt

import (
	"bytes"
	"io"
)

// Reader is the plain blocking read capability. Generated sync Read
// functions do not take it: they always take a BufReader, whether or not
// the scope tree contains a Delimited-Bytes node.
type Reader interface {
	io.Reader
}

// BufReader additionally supports the single-byte lookahead Delimited-Bytes
// needs to scan for its delimiter without re-reading the stream.
type BufReader interface {
	io.Reader
	io.ByteReader
}

// Writer is the capability generated sync Write methods require.
type Writer interface {
	io.Writer
}

// ReadExact reads exactly n bytes from r, the primitive behind Fixed-Range
// and Dynamic-Bytes reads. It reports ErrUnexpectedEOF on a short read.
func ReadExact(r io.Reader, n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}

// ReadDelimited consumes bytes from r up to but not including delim, then
// consumes and discards delim itself. It requires byte-at-a-time lookahead,
// hence the BufReader bound.
func ReadDelimited(r BufReader, delim []byte) ([]byte, error) {
	if len(delim) == 0 {
		return nil, ErrDelimiterNotFound
	}
	var out []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, ErrDelimiterNotFound
			}
			return nil, err
		}
		out = append(out, b)
		if len(out) >= len(delim) && bytes.Equal(out[len(out)-len(delim):], delim) {
			return out[:len(out)-len(delim)], nil
		}
	}
}

// ReadRemaining consumes r to EOF, the primitive behind Remaining-Bytes.
func ReadRemaining(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return out, nil
}
