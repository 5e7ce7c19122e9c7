package bbrt

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// ReadExactAsync is the async analogue of ReadExact: it issues ReadAsync
// calls (awaiting each one) until n bytes have been accumulated or ctx is
// canceled.
func ReadExactAsync(ctx context.Context, r AsyncReader, n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	read := 0
	for read < n {
		got, err := r.ReadAsync(buf[read:]).Await(ctx)
		if err != nil {
			return nil, err
		}
		if got == 0 {
			return nil, ErrUnexpectedEOF
		}
		read += got
	}
	return buf, nil
}

// ReadDelimitedAsync is the async analogue of ReadDelimited.
func ReadDelimitedAsync(ctx context.Context, r AsyncBufReader, delim []byte) ([]byte, error) {
	if len(delim) == 0 {
		return nil, ErrDelimiterNotFound
	}
	var out []byte
	for {
		b, err := r.ReadByteAsync().Await(ctx)
		if err != nil {
			return nil, ErrDelimiterNotFound
		}
		out = append(out, b)
		if len(out) >= len(delim) && bytes.Equal(out[len(out)-len(delim):], delim) {
			return out[:len(out)-len(delim)], nil
		}
	}
}

// ReadRemainingAsync is the async analogue of ReadRemaining: it reads until
// io.EOF is observed.
func ReadRemainingAsync(ctx context.Context, r AsyncReader) ([]byte, error) {
	var out []byte
	chunk := make([]byte, 4096)
	for {
		n, err := r.ReadAsync(chunk).Await(ctx)
		if n > 0 {
			out = append(out, chunk[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		if n == 0 {
			return out, nil
		}
	}
}

// WriteAllAsync is the async analogue of WriteAll.
func WriteAllAsync(ctx context.Context, w AsyncWriter, b []byte) error {
	written := 0
	for written < len(b) {
		n, err := w.WriteAsync(b[written:]).Await(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrUnexpectedEOF
		}
		written += n
	}
	return nil
}

// WriteDelimitedAsync is the async analogue of WriteDelimited.
func WriteDelimitedAsync(ctx context.Context, w AsyncWriter, b []byte, delim []byte) error {
	if err := WriteAllAsync(ctx, w, b); err != nil {
		return err
	}
	return WriteAllAsync(ctx, w, delim)
}
