package bbrt

import "io"

// WriteAll writes all of b to w, the primitive behind Fixed-Range,
// Dynamic-Bytes, Delimited-Bytes, and Remaining-Bytes writes.
func WriteAll(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}

// WriteDelimited writes b followed by delim, the write-side inverse of
// ReadDelimited.
func WriteDelimited(w io.Writer, b []byte, delim []byte) error {
	if err := WriteAll(w, b); err != nil {
		return err
	}
	return WriteAll(w, delim)
}
