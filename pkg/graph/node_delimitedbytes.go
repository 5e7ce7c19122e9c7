package graph

// delimitedBytesNode is a []byte terminated by Delim, consumed one byte at
// a time with buffered lookahead so a delimiter occurrence split across
// the content itself is still detected byte-for-byte.
type delimitedBytesNode struct {
	Delim []byte
}
