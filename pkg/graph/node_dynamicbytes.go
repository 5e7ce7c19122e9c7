package graph

// dynamicBytesNode is a []byte whose length is read from Length, an
// earlier Int node, before the bytes themselves are consumed.
type dynamicBytesNode struct {
	Length Ref
}
