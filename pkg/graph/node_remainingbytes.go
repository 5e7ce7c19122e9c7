package graph

// remainingBytesNode is a []byte consuming everything left in the stream
// on read and everything it holds on write. It is only valid as the last
// node reachable in its enclosing scope; that is enforced when the schema
// is validated in Generate.
type remainingBytesNode struct{}
