package graph

// alignNode advances the cursor to the next multiple of Boundary bytes,
// reading and discarding (or writing zero) padding bytes as needed. It
// produces no usable Go value.
type alignNode struct {
	Boundary int
}
