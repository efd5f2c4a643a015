package domain

// Page is a zero-based page window. Offsets are derived from the page index, not
// from the raw "from" parameter.
type Page struct {
	Index int
	Size  int
}

// NewPage converts a (from, size) pair into a page window using integer division,
// so from=0 and from=5 with size=10 both select page 0.
func NewPage(from, size int) Page {
	if size <= 0 {
		return Page{Index: 0, Size: 0}
	}
	if from < 0 {
		from = 0
	}
	return Page{Index: from / size, Size: size}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return p.Index * p.Size
}

// Limit returns the maximum number of rows in the page.
func (p Page) Limit() int {
	return p.Size
}

// Slice applies the page window to an in-memory sequence.
func Slice[T any](items []T, p Page) []T {
	if p.Size <= 0 {
		return []T{}
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
