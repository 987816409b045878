package loader

// batch is the bounded in-memory row buffer. It is filled to its cap,
// flushed, and reused; it never grows past the cap.
type batch struct {
	rows [][]string
	cap  int
}

func newBatch(cap int) *batch {
	return &batch{rows: make([][]string, 0, cap), cap: cap}
}

func (b *batch) Append(row []string) {
	b.rows = append(b.rows, row)
}

func (b *batch) Full() bool {
	return len(b.rows) >= b.cap
}

func (b *batch) Len() int {
	return len(b.rows)
}

func (b *batch) Rows() [][]string {
	return b.rows
}

// Reset clears the buffer while keeping its backing array
func (b *batch) Reset() {
	b.rows = b.rows[:0]
}
