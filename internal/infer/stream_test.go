package infer

import "io"

// fakeStream is an in-memory RowStream for exercising the sampler
type fakeStream struct {
	headers []string
	rows    [][]string
	pos     int
}

func (f *fakeStream) Headers() []string {
	return f.headers
}

func (f *fakeStream) Next() ([]string, error) {
	if f.pos >= len(f.rows) {
		return nil, io.EOF
	}
	row := f.rows[f.pos]
	f.pos++
	return row, nil
}

func (f *fakeStream) Close() error {
	return nil
}
