package source

import (
	"encoding/csv"
	"io"
	"os"

	"tabload/pkg/errors"
)

// delimitedStream reads comma-separated text with a mandatory header row
type delimitedStream struct {
	file    *os.File
	reader  *csv.Reader
	headers []string
	path    string
}

func openDelimited(file SourceFile) (RowStream, error) {
	f, err := os.Open(file.Path) // #nosec G304 - path validated in Detect
	if err != nil {
		return nil, errors.SourceError(errors.ErrCodeSourceUnavailable,
			"Cannot open source file", file.Path, err)
	}

	reader := csv.NewReader(f)
	// Ragged rows are conformed to the header arity, not rejected
	reader.FieldsPerRecord = -1

	headerRecord, err := reader.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, errors.SourceError(errors.ErrCodeEmptySource,
				"Source file has no header row", file.Path, nil)
		}
		return nil, errors.SourceError(errors.ErrCodeSourceRead,
			"Failed to read header row", file.Path, err)
	}

	headers := cleanHeaders(headerRecord)
	if len(headers) == 1 && headers[0] == "" {
		f.Close()
		return nil, errors.SourceError(errors.ErrCodeEmptySource,
			"No columns detected in header row", file.Path, nil)
	}
	if err := validateHeaders(headers, file.Path); err != nil {
		f.Close()
		return nil, err
	}

	return &delimitedStream{
		file:    f,
		reader:  reader,
		headers: headers,
		path:    file.Path,
	}, nil
}

func (s *delimitedStream) Headers() []string {
	return s.headers
}

func (s *delimitedStream) Next() ([]string, error) {
	record, err := s.reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.SourceError(errors.ErrCodeSourceRead,
			"Failed to read data row", s.path, err)
	}
	return conformRow(record, len(s.headers)), nil
}

func (s *delimitedStream) Close() error {
	return s.file.Close()
}
