// Package source turns a delimited text file or one sheet of an XLSX
// workbook into a positional row stream. A stream is a single forward
// pass; callers that need the data twice open the file again.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"tabload/internal/common"
	"tabload/pkg/errors"
)

// Format identifies how a source file is parsed
type Format string

const (
	FormatDelimited   Format = "delimited-text"
	FormatSpreadsheet Format = "spreadsheet-sheet"
)

// SourceFile describes an immutable on-disk input artifact
type SourceFile struct {
	Path   string
	Format Format
	Sheet  string // spreadsheet sheet name; empty selects the first sheet
}

// RowStream is a lazy, finite sequence of positional rows. Next returns
// io.EOF at exhaustion. Every row has exactly len(Headers()) fields.
type RowStream interface {
	Headers() []string
	Next() ([]string, error)
	Close() error
}

// Detect builds a SourceFile from a path, choosing the format by extension.
// The path is user input and may legitimately be relative or reach outside
// the working directory; Open reports paths that cannot be read.
func Detect(path, sheet string) (SourceFile, error) {
	cleaned, err := filepath.Abs(common.ExpandHome(path))
	if err != nil {
		return SourceFile{}, errors.SourceError(errors.ErrCodeSourceUnavailable,
			"Invalid source path", path, err)
	}

	switch strings.ToLower(filepath.Ext(cleaned)) {
	case ".csv", ".txt":
		return SourceFile{Path: cleaned, Format: FormatDelimited}, nil
	case ".xlsx", ".xlsm":
		return SourceFile{Path: cleaned, Format: FormatSpreadsheet, Sheet: sheet}, nil
	default:
		return SourceFile{}, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("Unsupported source file type %q", filepath.Ext(cleaned))).
			WithComponent("source").
			WithSuggestions("Use a .csv, .txt, .xlsx, or .xlsm file")
	}
}

// Open starts a fresh read pass from the beginning of the file. The
// returned stream owns a read handle and must be closed.
func Open(file SourceFile) (RowStream, error) {
	switch file.Format {
	case FormatSpreadsheet:
		return openSheet(file)
	default:
		return openDelimited(file)
	}
}

// cleanHeaders strips the UTF-8 byte-order mark some export tools prepend
// to the first header cell, and trims surrounding whitespace everywhere
func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}

// validateHeaders rejects empty header rows and duplicate cleaned names.
// Collisions are a caller error, never silently renamed.
func validateHeaders(headers []string, path string) error {
	if len(headers) == 0 {
		return errors.SourceError(errors.ErrCodeEmptySource,
			"No columns detected in header row", path, nil)
	}

	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		if prev, ok := seen[h]; ok {
			return errors.New(errors.ErrCodeDuplicateColumn,
				fmt.Sprintf("Duplicate column name %q at positions %d and %d", h, prev+1, i+1)).
				WithComponent("source").
				WithContext("path", path)
		}
		seen[h] = i
	}
	return nil
}

// conformRow pads or truncates a record to the header arity so every row
// binds positionally against the destination columns
func conformRow(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	row := make([]string, width)
	copy(row, record)
	return row
}
