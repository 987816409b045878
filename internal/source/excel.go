package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tabload/pkg/errors"
)

// sheetStream reads one sheet of an XLSX workbook through the excelize
// rows iterator, so the workbook is not fully materialized per row
type sheetStream struct {
	book    *excelize.File
	rows    *excelize.Rows
	headers []string
	path    string
	sheet   string
}

func openSheet(file SourceFile) (RowStream, error) {
	book, err := excelize.OpenFile(file.Path)
	if err != nil {
		return nil, errors.SourceError(errors.ErrCodeSourceUnavailable,
			"Cannot open workbook", file.Path, err)
	}

	sheet, err := resolveSheet(book, file.Sheet)
	if err != nil {
		book.Close()
		return nil, err
	}

	rows, err := book.Rows(sheet)
	if err != nil {
		book.Close()
		return nil, errors.SourceError(errors.ErrCodeSourceRead,
			fmt.Sprintf("Failed to open rows iterator for sheet %s", sheet), file.Path, err)
	}

	if !rows.Next() {
		rows.Close()
		book.Close()
		return nil, errors.SourceError(errors.ErrCodeEmptySource,
			fmt.Sprintf("Sheet %s has no header row", sheet), file.Path, nil)
	}

	headerRecord, err := rows.Columns()
	if err != nil {
		rows.Close()
		book.Close()
		return nil, errors.SourceError(errors.ErrCodeSourceRead,
			"Failed to read header row", file.Path, err)
	}

	headers := cleanHeaders(headerRecord)
	if err := validateHeaders(headers, file.Path); err != nil {
		rows.Close()
		book.Close()
		return nil, err
	}

	return &sheetStream{
		book:    book,
		rows:    rows,
		headers: headers,
		path:    file.Path,
		sheet:   sheet,
	}, nil
}

// resolveSheet picks the named sheet, or the first sheet when none is named
func resolveSheet(book *excelize.File, name string) (string, error) {
	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.SourceError(errors.ErrCodeEmptySource,
			"Workbook contains no sheets", book.Path, nil)
	}

	if name == "" {
		return sheets[0], nil
	}

	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}

	return "", errors.New(errors.ErrCodeSheetNotFound,
		fmt.Sprintf("Sheet %q not found in workbook", name)).
		WithComponent("source").
		WithContext("path", book.Path).
		WithContext("sheets", sheets)
}

func (s *sheetStream) Headers() []string {
	return s.headers
}

func (s *sheetStream) Next() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, errors.SourceError(errors.ErrCodeSourceRead,
				"Failed to advance rows iterator", s.path, err)
		}
		return nil, io.EOF
	}

	record, err := s.rows.Columns()
	if err != nil {
		return nil, errors.SourceError(errors.ErrCodeSourceRead,
			fmt.Sprintf("Failed to read row in sheet %s", s.sheet), s.path, err)
	}
	return conformRow(record, len(s.headers)), nil
}

func (s *sheetStream) Close() error {
	s.rows.Close()
	return s.book.Close()
}
