package snowflake

import (
	"context"
	"strings"

	"tabload/pkg/errors"
)

// BulkInsert writes one batch of positional row tuples as a single
// multi-row INSERT round trip. Values bind by ordinal position; empty
// strings bind as SQL NULL and any type coercion is left to the
// destination, which keeps the hot path free of per-row validation.
func (s *Service) BulkInsert(ctx context.Context, table string, columnCount int, rows [][]string) error {
	if !s.connected {
		return errors.New(errors.ErrCodeDestinationUnreachable, "Not connected to Snowflake").
			WithComponent("snowflake")
	}
	if len(rows) == 0 {
		return nil
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	statement := buildInsertStatement(table, columnCount, len(rows))
	args := bindRows(rows, columnCount)

	if _, err := s.db.ExecContext(opCtx, statement, args...); err != nil {
		return errors.Wrap(err, errors.ErrCodeBatchWriteFailed, "Bulk insert rejected").
			WithComponent("snowflake").
			WithContext("table", table).
			WithContext("rows", len(rows))
	}
	return nil
}

// buildInsertStatement renders INSERT INTO t VALUES (?,..),(?,..) for the
// given batch shape
func buildInsertStatement(table string, columnCount, rowCount int) string {
	placeholders := "(?" + strings.Repeat(",?", columnCount-1) + ")"

	var b strings.Builder
	b.Grow(len(table) + 20 + rowCount*(len(placeholders)+1))
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" VALUES ")
	for i := 0; i < rowCount; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(placeholders)
	}
	return b.String()
}

// bindRows flattens the batch into positional arguments, mapping empty
// fields to NULL
func bindRows(rows [][]string, columnCount int) []interface{} {
	args := make([]interface{}, 0, len(rows)*columnCount)
	for _, row := range rows {
		for i := 0; i < columnCount; i++ {
			var value string
			if i < len(row) {
				value = row[i]
			}
			if value == "" {
				args = append(args, nil)
			} else {
				args = append(args, value)
			}
		}
	}
	return args
}
