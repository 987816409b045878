// Package loader streams rows into the destination in bounded batches.
// It owns the active batch and the LoadResult; the schema is finalized
// before it runs and never changes underneath it.
package loader

import (
	"context"
	"io"
	"time"

	"tabload/internal/schema"
	"tabload/internal/source"
	"tabload/pkg/errors"
)

// BulkWriter is the single destination operation the loader needs
type BulkWriter interface {
	BulkInsert(ctx context.Context, table string, columnCount int, rows [][]string) error
}

// Status is the terminal outcome of a load run
type Status string

const (
	StatusSucceeded Status = "succeeded"
	// StatusPartiallyFailed marks a run aborted by a source read error
	// after at least one committed flush: committed rows stand but the
	// source was not fully consumed
	StatusPartiallyFailed Status = "partially-failed"
	StatusFailed          Status = "failed"
)

// LoadResult accumulates run totals. Rows committed in flushed batches are
// preserved even on fatal exit, so operators can decide between
// truncate-and-rerun and resume-by-append.
type LoadResult struct {
	RowsWritten int64
	Batches     int
	Elapsed     time.Duration
	Status      Status
}

// ProgressFunc observes each completed flush: cumulative rows written and
// the one-based batch index
type ProgressFunc func(rowsWritten int64, batchIndex int)

// Loader writes a row stream to the destination
type Loader struct {
	writer    BulkWriter
	batchSize int
	progress  ProgressFunc
}

// New creates a loader with the given batch cap
func New(writer BulkWriter, batchSize int, progress ProgressFunc) *Loader {
	if batchSize <= 0 {
		batchSize = 5000
	}
	return &Loader{writer: writer, batchSize: batchSize, progress: progress}
}

// Load consumes the full stream against the finalized schema. A single
// batch write failure is fatal: prior batches stand, remaining batches are
// never attempted. No cross-batch transaction exists.
func (l *Loader) Load(ctx context.Context, target schema.TargetTableSchema, stream source.RowStream) (LoadResult, error) {
	start := time.Now()
	result := LoadResult{Status: StatusFailed}
	buffer := newBatch(l.batchSize)
	table := target.Destination.QualifiedName()
	width := target.ColumnCount()

	for {
		row, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if result.Batches > 0 {
				result.Status = StatusPartiallyFailed
			}
			result.Elapsed = time.Since(start)
			return result, errors.Wrap(err, errors.ErrCodeSourceRead,
				"Source stream failed during load").
				WithComponent("loader").
				WithContext("rows_committed", result.RowsWritten)
		}

		buffer.Append(row)
		if buffer.Full() {
			if err := l.flush(ctx, table, width, buffer, &result); err != nil {
				result.Elapsed = time.Since(start)
				return result, err
			}
		}
	}

	// Final partial batch, flushed exactly once
	if buffer.Len() > 0 {
		if err := l.flush(ctx, table, width, buffer, &result); err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}
	}

	result.Status = StatusSucceeded
	result.Elapsed = time.Since(start)
	return result, nil
}

// flush writes the buffered rows as one bulk operation, updates the run
// totals, reports progress, and clears the buffer for reuse
func (l *Loader) flush(ctx context.Context, table string, width int, buffer *batch, result *LoadResult) error {
	batchIndex := result.Batches + 1

	if err := l.writer.BulkInsert(ctx, table, width, buffer.Rows()); err != nil {
		return errors.BatchWriteError("Batch write failed", batchIndex, err).
			WithContext("rows_committed", result.RowsWritten)
	}

	result.RowsWritten += int64(buffer.Len())
	result.Batches = batchIndex
	if l.progress != nil {
		l.progress(result.RowsWritten, batchIndex)
	}

	buffer.Reset()
	return nil
}
