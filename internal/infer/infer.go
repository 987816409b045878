// Package infer assigns one SQL-compatible type per column from a bounded
// sample of rows. Inference is a pure function of the sample; it never
// looks past the sample bound.
package infer

import (
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"tabload/internal/source"
)

// Kind is the inferred storage class of a column
type Kind string

const (
	KindDecimal   Kind = "decimal"
	KindTimestamp Kind = "timestamp"
	KindText      Kind = "text"
)

// temporalLayouts is the fixed ordered list of accepted date/time shapes.
// A value must match one exactly or the column loses its temporal candidacy.
var temporalLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
}

// ColumnProfile describes one source column after inference
type ColumnProfile struct {
	Position int
	Name     string
	Kind     Kind
	Nullable bool
}

// Engine infers column profiles from sampled rows
type Engine struct {
	sampleRows int
}

// NewEngine creates an inference engine bounded to sampleRows rows
func NewEngine(sampleRows int) *Engine {
	if sampleRows <= 0 {
		sampleRows = 1000
	}
	return &Engine{sampleRows: sampleRows}
}

// SampleRows returns the configured sample bound
func (e *Engine) SampleRows() int {
	return e.sampleRows
}

// Sample draws up to the engine's sample bound from a row stream. The
// stream is left positioned after the sampled rows; callers re-open the
// source for the load pass.
func (e *Engine) Sample(stream source.RowStream) ([][]string, error) {
	sample := make([][]string, 0, min(e.sampleRows, 64))
	for len(sample) < e.sampleRows {
		row, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		sample = append(sample, row)
	}
	return sample, nil
}

// Profile assigns a Kind to every column. Per column, two candidate flags
// start true and a single non-conforming value clears each; the decimal
// check is evaluated first and wins ties, including the all-blank column.
func (e *Engine) Profile(headers []string, sample [][]string) []ColumnProfile {
	numeric := make([]bool, len(headers))
	temporal := make([]bool, len(headers))
	nullable := make([]bool, len(headers))
	for i := range headers {
		numeric[i] = true
		temporal[i] = true
	}

	for _, row := range sample {
		for i := range headers {
			if i >= len(row) {
				nullable[i] = true
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				nullable[i] = true
				continue
			}
			if numeric[i] && !isDecimal(value) {
				numeric[i] = false
			}
			if temporal[i] && !isTemporal(value) {
				temporal[i] = false
			}
		}
	}

	profiles := make([]ColumnProfile, len(headers))
	for i, name := range headers {
		kind := KindText
		if numeric[i] {
			// Decimal over integer: ambiguous numeric data stored as
			// NUMBER(18,2) cannot silently truncate fractional values
			kind = KindDecimal
		} else if temporal[i] {
			kind = KindTimestamp
		}
		profiles[i] = ColumnProfile{
			Position: i,
			Name:     name,
			Kind:     kind,
			Nullable: nullable[i],
		}
	}
	return profiles
}

// isDecimal reports whether a value parses as a plain decimal number
func isDecimal(value string) bool {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	// ParseFloat admits "NaN", "Inf", and hex floats; none are loadable
	// into a NUMBER column
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	lower := strings.ToLower(value)
	return !strings.Contains(lower, "x") && !strings.Contains(lower, "p")
}

// isTemporal reports whether a value exactly matches one of the accepted
// layouts
func isTemporal(value string) bool {
	for _, layout := range temporalLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
