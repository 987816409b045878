package ui

import (
	"fmt"
	"time"
)

// LoadProgress reports batch flushes for long-running loads. Operators use
// the running rate to estimate remaining runtime on multi-gigabyte files,
// so this output is part of the contract, not decoration.
type LoadProgress struct {
	startTime time.Time
	quiet     bool
}

// NewLoadProgress creates a progress reporter
func NewLoadProgress(quiet bool) *LoadProgress {
	return &LoadProgress{startTime: time.Now(), quiet: quiet}
}

// BatchFlushed reports one completed flush
func (p *LoadProgress) BatchFlushed(rowsWritten int64, batchIndex int) {
	if p.quiet {
		return
	}
	elapsed := time.Since(p.startTime)
	rate := float64(rowsWritten) / maxSeconds(elapsed)
	fmt.Printf("%s batch %d flushed: %d rows total (%.0f rows/s, %s elapsed)\n",
		ColorProgress("►"),
		batchIndex,
		rowsWritten,
		rate,
		formatDuration(elapsed),
	)
}

// Finish prints the run summary
func (p *LoadProgress) Finish(rowsWritten int64, batches int, status string) {
	if p.quiet {
		return
	}
	elapsed := time.Since(p.startTime)

	marker := ColorSuccess("✓")
	if status != "succeeded" {
		marker = ColorError("✗")
	}
	fmt.Printf("\n%s load %s in %s\n", marker, status, formatDuration(elapsed))
	fmt.Printf("  %d rows in %d batches (%.0f rows/s)\n",
		rowsWritten, batches, float64(rowsWritten)/maxSeconds(elapsed))
}

func maxSeconds(d time.Duration) float64 {
	if s := d.Seconds(); s > 0 {
		return s
	}
	return 1e-9
}
