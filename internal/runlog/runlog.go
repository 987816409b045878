// Package runlog appends timestamped plain-text lines to a run log file so
// scheduled invocations leave an audit trail without a log pipeline.
package runlog

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"tabload/internal/common"
)

// Level represents the severity of a log line
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger writes append-only timestamped lines. A nil output disables it,
// so call sites never need to guard.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// Open creates or appends to the run log at path
func Open(path string) (*Logger, error) {
	cleaned, err := common.CleanPath(common.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("invalid log path: %w", err)
	}

	file, err := os.OpenFile(cleaned, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // #nosec G304 - path is validated
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	return &Logger{file: file}, nil
}

// Discard returns a logger that writes nothing
func Discard() *Logger {
	return &Logger{}
}

// Log writes one line: RFC3339 timestamp, level, message, sorted fields
func (l *Logger) Log(level Level, message string, fields map[string]interface{}) {
	if l == nil || l.file == nil {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(string(level))
	b.WriteByte(' ')
	b.WriteString(message)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", k, fields[k]))
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.file.WriteString(b.String())
}

// Info logs at INFO level
func (l *Logger) Info(message string, fields map[string]interface{}) {
	l.Log(LevelInfo, message, fields)
}

// Warn logs at WARN level
func (l *Logger) Warn(message string, fields map[string]interface{}) {
	l.Log(LevelWarn, message, fields)
}

// Error logs at ERROR level
func (l *Logger) Error(message string, fields map[string]interface{}) {
	l.Log(LevelError, message, fields)
}

// Close releases the underlying file handle
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
