// Package audit persists blocked-verdict records to an append-only log.
//
// The log is diagnostic, not authoritative: it is never read back by the
// gate, and every failure writing it must be swallowed by the caller so the
// verdict is unaffected.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Record is one blocked tool invocation.
type Record struct {
	Time      time.Time
	SessionID string
	Tool      string
	Reason    string
	Detail    string
}

// Line renders the record in the audit log's line format.
func (r Record) Line() string {
	return fmt.Sprintf("[%s] BLOCKED | session=%s | tool=%s | reason=%s | detail=%s",
		r.Time.Format(time.RFC3339), r.SessionID, r.Tool, r.Reason, r.Detail)
}

// Sink receives blocked-verdict records.
type Sink interface {
	// Append persists one record. Callers treat any error as best-effort
	// diagnostics and must not let it influence the verdict.
	Append(record Record) error
}

// FileSink appends records to a line-oriented log file, creating the log
// directory on demand. Concurrent appends from multiple agent sessions are
// serialized with a sidecar flock; a held lock is not waited for, since the
// verdict must never block on logging.
type FileSink struct {
	dir  string
	file string
}

// NewFileSink creates a sink writing to file inside dir.
func NewFileSink(dir, file string) *FileSink {
	return &FileSink{
		dir:  dir,
		file: file,
	}
}

// Append writes one record as a single line.
func (s *FileSink) Append(record Record) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(s.dir, s.file)

	fileLock := flock.New(path + ".lock")
	locked, err := fileLock.TryLock()
	if err == nil && locked {
		defer func() {
			_ = fileLock.Unlock()
		}()
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, record.Line()); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// NopSink discards all records. Used when auditing is disabled.
type NopSink struct{}

// Append discards the record.
func (NopSink) Append(Record) error {
	return nil
}
