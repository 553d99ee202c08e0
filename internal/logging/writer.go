// file: internal/logging/writer.go
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// HumanWriter appends one entry per call to a daily-rotated file named
// gateway-<YYYYMMDD>.log under destination, duplicating Info+ entries to an
// operator-facing writer (normally os.Stderr). Ported from the Python
// original's GatewayLogger._setup_logging/.log: a file handle opened per
// append rather than held open, since writes are infrequent relative to
// message throughput (spec.md §5 "Resource discipline").
type HumanWriter struct {
	mu          sync.Mutex
	destination string
	level       Level
	format      Format
	stderr      *os.File
}

// NewHumanWriter returns a HumanWriter rooted at destination, filtering
// below level, encoding per format, and duplicating Info+ to stderr.
func NewHumanWriter(destination string, level Level, format Format, stderr *os.File) *HumanWriter {
	return &HumanWriter{destination: destination, level: level, format: format, stderr: stderr}
}

// Write appends one log line for the given level/message/fields, creating
// destination on demand. Failures are reported on stderr but never
// propagated, matching spec.md §7 "Log/audit-write-failed".
func (w *HumanWriter) Write(level Level, message string, fields map[string]any) {
	if level < w.level {
		return
	}

	ts := time.Now().Format("2006-01-02T15:04:05.000000")
	line := w.encode(ts, level, message, fields)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.destination, 0o755); err != nil {
		fmt.Fprintf(w.stderr, "error creating log directory: %v\n", err)
	} else {
		path := filepath.Join(w.destination, fmt.Sprintf("gateway-%s.log", time.Now().Format("20060102")))
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(w.stderr, "error writing to log file: %v\n", err)
		} else {
			if _, err := f.WriteString(line + "\n"); err != nil {
				fmt.Fprintf(w.stderr, "error writing to log file: %v\n", err)
			}
			f.Close()
		}
	}

	if level >= LevelInfo && w.stderr != nil {
		fmt.Fprintln(w.stderr, line)
	}
}

func (w *HumanWriter) encode(ts string, level Level, message string, fields map[string]any) string {
	if w.format == FormatText {
		var b strings.Builder
		fmt.Fprintf(&b, "[%s] %s: %s", ts, strings.ToUpper(levelName(level)), message)
		for _, k := range sortedKeys(fields) {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
		return b.String()
	}

	entry := map[string]any{
		"timestamp": ts,
		"level":     levelName(level),
		"message":   message,
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"timestamp":%q,"level":%q,"message":%q}`, ts, levelName(level), message)
	}
	return string(b)
}

func levelName(l Level) string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AuditWriter appends one JSON object per line to a fixed path (the JSONL
// audit trail), creating its parent directory on demand. Ported from
// GatewayLogger._setup_auditing/.audit.
type AuditWriter struct {
	mu     sync.Mutex
	path   string
	stderr *os.File
}

// NewAuditWriter returns an AuditWriter appending to path.
func NewAuditWriter(path string, stderr *os.File) *AuditWriter {
	return &AuditWriter{path: path, stderr: stderr}
}

// WriteEntry appends one JSON-encoded audit record, ignoring marshal
// failures (logged to stderr) so a malformed entry never aborts the pump.
func (w *AuditWriter) WriteEntry(entry map[string]any) {
	b, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(w.stderr, "error encoding audit entry: %v\n", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		fmt.Fprintf(w.stderr, "error creating audit log directory: %v\n", err)
		return
	}
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(w.stderr, "error writing to audit log: %v\n", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(w.stderr, "error writing to audit log: %v\n", err)
	}
}
