// file: internal/gwjsonrpc/framer.go
package gwjsonrpc

import (
	"strings"

	"github.com/cowgnition-labs/mcp-gateway/internal/logging"
)

// Framer incrementally extracts complete top-level JSON objects from an
// arbitrary character stream, preserving each message's exact source
// substring. It is pure: no I/O, no timeouts, safe to feed one byte at a
// time. Not safe for concurrent use — each direction owns exactly one
// Framer instance (spec.md §3 "Parser buffer").
type Framer struct {
	buf    strings.Builder
	logger logging.Logger
}

// NewFramer returns a Framer that logs dropped/malformed messages through
// logger. A nil logger is replaced with the no-op logger.
func NewFramer(logger logging.Logger) *Framer {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Framer{logger: logger}
}

// Feed appends chunk to the internal buffer and repeatedly extracts
// complete top-level JSON objects from the front, returning every
// ParsedMessage obtained this call. A message that decodes but fails
// validation (bad jsonrpc version, unrecognized shape) is logged at debug
// level and dropped; the framer keeps consuming subsequent messages.
func (f *Framer) Feed(chunk string) []*ParsedMessage {
	f.buf.WriteString(chunk)
	remaining := f.buf.String()

	var out []*ParsedMessage
	for {
		message, rest, ok := extractMessage(remaining)
		if !ok {
			remaining = rest
			break
		}
		remaining = rest

		parsed, err := parseMessage(message)
		if err != nil {
			f.logger.Debug("dropping malformed JSON-RPC message", "error", err.Error())
			continue
		}
		out = append(out, parsed)
	}

	f.buf.Reset()
	f.buf.WriteString(remaining)
	return out
}

// extractMessage implements the framing rule from spec.md §4.1: skip
// leading whitespace, then track brace depth (ignoring braces inside
// strings, honoring backslash escapes) until depth returns to zero. Returns
// the extracted substring, the unconsumed remainder, and whether a complete
// message was found.
func extractMessage(buffer string) (message string, remainder string, ok bool) {
	trimmed := strings.TrimLeft(buffer, " \t\r\n")

	depth := 0
	inString := false
	escape := false

	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]

		if escape {
			escape = false
			continue
		}
		if c == '\\' {
			escape = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return trimmed[:i+1], trimmed[i+1:], true
			}
		}
	}

	// No complete message found; preserve the buffer (with whitespace
	// already trimmed, matching the Python original's lstrip-then-retry
	// behavior) intact for the next Feed.
	return "", trimmed, false
}

// Reset discards any partially buffered data, as at gateway start/exit.
func (f *Framer) Reset() {
	f.buf.Reset()
}
