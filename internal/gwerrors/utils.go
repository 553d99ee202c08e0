// file: internal/gwerrors/utils.go
package gwerrors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Wrap wraps an existing error with a message, preserving the stack and cause.
func Wrap(cause error, message string) error {
	return errors.Wrap(cause, message)
}

// Wrapf wraps an existing error with a formatted message, preserving the
// stack and cause.
func Wrapf(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(cause, format, args...)
}

// ErrorWithDetails attaches a category, a JSON-RPC code, and arbitrary
// key/value details to err, encoded as cockroachdb/errors detail strings
// ("category:VALUE", "code:VALUE", "key:value").
func ErrorWithDetails(err error, category string, code int, details map[string]interface{}) error {
	err = errors.WithDetail(err, fmt.Sprintf("category:%s", category))
	err = errors.WithDetail(err, fmt.Sprintf("code:%d", code))
	for key, value := range details {
		err = errors.WithDetail(err, fmt.Sprintf("%s:%v", key, value))
	}
	return err
}

// GetErrorCategory extracts the category detail string from err, if present.
func GetErrorCategory(err error) string {
	for _, detail := range errors.GetAllDetails(err) {
		if rest, ok := strings.CutPrefix(detail, "category:"); ok {
			return rest
		}
	}
	return ""
}

// GetErrorCode extracts the JSON-RPC code detail string from err, falling
// back to CodeInternalError when absent or unparsable.
func GetErrorCode(err error) int {
	for _, detail := range errors.GetAllDetails(err) {
		if rest, ok := strings.CutPrefix(detail, "code:"); ok {
			if code, parseErr := strconv.Atoi(rest); parseErr == nil {
				return code
			}
		}
	}
	return CodeInternalError
}

// NewFramingError wraps a framer failure with CategoryFraming.
func NewFramingError(message string, cause error) error {
	base := New(message)
	if cause != nil {
		base = Wrap(cause, message)
	}
	return ErrorWithDetails(base, CategoryFraming, CodeParseError, nil)
}

// NewScanError wraps a scanner failure (e.g. a rule that failed to compile) with CategoryScan.
func NewScanError(message string, cause error, properties map[string]interface{}) error {
	base := New(message)
	if cause != nil {
		base = Wrap(cause, message)
	}
	return ErrorWithDetails(base, CategoryScan, CodeInternalError, properties)
}

// NewConfigError wraps a configuration load/validation failure with CategoryConfig.
func NewConfigError(message string, cause error) error {
	base := New(message)
	if cause != nil {
		base = Wrap(cause, message)
	}
	return ErrorWithDetails(base, CategoryConfig, CodeConfigError, nil)
}

// NewProcessError wraps a child process lifecycle failure with CategoryProcess.
func NewProcessError(message string, cause error) error {
	base := New(message)
	if cause != nil {
		base = Wrap(cause, message)
	}
	return ErrorWithDetails(base, CategoryProcess, CodeProcessError, nil)
}

// NewTransportError wraps a pipe read/write failure with CategoryTransport.
func NewTransportError(message string, cause error) error {
	base := New(message)
	if cause != nil {
		base = Wrap(cause, message)
	}
	return ErrorWithDetails(base, CategoryTransport, CodeTransportError, nil)
}

// NewAlertError wraps an alert dispatch failure with CategoryAlert. Callers
// log this; it must never propagate to the forwarded message path.
func NewAlertError(message string, cause error) error {
	base := New(message)
	if cause != nil {
		base = Wrap(cause, message)
	}
	return ErrorWithDetails(base, CategoryAlert, CodeAlertDispatch, nil)
}

// IsCategory reports whether err carries the given category detail.
func IsCategory(err error, category string) bool {
	return GetErrorCategory(err) == category
}
