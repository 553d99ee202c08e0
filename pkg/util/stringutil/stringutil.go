// Package stringutil provides small string helpers shared across the gateway.
// file: pkg/util/stringutil/stringutil.go
package stringutil

// CoalesceString returns the first non-empty string from the provided strings.
// If all strings are empty, it returns an empty string.
func CoalesceString(strs ...string) string {
	for _, str := range strs {
		if str != "" {
			return str
		}
	}
	return ""
}

// TruncateString truncates s to maxLen, adding an ellipsis if truncated.
// Used to bound the length of a matched secret echoed into a log or audit
// entry (spec.md §4.2's violation record carries the match text, which must
// never dump an entire captured secret verbatim into a log file).
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
