// file: internal/scanner/scanner.go
package scanner

import (
	"regexp"
	"strings"

	"github.com/cowgnition-labs/mcp-gateway/internal/gwerrors"
	"github.com/cowgnition-labs/mcp-gateway/internal/gwjsonrpc"
	"github.com/cowgnition-labs/mcp-gateway/internal/logging"
	"github.com/cowgnition-labs/mcp-gateway/pkg/util/stringutil"
)

// matchPreviewLen bounds how much of a matched secret is echoed into a
// Violation record, so a log or audit line never carries a full captured
// credential.
const matchPreviewLen = 50

// Violation records a single rule match against a scanned message.
type Violation struct {
	RuleName    string   `json:"rule_name"`
	Severity    Severity `json:"severity"`
	Action      Action   `json:"action"`
	Description string   `json:"description"`
	Match       string   `json:"match"`
	MatchStart  int      `json:"match_start"`
	MatchEnd    int      `json:"match_end"`
}

// Result is the accumulator produced by one Scan call.
type Result struct {
	Violations      []Violation
	ShouldBlock     bool
	ModifiedMessage string
}

// HasViolations reports whether any rule matched.
func (r *Result) HasViolations() bool {
	return len(r.Violations) > 0
}

// compiledRule pairs a configured Rule with its compiled pattern, preserving
// config order.
type compiledRule struct {
	rule    Rule
	pattern *regexp.Regexp
}

// Config is the subset of scanning configuration the Scanner needs.
type Config struct {
	Enabled      bool
	Rules        []Rule
	ScanRequest  bool
	ScanResponse bool
}

// Scanner holds pre-compiled regex patterns and the scanning policy.
type Scanner struct {
	config   Config
	compiled []compiledRule
	logger   logging.Logger
}

// New compiles every enabled rule's pattern with a case-insensitive flag.
// A rule whose pattern fails to compile is logged and dropped; the rest of
// the ruleset remains active (spec.md §7 "Scan-pattern-bad").
func New(config Config, logger logging.Logger) *Scanner {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	s := &Scanner{config: config, logger: logger}
	if !config.Enabled {
		return s
	}
	for _, rule := range config.Rules {
		if !rule.Enabled {
			continue
		}
		pattern, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			logger.Error("dropping scan rule with invalid pattern", "rule", rule.Name, "error", err.Error())
			continue
		}
		s.compiled = append(s.compiled, compiledRule{rule: rule, pattern: pattern})
	}
	return s
}

// Scan inspects message.Raw against every compiled rule for the given
// direction and returns the accumulated violations, block decision, and
// redacted text (if any Redact rule fired).
func (s *Scanner) Scan(message *gwjsonrpc.ParsedMessage, direction gwjsonrpc.Direction) *Result {
	result := &Result{}

	if !s.config.Enabled {
		return result
	}
	if direction == gwjsonrpc.DirectionClientToServer && !s.config.ScanRequest {
		return result
	}
	if direction == gwjsonrpc.DirectionServerToClient && !s.config.ScanResponse {
		return result
	}

	text := message.Raw
	redacted := text

	for _, cr := range s.compiled {
		for _, loc := range cr.pattern.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			match := text[start:end]

			result.Violations = append(result.Violations, Violation{
				RuleName:    cr.rule.Name,
				Severity:    cr.rule.Severity,
				Action:      cr.rule.Action,
				Description: cr.rule.Description,
				Match:       stringutil.TruncateString(match, matchPreviewLen),
				MatchStart:  start,
				MatchEnd:    end,
			})

			if cr.rule.Action == ActionBlock {
				result.ShouldBlock = true
			}
			if cr.rule.Action == ActionRedact {
				redacted = strings.ReplaceAll(redacted, match, "[REDACTED:"+cr.rule.Name+"]")
			}
		}
	}

	if redacted != text {
		result.ModifiedMessage = redacted
	}

	return result
}

// CreateBlockResponse synthesizes the JSON-RPC error response sent back to
// the requesting peer when should_block is true, per spec.md §4.2.
func CreateBlockResponse(original *gwjsonrpc.ParsedMessage, result *Result) (string, error) {
	type violationDetail struct {
		Rule        string   `json:"rule"`
		Severity    Severity `json:"severity"`
		Description string   `json:"description"`
	}

	details := make([]violationDetail, 0, len(result.Violations))
	for _, v := range result.Violations {
		details = append(details, violationDetail{
			Rule:        v.RuleName,
			Severity:    v.Severity,
			Description: v.Description,
		})
	}

	resp := gwjsonrpc.NewErrorResponse(original.ID, gwerrors.CodeServerError, "Request blocked by security policy", map[string]interface{}{
		"reason":     "Security violations detected",
		"violations": details,
		"contact":    "Contact your administrator for more information",
	})
	return resp.Marshal()
}
