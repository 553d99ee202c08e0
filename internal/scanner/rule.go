// Package scanner compiles a configured ruleset and scans JSON-RPC messages
// for security violations.
// file: internal/scanner/rule.go
package scanner

// Action is what the gateway does when a rule matches.
type Action string

// The four actions a ScanRule may take on match.
const (
	ActionLog    Action = "log"
	ActionAlert  Action = "alert"
	ActionBlock  Action = "block"
	ActionRedact Action = "redact"
)

// Severity classifies how serious a finding is.
type Severity string

// Severity levels, low to high.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rule is a single security scanning rule: a regex pattern and the action
// to take when it matches. Patterns are compiled case-insensitively.
type Rule struct {
	Name        string   `json:"name" mapstructure:"name"`
	Description string   `json:"description" mapstructure:"description"`
	Pattern     string   `json:"pattern" mapstructure:"pattern"`
	Action      Action   `json:"action" mapstructure:"action"`
	Severity    Severity `json:"severity" mapstructure:"severity"`
	Enabled     bool     `json:"enabled" mapstructure:"enabled"`
}

// DefaultRules returns the built-in scanning ruleset, ported from the
// original Python project's DEFAULT_SCAN_RULES, used to seed `config init`.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "openai-api-key",
			Description: "OpenAI API key",
			Pattern:     `sk-[a-zA-Z0-9]{32,}`,
			Action:      ActionAlert,
			Severity:    SeverityCritical,
			Enabled:     true,
		},
		{
			Name:        "aws-access-key",
			Description: "AWS Access Key ID",
			Pattern:     `AKIA[0-9A-Z]{16}`,
			Action:      ActionBlock,
			Severity:    SeverityCritical,
			Enabled:     true,
		},
		{
			Name:        "aws-secret-key",
			Description: "AWS Secret Access Key",
			Pattern:     `aws_secret_access_key\s*=\s*['"]?([a-zA-Z0-9/+=]{40})['"]?`,
			Action:      ActionBlock,
			Severity:    SeverityCritical,
			Enabled:     true,
		},
		{
			Name:        "private-key",
			Description: "Private key (RSA, EC, OpenSSH)",
			Pattern:     `-----BEGIN (RSA |EC |OPENSSH )?PRIVATE KEY-----`,
			Action:      ActionBlock,
			Severity:    SeverityCritical,
			Enabled:     true,
		},
		{
			Name:        "github-token",
			Description: "GitHub personal access token",
			Pattern:     `gh[ps]_[a-zA-Z0-9]{36,}`,
			Action:      ActionAlert,
			Severity:    SeverityHigh,
			Enabled:     true,
		},
		{
			Name:        "jwt-token",
			Description: "JWT token",
			Pattern:     `eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`,
			Action:      ActionAlert,
			Severity:    SeverityMedium,
			Enabled:     true,
		},
		{
			Name:        "context7-api-key",
			Description: "Context7 API key",
			Pattern:     `ctx7sk-[a-zA-Z0-9-]{32,}`,
			Action:      ActionAlert,
			Severity:    SeverityHigh,
			Enabled:     true,
		},
		{
			Name:        "generic-api-key",
			Description: "Generic API key pattern",
			Pattern:     `api[_-]?key['"]?\s*[:=]\s*['"]?([a-zA-Z0-9_-]{16,})`,
			Action:      ActionLog,
			Severity:    SeverityMedium,
			Enabled:     true,
		},
		{
			Name:        "email-address",
			Description: "Email address",
			Pattern:     `\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`,
			Action:      ActionLog,
			Severity:    SeverityLow,
			Enabled:     true,
		},
		{
			Name:        "credit-card",
			Description: "Credit card number",
			Pattern:     `\b(?:\d{4}[-\s]?){3}\d{4}\b`,
			Action:      ActionBlock,
			Severity:    SeverityCritical,
			Enabled:     true,
		},
		{
			Name:        "ssn",
			Description: "Social Security Number",
			Pattern:     `\b\d{3}-\d{2}-\d{4}\b`,
			Action:      ActionBlock,
			Severity:    SeverityCritical,
			Enabled:     true,
		},
	}
}
