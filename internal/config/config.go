// Package config handles application configuration.
// file: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cowgnition-labs/mcp-gateway/internal/scanner"
)

// Settings is the root configuration tree, matching spec.md §6's five
// sections. Ported from the Python original's GatewayConfig/LoggingConfig/
// AuditConfig/ScanningConfig/AlertingConfig/MetricsConfig models
// (original_source/config.py), kept here as the teacher's Settings
// struct was structured: one field per subsystem.
type Settings struct {
	Logging  LoggingConfig  `mapstructure:"logging" json:"logging"`
	Auditing AuditingConfig `mapstructure:"auditing" json:"auditing"`
	Scanning ScanningConfig `mapstructure:"scanning" json:"scanning"`
	Alerting AlertingConfig `mapstructure:"alerting" json:"alerting"`
	Metrics  MetricsConfig  `mapstructure:"metrics" json:"metrics"`
}

// LoggingConfig controls the daily-rotated human log.
type LoggingConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	Destination string `mapstructure:"destination" json:"destination"`
	Level       string `mapstructure:"level" json:"level"`
	Format      string `mapstructure:"format" json:"format"`
}

// AuditingConfig controls the JSONL audit trail.
type AuditingConfig struct {
	Enabled               bool   `mapstructure:"enabled" json:"enabled"`
	AuditLog              string `mapstructure:"audit_log" json:"audit_log"`
	IncludeMessageContent bool   `mapstructure:"include_message_content" json:"include_message_content"`
	IncludeTimestamps     bool   `mapstructure:"include_timestamps" json:"include_timestamps"`
}

// ScanningConfig controls the security scanner, per-direction.
type ScanningConfig struct {
	Enabled      bool            `mapstructure:"enabled" json:"enabled"`
	Rules        []scanner.Rule  `mapstructure:"rules" json:"rules"`
	ScanRequest  bool            `mapstructure:"scan_request" json:"scan_request"`
	ScanResponse bool            `mapstructure:"scan_response" json:"scan_response"`
}

// AlertingConfig controls the webhook/email alert dispatcher.
type AlertingConfig struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled"`
	WebhookURL string `mapstructure:"webhook_url" json:"webhook_url"`
	Email      string `mapstructure:"email" json:"email"`
}

// MetricsConfig toggles which counter families the in-process Collector keeps.
type MetricsConfig struct {
	Enabled                bool `mapstructure:"enabled" json:"enabled"`
	CollectLatency         bool `mapstructure:"collect_latency" json:"collect_latency"`
	CollectMessageCounts   bool `mapstructure:"collect_message_counts" json:"collect_message_counts"`
	CollectViolationCounts bool `mapstructure:"collect_violation_counts" json:"collect_violation_counts"`
}

// New returns the default configuration: logging/auditing/metrics enabled,
// scanning enabled with the built-in ruleset, alerting disabled until a
// transport is configured. Defaults mirror original_source/config.py's
// per-model field defaults exactly.
func New() *Settings {
	return &Settings{
		Logging: LoggingConfig{
			Enabled:     true,
			Destination: "~/.mcp-gateway/logs",
			Level:       "info",
			Format:      "json",
		},
		Auditing: AuditingConfig{
			Enabled:               true,
			AuditLog:              "~/.mcp-gateway/audit.jsonl",
			IncludeMessageContent: true,
			IncludeTimestamps:     true,
		},
		Scanning: ScanningConfig{
			Enabled:      true,
			Rules:        scanner.DefaultRules(),
			ScanRequest:  true,
			ScanResponse: true,
		},
		Alerting: AlertingConfig{
			Enabled:    false,
			WebhookURL: "",
			Email:      "",
		},
		Metrics: MetricsConfig{
			Enabled:                true,
			CollectLatency:         true,
			CollectMessageCounts:   true,
			CollectViolationCounts: true,
		},
	}
}

// DefaultConfigPath returns ~/.mcp-gateway/config.json, expanded.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.mcp-gateway/config.json")
}

// ExpandPaths expands the `~` in every path-shaped field in place.
func (s *Settings) ExpandPaths() error {
	dest, err := ExpandPath(s.Logging.Destination)
	if err != nil {
		return fmt.Errorf("expanding logging.destination: %w", err)
	}
	s.Logging.Destination = dest

	auditLog, err := ExpandPath(s.Auditing.AuditLog)
	if err != nil {
		return fmt.Errorf("expanding auditing.audit_log: %w", err)
	}
	s.Auditing.AuditLog = auditLog

	return nil
}

// ExpandPath expands a leading ~ to the invoking user's home directory.
// Ported from the teacher's config.ExpandPath.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
