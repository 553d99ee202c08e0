// file: internal/config/load.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the prefix spec.md §6 assigns to environment overrides
// ("MCP_GATEWAY_"); viper appends it with its own underscore separator.
const envPrefix = "MCP_GATEWAY"

// Load reads the JSON config file at path, applies MCP_GATEWAY_-prefixed
// dot-nested environment overrides over it, and returns the merged
// Settings. A missing file is an error — use LoadOrDefault for the
// load-or-create-default behavior the CLI's default invocation wants.
func Load(path string) (*Settings, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("decoding config file %q: %w", path, err)
	}
	return &settings, nil
}

// LoadOrDefault loads the config at path if it exists, falling back to
// New() (still subject to environment overrides) otherwise. Ports
// original_source/config.py:GatewayConfig.load_or_create_default.
func LoadOrDefault(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		v := newViper()
		var settings Settings
		if err := v.Unmarshal(&settings); err != nil {
			return nil, fmt.Errorf("decoding default config: %w", err)
		}
		return &settings, nil
	}
	return Load(path)
}

// newViper builds a viper instance seeded with New()'s defaults and wired
// for MCP_GATEWAY_-prefixed, dot-nested environment overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, New())
	return v
}

// setDefaults walks the default Settings value and registers every leaf
// as a viper default, so env-var overrides and partial config files both
// fall back to it correctly.
func setDefaults(v *viper.Viper, defaults *Settings) {
	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.destination", defaults.Logging.Destination)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("auditing.enabled", defaults.Auditing.Enabled)
	v.SetDefault("auditing.audit_log", defaults.Auditing.AuditLog)
	v.SetDefault("auditing.include_message_content", defaults.Auditing.IncludeMessageContent)
	v.SetDefault("auditing.include_timestamps", defaults.Auditing.IncludeTimestamps)

	v.SetDefault("scanning.enabled", defaults.Scanning.Enabled)
	v.SetDefault("scanning.rules", defaults.Scanning.Rules)
	v.SetDefault("scanning.scan_request", defaults.Scanning.ScanRequest)
	v.SetDefault("scanning.scan_response", defaults.Scanning.ScanResponse)

	v.SetDefault("alerting.enabled", defaults.Alerting.Enabled)
	v.SetDefault("alerting.webhook_url", defaults.Alerting.WebhookURL)
	v.SetDefault("alerting.email", defaults.Alerting.Email)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.collect_latency", defaults.Metrics.CollectLatency)
	v.SetDefault("metrics.collect_message_counts", defaults.Metrics.CollectMessageCounts)
	v.SetDefault("metrics.collect_violation_counts", defaults.Metrics.CollectViolationCounts)
}
