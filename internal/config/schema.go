// file: internal/config/schema.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchemaDoc is the JSON Schema for the on-disk config.json shape
// described by spec.md §6's field table. Adapted from the teacher's
// internal/schema package (jsonschema.Compiler usage, Draft2020), scoped
// down to one document instead of a definitions map: this gateway only
// ever validates one document shape, not a family of MCP message types.
const configSchemaDoc = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "logging": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "destination": {"type": "string"},
        "level": {"enum": ["debug", "info", "warning", "error"]},
        "format": {"enum": ["json", "text"]}
      }
    },
    "auditing": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "audit_log": {"type": "string"},
        "include_message_content": {"type": "boolean"},
        "include_timestamps": {"type": "boolean"}
      }
    },
    "scanning": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "scan_request": {"type": "boolean"},
        "scan_response": {"type": "boolean"},
        "rules": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "pattern"],
            "properties": {
              "name": {"type": "string"},
              "description": {"type": "string"},
              "pattern": {"type": "string"},
              "action": {"enum": ["log", "alert", "block", "redact"]},
              "severity": {"enum": ["low", "medium", "high", "critical"]},
              "enabled": {"type": "boolean"}
            }
          }
        }
      }
    },
    "alerting": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "webhook_url": {"type": "string"},
        "email": {"type": "string"}
      }
    },
    "metrics": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "collect_latency": {"type": "boolean"},
        "collect_message_counts": {"type": "boolean"},
        "collect_violation_counts": {"type": "boolean"}
      }
    }
  }
}`

// Validate checks raw (a config.json document's bytes) against the schema
// above, returning a descriptive error on the first violation. Used by the
// `config validate` subcommand (spec.md §6 out-of-scope CLI, SPEC_FULL.md §4).
func Validate(raw []byte) error {
	var instance interface{}
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("config is not valid JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("mcp-gateway://config-schema.json", bytes.NewReader([]byte(configSchemaDoc))); err != nil {
		return fmt.Errorf("loading config schema: %w", err)
	}

	schema, err := compiler.Compile("mcp-gateway://config-schema.json")
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
