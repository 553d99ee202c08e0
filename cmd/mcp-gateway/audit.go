// file: cmd/mcp-gateway/audit.go
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cowgnition-labs/mcp-gateway/internal/config"
)

var (
	auditServer string
	auditMethod string
	auditLines  int
	auditPretty bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View the gateway's JSONL audit trail",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditServer, "server", "", "filter by server name")
	auditCmd.Flags().StringVar(&auditMethod, "method", "", "filter by JSON-RPC method")
	auditCmd.Flags().IntVarP(&auditLines, "lines", "n", 50, "number of entries to show")
	auditCmd.Flags().BoolVar(&auditPretty, "pretty", false, "pretty-print each entry as indented JSON")
}

func runAudit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return fmt.Errorf("resolving default configuration path: %w", err)
	}
	settings, err := config.LoadOrDefault(defaultPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := settings.ExpandPaths(); err != nil {
		return fmt.Errorf("expanding configured paths: %w", err)
	}

	auditPath := settings.Auditing.AuditLog
	f, err := os.Open(auditPath)
	if err != nil {
		return fmt.Errorf("no audit log found at %s", auditPath)
	}
	defer f.Close()

	fmt.Fprintf(out, "Showing audit log from: %s\n\n", auditPath)

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if auditServer == "" && auditMethod == "" {
			lines = append(lines, line)
			continue
		}

		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if auditServer != "" && fmt.Sprint(entry["server"]) != auditServer {
			continue
		}
		if auditMethod != "" && fmt.Sprint(entry["method"]) != auditMethod {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", auditPath, err)
	}

	start := 0
	if len(lines) > auditLines {
		start = len(lines) - auditLines
	}
	for _, line := range lines[start:] {
		if auditPretty {
			var entry map[string]interface{}
			if err := json.Unmarshal([]byte(line), &entry); err == nil {
				pretty, err := json.MarshalIndent(entry, "", "  ")
				if err == nil {
					fmt.Fprintln(out, string(pretty))
					fmt.Fprintln(out, strings.Repeat("-", 80))
					continue
				}
			}
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
