// file: cmd/mcp-gateway/root.go
package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, populated at build time via -ldflags.
var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mcp-gateway",
	Short: "Security gateway for Model Context Protocol traffic",
	Long: `mcp-gateway interposes on an MCP server's stdio, scanning every
request and response for secrets and suspicious patterns before they cross
the wire, logging, auditing, and alerting on what it finds.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mcp-gateway %s\n", version)
		fmt.Fprintf(out, "Commit:     %s\n", commitHash)
		fmt.Fprintf(out, "Built:      %s\n", buildDate)
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		fmt.Fprintf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}
