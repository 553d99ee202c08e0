// file: cmd/mcp-gateway/stdio.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cowgnition-labs/mcp-gateway/internal/config"
	"github.com/cowgnition-labs/mcp-gateway/internal/gateway"
	"github.com/cowgnition-labs/mcp-gateway/internal/logging"
)

var (
	stdioConfigPath string
	stdioServerName string
)

var stdioCmd = &cobra.Command{
	Use:   "stdio [flags] -- <command> [args...]",
	Short: "Run the stdio gateway wrapper around an MCP server",
	Long: `stdio spawns the given command as a child process and interposes on
its stdin/stdout, scanning every JSON-RPC message crossing the boundary in
either direction against the configured ruleset.

Example:
  mcp-gateway stdio --config ~/.mcp-gateway/config.json -- npx -y @upstash/context7-mcp --api-key KEY`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: false,
	RunE:               runStdio,
}

func init() {
	stdioCmd.Flags().StringVar(&stdioConfigPath, "config", "", "path to configuration file (default: ~/.mcp-gateway/config.json)")
	stdioCmd.Flags().StringVar(&stdioServerName, "name", "", "name used to identify this server in logs/audit/alerts (default: the command's basename)")
	stdioCmd.Flags().SetInterspersed(false)
}

func runStdio(cmd *cobra.Command, args []string) error {
	childArgs := args
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		childArgs = args[dash:]
	}
	if len(childArgs) == 0 {
		return fmt.Errorf("no server command specified")
	}

	settings, err := loadStdioSettings(stdioConfigPath)
	if err != nil {
		return err
	}
	if err := settings.ExpandPaths(); err != nil {
		return fmt.Errorf("expanding configured paths: %w", err)
	}

	logging.InitLogging(logging.ParseLevel(settings.Logging.Level), os.Stderr, logging.ParseFormat(settings.Logging.Format))

	serverName := stdioServerName
	if serverName == "" {
		serverName = filepath.Base(childArgs[0])
	}

	gw := gateway.New(childArgs, serverName, settings, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	return gw.Start(ctx)
}

// loadStdioSettings loads the configuration at path, or the default config
// path (creating no file, falling back to built-in defaults) when path is
// empty, mirroring cli.py's cmd_stdio behavior.
func loadStdioSettings(path string) (*config.Settings, error) {
	if path != "" {
		settings, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading configuration %q: %w", path, err)
		}
		return settings, nil
	}

	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return nil, fmt.Errorf("resolving default configuration path: %w", err)
	}
	settings, err := config.LoadOrDefault(defaultPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration %q: %w", defaultPath, err)
	}
	return settings, nil
}
