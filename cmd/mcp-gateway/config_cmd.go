// file: cmd/mcp-gateway/config_cmd.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cowgnition-labs/mcp-gateway/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var (
	configInitOutput string
	configInitForce  bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a configuration file against the gateway's schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigValidate,
}

var configShowPath string

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().StringVar(&configInitOutput, "output", "", "output path (default: ~/.mcp-gateway/config.json)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing configuration file")

	configShowCmd.Flags().StringVar(&configShowPath, "config", "", "path to configuration file (default: ~/.mcp-gateway/config.json)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := configInitOutput
	if path == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("resolving default configuration path: %w", err)
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating configuration directory: %w", err)
	}

	settings := config.New()
	doc, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding default configuration: %w", err)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("writing configuration file: %w", err)
	}

	fmt.Fprintf(out, "Configuration initialized at: %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := args[0]

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("configuration file not found: %s", path)
	}

	if err := config.Validate(raw); err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "Configuration is invalid: %v\n", err)
		return err
	}

	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "Configuration is invalid: %v\n", err)
		return err
	}

	fmt.Fprintf(out, "Configuration is valid: %s\n", path)
	fmt.Fprintf(out, "  - Logging:  %s\n", enabledWord(settings.Logging.Enabled))
	fmt.Fprintf(out, "  - Auditing: %s\n", enabledWord(settings.Auditing.Enabled))
	fmt.Fprintf(out, "  - Scanning: %s\n", enabledWord(settings.Scanning.Enabled))
	fmt.Fprintf(out, "  - Scan rules: %d\n", len(settings.Scanning.Rules))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := configShowPath
	if path == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("resolving default configuration path: %w", err)
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no configuration found at %s (run 'mcp-gateway config init' to create one)", path)
	}

	settings, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration %q: %w", path, err)
	}

	doc, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	fmt.Fprintln(out, string(doc))
	return nil
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
