// file: cmd/mcp-gateway/logs.go
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/cowgnition-labs/mcp-gateway/internal/config"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the gateway's human-readable log",
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output as new lines are appended")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of lines to show")
}

func runLogs(cmd *cobra.Command, args []string) error {
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

	logDir := settings.Logging.Destination
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("no logs found at %s", logDir)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".log" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no log files found in %s", logDir)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	logPath := filepath.Join(logDir, names[0])

	fmt.Fprintf(out, "Showing logs from: %s\n\n", logPath)

	if logsFollow {
		return followFile(logPath, out)
	}
	return printTail(logPath, logsLines, out)
}

func printTail(path string, n int, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	start := 0
	if len(lines) > n {
		start = len(lines) - n
	}
	for _, line := range lines[start:] {
		fmt.Fprintln(out, line)
	}
	return nil
}

// followFile implements a simple tail -f: seek to end, then poll for
// newly appended lines, matching cli.py's cmd_logs follow mode.
func followFile(path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			fmt.Fprint(out, line)
		}
		if err != nil {
			time.Sleep(100 * time.Millisecond)
		}
	}
}
