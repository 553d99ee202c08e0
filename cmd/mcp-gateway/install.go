// file: cmd/mcp-gateway/install.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Print instructions for wrapping an MCP server with the gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "To install the gateway wrapper, update your .mcp.json configuration:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Original:")
		fmt.Fprintln(out, `  "server": {`)
		fmt.Fprintln(out, `    "type": "stdio",`)
		fmt.Fprintln(out, `    "command": "npx",`)
		fmt.Fprintln(out, `    "args": ["-y", "@upstash/context7-mcp", "--api-key", "YOUR_KEY"]`)
		fmt.Fprintln(out, `  }`)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "With gateway:")
		fmt.Fprintln(out, `  "server": {`)
		fmt.Fprintln(out, `    "type": "stdio",`)
		fmt.Fprintln(out, `    "command": "mcp-gateway",`)
		fmt.Fprintln(out, `    "args": ["stdio", "--", "npx", "-y", "@upstash/context7-mcp", "--api-key", "YOUR_KEY"]`)
		fmt.Fprintln(out, `  }`)
		return nil
	},
}
