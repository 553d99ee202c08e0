// Command mcp-gateway wraps an MCP server's stdio with a security scanning
// gateway. file: cmd/mcp-gateway/main.go
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
