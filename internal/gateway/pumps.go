// file: internal/gateway/pumps.go
package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cowgnition-labs/mcp-gateway/internal/gwjsonrpc"
	"github.com/cowgnition-labs/mcp-gateway/internal/scanner"
)

// forwardClientToServer reads lines from the operator's stdin, scans every
// framed message, and forwards (or blocks) them onto the child's stdin.
// Mirrors StdioGateway._forward_client_to_server.
func (g *Gateway) forwardClientToServer(ctx context.Context, src io.Reader, dst io.Writer) {
	g.pump(ctx, src, dst, g.clientParser, gwjsonrpc.DirectionClientToServer, g.clientOut)
}

// forwardServerToClient reads lines from the child's stdout, scans every
// framed message, and forwards (or blocks) them onto the gateway's own
// stdout. Mirrors StdioGateway._forward_server_to_client.
func (g *Gateway) forwardServerToClient(ctx context.Context, src io.Reader, dst io.Writer) {
	g.pump(ctx, src, dst, g.serverParser, gwjsonrpc.DirectionServerToClient, dst)
}

// pump implements the shared read-scan-forward loop both directions share.
// blockSink is where a synthesized block response is written when a
// blocked request carries an id: for client->server that is the gateway's
// own stdout (so the operator's client sees the rejection), for
// server->client there is no meaningful place to synthesize a response so
// the same dst is used.
func (g *Gateway) pump(ctx context.Context, src io.Reader, dst io.Writer, parser *gwjsonrpc.Framer, direction gwjsonrpc.Direction, blockSink io.Writer) {
	reader := bufio.NewReader(src)

	for {
		line, err := reader.ReadString('\n')
		if len(line) == 0 && err != nil {
			if err != io.EOF {
				g.logger.Debug("pump read error", "direction", direction, "error", err.Error())
			}
			return
		}

		start := time.Now()
		messages := parser.Feed(line)

		for _, message := range messages {
			g.processMessage(ctx, message, direction, dst, blockSink)
		}

		if len(messages) > 0 {
			g.metricsC.RecordLatency(float64(time.Since(start).Microseconds()) / 1000.0)
		}

		if err == io.EOF {
			return
		}
	}
}

// processMessage runs one parsed message through metrics, scanning,
// alerting, and audit, then either forwards it or blocks it, matching the
// per-message ordering in StdioGateway._forward_*.
func (g *Gateway) processMessage(ctx context.Context, message *gwjsonrpc.ParsedMessage, direction gwjsonrpc.Direction, dst io.Writer, blockSink io.Writer) {
	g.metricsC.RecordMessage(message, direction)

	result := g.scanner.Scan(message, direction)
	for _, violation := range result.Violations {
		g.logger.Warn("scan violation",
			"rule", violation.RuleName,
			"severity", violation.Severity,
			"action", violation.Action,
			"direction", direction,
			"match", violation.Match,
		)
		g.metricsC.RecordViolation(violation.RuleName, violation.Action == scanner.ActionBlock)
	}

	if result.HasViolations() {
		g.alerts.SendAlert(ctx, message, result, direction)
	}

	g.writeAudit(message, direction, result)

	if result.ShouldBlock {
		g.blockMessage(message, result, blockSink)
		return
	}

	g.forward(message, result, dst)
}

// blockMessage drops a blocked message. If it carried a request id, a
// synthesized JSON-RPC error response is written to blockSink so the
// requester gets a reply instead of hanging; a blocked notification (no id)
// is dropped silently.
func (g *Gateway) blockMessage(message *gwjsonrpc.ParsedMessage, result *scanner.Result, blockSink io.Writer) {
	if message.Kind != gwjsonrpc.KindRequest {
		return
	}

	line, err := scanner.CreateBlockResponse(message, result)
	if err != nil {
		g.logger.Error("failed to synthesize block response", "error", err.Error())
		return
	}

	g.outMu.Lock()
	defer g.outMu.Unlock()
	if _, err := fmt.Fprintln(blockSink, line); err != nil {
		g.logger.Error("failed to write block response", "error", err.Error())
	}
}

// forward writes the (possibly redacted) message on to dst, terminated by
// a newline, serialized against concurrent writers of the gateway's own
// stdout.
func (g *Gateway) forward(message *gwjsonrpc.ParsedMessage, result *scanner.Result, dst io.Writer) {
	payload := message.Raw
	if result.ModifiedMessage != "" {
		payload = result.ModifiedMessage
	}

	g.outMu.Lock()
	defer g.outMu.Unlock()
	if _, err := fmt.Fprintln(dst, payload); err != nil {
		g.logger.Error("failed to forward message", "error", err.Error())
	}
}

// writeAudit appends one JSONL record per spec.md §4.4's audit shape.
func (g *Gateway) writeAudit(message *gwjsonrpc.ParsedMessage, direction gwjsonrpc.Direction, result *scanner.Result) {
	if !g.settings.Auditing.Enabled {
		return
	}

	entry := map[string]any{
		"direction":       direction,
		"server":          g.serverName,
		"session_id":      g.sessionID,
		"message_id":      message.MessageID(),
		"message_type":    message.Kind,
		"method":          message.Method,
		"blocked":         result.ShouldBlock,
		"violation_count": len(result.Violations),
	}
	if message.IsToolCall() {
		entry["tool"] = message.ToolName()
	}
	if message.IsResourceRead() {
		entry["resource_uri"] = message.ResourceURI()
	}
	if g.settings.Auditing.IncludeTimestamps {
		entry["timestamp"] = time.Now().Format("2006-01-02T15:04:05.000000Z07:00")
	}
	if g.settings.Auditing.IncludeMessageContent {
		if len(message.Params) > 0 {
			entry["params"] = json.RawMessage(message.Params)
		}
		if len(message.Result) > 0 {
			entry["result"] = json.RawMessage(message.Result)
		}
		if message.Error != nil {
			entry["error"] = message.Error
		}
	}
	if len(result.Violations) > 0 {
		rules := make([]string, 0, len(result.Violations))
		for _, v := range result.Violations {
			rules = append(rules, v.RuleName)
		}
		entry["violated_rules"] = strings.Join(rules, ",")
	}

	g.audit.WriteEntry(entry)
}

// handleServerStderr relays the child's stderr line-by-line to the
// gateway's own stderr, tagged with the server name, and logs it at debug
// level. Mirrors StdioGateway._handle_server_stderr.
func (g *Gateway) handleServerStderr(src io.Reader) {
	reader := bufio.NewReader(src)
	for {
		line, err := reader.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed != "" {
			g.logger.Debug("child stderr", "line", trimmed)
			fmt.Fprintf(g.stderr, "[%s] %s\n", g.serverName, trimmed)
		}
		if err != nil {
			return
		}
	}
}
