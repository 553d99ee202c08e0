// file: internal/metrics/server_metrics_test.go
package metrics

import (
	"testing"

	"github.com/cowgnition-labs/mcp-gateway/internal/gwjsonrpc"
	"github.com/cowgnition-labs/mcp-gateway/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, raw string) *gwjsonrpc.ParsedMessage {
	t.Helper()
	f := gwjsonrpc.NewFramer(logging.GetNoopLogger())
	msgs := f.Feed(raw)
	require.Len(t, msgs, 1)
	return msgs[0]
}

func fullConfig() Config {
	return Config{Enabled: true, CollectLatency: true, CollectMessageCounts: true, CollectViolationCounts: true}
}

func TestRecordMessage_CountsByDirectionAndKind(t *testing.T) {
	c := New(fullConfig())
	msg := parseOne(t, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo"}}`)

	c.RecordMessage(msg, gwjsonrpc.DirectionClientToServer)
	c.RecordMessage(msg, gwjsonrpc.DirectionClientToServer)

	snap := c.GetSnapshot()
	assert.Equal(t, 2, snap.MessagesProcessed)
	assert.Equal(t, 2, snap.MessagesByDirection[gwjsonrpc.DirectionClientToServer])
	assert.Equal(t, 2, snap.MessagesByType[gwjsonrpc.KindRequest])
	assert.Equal(t, 2, snap.ToolCalls["echo"])
}

func TestRecordViolation_IncrementsBlockedOnlyWhenBlocked(t *testing.T) {
	c := New(fullConfig())
	c.RecordViolation("aws-access-key", true)
	c.RecordViolation("email-address", false)

	snap := c.GetSnapshot()
	assert.Equal(t, 1, snap.Violations["aws-access-key"])
	assert.Equal(t, 1, snap.Violations["email-address"])
	assert.Equal(t, 1, snap.BlockedMessages)
}

func TestRecordLatency_AccumulatesTotal(t *testing.T) {
	c := New(fullConfig())
	c.RecordLatency(10.5)
	c.RecordLatency(4.5)

	assert.Equal(t, 15.0, c.GetSnapshot().TotalLatencyMs)
}

func TestDisabledConfig_RecordsNothing(t *testing.T) {
	c := New(Config{Enabled: false})
	msg := parseOne(t, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo"}}`)
	c.RecordMessage(msg, gwjsonrpc.DirectionClientToServer)
	c.RecordViolation("rule", true)
	c.RecordLatency(100)

	snap := c.GetSnapshot()
	assert.Equal(t, 0, snap.MessagesProcessed)
	assert.Equal(t, 0, snap.BlockedMessages)
	assert.Equal(t, 0.0, snap.TotalLatencyMs)
}

func TestSummary_IncludesTotalsTopToolsAndViolations(t *testing.T) {
	c := New(fullConfig())
	msg := parseOne(t, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo"}}`)
	c.RecordMessage(msg, gwjsonrpc.DirectionClientToServer)
	c.RecordViolation("aws-access-key", true)
	c.RecordLatency(20)

	summary := c.Summary()
	assert.Contains(t, summary, "Total messages: 1")
	assert.Contains(t, summary, "Blocked: 1")
	assert.Contains(t, summary, "Average latency: 20.00ms")
	assert.Contains(t, summary, "echo: 1")
	assert.Contains(t, summary, "aws-access-key: 1")
}
