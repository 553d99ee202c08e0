// file: internal/gateway/gateway_test.go
package gateway

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowgnition-labs/mcp-gateway/internal/config"
	"github.com/cowgnition-labs/mcp-gateway/internal/gwjsonrpc"
	"github.com/cowgnition-labs/mcp-gateway/internal/scanner"
)

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	dir := t.TempDir()
	settings := config.New()
	settings.Logging.Destination = dir
	settings.Auditing.AuditLog = dir + "/audit.jsonl"
	settings.Alerting.Enabled = false
	settings.Scanning.Rules = []scanner.Rule{
		{Name: "block-secret", Pattern: `sk_live_[a-zA-Z0-9]+`, Action: scanner.ActionBlock, Severity: scanner.SeverityCritical, Enabled: true},
		{Name: "redact-email", Pattern: `[\w.]+@example\.com`, Action: scanner.ActionRedact, Severity: scanner.SeverityLow, Enabled: true},
	}
	return settings
}

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	return New([]string{"cat"}, "test-server", testSettings(t), nil)
}

func TestNew_WiresEveryComponent(t *testing.T) {
	g := newTestGateway(t)
	assert.NotEmpty(t, g.sessionID)
	assert.NotNil(t, g.scanner)
	assert.NotNil(t, g.metricsC)
	assert.NotNil(t, g.alerts)
	assert.NotNil(t, g.lifecycle)
	assert.Equal(t, StateInit, g.lifecycle.CurrentState())
}

func TestPump_ForwardsBenignMessageUnmodified(t *testing.T) {
	g := newTestGateway(t)
	var out bytes.Buffer

	line := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n"
	g.pump(context.Background(), strings.NewReader(line), &out, g.clientParser, gwjsonrpc.DirectionClientToServer, &out)

	assert.Equal(t, strings.TrimSuffix(line, "\n")+"\n", out.String())
}

func TestPump_BlocksRequestAndSynthesizesErrorResponse(t *testing.T) {
	g := newTestGateway(t)
	var forwarded, blocked bytes.Buffer

	line := `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"x","key":"sk_live_ABC123"}}` + "\n"
	g.pump(context.Background(), strings.NewReader(line), &forwarded, g.clientParser, gwjsonrpc.DirectionClientToServer, &blocked)

	assert.Empty(t, forwarded.String(), "blocked message must never reach the child")
	require.NotEmpty(t, blocked.String())
	assert.Contains(t, blocked.String(), `"id":7`)
	assert.Contains(t, blocked.String(), "blocked by security policy")
}

func TestPump_BlocksNotificationSilently(t *testing.T) {
	g := newTestGateway(t)
	var forwarded, blocked bytes.Buffer

	line := `{"jsonrpc":"2.0","method":"notify","params":{"key":"sk_live_ABC123"}}` + "\n"
	g.pump(context.Background(), strings.NewReader(line), &forwarded, g.clientParser, gwjsonrpc.DirectionClientToServer, &blocked)

	assert.Empty(t, forwarded.String())
	assert.Empty(t, blocked.String(), "a blocked notification has no id to answer, so nothing is written")
}

func TestPump_RedactsMatchedTextBeforeForwarding(t *testing.T) {
	g := newTestGateway(t)
	var out bytes.Buffer

	line := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"send","to":"person@example.com"}}` + "\n"
	g.pump(context.Background(), strings.NewReader(line), &out, g.clientParser, gwjsonrpc.DirectionClientToServer, &out)

	assert.NotContains(t, out.String(), "person@example.com")
	assert.Contains(t, out.String(), "[REDACTED:redact-email]")
}

func TestPump_MalformedJSON_DroppedWithoutForwardingOrPanicking(t *testing.T) {
	g := newTestGateway(t)
	var out bytes.Buffer

	assert.NotPanics(t, func() {
		g.pump(context.Background(), strings.NewReader("{not json}\n"), &out, g.clientParser, gwjsonrpc.DirectionClientToServer, &out)
	})
	assert.Empty(t, out.String())
}

func TestStart_SpawnsCatAndEchoesClientMessageBackThroughServer(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available on this system")
	}

	settings := testSettings(t)
	settings.Scanning.Rules = nil // no rules: plain passthrough
	g := New([]string{"cat"}, "echo-server", settings, nil)

	clientIn := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	var clientOut bytes.Buffer
	g.WithClientIO(clientIn, &clientOut)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := g.Start(ctx)
	require.NoError(t, err)

	assert.Contains(t, clientOut.String(), `"method":"ping"`)
}

func TestStart_SpawnFailureTransitionsToFailedState(t *testing.T) {
	settings := testSettings(t)
	g := New([]string{"/nonexistent/binary/does-not-exist"}, "bad-server", settings, nil)
	g.WithClientIO(strings.NewReader(""), &bytes.Buffer{})

	err := g.Start(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateFailed, g.lifecycle.CurrentState())
}

type fakeEmailSender struct{}

func (fakeEmailSender) Send(ctx context.Context, to string, payload map[string]interface{}) error {
	return nil
}

func TestNew_AcceptsEmailSender(t *testing.T) {
	settings := testSettings(t)
	settings.Alerting.Enabled = true
	settings.Alerting.Email = "ops@example.com"
	g := New([]string{"cat"}, "server", settings, fakeEmailSender{})
	require.NotNil(t, g.alerts)
}
