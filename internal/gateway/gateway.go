// Package gateway wires a scanner, logger, metrics collector, alert
// dispatcher, and lifecycle state machine around a spawned child process,
// interposing on its stdio exactly as spec.md §4.3 describes. Ported from
// original_source/gateway.py's StdioGateway.
// file: internal/gateway/gateway.go
package gateway

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cowgnition-labs/mcp-gateway/internal/alert"
	"github.com/cowgnition-labs/mcp-gateway/internal/config"
	"github.com/cowgnition-labs/mcp-gateway/internal/fsm"
	"github.com/cowgnition-labs/mcp-gateway/internal/gwjsonrpc"
	"github.com/cowgnition-labs/mcp-gateway/internal/logging"
	"github.com/cowgnition-labs/mcp-gateway/internal/metrics"
	"github.com/cowgnition-labs/mcp-gateway/internal/scanner"
)

// childWait bounds how long Start waits for a forwarding pump to notice EOF
// and return once the child process has already exited, per spec.md §4.3.4.
const childWait = 1 * time.Second

// killGrace bounds how long Start waits for the child to exit after
// terminate before escalating to kill, matching the Python original's
// wait(timeout=5)/kill() fallback.
const killGrace = 5 * time.Second

// Gateway interposes on one child MCP server's stdio, scanning every
// message that crosses it in either direction.
type Gateway struct {
	serverCommand []string
	serverName    string
	settings      *config.Settings
	sessionID     string

	logger logging.Logger
	human  *logging.HumanWriter
	audit  *logging.AuditWriter

	scanner   *scanner.Scanner
	metricsC  *metrics.Collector
	alerts    *alert.Dispatcher
	lifecycle fsm.FSM

	clientParser *gwjsonrpc.Framer
	serverParser *gwjsonrpc.Framer

	cmd *exec.Cmd

	// outMu serializes writes to the gateway's own stdout: the
	// server->client pump forwards traffic there, and the
	// client->server pump may also write a synthesized block response
	// there when it drops a blocked request.
	outMu sync.Mutex

	// clientIn/clientOut are the gateway's own stdio, wired to os.Stdin/
	// os.Stdout by New and overridable by tests via WithClientIO.
	clientIn  io.Reader
	clientOut io.Writer
	stderr    io.Writer
}

// WithClientIO overrides the gateway's own stdio, normally os.Stdin/
// os.Stdout. Exposed for tests driving a Gateway without a real terminal.
func (g *Gateway) WithClientIO(in io.Reader, out io.Writer) *Gateway {
	g.clientIn = in
	g.clientOut = out
	return g
}

// New builds a Gateway for serverCommand (argv[0] is the executable),
// identified to operators/alerts as serverName, wiring every component
// exactly as StdioGateway.__init__ does.
func New(serverCommand []string, serverName string, settings *config.Settings, emailSender alert.EmailSender) *Gateway {
	human := logging.NewHumanWriter(settings.Logging.Destination, logging.ParseLevel(settings.Logging.Level), logging.ParseFormat(settings.Logging.Format), os.Stderr)
	var logger logging.Logger = logging.GetNoopLogger()
	if settings.Logging.Enabled {
		logger = logging.NewWriterLogger(human)
	}
	logger = logger.WithField("server", serverName)

	return &Gateway{
		serverCommand: serverCommand,
		serverName:    serverName,
		settings:      settings,
		sessionID:     uuid.NewString(),

		logger: logger,
		human:  human,
		audit:  logging.NewAuditWriter(settings.Auditing.AuditLog, os.Stderr),

		scanner: scanner.New(scanner.Config{
			Enabled:      settings.Scanning.Enabled,
			Rules:        settings.Scanning.Rules,
			ScanRequest:  settings.Scanning.ScanRequest,
			ScanResponse: settings.Scanning.ScanResponse,
		}, logger),
		metricsC: metrics.New(metrics.Config{
			Enabled:                settings.Metrics.Enabled,
			CollectLatency:         settings.Metrics.CollectLatency,
			CollectMessageCounts:   settings.Metrics.CollectMessageCounts,
			CollectViolationCounts: settings.Metrics.CollectViolationCounts,
		}),
		alerts: alert.New(alert.Config{
			Enabled:    settings.Alerting.Enabled,
			WebhookURL: settings.Alerting.WebhookURL,
			Email:      settings.Alerting.Email,
		}, serverName, emailSender, logger),
		lifecycle: newLifecycle(logger),

		clientParser: gwjsonrpc.NewFramer(logger),
		serverParser: gwjsonrpc.NewFramer(logger),

		clientIn:  os.Stdin,
		clientOut: os.Stdout,
		stderr:    os.Stderr,
	}
}

// Start spawns the child process, interposes on its stdio until it exits or
// ctx is cancelled, and returns once shutdown has completed. It always
// returns a nil error on a clean child exit; a spawn failure or an
// unrecoverable I/O setup error is returned to the caller.
func (g *Gateway) Start(ctx context.Context) error {
	if err := g.lifecycle.Transition(ctx, EventSpawn, nil); err != nil {
		g.logger.Error("failed to enter spawning state", "error", err.Error())
	}

	cmd := exec.CommandContext(ctx, g.serverCommand[0], g.serverCommand[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		g.failSpawn(ctx, err)
		return fmt.Errorf("creating child stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		g.failSpawn(ctx, err)
		return fmt.Errorf("creating child stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		g.failSpawn(ctx, err)
		return fmt.Errorf("creating child stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		g.failSpawn(ctx, err)
		return fmt.Errorf("starting child process %q: %w", g.serverCommand[0], err)
	}
	g.cmd = cmd

	if err := g.lifecycle.Transition(ctx, EventSpawned, nil); err != nil {
		g.logger.Error("failed to enter running state", "error", err.Error())
	}
	g.logger.Info("gateway started", "session_id", g.sessionID, "command", g.serverCommand)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		g.forwardClientToServer(ctx, g.clientIn, stdin)
	}()
	go func() {
		defer wg.Done()
		g.forwardServerToClient(ctx, stdout, g.clientOut)
	}()
	go g.handleServerStderr(stderr)

	waitErr := cmd.Wait()

	if err := g.lifecycle.Transition(ctx, EventDrain, nil); err != nil {
		g.logger.Error("failed to enter draining state", "error", err.Error())
	}

	joined := make(chan struct{})
	go func() {
		wg.Wait()
		close(joined)
	}()
	select {
	case <-joined:
	case <-time.After(childWait):
		g.logger.Warn("forwarding pumps did not exit within grace period after child exit")
	}

	g.cleanup()

	if err := g.lifecycle.Transition(ctx, EventShutdown, nil); err != nil {
		g.logger.Error("failed to enter shutdown state", "error", err.Error())
	}

	if waitErr != nil {
		g.logger.Info("child process exited", "error", waitErr.Error())
	} else {
		g.logger.Info("child process exited cleanly")
	}
	return nil
}

func (g *Gateway) failSpawn(ctx context.Context, err error) {
	g.logger.Error("failed to spawn child process", "command", g.serverCommand, "error", err.Error())
	if tErr := g.lifecycle.Transition(ctx, EventSpawnFail, nil); tErr != nil {
		g.logger.Error("failed to enter failed state", "error", tErr.Error())
	}
}

// cleanup mirrors StdioGateway._cleanup: logs a metrics summary if enabled,
// then terminates the child if it is still running, escalating to kill
// after killGrace.
func (g *Gateway) cleanup() {
	g.logger.Info("gateway shutting down", "server", g.serverName)

	if g.settings.Metrics.Enabled {
		g.logger.Info("metrics summary", "summary", g.metricsC.Summary())
	}

	if g.cmd == nil || g.cmd.Process == nil {
		return
	}
	if g.cmd.ProcessState != nil {
		return
	}

	if err := g.cmd.Process.Signal(os.Interrupt); err != nil {
		g.logger.Warn("failed to signal child for graceful termination", "error", err.Error())
	}

	done := make(chan struct{})
	go func() {
		_, _ = g.cmd.Process.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(killGrace):
		g.logger.Warn("child did not exit within grace period, killing")
		if err := g.cmd.Process.Kill(); err != nil {
			g.logger.Error("failed to kill child process", "error", err.Error())
		}
	}
}
