// file: internal/gateway/state.go
package gateway

import (
	"github.com/cowgnition-labs/mcp-gateway/internal/fsm"
	"github.com/cowgnition-labs/mcp-gateway/internal/logging"
)

// The gateway's lifecycle states, per spec.md §4.3's state table.
const (
	StateInit     fsm.State = "init"
	StateSpawning fsm.State = "spawning"
	StateRunning  fsm.State = "running"
	StateDraining fsm.State = "draining"
	StateShutdown fsm.State = "shutdown"
	StateFailed   fsm.State = "failed"
)

// Events driving transitions between lifecycle states.
const (
	EventSpawn     fsm.Event = "spawn"
	EventSpawned   fsm.Event = "spawned"
	EventSpawnFail fsm.Event = "spawn_fail"
	EventDrain     fsm.Event = "drain"
	EventShutdown  fsm.Event = "shutdown"
)

// newLifecycle builds the gateway's state machine exactly as spec.md §4.3's
// table describes it, reusing the teacher's generic internal/fsm wrapper
// around looplab/fsm re-pointed at these states/events instead of RTM
// connection states.
func newLifecycle(logger logging.Logger) fsm.FSM {
	builder := fsm.NewFSM(StateInit, logger)

	builder.AddTransition(fsm.Transition{From: []fsm.State{StateInit}, Event: EventSpawn, To: StateSpawning})
	builder.AddTransition(fsm.Transition{From: []fsm.State{StateSpawning}, Event: EventSpawned, To: StateRunning})
	builder.AddTransition(fsm.Transition{From: []fsm.State{StateSpawning}, Event: EventSpawnFail, To: StateFailed})
	builder.AddTransition(fsm.Transition{From: []fsm.State{StateRunning}, Event: EventDrain, To: StateDraining})
	builder.AddTransition(fsm.Transition{From: []fsm.State{StateDraining}, Event: EventShutdown, To: StateShutdown})

	if err := builder.Build(); err != nil {
		logger.Error("failed to build gateway lifecycle state machine", "error", err.Error())
	}
	return builder
}
