// Package metrics accumulates in-process gateway counters and renders a
// shutdown summary.
// file: internal/metrics/server_metrics.go
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cowgnition-labs/mcp-gateway/internal/gwjsonrpc"
)

// Config toggles which counter families are collected, mirroring the
// config.metrics section (spec.md §6).
type Config struct {
	Enabled               bool
	CollectLatency        bool
	CollectMessageCounts  bool
	CollectViolationCounts bool
}

// Snapshot is a point-in-time copy of the accumulated counters, safe to
// read without holding the Collector's lock.
type Snapshot struct {
	MessagesProcessed   int
	MessagesByDirection map[gwjsonrpc.Direction]int
	MessagesByType      map[gwjsonrpc.Kind]int
	ToolCalls           map[string]int
	Violations          map[string]int
	BlockedMessages     int
	TotalLatencyMs      float64
}

// Collector accumulates process-wide counters. All mutating methods are
// serialized by a mutex; GetSnapshot copies out rather than exposing
// internal maps, mirroring the teacher's GetCurrentMetrics copy-out pattern.
type Collector struct {
	mu     sync.RWMutex
	config Config

	messagesProcessed   int
	messagesByDirection map[gwjsonrpc.Direction]int
	messagesByType      map[gwjsonrpc.Kind]int
	toolCalls           map[string]int
	violations          map[string]int
	blockedMessages     int
	totalLatencyMs      float64
}

// New returns a Collector governed by config.
func New(config Config) *Collector {
	return &Collector{
		config:              config,
		messagesByDirection: make(map[gwjsonrpc.Direction]int),
		messagesByType:      make(map[gwjsonrpc.Kind]int),
		toolCalls:           make(map[string]int),
		violations:          make(map[string]int),
	}
}

// RecordMessage records one processed message: its count, direction, kind,
// and (if a tool call) the tool name.
func (c *Collector) RecordMessage(message *gwjsonrpc.ParsedMessage, direction gwjsonrpc.Direction) {
	if !c.config.Enabled || !c.config.CollectMessageCounts {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messagesProcessed++
	c.messagesByDirection[direction]++
	c.messagesByType[message.Kind]++

	if message.IsToolCall() {
		if name := message.ToolName(); name != "" {
			c.toolCalls[name]++
		}
	}
}

// RecordViolation records one rule match, incrementing blocked_messages too
// when the triggering action was Block.
func (c *Collector) RecordViolation(ruleName string, blocked bool) {
	if !c.config.Enabled || !c.config.CollectViolationCounts {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.violations[ruleName]++
	if blocked {
		c.blockedMessages++
	}
}

// RecordLatency adds latencyMs to the running total.
func (c *Collector) RecordLatency(latencyMs float64) {
	if !c.config.Enabled || !c.config.CollectLatency {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalLatencyMs += latencyMs
}

// GetSnapshot returns a copy of every counter, safe for concurrent callers.
func (c *Collector) GetSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		MessagesProcessed:   c.messagesProcessed,
		MessagesByDirection: make(map[gwjsonrpc.Direction]int, len(c.messagesByDirection)),
		MessagesByType:      make(map[gwjsonrpc.Kind]int, len(c.messagesByType)),
		ToolCalls:           make(map[string]int, len(c.toolCalls)),
		Violations:          make(map[string]int, len(c.violations)),
		BlockedMessages:     c.blockedMessages,
		TotalLatencyMs:      c.totalLatencyMs,
	}
	for k, v := range c.messagesByDirection {
		snap.MessagesByDirection[k] = v
	}
	for k, v := range c.messagesByType {
		snap.MessagesByType[k] = v
	}
	for k, v := range c.toolCalls {
		snap.ToolCalls[k] = v
	}
	for k, v := range c.violations {
		snap.Violations[k] = v
	}
	return snap
}

// Summary renders the multi-line human summary spec.md §4.6 requires:
// totals, average latency, top 5 tool calls descending, violations by rule.
func (c *Collector) Summary() string {
	snap := c.GetSnapshot()

	avgLatency := 0.0
	if snap.MessagesProcessed > 0 {
		avgLatency = snap.TotalLatencyMs / float64(snap.MessagesProcessed)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total messages: %d\n", snap.MessagesProcessed)
	fmt.Fprintf(&b, "Blocked: %d\n", snap.BlockedMessages)
	fmt.Fprintf(&b, "Average latency: %.2fms", avgLatency)

	if len(snap.ToolCalls) > 0 {
		type toolCount struct {
			name  string
			count int
		}
		tools := make([]toolCount, 0, len(snap.ToolCalls))
		for name, count := range snap.ToolCalls {
			tools = append(tools, toolCount{name, count})
		}
		sort.Slice(tools, func(i, j int) bool {
			if tools[i].count != tools[j].count {
				return tools[i].count > tools[j].count
			}
			return tools[i].name < tools[j].name
		})
		b.WriteString("\n\nTop tool calls:")
		limit := 5
		if len(tools) < limit {
			limit = len(tools)
		}
		for _, t := range tools[:limit] {
			fmt.Fprintf(&b, "\n  %s: %d", t.name, t.count)
		}
	}

	if len(snap.Violations) > 0 {
		rules := make([]string, 0, len(snap.Violations))
		for rule := range snap.Violations {
			rules = append(rules, rule)
		}
		sort.Strings(rules)
		b.WriteString("\n\nViolations by rule:")
		for _, rule := range rules {
			fmt.Fprintf(&b, "\n  %s: %d", rule, snap.Violations[rule])
		}
	}

	return b.String()
}
