// Package log provides a structured change trace for agents.
//
// This package defines the Logger interface and Event types that agents emit
// when their value changes or their subscriber list is modified. It is
// separate from operational logging (slog): the trace is a complete,
// machine-readable record for debugging notification flows.
//
// # Basic Usage
//
// Pass a Logger to an agent with agent.WithLogger:
//
//	// For development: log to console via slog
//	a := agent.New(0, agent.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For field diagnostics: write to a binary file
//	fl, _ := log.NewFileLogger("/var/log/thermostat.alog")
//	a := agent.New(0, agent.WithLogger(fl))
//
//	// Both: use MultiLogger
//	a := agent.New(0, agent.WithLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	)))
//
// Events are emitted after the agent has left its critical section, so a
// Logger never runs with interrupts disabled.
//
// # Event Types
//
//   - Change: a write that altered the value (ChangeEvent)
//   - Subscription: attach, detach and detach-all (SubscriptionEvent)
//
// Writes of an equal value and detaches of unknown IDs produce no events.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .alog extension.
// The agent-log CLI tool provides viewing, filtering and export.
package log
