// Package examples provides reference implementations demonstrating how to
// build device logic from agents.
//
// The example implementations show:
//   - Holding device state in agents instead of plain fields
//   - Deriving state from other agents through subscriptions
//   - Clamping a value with a subscriber that writes back to its own agent,
//     using its subscription ID to suppress the echo
//   - Loading initial values from a YAML configuration
//
// Available examples:
//   - HeatPump: a heat pump with setpoint, operating mode, hysteresis
//     control and a consumption limit
//
// These examples can serve as templates for real firmware state handling.
package examples
