package examples

import (
	"fmt"
	"math"
	"strings"

	"github.com/mash-protocol/agent-go/pkg/agent"
	"github.com/mash-protocol/agent-go/pkg/log"
)

// Mode is the heat pump operating mode.
type Mode string

const (
	ModeOff  Mode = "off"
	ModeHeat Mode = "heat"
	ModeEco  Mode = "eco"
)

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeOff, ModeHeat, ModeEco:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: off, heat, eco)", ErrInvalidMode, s)
	}
}

// HeatPump represents a heat pump whose state lives in agents.
// It demonstrates how to:
//   - Clamp a written setpoint with a self-excluding subscriber
//   - Derive the compressor state from setpoint, mode and room temperature
//   - Derive power from the compressor state and a consumption limit
//
// HeatPump is meant to be driven from a single main loop. Its agents use
// the default no-op critical section.
type HeatPump struct {
	cfg HeatPumpConfig

	// Setpoint is the requested room temperature in °C.
	Setpoint *agent.Agent[float64]

	// RoomTemperature is the measured room temperature in °C.
	RoomTemperature *agent.Agent[float64]

	// Mode is the operating mode.
	Mode *agent.Agent[Mode]

	// Running is true while the compressor runs. It is derived; writes
	// from outside are overridden on the next change of its inputs.
	Running *agent.Agent[bool]

	// Power is the electrical power in mW. It is derived from Running and
	// ConsumptionLimit.
	Power *agent.Agent[int64]

	// ConsumptionLimit caps Power in mW. Zero means no limit.
	ConsumptionLimit *agent.Agent[int64]

	clampID agent.SubscriptionID
}

// NewHeatPump creates a heat pump from cfg. Trace events of all agents go
// to logger, which may be nil.
func NewHeatPump(cfg HeatPumpConfig, logger log.Logger) *HeatPump {
	opts := func(name string) []agent.Option {
		if cfg.Name != "" {
			name = cfg.Name + "." + name
		}
		return []agent.Option{agent.WithName(name), agent.WithLogger(logger)}
	}

	hp := &HeatPump{cfg: cfg}

	hp.Setpoint = agent.New(hp.clamp(cfg.Setpoint), opts("setpoint")...)
	hp.RoomTemperature = agent.New(cfg.RoomTemperature, opts("roomTemperature")...)
	hp.Mode = agent.New(cfg.Mode, opts("mode")...)
	hp.Running = agent.New(false, opts("running")...)
	hp.Power = agent.New(int64(0), opts("power")...)
	hp.ConsumptionLimit = agent.New(cfg.ConsumptionLimit, opts("consumptionLimit")...)

	// The clamp subscribes first so derived state never sees an
	// out-of-range setpoint.
	hp.clampID = hp.Setpoint.Subscribe(func(v float64) {
		if c := hp.clamp(v); c != v {
			hp.Setpoint.SetExcluding(c, hp.clampID)
		}
	})

	hp.Setpoint.Subscribe(func(float64) { hp.evaluate() })
	hp.RoomTemperature.Subscribe(func(float64) { hp.evaluate() })
	hp.Mode.Subscribe(func(Mode) { hp.evaluate() })
	hp.Running.Subscribe(func(bool) { hp.updatePower() })
	hp.ConsumptionLimit.Subscribe(func(int64) { hp.updatePower() })

	hp.evaluate()
	hp.updatePower()

	return hp
}

// Config returns the configuration the heat pump was created with.
func (h *HeatPump) Config() HeatPumpConfig {
	return h.cfg
}

func (h *HeatPump) clamp(v float64) float64 {
	return math.Min(math.Max(v, h.cfg.MinSetpoint), h.cfg.MaxSetpoint)
}

// Target returns the temperature the controller currently regulates to.
func (h *HeatPump) Target() float64 {
	target := h.Setpoint.Get()
	if h.Mode.Get() == ModeEco {
		target -= h.cfg.EcoOffset
	}
	return target
}

// evaluate applies two-point control with hysteresis.
func (h *HeatPump) evaluate() {
	if h.Mode.Get() == ModeOff {
		h.Running.Set(false)
		return
	}

	room := h.RoomTemperature.Get()
	target := h.Target()

	switch {
	case h.Running.Get() && room >= target:
		h.Running.Set(false)
	case !h.Running.Get() && room <= target-h.cfg.Hysteresis:
		h.Running.Set(true)
	}
}

func (h *HeatPump) updatePower() {
	if !h.Running.Get() {
		h.Power.Set(0)
		return
	}

	power := h.cfg.RatedPower
	if limit := h.ConsumptionLimit.Get(); limit > 0 && power > limit {
		power = limit
	}
	h.Power.Set(power)
}

// Step advances the room temperature simulation by one step: the room
// warms while the compressor runs and cools otherwise. The heating rate
// scales with the share of rated power actually drawn.
func (h *HeatPump) Step() {
	delta := -h.cfg.CoolingRate
	if h.Running.Get() && h.cfg.RatedPower > 0 {
		share := float64(h.Power.Get()) / float64(h.cfg.RatedPower)
		delta = h.cfg.HeatingRate * share
	}
	// Round to avoid drifting float noise in the displayed temperature.
	next := math.Round((h.RoomTemperature.Get()+delta)*1000) / 1000
	h.RoomTemperature.Set(next)
}
