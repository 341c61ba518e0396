package examples

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed heatpump.yaml
var defaultHeatPumpYAML []byte

// Configuration errors.
var (
	ErrInvalidMode       = errors.New("invalid operating mode")
	ErrInvalidSetpoint   = errors.New("invalid setpoint range")
	ErrInvalidHysteresis = errors.New("hysteresis must not be negative")
	ErrInvalidPower      = errors.New("power must not be negative")
)

// HeatPumpConfig contains configuration for creating a heat pump.
type HeatPumpConfig struct {
	// Name prefixes the agent names (e.g. "heatpump.setpoint").
	Name string `yaml:"name"`

	// Mode is the initial operating mode.
	Mode Mode `yaml:"mode"`

	// Setpoint is the initial room setpoint in °C.
	Setpoint float64 `yaml:"setpoint"`

	// MinSetpoint and MaxSetpoint bound the setpoint.
	MinSetpoint float64 `yaml:"minSetpoint"`
	MaxSetpoint float64 `yaml:"maxSetpoint"`

	// EcoOffset is subtracted from the setpoint in eco mode.
	EcoOffset float64 `yaml:"ecoOffset"`

	// Hysteresis is how far the room must drop below the target before the
	// compressor starts again.
	Hysteresis float64 `yaml:"hysteresis"`

	// RoomTemperature is the initial measured room temperature in °C.
	RoomTemperature float64 `yaml:"roomTemperature"`

	// RatedPower is the electrical power while running, in mW.
	RatedPower int64 `yaml:"ratedPower"`

	// ConsumptionLimit caps the power in mW. Zero means no limit.
	ConsumptionLimit int64 `yaml:"consumptionLimit"`

	// HeatingRate and CoolingRate are the room temperature change per
	// simulation step while running and while idle.
	HeatingRate float64 `yaml:"heatingRate"`
	CoolingRate float64 `yaml:"coolingRate"`
}

// UnmarshalYAML decodes a mode name case-insensitively into its canonical
// form.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// DefaultHeatPumpConfig returns the embedded default configuration.
func DefaultHeatPumpConfig() HeatPumpConfig {
	var cfg HeatPumpConfig
	if err := yaml.Unmarshal(defaultHeatPumpYAML, &cfg); err != nil {
		panic(fmt.Sprintf("invalid embedded heat pump config: %v", err))
	}
	return cfg
}

// LoadHeatPumpConfig reads a YAML configuration from path. Fields missing
// from the file keep their default values.
func LoadHeatPumpConfig(path string) (HeatPumpConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HeatPumpConfig{}, fmt.Errorf("read config: %w", err)
	}
	return ParseHeatPumpConfig(data)
}

// ParseHeatPumpConfig parses YAML data on top of the default configuration
// and validates the result.
func ParseHeatPumpConfig(data []byte) (HeatPumpConfig, error) {
	cfg := DefaultHeatPumpConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return HeatPumpConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return HeatPumpConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c HeatPumpConfig) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.MinSetpoint > c.MaxSetpoint {
		return fmt.Errorf("%w: min %.1f > max %.1f", ErrInvalidSetpoint, c.MinSetpoint, c.MaxSetpoint)
	}
	if c.Hysteresis < 0 {
		return ErrInvalidHysteresis
	}
	if c.RatedPower < 0 || c.ConsumptionLimit < 0 {
		return ErrInvalidPower
	}
	return nil
}
