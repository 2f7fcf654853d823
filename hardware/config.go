package hardware

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config maps the node's functions onto host resources. A nil section means
// the corresponding hardware is not fitted.
type Config struct {
	SoilMoisture *SoilMoistureConfig `yaml:"soilMoisture"`
	Pump         *PumpConfig         `yaml:"pump"`
}

// SoilMoistureConfig locates the moisture sensor on a Grove ADC board.
type SoilMoistureConfig struct {
	// Bus is the I2C bus name passed to i2creg.Open (e.g. "1")
	Bus string `yaml:"bus"`
	// Address is the I2C address of the ADC board
	Address uint16 `yaml:"address"`
	// Channel is the ADC input the sensor is wired to
	Channel uint8 `yaml:"channel"`
	// PowerPin is the GPIO feeding the sensor (e.g. "GPIO17")
	PowerPin string `yaml:"powerPin"`
	// Stabilization is the powered wait before sampling (e.g. "1s"), rounded
	// to whole seconds with a minimum of one second
	Stabilization time.Duration `yaml:"stabilization"`
}

// PumpConfig locates the pump relay.
type PumpConfig struct {
	// Pin is the GPIO driving the relay (e.g. "GPIO23")
	Pin string `yaml:"pin"`
	// ActiveLow selects a relay that closes on a low input. Defaults to true.
	ActiveLow *bool `yaml:"activeLow"`
}

// IsActiveLow reports the relay polarity.
func (c *PumpConfig) IsActiveLow() bool {
	return c.ActiveLow == nil || *c.ActiveLow
}

// LoadConfig reads a YAML hardware configuration. A missing file yields an
// empty configuration, i.e. a node with nothing fitted.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read hardware config: %w", err)
	}

	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("parse hardware config %s: %w", path, err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if sm := c.SoilMoisture; sm != nil {
		if sm.Bus == "" {
			sm.Bus = "1"
		}
		if sm.Address == 0 {
			sm.Address = 0x08
		}
		// The delay is configured in whole seconds.
		if sm.Stabilization <= 0 {
			sm.Stabilization = DefaultStabilization
		} else {
			sm.Stabilization = max(sm.Stabilization.Round(time.Second), time.Second)
		}
	}
}
