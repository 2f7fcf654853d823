package hardware

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// DefaultStabilization is how long the sensor is powered before sampling.
const DefaultStabilization = time.Second

// SoilSensor reads a capacitive soil-moisture sensor that is only powered
// while a reading is taken.
type SoilSensor struct {
	adc    ADC
	power  OutputPin
	settle time.Duration
}

// NewSoilSensor returns a sensor sampling adc and gating its supply through
// power. A nil adc or power leaves the sensor unconfigured. A non-positive
// settle selects DefaultStabilization.
func NewSoilSensor(adc ADC, power OutputPin, settle time.Duration) *SoilSensor {
	if settle <= 0 {
		settle = DefaultStabilization
	}
	return &SoilSensor{adc: adc, power: power, settle: settle}
}

// Configured reports whether both the ADC input and the power pin are assigned.
func (s *SoilSensor) Configured() bool {
	return s != nil && s.adc != nil && s.power != nil
}

// Stabilization returns the powered wait before each sample.
func (s *SoilSensor) Stabilization() time.Duration {
	if s == nil {
		return 0
	}
	return s.settle
}

// Read powers the sensor, waits for it to stabilize, takes a single sample and
// removes power again. It blocks for the whole stabilization interval.
//
// The power pin is driven low on every path once it has been driven high.
func (s *SoilSensor) Read(ctx context.Context) (int, error) {
	if !s.Configured() {
		return 0, ErrNotConfigured
	}

	if err := s.power.Out(gpio.High); err != nil {
		return 0, fmt.Errorf("power on soil sensor: %w", err)
	}

	if err := sleep(ctx, s.settle); err != nil {
		_ = s.power.Out(gpio.Low)
		return 0, err
	}

	sample, readErr := s.adc.Read()
	offErr := s.power.Out(gpio.Low)

	if readErr != nil {
		return 0, fmt.Errorf("sample soil sensor: %w", readErr)
	}
	if offErr != nil {
		return 0, fmt.Errorf("power off soil sensor: %w", offErr)
	}
	return int(sample.Raw), nil
}
