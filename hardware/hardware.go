// Package hardware drives the physical side of a plant-watering node: a
// power-gated capacitive soil-moisture sensor sampled through an ADC, and a
// pump switched by a relay on a GPIO line.
//
// Every part of the capability set is optional. A part that has not been
// configured is represented by a nil interface value and makes the operations
// that need it return ErrNotConfigured.
package hardware

import (
	"context"
	"errors"
	"time"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
)

var (
	// ErrNotConfigured is returned when an operation needs a pin that has no
	// assignment in the hardware configuration.
	ErrNotConfigured = errors.New("pin not configured")

	// ErrUnknownPin is returned when the hardware configuration names a GPIO
	// that the host does not expose.
	ErrUnknownPin = errors.New("unknown pin")
)

// OutputPin is a digital output. Every periph.io gpio.PinOut satisfies it.
type OutputPin interface {
	Out(l gpio.Level) error
}

// ADC samples an analog input. Every periph.io analog.PinADC satisfies it.
type ADC interface {
	Read() (analog.Sample, error)
}

var (
	_ OutputPin = gpio.PinOut(nil)
	_ ADC       = analog.PinADC(nil)
)

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
