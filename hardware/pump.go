package hardware

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Pump switches the water pump through a relay.
type Pump struct {
	pin OutputPin
	on  gpio.Level
	off gpio.Level
}

// NewPump returns a pump driven through pin. Relay boards usually close on a
// low input, which is what activeLow selects. A nil pin leaves the pump
// unconfigured.
func NewPump(pin OutputPin, activeLow bool) *Pump {
	p := &Pump{pin: pin, on: gpio.High, off: gpio.Low}
	if activeLow {
		p.on, p.off = gpio.Low, gpio.High
	}
	return p
}

// Configured reports whether the pump pin is assigned.
func (p *Pump) Configured() bool {
	return p != nil && p.pin != nil
}

// ActivateFor runs the pump for d and stops it. The call blocks for the
// whole duration. A non-positive d gives an on/off pulse with no wait.
//
// If ctx ends first the pump is stopped early and ctx.Err() is returned.
func (p *Pump) ActivateFor(ctx context.Context, d time.Duration) error {
	if !p.Configured() {
		return ErrNotConfigured
	}

	if err := p.pin.Out(p.on); err != nil {
		return fmt.Errorf("start pump: %w", err)
	}

	waitErr := sleep(ctx, d)
	if err := p.pin.Out(p.off); err != nil {
		return fmt.Errorf("stop pump: %w", err)
	}
	return waitErr
}

// Deactivate stops the pump immediately.
func (p *Pump) Deactivate() error {
	if !p.Configured() {
		return ErrNotConfigured
	}
	if err := p.pin.Out(p.off); err != nil {
		return fmt.Errorf("stop pump: %w", err)
	}
	return nil
}
