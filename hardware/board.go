package hardware

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// groveVoltageReg is the first per-channel voltage register (mV) of the
// Grove base hat ADC.
const groveVoltageReg = 0x20

// GroveADC reads one channel of a Grove base hat ADC over I2C.
type GroveADC struct {
	dev     i2c.Dev
	channel uint8
}

// NewGroveADC returns an ADC for channel of the board at addr on bus.
func NewGroveADC(bus i2c.Bus, addr uint16, channel uint8) *GroveADC {
	return &GroveADC{
		dev:     i2c.Dev{Bus: bus, Addr: addr},
		channel: channel,
	}
}

// Read implements ADC.
func (a *GroveADC) Read() (analog.Sample, error) {
	write := []byte{groveVoltageReg + a.channel}
	read := make([]byte, 2)
	if err := a.dev.Tx(write, read); err != nil {
		return analog.Sample{}, err
	}

	raw := int32(binary.LittleEndian.Uint16(read))
	return analog.Sample{
		V:   physic.ElectricPotential(raw) * physic.MilliVolt,
		Raw: raw,
	}, nil
}

// Board is the hardware capability set of a node.
type Board struct {
	Sensor *SoilSensor
	Pump   *Pump

	bus i2c.BusCloser
}

// Open brings up the hardware described by cfg. Parts that cfg leaves out
// stay unconfigured. The periph.io host drivers are only loaded when at least
// one part is configured, so a node without any fitted hardware runs on any
// machine.
func Open(cfg *Config, logger *slog.Logger) (*Board, error) {
	b := &Board{
		Sensor: NewSoilSensor(nil, nil, 0),
		Pump:   NewPump(nil, true),
	}

	sm, pc := cfg.SoilMoisture, cfg.Pump
	wantSensor := sm != nil && sm.PowerPin != ""
	wantPump := pc != nil && pc.Pin != ""

	if !wantSensor && !wantPump {
		logger.Warn("no hardware configured")
		return b, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize host drivers: %w", err)
	}

	if wantSensor {
		power, err := outputByName(sm.PowerPin, gpio.Low)
		if err != nil {
			return nil, fmt.Errorf("soil sensor power: %w", err)
		}
		bus, err := i2creg.Open(sm.Bus)
		if err != nil {
			return nil, fmt.Errorf("open i2c bus %q: %w", sm.Bus, err)
		}
		b.bus = bus
		b.Sensor = NewSoilSensor(NewGroveADC(bus, sm.Address, sm.Channel), power, sm.Stabilization)
		logger.Info("soil sensor configured",
			"bus", sm.Bus, "address", sm.Address, "channel", sm.Channel,
			"power_pin", sm.PowerPin, "stabilization", sm.Stabilization)
	}

	if wantPump {
		b.Pump = NewPump(nil, pc.IsActiveLow())
		pin, err := outputByName(pc.Pin, b.Pump.off)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("pump: %w", err)
		}
		b.Pump.pin = pin
		logger.Info("pump configured", "pin", pc.Pin, "active_low", pc.IsActiveLow())
	}

	return b, nil
}

// outputByName looks up a GPIO and drives it to the initial level.
func outputByName(name string, initial gpio.Level) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPin, name)
	}
	if err := p.Out(initial); err != nil {
		return nil, fmt.Errorf("drive %s: %w", name, err)
	}
	return p, nil
}

// Close releases the I2C bus. Pins keep their last level.
func (b *Board) Close() error {
	if b.bus == nil {
		return nil
	}
	err := b.bus.Close()
	b.bus = nil
	return err
}
