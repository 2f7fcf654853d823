package transport

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Transport represents an established, bidirectional byte stream between a
// plant-watering node and its controller.
//
// A Transport is assumed to be already connected and ready for use. Typical
// implementations include serial ports, pseudo terminals used for bench tests,
// or in-memory fakes used for testing.
type Transport interface {
	io.ReadWriteCloser
}

// Dialer opens a Transport.
//
// Dialer abstracts how the connection is created and is intended to be used
// during construction only. Once a Transport is obtained, the Dialer is no
// longer needed.
type Dialer interface {
	// Dial is responsible for creating and returning a connected Transport. It may
	// perform blocking operations and should respect cancellation and deadlines
	// provided by the context. Dial returns an error if the transport cannot be
	// established.
	Dial(ctx context.Context) (Transport, error)
}

var (
	errNoPortName = errors.New("transport: serial port name is required")
	errNilContext = errors.New("transport: context is nil")
)

// DefaultBaudRate is used when neither Mode nor BaudRate is set.
const DefaultBaudRate = 115200

// SerialDialer opens a serial port using go.bug.st/serial.
//
// Mode takes precedence over BaudRate. When both are unset the port is opened
// as 115200 8N1.
type SerialDialer struct {
	PortName string
	BaudRate int
	Mode     *serial.Mode
}

// Dial implements Dialer.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if d.PortName == "" {
		return nil, errNoPortName
	}
	if ctx == nil {
		return nil, errNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	port, err := serial.Open(d.PortName, d.mode())
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", d.PortName, err)
	}
	return port, nil
}

func (d SerialDialer) mode() *serial.Mode {
	if d.Mode != nil {
		return d.Mode
	}

	baud := d.BaudRate
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}
