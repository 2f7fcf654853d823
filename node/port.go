package node

import (
	"context"
	"io"
	"sync"
)

// ByteSource yields input bytes without blocking.
type ByteSource interface {
	// TryReadByte returns the next byte and true if one is available, or
	// false immediately if none is.
	TryReadByte() (byte, bool)
}

// portBuffer bounds how far the reader goroutine runs ahead of the handler.
const portBuffer = 4096

// Port turns a blocking io.Reader into a ByteSource. A single goroutine owns
// the reader and moves bytes into a bounded buffer.
type Port struct {
	bytes chan byte
	stop  chan struct{}
	once  sync.Once
	err   error

	pending    byte
	hasPending bool
}

// NewPort starts reading from r. Call Close to release the reader goroutine.
func NewPort(r io.Reader) *Port {
	p := &Port{
		bytes: make(chan byte, portBuffer),
		stop:  make(chan struct{}),
	}
	go p.read(r)
	return p
}

func (p *Port) read(r io.Reader) {
	defer close(p.bytes)

	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case p.bytes <- b:
			case <-p.stop:
				return
			}
		}
		if err != nil {
			p.err = err
			return
		}
	}
}

// TryReadByte implements ByteSource.
func (p *Port) TryReadByte() (byte, bool) {
	if p.hasPending {
		p.hasPending = false
		return p.pending, true
	}

	select {
	case b, ok := <-p.bytes:
		return b, ok
	default:
		return 0, false
	}
}

// Wait blocks until a byte is available. It returns the reader's error once
// the stream has ended and every byte has been consumed, or ctx.Err() when
// ctx is done first.
func (p *Port) Wait(ctx context.Context) error {
	if p.hasPending {
		return nil
	}

	select {
	case b, ok := <-p.bytes:
		if !ok {
			if p.err == nil {
				return io.EOF
			}
			return p.err
		}
		p.pending, p.hasPending = b, true
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the reader goroutine once it is no longer blocked in Read.
// Closing the underlying reader unblocks it.
func (p *Port) Close() {
	p.once.Do(func() { close(p.stop) })
}
