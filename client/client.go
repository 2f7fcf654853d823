package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"i4.energy/across/plantnode/at"
	"i4.energy/across/plantnode/transport"
)

// Client talks to a plant-watering node over its AT command interface.
// All transport reads happen in Loop; operations hand their command to the
// loop and wait for the matching final response.
type Client struct {
	// transport is the connection to the node
	transport transport.Transport
	// config contains the client settings
	config Config
	// closed indicates if the client has been shut down
	closed atomic.Bool
	// loopRunning indicates if Loop is currently running
	loopRunning atomic.Bool

	// commands queues requests for the Loop to process
	commands chan *commandRequest

	// loopCtx controls the lifecycle of the event loop
	loopCtx context.Context
	// loopCancel cancels the event loop
	loopCancel context.CancelFunc
}

// commandRequest is a command waiting to be executed by the Loop.
type commandRequest struct {
	cmd      string
	respChan chan commandResponse
	ctx      context.Context
}

// commandResponse carries the data lines of a response and the error derived
// from its final line.
type commandResponse struct {
	lines []string
	err   error
}

// New dials the node and checks that it answers AT with OK.
//
// Returns an error if the transport cannot be opened or the node does not
// respond.
func New(ctx context.Context, config Config) (*Client, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	t, err := config.dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotInitialized
	}

	c := &Client{
		transport: t,
		config:    config,
		commands:  make(chan *commandRequest),
	}
	c.loopCtx, c.loopCancel = context.WithCancel(ctx)

	initCtx, cancel := context.WithTimeout(ctx, config.initTimeout)
	defer cancel()

	if _, err := c.execDirect(initCtx, at.CmdAt); err != nil {
		c.loopCancel()
		t.Close()
		return nil, fmt.Errorf("node not responding: %w", err)
	}

	return c, nil
}

// Loop is the event loop that owns all reads from the transport. It must be
// running for any operation other than New and Close to complete.
//
// Loop returns when ctx is cancelled, when the client is closed or when the
// transport reaches EOF or fails.
//
//	c, err := client.New(ctx, config)
//	if err != nil { return err }
//	go c.Loop(ctx)
//	raw, err := c.SoilMoisture(ctx)
func (c *Client) Loop(ctx context.Context) error {
	if !c.loopRunning.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer c.loopRunning.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.loopCtx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	scanner := bufio.NewScanner(c.transport)
	scanner.Split(at.Splitter)

	tokens := make(chan string, 10)
	scanErrs := make(chan error, 1)

	go func() {
		defer close(tokens)
		for scanner.Scan() {
			token := scanner.Text()
			if token == "" {
				continue
			}
			select {
			case tokens <- token:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case scanErrs <- err:
			case <-ctx.Done():
			}
		}
	}()

	var current *commandRequest
	var lines []string
	// stale counts abandoned commands whose final line is still to come.
	// The node answers strictly in order, so their output precedes the
	// response of any command written later.
	var stale int

	finish := func(resp commandResponse) {
		current.respChan <- resp
		current = nil
		lines = nil
	}

	for {
		// One command in flight at a time.
		commands := c.commands
		var abandoned <-chan struct{}
		if current != nil {
			commands = nil
			abandoned = current.ctx.Done()
		}

		select {
		case <-ctx.Done():
			if current != nil {
				finish(commandResponse{err: ctx.Err()})
			}
			return ctx.Err()

		case req := <-commands:
			current = req
			lines = nil

			if _, err := io.WriteString(c.transport, req.cmd+at.CRLF); err != nil {
				finish(commandResponse{err: fmt.Errorf("write command %q: %w", req.cmd, err)})
			}

		case <-abandoned:
			finish(commandResponse{err: fmt.Errorf("command timeout: %w", current.ctx.Err())})
			stale++

		case token, ok := <-tokens:
			if !ok {
				if current != nil {
					finish(commandResponse{lines: lines, err: io.EOF})
				}
				return io.EOF
			}

			class := at.Classify(token)
			if stale > 0 {
				if class == at.TypeFinal {
					stale--
				}
				continue
			}
			if current == nil {
				// Unsolicited output
				continue
			}

			switch class {
			case at.TypeFinal:
				finish(commandResponse{lines: lines, err: responseError(current.cmd, token, lines)})
			case at.TypeData:
				lines = append(lines, token)
			}

		case err := <-scanErrs:
			if current != nil {
				finish(commandResponse{err: fmt.Errorf("read error: %w", err)})
			}
			return fmt.Errorf("scanner error: %w", err)
		}
	}
}

// Close stops the event loop and closes the transport. The client cannot be
// reused afterwards.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrAlreadyClosed
	}

	if c.loopCancel != nil {
		c.loopCancel()
	}
	if c.transport != nil {
		return c.transport.Close()
	}
	return nil
}

// responseError maps a final response line to an error. OK maps to nil.
func responseError(cmd, final string, lines []string) error {
	if final == at.OK {
		return nil
	}

	msg := strings.Join(lines, "; ")
	for _, line := range lines {
		switch line {
		case at.MsgUnknownCommand:
			return fmt.Errorf("%s: %w", cmd, ErrUnknownCommand)
		case at.MsgSoilUnconfigured, at.MsgPumpUnconfigured:
			return fmt.Errorf("%s: %s: %w", cmd, line, ErrNotConfigured)
		}
	}
	if msg == "" {
		return fmt.Errorf("%s: %w", cmd, ErrCommandFailed)
	}
	return fmt.Errorf("%s: %s: %w", cmd, msg, ErrCommandFailed)
}

// exec hands cmd to the Loop and waits for its response. When ctx carries no
// deadline the configured AT timeout plus extra applies.
func (c *Client) exec(ctx context.Context, cmd string, extra time.Duration) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrAlreadyClosed
	}
	if c.transport == nil {
		return nil, ErrNotInitialized
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.atTimeout+extra)
		defer cancel()
	}

	req := &commandRequest{
		cmd:      cmd,
		respChan: make(chan commandResponse, 1),
		ctx:      ctx,
	}

	select {
	case c.commands <- req:
	case <-ctx.Done():
		return nil, fmt.Errorf("command cancelled before sending: %w", ctx.Err())
	}

	select {
	case resp := <-req.respChan:
		return resp.lines, resp.err
	case <-ctx.Done():
		return nil, fmt.Errorf("command timeout: %w", ctx.Err())
	}
}

// execDirect runs cmd on the transport without the Loop. It is only used by
// New, before the Loop is started.
func (c *Client) execDirect(ctx context.Context, cmd string) ([]string, error) {
	if _, err := io.WriteString(c.transport, cmd+at.CRLF); err != nil {
		return nil, fmt.Errorf("write command %q: %w", cmd, err)
	}

	type result struct {
		lines []string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		scanner := bufio.NewScanner(c.transport)
		scanner.Split(at.Splitter)

		var lines []string
		for scanner.Scan() {
			token := scanner.Text()
			if token == "" {
				continue
			}
			if at.Classify(token) == at.TypeFinal {
				done <- result{lines, responseError(cmd, token, lines)}
				return
			}
			lines = append(lines, token)
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		done <- result{lines, err}
	}()

	select {
	case r := <-done:
		return r.lines, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
