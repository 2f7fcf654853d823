package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"i4.energy/across/plantnode/at"
)

// Ping checks that the node answers.
func (c *Client) Ping(ctx context.Context) error {
	lines, err := c.exec(ctx, at.CmdAt, 0)
	if err != nil {
		return err
	}
	if len(lines) != 0 {
		return fmt.Errorf("%s: %q: %w", at.CmdAt, lines, ErrUnexpectedResponse)
	}
	return nil
}

// Version returns the firmware version reported by the node.
func (c *Client) Version(ctx context.Context) (string, error) {
	lines, err := c.exec(ctx, at.CmdVersion, 0)
	if err != nil {
		return "", err
	}
	if len(lines) != 1 {
		return "", fmt.Errorf("%s: %q: %w", at.CmdVersion, lines, ErrUnexpectedResponse)
	}
	return lines[0], nil
}

// SoilMoisture takes a raw reading. The node keeps the sensor powered for
// its stabilization time first, so this blocks at least that long.
func (c *Client) SoilMoisture(ctx context.Context) (int, error) {
	return c.sample(ctx, at.CmdSoilMoist)
}

// CalibrateMin takes a reading and stores it as the dry threshold.
func (c *Client) CalibrateMin(ctx context.Context) (int, error) {
	return c.sample(ctx, at.CmdCalibrateLo)
}

// CalibrateMax takes a reading and stores it as the wet threshold.
func (c *Client) CalibrateMax(ctx context.Context) (int, error) {
	return c.sample(ctx, at.CmdCalibrateHi)
}

// Pump runs the pump for d. The node answers only once the pump has been
// switched off again. d is sent with millisecond resolution.
func (c *Client) Pump(ctx context.Context, d time.Duration) error {
	extra := d
	if extra < 0 {
		extra = 0
	}
	return c.expectOK(ctx, at.PumpCommand(int(d.Milliseconds())), extra)
}

// PumpOff stops the pump.
func (c *Client) PumpOff(ctx context.Context) error {
	return c.expectOK(ctx, at.CmdPumpOff, 0)
}

func (c *Client) sample(ctx context.Context, cmd string) (int, error) {
	lines, err := c.exec(ctx, cmd, c.config.stabilization)
	if err != nil {
		return 0, err
	}
	if len(lines) != 1 {
		return 0, fmt.Errorf("%s: %q: %w", cmd, lines, ErrUnexpectedResponse)
	}

	v, err := strconv.Atoi(lines[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %q: %w", cmd, lines[0], ErrUnexpectedResponse)
	}
	return v, nil
}

func (c *Client) expectOK(ctx context.Context, cmd string, extra time.Duration) error {
	lines, err := c.exec(ctx, cmd, extra)
	if err != nil {
		return err
	}
	if len(lines) != 0 {
		return fmt.Errorf("%s: %q: %w", cmd, lines, ErrUnexpectedResponse)
	}
	return nil
}
