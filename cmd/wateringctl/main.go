// Command wateringctl sends a single command to a plant-watering node over a
// serial line and prints the result.
//
// Usage:
//
//	wateringctl [flags] <ping|version|read|calibrate-min|calibrate-max|pump <ms>|pump-off>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"i4.energy/across/plantnode/client"
	"i4.energy/across/plantnode/transport"
)

func main() {
	serialPort := flag.String("serial-port", "/dev/ttyUSB0", "Serial port the node is attached to")
	baudRate := flag.Int("baud-rate", transport.DefaultBaudRate, "Baud rate for serial communication")
	timeout := flag.Duration("timeout", 5*time.Second, "Time to wait for a response, on top of pump and sensor time")
	stabilization := flag.Duration("stabilization", time.Second, "Sensor stabilization time configured on the node")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelWarn
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, err := client.NewConfigBuilder().
		WithDialer(transport.SerialDialer{
			PortName: *serialPort,
			BaudRate: *baudRate,
		}).
		WithATTimeout(*timeout).
		WithStabilization(*stabilization).
		Build()
	if err != nil {
		logger.Error("Failed to create client config", "error", err)
		os.Exit(1)
	}

	c, err := client.New(ctx, config)
	if err != nil {
		logger.Error("Failed to connect to node", "serial_port", *serialPort, "error", err)
		os.Exit(1)
	}
	defer c.Close()

	go func() {
		if err := c.Loop(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug("Client loop stopped", "error", err)
		}
	}()

	if err := run(ctx, c, flag.Args(), os.Stdout); err != nil {
		logger.Error("Command failed", "command", flag.Arg(0), "error", err)
		c.Close()
		os.Exit(1)
	}
}

// Node is the part of client.Client the commands use.
type Node interface {
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	SoilMoisture(ctx context.Context) (int, error)
	CalibrateMin(ctx context.Context) (int, error)
	CalibrateMax(ctx context.Context) (int, error)
	Pump(ctx context.Context, d time.Duration) error
	PumpOff(ctx context.Context) error
}

var errUsage = errors.New("invalid arguments")

func run(ctx context.Context, n Node, args []string, out io.Writer) error {
	switch args[0] {
	case "ping":
		if err := n.Ping(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "OK")

	case "version":
		v, err := n.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)

	case "read", "calibrate-min", "calibrate-max":
		read := map[string]func(context.Context) (int, error){
			"read":          n.SoilMoisture,
			"calibrate-min": n.CalibrateMin,
			"calibrate-max": n.CalibrateMax,
		}[args[0]]
		v, err := read(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)

	case "pump":
		if len(args) != 2 {
			return fmt.Errorf("%w: pump needs a duration in milliseconds", errUsage)
		}
		ms, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: pump duration %q: %v", errUsage, args[1], err)
		}
		if err := n.Pump(ctx, time.Duration(ms)*time.Millisecond); err != nil {
			return err
		}
		fmt.Fprintln(out, "OK")

	case "pump-off":
		if err := n.PumpOff(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "OK")

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	return nil
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage: %s [flags] <ping|version|read|calibrate-min|calibrate-max|pump <ms>|pump-off>\n", os.Args[0])
	flag.PrintDefaults()
}
