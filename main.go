package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"i4.energy/across/plantnode/calibration"
	"i4.energy/across/plantnode/hardware"
	"i4.energy/across/plantnode/node"
	"i4.energy/across/plantnode/transport"
)

// version is reported by AT+GMR. Overridden at build time with -ldflags.
var version = "1.0"

func main() {
	flag.String("serial-port", "/dev/ttyS0", "Serial port the controller is attached to")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("hardware", "hardware.yml", "YAML file describing the sensor and pump pins")
	flag.String("db", "plantnode.db", "SQLite file holding the calibration thresholds")
	flag.String("metrics-address", "", "Bind address for the metrics server (disabled when empty)")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if err := run(config, logger); err != nil {
		logger.Error("Plant node stopped", "error", err)
		os.Exit(1)
	}
}

func run(config *Config, logger *slog.Logger) error {
	// Cancelled on SIGINT or SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal", "signal", sig)
		cancel()
	}()

	hwConfig, err := hardware.LoadConfig(config.HardwareFile)
	if err != nil {
		return err
	}
	board, err := hardware.Open(hwConfig, logger.With("component", "hardware"))
	if err != nil {
		return err
	}
	defer board.Close()

	db, err := calibration.OpenSQLite(config.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := node.NewHandler(ctx, node.Config{
		Version: version,
		Sensor:  board.Sensor,
		Pump:    board.Pump,
		Store:   calibration.NewStore(db, logger.With("component", "calibration")),
		Metrics: node.NewMetrics(registry),
		Logger:  logger.With("component", "node"),
	})
	if err != nil {
		return err
	}

	dialer := transport.SerialDialer{
		PortName: config.SerialPort,
		BaudRate: config.BaudRate,
	}
	port, err := dialer.Dial(ctx)
	if err != nil {
		return err
	}
	defer port.Close()

	logger.Info("Starting plant node", "version", version, "serial_port", config.SerialPort, "baud_rate", config.BaudRate)

	var httpServer *http.Server
	if config.MetricsAddress != "" {
		httpServer = &http.Server{
			Addr: config.MetricsAddress,
			Handler: &Server{
				Logger:   logger.With("component", "server"),
				Gatherer: registry,
				Version:  version,
			},
		}

		go func() {
			logger.Info("Starting metrics server", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
				cancel()
			}
		}()
	}

	err = handler.Serve(ctx, port)

	if board.Pump.Configured() {
		logger.Info("Switching pump off")
		if err := board.Pump.Deactivate(); err != nil {
			logger.Error("Failed to switch pump off", "error", err)
		}
	}

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		logger.Info("Closing metrics server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to gracefully shutdown server", "error", err)
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
