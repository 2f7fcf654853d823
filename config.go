package main

import (
	"flag"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	// SerialPort is the path to the serial port the controller is attached to (e.g. "/dev/ttyS0")
	SerialPort string
	// BaudRate is the baud rate of the serial line (e.g. 115200)
	BaudRate int
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// HardwareFile is the YAML pin map of the board
	HardwareFile string
	// DBPath is the SQLite file holding the calibration thresholds
	DBPath string
	// MetricsAddress is the address of the metrics server (e.g. "0.0.0.0:9100"), empty disables it
	MetricsAddress string
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.SerialPort = "/dev/ttyS0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.HardwareFile = "hardware.yml"
		c.DBPath = "plantnode.db"
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if file := os.Getenv("HARDWARE_FILE"); file != "" {
			c.HardwareFile = file
		}

		if path := os.Getenv("DB_PATH"); path != "" {
			c.DBPath = path
		}

		if addr := os.Getenv("METRICS_ADDRESS"); addr != "" {
			c.MetricsAddress = addr
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "hardware":
				c.HardwareFile = f.Value.String()
			case "db":
				c.DBPath = f.Value.String()
			case "metrics-address":
				c.MetricsAddress = f.Value.String()
			}
		})
		return nil
	}
}
