package main

import (
	"flag"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		config, err := LoadConfig(WithDefaults())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := Config{
			SerialPort:   "/dev/ttyS0",
			BaudRate:     115200,
			LogLevel:     "info",
			HardwareFile: "hardware.yml",
			DBPath:       "plantnode.db",
		}
		if *config != expected {
			t.Errorf("expected %+v, got %+v", expected, *config)
		}
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("SERIAL_PORT", "/dev/ttyAMA0")
		t.Setenv("BAUD_RATE", "9600")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("HARDWARE_FILE", "/etc/plantnode/hardware.yml")
		t.Setenv("DB_PATH", "/var/lib/plantnode/prefs.db")
		t.Setenv("METRICS_ADDRESS", ":9100")

		config, err := LoadConfig(WithDefaults(), WithEnv())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := Config{
			SerialPort:     "/dev/ttyAMA0",
			BaudRate:       9600,
			LogLevel:       "debug",
			HardwareFile:   "/etc/plantnode/hardware.yml",
			DBPath:         "/var/lib/plantnode/prefs.db",
			MetricsAddress: ":9100",
		}
		if *config != expected {
			t.Errorf("expected %+v, got %+v", expected, *config)
		}
	})

	t.Run("Invalid baud rate is ignored", func(t *testing.T) {
		t.Setenv("BAUD_RATE", "fast")

		config, err := LoadConfig(WithDefaults(), WithEnv())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.BaudRate != 115200 {
			t.Errorf("expected default baud rate, got %d", config.BaudRate)
		}
	})

	t.Run("Flags override environment", func(t *testing.T) {
		t.Setenv("SERIAL_PORT", "/dev/ttyAMA0")
		t.Setenv("DB_PATH", "/var/lib/plantnode/prefs.db")

		fSet := flag.NewFlagSet("plantnode", flag.ContinueOnError)
		fSet.String("serial-port", "/dev/ttyS0", "")
		fSet.Int("baud-rate", 115200, "")
		fSet.String("log-level", "info", "")
		fSet.String("hardware", "hardware.yml", "")
		fSet.String("db", "plantnode.db", "")
		fSet.String("metrics-address", "", "")
		if err := fSet.Parse([]string{"-serial-port", "/dev/ttyUSB1", "-baud-rate", "57600", "-metrics-address", "127.0.0.1:9100"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(fSet))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.SerialPort != "/dev/ttyUSB1" {
			t.Errorf("expected flag serial port, got %q", config.SerialPort)
		}
		if config.BaudRate != 57600 {
			t.Errorf("expected flag baud rate, got %d", config.BaudRate)
		}
		if config.MetricsAddress != "127.0.0.1:9100" {
			t.Errorf("expected flag metrics address, got %q", config.MetricsAddress)
		}
		// Flags that were not set leave the environment value in place
		if config.DBPath != "/var/lib/plantnode/prefs.db" {
			t.Errorf("expected env db path, got %q", config.DBPath)
		}
	})
}
