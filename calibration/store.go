// Package calibration persists the dry and wet soil-moisture thresholds of a
// node across power loss.
package calibration

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// PreferencesNamespace isolates the node's keys in the backend.
	PreferencesNamespace = "plant-watering"

	// KeyMin and KeyMax hold the raw readings of the dry and wet extremes.
	KeyMin = "minsoilm"
	KeyMax = "maxsoilm"

	// DefaultMinSoilMoisture is used until the dry extreme is calibrated.
	DefaultMinSoilMoisture = 0
	// DefaultMaxSoilMoisture is used until the wet extreme is calibrated.
	DefaultMaxSoilMoisture = 4095

	// SchemaVersion is recorded with loaded thresholds. Nothing migrates on it.
	SchemaVersion = 1

	absent = -1
)

// Thresholds are the calibrated raw sensor values. No ordering between Min
// and Max is enforced.
type Thresholds struct {
	Min     int
	Max     int
	Version uint8
}

// Defaults returns the thresholds of an uncalibrated node.
func Defaults() Thresholds {
	return Thresholds{
		Min:     DefaultMinSoilMoisture,
		Max:     DefaultMaxSoilMoisture,
		Version: SchemaVersion,
	}
}

// Store loads and saves Thresholds through a Backend.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// NewStore returns a Store over backend.
func NewStore(backend Backend, logger *slog.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Load reads both thresholds. It never fails: a namespace that cannot be
// opened and keys that are absent or unreadable fall back to the defaults.
func (s *Store) Load(ctx context.Context) Thresholds {
	t := Defaults()

	ns, err := s.backend.Begin(ctx, PreferencesNamespace, true)
	if err != nil {
		s.logger.Info("calibration namespace unavailable, using defaults", "namespace", PreferencesNamespace, "error", err)
		return t
	}
	defer ns.End()

	t.Min = s.load(ns, KeyMin, DefaultMinSoilMoisture)
	t.Max = s.load(ns, KeyMax, DefaultMaxSoilMoisture)
	return t
}

func (s *Store) load(ns Namespace, key string, def int) int {
	v, err := ns.GetInt(key, absent)
	if err != nil {
		s.logger.Warn("calibration key unreadable, using default", "key", key, "default", def, "error", err)
		return def
	}
	if v == absent {
		s.logger.Info("calibration key not set, using default", "key", key, "default", def)
		return def
	}
	return v
}

// Save writes a single threshold and closes the namespace again.
func (s *Store) Save(ctx context.Context, key string, value int) error {
	ns, err := s.backend.Begin(ctx, PreferencesNamespace, false)
	if err != nil {
		return fmt.Errorf("open calibration namespace: %w", err)
	}

	if err := ns.PutInt(key, value); err != nil {
		ns.End()
		return err
	}
	return ns.End()
}
