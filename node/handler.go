// Package node implements the AT command interpreter of a plant-watering
// node: it frames the serial input into command lines, dispatches each line
// to the sensor, the pump or the calibration store and writes the response.
//
// Everything runs on the caller's goroutine. Reading the sensor and running
// the pump block the interpreter for their whole duration.
package node

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"i4.energy/across/plantnode/at"
	"i4.energy/across/plantnode/calibration"
	"i4.energy/across/plantnode/hardware"
)

// ErrNoStore is returned when a Handler is built without a calibration store.
var ErrNoStore = errors.New("no calibration store configured")

// Sensor takes one raw soil-moisture reading.
type Sensor interface {
	Read(ctx context.Context) (int, error)
}

// Actuator runs the pump.
type Actuator interface {
	ActivateFor(ctx context.Context, d time.Duration) error
	Deactivate() error
}

// Config wires a Handler to its collaborators. Sensor and Pump may be nil,
// in which case the matching commands report that the pin is not configured.
type Config struct {
	Version string
	Sensor  Sensor
	Pump    Actuator
	Store   *calibration.Store
	Metrics *Metrics
	Logger  *slog.Logger
}

// Handler interprets AT command lines.
type Handler struct {
	version    string
	sensor     Sensor
	pump       Actuator
	store      *calibration.Store
	metrics    *Metrics
	logger     *slog.Logger
	framer     at.Framer
	thresholds calibration.Thresholds
	serving    atomic.Bool
}

// NewHandler builds a Handler and loads the calibration thresholds.
func NewHandler(ctx context.Context, cfg Config) (*Handler, error) {
	if cfg.Store == nil {
		return nil, ErrNoStore
	}

	h := &Handler{
		version: cfg.Version,
		sensor:  cfg.Sensor,
		pump:    cfg.Pump,
		store:   cfg.Store,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
	if h.sensor == nil {
		h.sensor = hardware.NewSoilSensor(nil, nil, 0)
	}
	if h.pump == nil {
		h.pump = hardware.NewPump(nil, true)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h.thresholds = h.store.Load(ctx)
	h.logger.Info("calibration loaded", "min", h.thresholds.Min, "max", h.thresholds.Max)
	return h, nil
}

// Thresholds returns the calibration currently in effect.
func (h *Handler) Thresholds() calibration.Thresholds {
	return h.thresholds
}

// Handle consumes the bytes available on in until one command line is
// complete, executes it and writes the response to out. It returns without
// writing anything when no complete line is available or the line is empty.
func (h *Handler) Handle(ctx context.Context, in ByteSource, out io.Writer) error {
	for {
		b, ok := in.TryReadByte()
		if !ok {
			return nil
		}
		line, done := h.framer.Feed(b)
		if !done {
			continue
		}
		if len(line) == 0 {
			return nil
		}
		return h.dispatch(ctx, string(line), out)
	}
}

// response accumulates the lines of one reply so it goes out in one write.
type response struct {
	bytes.Buffer
	status string
}

func (r *response) line(s string) {
	r.WriteString(s)
	r.WriteString(at.CRLF)
}

func (r *response) ok() {
	r.status = "ok"
	r.line(at.OK)
}

func (r *response) fail(msg string) {
	if msg != "" {
		r.line(msg)
	}
	r.status = "error"
	r.line(at.ERROR)
}

func (h *Handler) dispatch(ctx context.Context, line string, out io.Writer) error {
	var r response
	name := h.execute(ctx, line, &r)

	h.metrics.command(name, r.status)
	h.logger.Debug("command handled", "line", line, "command", name, "status", r.status)

	if _, err := out.Write(r.Bytes()); err != nil {
		return fmt.Errorf("write response to %q: %w", line, err)
	}
	return nil
}

// execute runs line and returns the command name used for metrics.
func (h *Handler) execute(ctx context.Context, line string, r *response) string {
	switch line {
	case at.CmdAt:
		r.ok()
		return "ping"

	case at.CmdVersion:
		r.line(h.version)
		r.ok()
		return "version"

	case at.CmdSoilMoist:
		if v, ok := h.readSoil(ctx, r); ok {
			r.line(strconv.Itoa(v))
			r.ok()
		}
		return "soil_moisture"

	case at.CmdCalibrateLo:
		h.calibrate(ctx, calibration.KeyMin, r)
		return "calibrate_min"

	case at.CmdCalibrateHi:
		h.calibrate(ctx, calibration.KeyMax, r)
		return "calibrate_max"

	case at.CmdPumpOff:
		h.pumpResult(h.pump.Deactivate(), r)
		return "pump_off"
	}

	if millis, ok := at.ParsePump(line); ok {
		d := time.Duration(millis) * time.Millisecond
		h.logger.Info("pump on", "duration", d)

		start := time.Now()
		err := h.pump.ActivateFor(ctx, d)
		if err == nil {
			h.metrics.pumped(time.Since(start))
		}
		h.pumpResult(err, r)
		return "pump"
	}

	r.fail(at.MsgUnknownCommand)
	return "unknown"
}

func (h *Handler) readSoil(ctx context.Context, r *response) (int, bool) {
	v, err := h.sensor.Read(ctx)
	switch {
	case errors.Is(err, hardware.ErrNotConfigured):
		r.fail(at.MsgSoilUnconfigured)
		return 0, false
	case interrupted(err):
		h.logger.Info("soil moisture read interrupted by shutdown", "error", err)
		r.fail("")
		return 0, false
	case err != nil:
		h.logger.Error("soil moisture read failed", "error", err)
		r.fail(at.MsgSoilReadFailed)
		return 0, false
	}

	h.metrics.moisture(v)
	return v, true
}

// calibrate samples the sensor and persists the sample under key. The
// in-memory threshold follows only a successful write.
func (h *Handler) calibrate(ctx context.Context, key string, r *response) {
	v, ok := h.readSoil(ctx, r)
	if !ok {
		return
	}

	if err := h.store.Save(ctx, key, v); err != nil {
		h.logger.Error("calibration not saved", "key", key, "value", v, "error", err)
		r.line(strconv.Itoa(v))
		r.fail("")
		return
	}

	switch key {
	case calibration.KeyMin:
		h.thresholds.Min = v
	case calibration.KeyMax:
		h.thresholds.Max = v
	}
	h.logger.Info("calibration saved", "key", key, "value", v)

	r.line(strconv.Itoa(v))
	r.ok()
}

func (h *Handler) pumpResult(err error, r *response) {
	switch {
	case err == nil:
		r.ok()
	case errors.Is(err, hardware.ErrNotConfigured):
		r.fail(at.MsgPumpUnconfigured)
	case interrupted(err):
		h.logger.Info("pump run interrupted by shutdown", "error", err)
		r.fail("")
	default:
		h.logger.Error("pump drive failed", "error", err)
		r.fail(at.MsgPumpDriveFailed)
	}
}

// interrupted reports whether err comes from the serving context ending
// while a command was blocked. The hardware has been switched off by then.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
