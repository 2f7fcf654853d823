package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"i4.energy/across/plantnode/client"
)

var _ Node = (*client.Client)(nil)

type fakeNode struct {
	raw    int
	pumped time.Duration
	err    error
}

func (f *fakeNode) Ping(context.Context) error                { return f.err }
func (f *fakeNode) Version(context.Context) (string, error)   { return "1.0", f.err }
func (f *fakeNode) SoilMoisture(context.Context) (int, error) { return f.raw, f.err }
func (f *fakeNode) CalibrateMin(context.Context) (int, error) { return f.raw + 1, f.err }
func (f *fakeNode) CalibrateMax(context.Context) (int, error) { return f.raw + 2, f.err }
func (f *fakeNode) PumpOff(context.Context) error             { return f.err }
func (f *fakeNode) Pump(_ context.Context, d time.Duration) error {
	f.pumped = d
	return f.err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "Ping", args: []string{"ping"}, expected: "OK\n"},
		{name: "Version", args: []string{"version"}, expected: "1.0\n"},
		{name: "Read", args: []string{"read"}, expected: "2310\n"},
		{name: "Calibrate min", args: []string{"calibrate-min"}, expected: "2311\n"},
		{name: "Calibrate max", args: []string{"calibrate-max"}, expected: "2312\n"},
		{name: "Pump", args: []string{"pump", "1500"}, expected: "OK\n"},
		{name: "Pump off", args: []string{"pump-off"}, expected: "OK\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fakeNode{raw: 2310}
			var out bytes.Buffer

			if err := run(context.Background(), n, tt.args, &out); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, out.String())
			}
		})
	}
}

func TestRunPumpDuration(t *testing.T) {
	n := &fakeNode{}
	if err := run(context.Background(), n, []string{"pump", "250"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.pumped != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", n.pumped)
	}
}

func TestRunErrors(t *testing.T) {
	t.Run("Usage", func(t *testing.T) {
		for _, args := range [][]string{{"pump"}, {"pump", "soon"}, {"water"}} {
			err := run(context.Background(), &fakeNode{}, args, &bytes.Buffer{})
			if !errors.Is(err, errUsage) {
				t.Errorf("%v: expected usage error, got: %v", args, err)
			}
		}
	})

	t.Run("Node error is passed through", func(t *testing.T) {
		n := &fakeNode{err: client.ErrNotConfigured}
		var out bytes.Buffer

		err := run(context.Background(), n, []string{"read"}, &out)
		if !errors.Is(err, client.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got: %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected no output on failure, got %q", out.String())
		}
	})
}
