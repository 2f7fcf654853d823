package calibration_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"i4.energy/across/plantnode/calibration"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func openSQLite(t *testing.T, path string) *calibration.SQLite {
	t.Helper()
	db, err := calibration.OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open sqlite backend: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// failingBackend refuses to open any namespace.
type failingBackend struct{ err error }

func (b failingBackend) Begin(context.Context, string, bool) (calibration.Namespace, error) {
	return nil, b.err
}

func TestStoreLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Fresh store yields defaults", func(t *testing.T) {
		db := openSQLite(t, filepath.Join(t.TempDir(), "node.db"))

		got := calibration.NewStore(db, discard).Load(ctx)
		if got != calibration.Defaults() {
			t.Errorf("expected defaults %+v, got %+v", calibration.Defaults(), got)
		}
		if got.Min != calibration.DefaultMinSoilMoisture || got.Max != calibration.DefaultMaxSoilMoisture {
			t.Errorf("unexpected default values %+v", got)
		}
	})

	t.Run("Unopenable namespace yields defaults", func(t *testing.T) {
		store := calibration.NewStore(failingBackend{err: errors.New("flash corrupted")}, discard)

		if got := store.Load(ctx); got != calibration.Defaults() {
			t.Errorf("expected defaults, got %+v", got)
		}
	})

	t.Run("Each key falls back independently", func(t *testing.T) {
		db := openSQLite(t, filepath.Join(t.TempDir(), "node.db"))
		store := calibration.NewStore(db, discard)

		if err := store.Save(ctx, calibration.KeyMax, 1234); err != nil {
			t.Fatalf("unexpected save error: %v", err)
		}

		got := store.Load(ctx)
		if got.Min != calibration.DefaultMinSoilMoisture {
			t.Errorf("expected default min, got %d", got.Min)
		}
		if got.Max != 1234 {
			t.Errorf("expected saved max 1234, got %d", got.Max)
		}
	})
}

func TestStoreSaveSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "node.db")

	first, err := calibration.OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open sqlite backend: %v", err)
	}
	store := calibration.NewStore(first, discard)
	if err := store.Save(ctx, calibration.KeyMin, 2870); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if err := store.Save(ctx, calibration.KeyMax, 1410); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if err := store.Save(ctx, calibration.KeyMin, 2900); err != nil {
		t.Fatalf("unexpected overwrite error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	reopened := openSQLite(t, path)
	got := calibration.NewStore(reopened, discard).Load(ctx)
	if got.Min != 2900 || got.Max != 1410 {
		t.Errorf("expected {2900 1410} after restart, got %+v", got)
	}
}

func TestStoreSaveBackendError(t *testing.T) {
	openErr := errors.New("flash corrupted")
	store := calibration.NewStore(failingBackend{err: openErr}, discard)

	if err := store.Save(context.Background(), calibration.KeyMin, 1); !errors.Is(err, openErr) {
		t.Errorf("expected wrapped open error, got: %v", err)
	}
}

func TestSQLiteNamespace(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t, filepath.Join(t.TempDir(), "node.db"))

	t.Run("Read-only begin of an empty namespace fails", func(t *testing.T) {
		_, err := db.Begin(ctx, "empty", true)
		if !errors.Is(err, calibration.ErrNamespaceNotFound) {
			t.Errorf("expected ErrNamespaceNotFound, got: %v", err)
		}
	})

	t.Run("Writes are isolated per namespace", func(t *testing.T) {
		a, err := db.Begin(ctx, "a", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := a.PutInt("k", 7); err != nil {
			t.Fatalf("unexpected put error: %v", err)
		}
		a.End()

		b, err := db.Begin(ctx, "b", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer b.End()
		v, err := b.GetInt("k", -1)
		if err != nil {
			t.Fatalf("unexpected get error: %v", err)
		}
		if v != -1 {
			t.Errorf("expected key to be absent in namespace b, got %d", v)
		}
	})

	t.Run("Read-only namespace rejects writes", func(t *testing.T) {
		ns, err := db.Begin(ctx, "a", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer ns.End()

		if err := ns.PutInt("k", 8); !errors.Is(err, calibration.ErrReadOnly) {
			t.Errorf("expected ErrReadOnly, got: %v", err)
		}
		if v, _ := ns.GetInt("k", -1); v != 7 {
			t.Errorf("expected stored value 7, got %d", v)
		}
	})

	t.Run("Ended namespace is unusable", func(t *testing.T) {
		ns, err := db.Begin(ctx, "a", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := ns.End(); err != nil {
			t.Fatalf("unexpected end error: %v", err)
		}

		if err := ns.PutInt("k", 9); !errors.Is(err, calibration.ErrNamespaceClosed) {
			t.Errorf("expected ErrNamespaceClosed from PutInt, got: %v", err)
		}
		if _, err := ns.GetInt("k", -1); !errors.Is(err, calibration.ErrNamespaceClosed) {
			t.Errorf("expected ErrNamespaceClosed from GetInt, got: %v", err)
		}
		if err := ns.End(); !errors.Is(err, calibration.ErrNamespaceClosed) {
			t.Errorf("expected ErrNamespaceClosed from second End, got: %v", err)
		}
	})
}

func TestStoreLayout(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t, filepath.Join(t.TempDir(), "node.db"))

	if calibration.PreferencesNamespace != "plant-watering" {
		t.Fatalf("unexpected namespace %q", calibration.PreferencesNamespace)
	}

	if err := calibration.NewStore(db, discard).Save(ctx, calibration.KeyMin, 2870); err != nil {
		t.Fatalf("unexpected error from Save(): %v", err)
	}

	ns, err := db.Begin(ctx, calibration.PreferencesNamespace, true)
	if err != nil {
		t.Fatalf("expected saved namespace to exist, got: %v", err)
	}
	defer ns.End()

	v, err := ns.GetInt("minsoilm", -1)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if v != 2870 {
		t.Errorf("expected minsoilm 2870, got %d", v)
	}
}
