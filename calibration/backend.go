package calibration

import (
	"context"
	"errors"
)

var (
	// ErrNamespaceNotFound is returned when a namespace is opened read-only
	// before anything has been written to it.
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrReadOnly is returned when writing to a namespace opened read-only.
	ErrReadOnly = errors.New("namespace opened read-only")

	// ErrNamespaceClosed is returned when a namespace is used after End.
	ErrNamespaceClosed = errors.New("namespace already ended")
)

// Backend is a persistent key-value store partitioned into namespaces.
type Backend interface {
	// Begin opens namespace. A read-only namespace that does not exist yet
	// cannot be opened.
	Begin(ctx context.Context, namespace string, readOnly bool) (Namespace, error)
}

// Namespace is an open partition of a Backend. Writes are committed when
// they return.
type Namespace interface {
	// GetInt returns the value stored under key, or def if key is absent.
	GetInt(key string, def int) (int, error)
	// PutInt stores value under key.
	PutInt(key string, value int) error
	// End closes the namespace.
	End() error
}
