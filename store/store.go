// Package store persists typed values under string keys in a durable backend
// and keeps an in-memory mirror of each value in sync with writes made by other
// processes or tabs sharing the same backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrParse marks stored or received data that does not decode into the expected shape.
	ErrParse = errors.New("stored value does not match expected shape")
	// ErrWrite marks a durable write that could not complete.
	ErrWrite = errors.New("storage write failed")
	// ErrQuotaExceeded is returned by backends with a size limit.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Backend is a durable key-value namespace holding JSON text.
type Backend interface {
	// Get returns the stored bytes and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Change is a notification that another writer replaced the value stored
// under Key. A nil NewValue means the key was removed.
type Change struct {
	Key      string
	NewValue []byte
}

// Notifier delivers changes made by other writers sharing the same namespace.
// Changes made through the subscriber's own handle are not delivered back to it.
type Notifier interface {
	Subscribe(ctx context.Context) (<-chan Change, error)
}

// Key binds a storage key name to its value type and default.
type Key[T any] struct {
	name string
	def  func() T
}

// NewKey declares a typed key. def is called each time a fresh default is
// needed so callers never share mutable default state.
func NewKey[T any](name string, def func() T) Key[T] {
	return Key[T]{name: name, def: def}
}

func (k Key[T]) Name() string { return k.name }

// Default returns a fresh copy of the key's default value.
func (k Key[T]) Default() T {
	if k.def == nil {
		var zero T
		return zero
	}
	return k.def()
}

// Read returns the value stored under key, or its default when the key is
// absent or the stored text does not decode. Read never writes to b.
func Read[T any](ctx context.Context, b Backend, key Key[T]) (T, error) {
	data, ok, err := b.Get(ctx, key.name)
	if err != nil {
		return key.Default(), fmt.Errorf("read %q: %w", key.name, err)
	}
	if !ok {
		return key.Default(), nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return key.Default(), fmt.Errorf("read %q: %w: %w", key.name, ErrParse, err)
	}
	return v, nil
}

// Write serializes v and stores it under key.
func Write[T any](ctx context.Context, b Backend, key Key[T], v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("write %q: %w: %w", key.name, ErrWrite, err)
	}
	if err := b.Set(ctx, key.name, data); err != nil {
		return fmt.Errorf("write %q: %w: %w", key.name, ErrWrite, err)
	}
	return nil
}
