package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ChangeHandler adopts changes made by other writers.
type ChangeHandler interface {
	HandleChange(c Change) bool
}

// Value is the in-memory mirror of one persisted key. Local writes update the
// mirror and write through to the backend; adopted changes replace the mirror
// without writing. Storage failures are logged and never roll back the mirror.
type Value[T any] struct {
	key     Key[T]
	backend Backend
	log     *slog.Logger

	mu        sync.RWMutex
	current   T
	observers []func(T)
}

var _ ChangeHandler = (*Value[int])(nil)

// Open loads the current value of key from b. A nil logger means slog.Default().
func Open[T any](ctx context.Context, b Backend, key Key[T], log *slog.Logger) *Value[T] {
	if log == nil {
		log = slog.Default()
	}

	current, err := Read(ctx, b, key)
	if err != nil {
		log.Error("STORE: Failed to read key, using default", "key", key.name, "error", err)
	}

	return &Value[T]{
		key:     key,
		backend: b,
		log:     log,
		current: current,
	}
}

func (v *Value[T]) Key() string { return v.key.name }

// Get returns the current mirror.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set replaces the value and writes it through.
func (v *Value[T]) Set(ctx context.Context, val T) {
	v.mu.Lock()
	v.current = val
	v.persist(ctx, val)
	observers := v.observers
	v.mu.Unlock()

	notify(observers, val)
}

// Update replaces the value with fn applied to the current mirror and writes
// the result through. It returns the new value.
func (v *Value[T]) Update(ctx context.Context, fn func(T) T) T {
	v.mu.Lock()
	next := fn(v.current)
	v.current = next
	v.persist(ctx, next)
	observers := v.observers
	v.mu.Unlock()

	notify(observers, next)
	return next
}

// Observe registers fn to run after every local write and every adopted change.
func (v *Value[T]) Observe(fn func(T)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observers = append(v.observers, fn)
}

// HandleChange adopts c when it targets this key and carries a value that
// decodes. Removals and undecodable payloads leave the mirror untouched.
func (v *Value[T]) HandleChange(c Change) bool {
	if c.Key != v.key.name || c.NewValue == nil {
		return false
	}

	var next T
	if err := json.Unmarshal(c.NewValue, &next); err != nil {
		v.log.Error("STORE: Ignoring unparsable change",
			"key", v.key.name,
			"error", fmt.Errorf("%w: %w", ErrParse, err),
		)
		return false
	}

	v.mu.Lock()
	v.current = next
	observers := v.observers
	v.mu.Unlock()

	v.log.Debug("STORE: Adopted change from another writer", "key", v.key.name)
	notify(observers, next)
	return true
}

// persist must be called with v.mu held so writes reach the backend in the
// order they were applied to the mirror.
func (v *Value[T]) persist(ctx context.Context, val T) {
	if err := Write(ctx, v.backend, v.key, val); err != nil {
		attrs := []any{"key", v.key.name, "error", err}
		if errors.Is(err, ErrQuotaExceeded) {
			attrs = append(attrs, "quota_exceeded", true)
		}
		v.log.Error("STORE: Failed to persist value, keeping in-memory state", attrs...)
	}
}

func notify[T any](observers []func(T), val T) {
	for _, fn := range observers {
		fn(val)
	}
}
