package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is one handle ("tab") onto an in-memory namespace. Handles created
// with Tab share the namespace; a write through one handle is announced to the
// subscribers of every other handle.
type Memory struct {
	origin *memoryOrigin
}

type memoryOrigin struct {
	mu    sync.Mutex
	data  map[string][]byte
	quota int
	subs  map[*memorySub]struct{}
}

type memorySub struct {
	owner *Memory
	done  <-chan struct{}

	mu     sync.Mutex
	ch     chan Change
	closed bool
}

var (
	_ Backend  = (*Memory)(nil)
	_ Notifier = (*Memory)(nil)
)

// NewMemory creates a fresh namespace and returns its first handle.
func NewMemory() *Memory {
	return &Memory{origin: &memoryOrigin{
		data: make(map[string][]byte),
		subs: make(map[*memorySub]struct{}),
	}}
}

// Tab returns another handle onto the same namespace.
func (m *Memory) Tab() *Memory {
	return &Memory{origin: m.origin}
}

// SetQuota limits the total number of stored bytes. Zero disables the limit.
func (m *Memory) SetQuota(bytes int) {
	m.origin.mu.Lock()
	defer m.origin.mu.Unlock()
	m.origin.quota = bytes
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.origin.mu.Lock()
	defer m.origin.mu.Unlock()

	data, ok := m.origin.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, data []byte) error {
	m.origin.mu.Lock()
	if q := m.origin.quota; q > 0 {
		size := len(data)
		for k, v := range m.origin.data {
			if k != key {
				size += len(v)
			}
		}
		if size > q {
			m.origin.mu.Unlock()
			return fmt.Errorf("set %q (%d of %d bytes): %w", key, size, q, ErrQuotaExceeded)
		}
	}
	stored := append([]byte(nil), data...)
	m.origin.data[key] = stored
	subs := m.origin.others(m)
	m.origin.mu.Unlock()

	deliver(subs, Change{Key: key, NewValue: stored})
	return nil
}

// Delete removes key and announces the removal to the other handles.
func (m *Memory) Delete(ctx context.Context, key string) {
	m.origin.mu.Lock()
	delete(m.origin.data, key)
	subs := m.origin.others(m)
	m.origin.mu.Unlock()

	deliver(subs, Change{Key: key})
}

// Subscribe returns changes written through the other handles of this
// namespace. The channel is closed when ctx is done.
func (m *Memory) Subscribe(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, 64)
	sub := &memorySub{owner: m, ch: ch, done: ctx.Done()}

	m.origin.mu.Lock()
	m.origin.subs[sub] = struct{}{}
	m.origin.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.origin.mu.Lock()
		delete(m.origin.subs, sub)
		m.origin.mu.Unlock()

		sub.mu.Lock()
		sub.closed = true
		close(ch)
		sub.mu.Unlock()
	}()

	return ch, nil
}

func (o *memoryOrigin) others(writer *Memory) []*memorySub {
	out := make([]*memorySub, 0, len(o.subs))
	for s := range o.subs {
		if s.owner != writer {
			out = append(out, s)
		}
	}
	return out
}

func deliver(subs []*memorySub, c Change) {
	for _, s := range subs {
		s.mu.Lock()
		if !s.closed {
			select {
			case s.ch <- c:
			case <-s.done:
			}
		}
		s.mu.Unlock()
	}
}
