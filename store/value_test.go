package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type basket struct {
	Items []string `json:"items"`
	Limit int      `json:"limit"`
}

var (
	sizeKey   = NewKey("household_size", func() int { return 2 })
	tagsKey   = NewKey("dietary_restrictions", func() []string { return []string{} })
	basketKey = NewKey("basket", func() basket { return basket{Items: []string{}, Limit: 10} })
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func TestRead_AbsentReturnsDefaultWithoutWriting(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	size, err := Read(ctx, mem, sizeKey)
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	tags, err := Read(ctx, mem, tagsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{}, tags)

	b, err := Read(ctx, mem, basketKey)
	require.NoError(t, err)
	assert.Equal(t, basket{Items: []string{}, Limit: 10}, b)

	for _, key := range []string{sizeKey.Name(), tagsKey.Name(), basketKey.Name()} {
		_, ok, err := mem.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "read of %q must not write", key)
	}
}

func TestRead_UnparsableReturnsDefault(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Set(ctx, sizeKey.Name(), []byte("not json")))

	size, err := Read(ctx, mem, sizeKey)
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, 2, size)

	data, _, _ := mem.Get(ctx, sizeKey.Name())
	assert.Equal(t, []byte("not json"), data, "stored text is left as is")
}

func TestWriteRead_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, Write(ctx, mem, sizeKey, 5))
	require.NoError(t, Write(ctx, mem, tagsKey, []string{"vegan", "gluten free"}))
	require.NoError(t, Write(ctx, mem, basketKey, basket{Items: []string{"eggs"}, Limit: 3}))

	size, err := Read(ctx, mem, sizeKey)
	require.NoError(t, err)
	assert.Equal(t, 5, size)

	tags, err := Read(ctx, mem, tagsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan", "gluten free"}, tags)

	b, err := Read(ctx, mem, basketKey)
	require.NoError(t, err)
	assert.Equal(t, basket{Items: []string{"eggs"}, Limit: 3}, b)
}

func TestKey_DefaultIsFresh(t *testing.T) {
	a := tagsKey.Default()
	a = append(a, "mutated")
	assert.Equal(t, []string{}, tagsKey.Default())
	assert.Len(t, a, 1)

	var unset Key[int]
	assert.Equal(t, 0, unset.Default())
}

func TestValue_SetAndUpdate(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	log, _ := newTestLogger()

	v := Open(ctx, mem, sizeKey, log)
	assert.Equal(t, 2, v.Get())
	assert.Equal(t, "household_size", v.Key())

	v.Set(ctx, 4)
	assert.Equal(t, 4, v.Get())
	data, ok, err := mem.Get(ctx, sizeKey.Name())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "4", string(data))

	got := v.Update(ctx, func(n int) int { return n + 1 })
	assert.Equal(t, 5, got)
	assert.Equal(t, 5, v.Get())

	reopened := Open(ctx, mem, sizeKey, log)
	assert.Equal(t, 5, reopened.Get())
}

func TestValue_WriteFailureKeepsMirror(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	mem.SetQuota(8)
	log, buf := newTestLogger()

	v := Open(ctx, mem, tagsKey, log)
	v.Set(ctx, []string{"pescatarian", "dairy free"})

	assert.Equal(t, []string{"pescatarian", "dairy free"}, v.Get())
	_, ok, _ := mem.Get(ctx, tagsKey.Name())
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "Failed to persist value")
	assert.Contains(t, buf.String(), "quota_exceeded=true")
}

func TestValue_ObserveSeesLocalWrites(t *testing.T) {
	ctx := context.Background()
	v := Open(ctx, NewMemory(), sizeKey, nil)

	var seen []int
	v.Observe(func(n int) { seen = append(seen, n) })

	v.Set(ctx, 3)
	v.Update(ctx, func(n int) int { return n * 2 })
	assert.Equal(t, []int{3, 6}, seen)
}

func TestValue_HandleChange(t *testing.T) {
	tests := []struct {
		name    string
		change  Change
		adopted bool
		want    basket
		logged  string
	}{
		{
			name:    "matching key with valid payload",
			change:  Change{Key: "basket", NewValue: []byte(`{"items":["milk"],"limit":4}`)},
			adopted: true,
			want:    basket{Items: []string{"milk"}, Limit: 4},
		},
		{
			name:   "other key",
			change: Change{Key: "household_size", NewValue: []byte(`7`)},
			want:   basket{Items: []string{}, Limit: 10},
		},
		{
			name:   "removal",
			change: Change{Key: "basket"},
			want:   basket{Items: []string{}, Limit: 10},
		},
		{
			name:   "unparsable payload",
			change: Change{Key: "basket", NewValue: []byte(`{"items":`)},
			want:   basket{Items: []string{}, Limit: 10},
			logged: "Ignoring unparsable change",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := newTestLogger()
			v := Open(context.Background(), NewMemory(), basketKey, log)

			assert.Equal(t, tt.adopted, v.HandleChange(tt.change))
			assert.Equal(t, tt.want, v.Get())
			if tt.logged != "" {
				assert.Contains(t, buf.String(), tt.logged)
			}
		})
	}
}

func TestListen_AdoptsChangesFromOtherTab(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tabA := NewMemory()
	tabB := tabA.Tab()
	log, _ := newTestLogger()

	sizeA := Open(ctx, tabA, sizeKey, log)
	sizeB := Open(ctx, tabB, sizeKey, log)
	tagsB := Open(ctx, tabB, tagsKey, log)

	adopted := make(chan int, 4)
	sizeB.Observe(func(n int) { adopted <- n })

	done := make(chan error, 1)
	ready := make(chan struct{})
	go func() {
		changes, err := tabB.Subscribe(ctx)
		if err != nil {
			done <- err
			return
		}
		close(ready)
		for c := range changes {
			sizeB.HandleChange(c)
			tagsB.HandleChange(c)
		}
		done <- nil
	}()
	<-ready

	sizeA.Set(ctx, 6)

	select {
	case n := <-adopted:
		assert.Equal(t, 6, n)
	case <-time.After(time.Second):
		t.Fatal("change was not delivered to the other tab")
	}
	assert.Equal(t, 6, sizeB.Get())
	assert.Equal(t, []string{}, tagsB.Get())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("subscription did not close")
	}
}

func TestListen_ReturnsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tab := NewMemory()
	v := Open(ctx, tab, sizeKey, nil)

	errc := make(chan error, 1)
	go func() { errc <- Listen(ctx, tab.Tab(), v) }()

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Listen did not return")
	}
}
