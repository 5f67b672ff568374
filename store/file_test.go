package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	tests := []struct {
		name string
		key  string
		data []byte
	}{
		{
			name: "pantry items",
			key:  "pantry_items",
			data: []byte(`[{"id":"1","name":"Olive Oil","amount":1,"unit":"bottle","category":"Oils & Vinegars","addedDate":"2024-01-08"}]`),
		},
		{
			name: "empty grocery list",
			key:  "grocery_items",
			data: []byte(`[]`),
		},
		{
			name: "key with separator",
			key:  "nested/key",
			data: []byte(`"x"`),
		},
	}

	dir := filepath.Join(t.TempDir(), "state")
	f := NewFile(dir)
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, f.Set(ctx, tt.key, tt.data))

			got, ok, err := f.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.data, got)
		})
	}

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := f.Get(ctx, "nonexistent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no temporary files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.Equal(t, ".json", filepath.Ext(e.Name()))
		}
	})

	t.Run("typed round trip", func(t *testing.T) {
		require.NoError(t, Write(ctx, f, sizeKey, 4))
		n, err := Read(ctx, f, sizeKey)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})
}
