package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()

	file, err := NewFile(filepath.Join(t.TempDir(), "nested", "store"))
	require.NoError(t, err)

	return map[string]Storage{
		"memory":   NewMemory(),
		"file":     file,
		"prefixed": WithPrefix(NewMemory(), "session:abc:"),
	}
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "cart")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "cart", []byte(`[{"cartItemId":"1MRed"}]`)))
			got, err := s.Get(ctx, "cart")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"cartItemId":"1MRed"}]`, string(got))

			require.NoError(t, s.Set(ctx, "cart", []byte(`[]`)))
			got, err = s.Get(ctx, "cart")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(got))

			require.NoError(t, s.Delete(ctx, "cart"))
			_, err = s.Get(ctx, "cart")
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting a missing key is not an error
			assert.NoError(t, s.Delete(ctx, "cart"))
			assert.NoError(t, Ping(ctx, s))
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestFile_EscapesKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set(ctx, "session:a/b:cart", []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")

	got, err := f.Get(ctx, "session:a/b:cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestPrefixed_NamespacesKeys(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	a := WithPrefix(base, "session:a:")
	b := WithPrefix(base, "session:b:")

	require.NoError(t, a.Set(ctx, "cart", []byte("A")))
	require.NoError(t, b.Set(ctx, "cart", []byte("B")))

	got, err := a.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "A", string(got))
	assert.ElementsMatch(t, []string{"session:a:cart", "session:b:cart"}, base.Keys())
}
