package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), DriverModernc, filepath.Join(t.TempDir(), "nested", "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStores_RoundTrip(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"sqlite": func(t *testing.T) Store { return openTestSQLite(t) },
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok, "absent key should report ok=false")

			require.NoError(t, s.Set(ctx, "k", []byte("v1")))
			require.NoError(t, s.Set(ctx, "k", []byte("v2")))

			got, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v2", string(got), "Set should overwrite")
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := OpenSQLite(ctx, "", path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "powershell-scripts", []byte(`{"a":1}`)))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(ctx, "", path)
	require.NoError(t, err)
	defer s2.Close()

	got, ok, err := s2.Get(ctx, "powershell-scripts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(got))
}

func TestOpenSQLite_UnsupportedDriver(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "postgres", filepath.Join(t.TempDir(), "kv.db"))
	assert.Error(t, err)
}

func TestClosedStores(t *testing.T) {
	ctx := context.Background()

	m := NewMemory()
	require.NoError(t, m.Close())
	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set(ctx, "k", nil), ErrClosed)

	s := openTestSQLite(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "double close should be a no-op")
	assert.ErrorIs(t, s.Set(ctx, "k", nil), ErrClosed)
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
