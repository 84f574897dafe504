package sqlitestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var drivers = []string{DriverModernc, DriverCgo}

func openDriver(t *testing.T, driver string) *Store {
	t.Helper()
	if driver == DriverCgo && !cgoEnabled {
		t.Skip("go-sqlite3 needs cgo")
	}
	s, err := Open(driver, filepath.Join(t.TempDir(), "tada.db"))
	require.NoError(t, err)
	return s
}

func TestUpsert(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			s := openDriver(t, driver)
			defer s.Close()

			_, ok, err := s.Get("todos")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("todos", "one"))
			require.NoError(t, s.Set("todos", "two"))

			v, ok, err := s.Get("todos")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "two", v)

			var n int
			require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
			assert.Equal(t, 1, n)
		})
	}
}

func TestReopenSharesFile(t *testing.T) {
	if !cgoEnabled {
		t.Skip("go-sqlite3 needs cgo")
	}
	path := filepath.Join(t.TempDir(), "tada.db")

	// Both drivers read and write the same file format.
	s, err := Open(DriverModernc, path)
	require.NoError(t, err)
	require.NoError(t, s.Set("todos", "written by modernc"))
	require.NoError(t, s.Close())

	s, err = Open(DriverCgo, path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "written by modernc", v)
	assert.Equal(t, path, s.Path())
}

func TestSetAfterClose(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			s := openDriver(t, driver)
			require.NoError(t, s.Close())
			assert.Error(t, s.Set("todos", "x"))
		})
	}
}
