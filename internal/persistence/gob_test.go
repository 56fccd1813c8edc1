package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Pool  string
	Count int
	IDs   []string
}

func TestSaveLoadGob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pool", "settings.gob")
	in := snapshot{Pool: "accra", Count: 2, IDs: []string{"c1", "c2"}}

	require.NoError(t, SaveGob(path, in))

	var out snapshot
	require.NoError(t, LoadGob(path, &out))
	assert.Equal(t, in, out)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSaveGob_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.gob")
	require.NoError(t, SaveGob(path, snapshot{Pool: "old"}))
	require.NoError(t, SaveGob(path, snapshot{Pool: "new"}))

	var out snapshot
	require.NoError(t, LoadGob(path, &out))
	assert.Equal(t, "new", out.Pool)
}

func TestLoadGob_Missing(t *testing.T) {
	var out snapshot
	err := LoadGob(filepath.Join(t.TempDir(), "absent.gob"), &out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadGob_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gob")
	require.NoError(t, os.WriteFile(path, []byte("not gob"), 0o600))

	var out snapshot
	err := LoadGob(path, &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
}
