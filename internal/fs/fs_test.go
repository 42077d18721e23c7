package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "dimension_3")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, "sample_1.bin")
	f, err := lfs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	require.NoError(t, err)
	assert.Equal(t, path, f.Name())

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	renamed := filepath.Join(dir, "sample_2.bin")
	require.NoError(t, lfs.Rename(path, renamed))

	data, err := os.ReadFile(renamed)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, lfs.Remove(renamed))
	_, err = os.Stat(renamed)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.AddRule("limited", Fault{FailAfterBytes: 4})

	f, err := ffs.OpenFile(filepath.Join(t.TempDir(), "limited.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("abc"))
	require.NoError(t, err)

	_, err = f.Write([]byte("de"))
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFS_SyncCloseRename(t *testing.T) {
	custom := errors.New("disk full")
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("broken", Fault{FailAfterBytes: -1, FailOnSync: true, FailOnClose: true, FailOnRename: true, Err: custom})

	dir := t.TempDir()
	f, err := ffs.OpenFile(filepath.Join(dir, "broken.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("ok"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), custom)
	assert.ErrorIs(t, f.Close(), custom)

	src := filepath.Join(dir, "src.bin")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	assert.ErrorIs(t, ffs.Rename(src, filepath.Join(dir, "broken-target.bin")), custom)
}

func TestFaultyFS_NoRulePassesThrough(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.AddRule("other", Fault{FailAfterBytes: 0})

	path := filepath.Join(t.TempDir(), "plain.bin")
	f, err := ffs.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
