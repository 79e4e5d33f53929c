package fileop_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"bmpgen/fileop"

	"github.com/stretchr/testify/require"
)

func TestCheckDest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bmp")
	require.NoError(t, fileop.CheckDest(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.ErrorContains(t, fileop.CheckDest(path), "already exists")
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bmp")

	err := fileop.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("first"))
		return err
	})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "first", string(got))

	err = fileop.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("second"))
		return err
	})
	require.NoError(t, err)

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))
	requireOnlyEntry(t, dir, "out.bmp")
}

func TestWriteAtomicFailureKeepsDest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bmp")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	boom := errors.New("boom")
	err := fileop.WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "old", string(got))
	requireOnlyEntry(t, dir, "out.bmp")
}

func TestWriteAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.bmp")
	called := false
	err := fileop.WriteAtomic(path, func(io.Writer) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
}

func requireOnlyEntry(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, name, entries[0].Name())
}
