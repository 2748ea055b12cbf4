package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/fs"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"b.txt":          "b",
		"dir1/a.txt":     "a",
		"dir2/c.txt":     "c",
		".git/config":    "git",
		".jj/store":      "jj",
		"vendor/x.go":    "x",
		"dir1/notes.tmp": "tmp",
	})

	got := slices.Collect(fs.NewWalker().WalkFiles(root, []string{"vendor", "*.tmp"}))
	assert.Equal(t, []string{
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "dir1", "a.txt"),
		filepath.Join(root, "dir2", "c.txt"),
	}, got)
}

func TestWalker_WalkFiles_EarlyStop(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a": "", "b": "", "c": ""})

	var got []string
	for path := range fs.NewWalker().WalkFiles(root, nil) {
		got = append(got, filepath.Base(path))
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestWalker_WalkFiles_EmptyDirectory(t *testing.T) {
	assert.Empty(t, slices.Collect(fs.NewWalker().WalkFiles(t.TempDir(), nil)))
}
