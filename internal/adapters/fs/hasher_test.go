package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/fs"
)

func TestHasher_ComputeFileHash(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a": "same", "b": "same", "c": "other"})
	h := fs.NewHasher(fs.NewWalker())

	a, err := h.ComputeFileHash(filepath.Join(root, "a"))
	require.NoError(t, err)
	b, err := h.ComputeFileHash(filepath.Join(root, "b"))
	require.NoError(t, err)
	c, err := h.ComputeFileHash(filepath.Join(root, "c"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = h.ComputeFileHash(filepath.Join(root, "missing"))
	require.Error(t, err)
}

func TestHasher_ComputeScriptHash(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"build.go":       "//#ref io.Writer\n",
		"lib/util.go":    "package lib\n",
		"shared/a.go":    "package shared\n",
		"shared/b/b.go":  "package b\n",
		"shared/.git/HE": "ref\n",
	})
	h := fs.NewHasher(fs.NewWalker())
	script := filepath.Join(root, "build.go")
	util := filepath.Join(root, "lib", "util.go")
	shared := filepath.Join(root, "shared")

	base, err := h.ComputeScriptHash(script, []string{util, shared})
	require.NoError(t, err)
	assert.Len(t, base, 16)

	reordered, err := h.ComputeScriptHash(script, []string{shared, util, util})
	require.NoError(t, err)
	assert.Equal(t, base, reordered)

	alone, err := h.ComputeScriptHash(script, nil)
	require.NoError(t, err)
	assert.NotEqual(t, base, alone)

	require.NoError(t, os.WriteFile(filepath.Join(root, "shared", ".git", "HE"), []byte("moved\n"), 0o600))
	ignored, err := h.ComputeScriptHash(script, []string{util, shared})
	require.NoError(t, err)
	assert.Equal(t, base, ignored)

	require.NoError(t, os.WriteFile(filepath.Join(root, "shared", "b", "b.go"), []byte("package b // edited\n"), 0o600))
	edited, err := h.ComputeScriptHash(script, []string{util, shared})
	require.NoError(t, err)
	assert.NotEqual(t, base, edited)
}

func TestHasher_ComputeScriptHash_Missing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"build.go": ""})
	h := fs.NewHasher(fs.NewWalker())

	_, err := h.ComputeScriptHash(filepath.Join(root, "nope.go"), nil)
	require.Error(t, err)

	_, err = h.ComputeScriptHash(filepath.Join(root, "build.go"), []string{filepath.Join(root, "gone")})
	require.Error(t, err)
}
