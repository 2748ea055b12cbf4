package watcher

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/ports"
)

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want ports.WatchOp
		ok   bool
	}{
		{op: fsnotify.Write, want: ports.OpWrite, ok: true},
		{op: fsnotify.Create, want: ports.OpCreate, ok: true},
		{op: fsnotify.Remove, want: ports.OpRemove, ok: true},
		{op: fsnotify.Rename, want: ports.OpRename, ok: true},
		{op: fsnotify.Create | fsnotify.Write, want: ports.OpWrite, ok: true},
		{op: fsnotify.Chmod, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, ok := convertEvent(fsnotify.Event{Name: "/x", Op: tt.op})
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, ports.WatchEvent{Path: "/x", Operation: tt.want}, got)
			}
		})
	}
}

func TestDirectoriesSkipsIgnored(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src/pkg", ".git/objects", "node_modules/lib", ".forge"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o750))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), nil, 0o600))

	got := slices.Collect(directories(root))
	assert.Equal(t, []string{root, filepath.Join(root, "src"), filepath.Join(root, "src", "pkg")}, got)
}
