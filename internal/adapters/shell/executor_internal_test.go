package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		sysEnv   []string
		cmdEnv   map[string]string
		expected []string
	}{
		{
			name:     "allowed variables pass",
			sysEnv:   []string{"USER=test", "PATH=/bin", "HOME=/home/test"},
			expected: []string{"HOME=/home/test", "PATH=/bin", "USER=test"},
		},
		{
			name:     "others are filtered",
			sysEnv:   []string{"USER=test", "SSH_AUTH_SOCK=/tmp/ssh", "SECRET=key", "malformed"},
			expected: []string{"USER=test"},
		},
		{
			name:     "command overrides win",
			sysEnv:   []string{"USER=test", "PATH=/bin"},
			cmdEnv:   map[string]string{"USER": "forge", "GOOS": "linux"},
			expected: []string{"GOOS=linux", "PATH=/bin", "USER=forge"},
		},
		{
			name:     "command PATH replaces system PATH",
			sysEnv:   []string{"PATH=/bin"},
			cmdEnv:   map[string]string{"PATH": "/custom/bin"},
			expected: []string{"PATH=/custom/bin"},
		},
		{
			name:     "empty",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveEnvironment(tt.sysEnv, tt.cmdEnv))
		})
	}
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o755)) //nolint:gosec // test executable
	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, []byte("data"), 0o600))

	got, err := lookPath("tool", []string{"USER=test", "PATH=/nonexistent:" + dir})
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = lookPath("plain", []string{"PATH=" + dir})
	require.Error(t, err)

	_, err = lookPath("tool", []string{"USER=test"})
	require.Error(t, err)

	_, err = lookPath("missing", []string{"PATH=:" + dir})
	require.Error(t, err)
}

func TestFindExecutable_Directory(t *testing.T) {
	assert.ErrorIs(t, findExecutable(t.TempDir()), os.ErrPermission)
	assert.Error(t, findExecutable("/nonexistent/file"))
}

func TestLineWriter(t *testing.T) {
	var out bytes.Buffer
	w := &lineWriter{w: &out}

	_, err := w.Write([]byte("one\r\ntw"))
	require.NoError(t, err)
	assert.Equal(t, "one\n", out.String())

	_, err = w.Write([]byte("o\r\nthree"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", out.String())

	require.NoError(t, w.Close())
	assert.Equal(t, "one\ntwo\nthree", out.String())
	require.NoError(t, w.Close())
}
