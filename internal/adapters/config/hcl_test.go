package config_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
)

const forgeHCL = `
default = ["build"]

target "generate" {
  description = "Generates code"
  task {
    cmd = ["go", "generate", "./..."]
  }
}

target "build" {
  description = format("Builds for %s", upper(env.FORGE_TEST_OS))

  dependency "generate" {}
  dependency "lint" {
    async = true
  }

  task {
    cmd = ["go", "build", "-o", join("/", ["bin", env.FORGE_TEST_OS])]
    dir = "cmd"
    env = {
      GOOS = env.FORGE_TEST_OS
    }
  }
  task {
    cmd   = ["go", "vet"]
    async = true
  }
}

target "lint" {
  hidden = true
}
`

func TestLoader_LoadHCL(t *testing.T) {
	t.Setenv("FORGE_TEST_OS", "linux")
	loader, _ := newLoader(t, fstest.MapFS{"forge.hcl": {Data: []byte(forgeHCL)}})

	bf, err := loader.Load("/work")
	require.NoError(t, err)
	assert.Equal(t, "/work/forge.hcl", bf.Path)
	assert.Equal(t, []string{"build"}, bf.Defaults)

	want := []targetShape{
		{
			Name:        "generate",
			Description: "Generates code",
			Commands:    []domain.Command{{Args: []string{"go", "generate", "./..."}, Dir: "/work"}},
			Modes:       []domain.ExecutionMode{domain.Synchronous},
		},
		{
			Name:        "build",
			Description: "Builds for LINUX",
			Deps: []domain.Dependency{
				{Name: "generate", Mode: domain.Synchronous},
				{Name: "lint", Mode: domain.Asynchronous},
			},
			Commands: []domain.Command{
				{
					Args: []string{"go", "build", "-o", "bin/linux"},
					Dir:  "/work/cmd",
					Env:  map[string]string{"GOOS": "linux"},
				},
				{Args: []string{"go", "vet"}, Dir: "/work"},
			},
			Modes: []domain.ExecutionMode{domain.Synchronous, domain.Asynchronous},
		},
		{Name: "lint", Hidden: true},
	}
	if diff := cmp.Diff(want, shapesOf(bf), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_HCLErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "syntax", content: `target "a" {`},
		{name: "unknown attribute", content: `target "a" { colour = "red" }`},
		{name: "missing cmd", content: `target "a" { task {} }`},
		{name: "unknown variable", content: `default = [vars.name]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newLoader(t, fstest.MapFS{"forge.hcl": {Data: []byte(tt.content)}})
			_, err := loader.Load("/work")
			require.ErrorIs(t, err, domain.ErrConfigParseFailed)
		})
	}
}
