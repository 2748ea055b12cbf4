package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/adapters/detector"
)

func TestDetectWith(t *testing.T) {
	tests := []struct {
		name  string
		isTTY bool
		ci    string
		want  detector.Mode
	}{
		{name: "terminal", isTTY: true, want: detector.ModeInteractive},
		{name: "pipe", isTTY: false, want: detector.ModePlain},
		{name: "CI=true", isTTY: true, ci: "true", want: detector.ModePlain},
		{name: "CI=1", isTTY: true, ci: "1", want: detector.ModePlain},
		{name: "CI=false", isTTY: true, ci: "false", want: detector.ModeInteractive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(key string) string {
				if key == "CI" {
					return tt.ci
				}
				return ""
			}
			assert.Equal(t, tt.want, detector.DetectWith(tt.isTTY, getenv))
		})
	}
}

func TestResolveMode(t *testing.T) {
	assert.Equal(t, detector.ModeInteractive, detector.ResolveMode(detector.ModePlain, "tty"))
	assert.Equal(t, detector.ModePlain, detector.ResolveMode(detector.ModeInteractive, "ci"))
	assert.Equal(t, detector.ModePlain, detector.ResolveMode(detector.ModeInteractive, "plain"))
	assert.Equal(t, detector.ModeInteractive, detector.ResolveMode(detector.ModeInteractive, "auto"))
	assert.Equal(t, detector.ModePlain, detector.ResolveMode(detector.ModePlain, "bogus"))
	assert.Equal(t, "tty", detector.ModeInteractive.String())
}
