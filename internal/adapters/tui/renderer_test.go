package tui_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/detector"
	"go.trai.ch/forge/internal/adapters/linear"
	"go.trai.ch/forge/internal/adapters/tui"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

var _ ports.Renderer = (*tui.Renderer)(nil)

func headlessOptions(input string) []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithInput(strings.NewReader(input)),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	}
}

func TestRenderer_Build(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out, summary bytes.Buffer
	model := tui.NewModel()
	r := tui.NewRenderer(model, linear.NewRenderer(io.Discard, &summary), &out, headlessOptions("")...)

	require.NoError(t, r.Start(context.Background()))
	r.OnTargetStart("s1", "compile", start)
	r.OnTargetLog("s1", []byte("compiled\n"))
	r.OnTargetComplete("s1", start.Add(time.Second), nil)
	r.OnTargetStart("s2", "test", start)
	r.OnTargetLog("s2", []byte("boom\n"))
	r.OnTargetComplete("s2", start.Add(time.Second), errors.New("exit status 1"))
	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	require.Len(t, model.Targets, 2)
	assert.Equal(t, tui.StatusDone, model.Targets[0].Status)
	assert.Equal(t, tui.StatusError, model.Targets[1].Status)

	r.OnSummary(domain.Summary{
		Targets: []domain.TargetResult{{Name: "compile"}, {Name: "test"}},
		Err:     domain.ErrTargetExecutionFailed,
	})
	require.NoError(t, r.Flush())

	assert.Contains(t, out.String(), "FAILED: test")
	assert.Contains(t, out.String(), "boom")
	assert.NotContains(t, out.String(), "compiled")
	assert.Contains(t, summary.String(), "BUILD FAILED")
}

func TestRenderer_RestartsPerBuild(t *testing.T) {
	model := tui.NewModel()
	r := tui.NewRenderer(model, linear.NewRenderer(io.Discard, io.Discard), io.Discard, headlessOptions("")...)

	for _, name := range []string{"first", "second"} {
		require.NoError(t, r.Start(context.Background()))
		r.OnTargetStart(name, name, start)
		require.NoError(t, r.Stop())
		require.NoError(t, r.Wait())

		require.Len(t, model.Targets, 1)
		assert.Equal(t, name, model.Targets[0].Name)
	}
}

func TestRenderer_UserQuit(t *testing.T) {
	r := tui.NewRenderer(tui.NewModel(), linear.NewRenderer(io.Discard, io.Discard), io.Discard, headlessOptions("q")...)

	require.NoError(t, r.Start(context.Background()))
	require.ErrorIs(t, r.Wait(), domain.ErrInterrupted)
	require.NoError(t, r.Stop())
}

func TestRenderer_ContextCancelled(t *testing.T) {
	r := tui.NewRenderer(tui.NewModel(), linear.NewRenderer(io.Discard, io.Discard), io.Discard, headlessOptions("")...)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, r.Start(ctx))
	cancel()
	require.NoError(t, r.Wait())
}

func TestRenderer_EventsBeforeStart(t *testing.T) {
	r := tui.NewRenderer(tui.NewModel(), linear.NewRenderer(io.Discard, io.Discard), io.Discard)

	r.OnTargetStart("s1", "compile", start)
	r.OnTargetComplete("s1", start, nil)
	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())
}

func TestSelect(t *testing.T) {
	plain := linear.NewRenderer(io.Discard, io.Discard)

	assert.Same(t, plain, tui.Select(detector.ModePlain, plain))
	assert.IsType(t, &tui.Renderer{}, tui.Select(detector.ModeInteractive, plain))
}
