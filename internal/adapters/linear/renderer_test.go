package linear_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/linear"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

var _ ports.Renderer = (*linear.Renderer)(nil)

var start = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr), &stdout, &stderr
}

func TestRenderer_TargetLifecycle(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	r.OnTargetStart("span1", "compile", start)
	r.OnTargetLog("span1", []byte("first line\nsec"))
	r.OnTargetLog("span1", []byte("ond line\r\n\npartial"))
	assert.Equal(t, "[compile] first line\n[compile] second line\n", stdout.String())

	r.OnTargetComplete("span1", start.Add(1500*time.Millisecond), nil)

	g := goldie.New(t)
	g.Assert(t, "lifecycle_stdout", stdout.Bytes())
	g.Assert(t, "lifecycle_stderr", stderr.Bytes())
}

func TestRenderer_TargetFailure(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnTargetStart("span1", "deploy", start)
	r.OnTargetComplete("span1", start.Add(250*time.Millisecond), errors.New("command failed"))

	assert.Equal(t, "[deploy] Starting...\n[deploy] ✗ Failed after 250ms: command failed\n", stderr.String())
}

func TestRenderer_UnknownSpan(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	r.OnTargetLog("missing", []byte("data\n"))
	r.OnTargetComplete("missing", start, nil)

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRenderer_FlushWritesPartialLines(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	r.OnTargetStart("a", "lint", start)
	r.OnTargetLog("a", []byte("no newline"))
	assert.Empty(t, stdout.String())

	require.NoError(t, r.Flush())
	assert.Equal(t, "[lint] no newline\n", stdout.String())

	require.NoError(t, r.Flush())
	assert.Equal(t, "[lint] no newline\n", stdout.String())
}

func TestRenderer_StopFlushes(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	require.NoError(t, r.Start(context.Background()))
	r.OnTargetStart("a", "lint", start)
	r.OnTargetLog("a", []byte("tail"))
	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	assert.Equal(t, "[lint] tail\n", stdout.String())
}

func TestRenderer_ConcurrentTargets(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Go(func() {
			id := fmt.Sprintf("span%d", i)
			r.OnTargetStart(id, fmt.Sprintf("t%d", i), start)
			for j := range 10 {
				r.OnTargetLog(id, []byte(fmt.Sprintf("line %d\n", j)))
			}
			r.OnTargetComplete(id, start.Add(time.Second), nil)
		})
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Len(t, lines, 80)
	for _, line := range lines {
		assert.Regexp(t, `^\[t\d\] line \d$`, line)
	}
}

func TestRenderer_Summary(t *testing.T) {
	tests := []struct {
		name    string
		summary domain.Summary
	}{
		{
			name: "summary_success",
			summary: domain.Summary{
				Targets: []domain.TargetResult{
					{Name: "compile", Duration: 1234 * time.Millisecond},
					{Name: "test", Duration: 300 * time.Millisecond, Notes: []string{"dependencies skipped"}},
				},
				Extras: []string{"1 dependencies allowed by the execution list"},
			},
		},
		{
			name: "summary_failed",
			summary: domain.Summary{
				Targets: []domain.TargetResult{{Name: "deploy", Duration: 2 * time.Second}},
				Err:     errors.New("boom"),
			},
		},
		{
			name: "summary_dry_run",
			summary: domain.Summary{
				Targets: []domain.TargetResult{
					{Name: "package", Notes: []string{"exec task skipped (dry run)", "action task skipped (dry run)"}},
				},
				DryRun: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stdout, stderr := newRenderer(t)
			r.OnSummary(tt.summary)

			assert.Empty(t, stdout.String())
			g := goldie.New(t)
			g.Assert(t, tt.name, stderr.Bytes())
		})
	}
}
