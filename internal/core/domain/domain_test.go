package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/mod/module"
)

func TestParseExecutionMode(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.ExecutionMode
		wantErr bool
	}{
		{in: "", want: domain.Synchronous},
		{in: "sync", want: domain.Synchronous},
		{in: "ASYNC", want: domain.Asynchronous},
		{in: " asynchronous ", want: domain.Asynchronous},
		{in: "parallel", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseExecutionMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidExecutionMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) domain.ExecutionMode {
	t.Helper()
	m, err := domain.ParseExecutionMode(s)
	require.NoError(t, err)
	return m
}

func TestTarget_FluentConfiguration(t *testing.T) {
	called := false
	tgt := domain.NewTarget("Build").
		SetDescription("compiles everything").
		DependsOn("generate").
		DependsOnAsync("lint", "vet").
		DependsOn("test").
		Do(func(context.Context, *domain.TaskContext) error {
			called = true
			return nil
		}).
		AddTaskAsync(&domain.CommandTask{Command: domain.Command{Args: []string{"echo", "hi"}}})

	assert.Equal(t, "Build", tgt.Name())
	assert.Equal(t, domain.KeyOf("build"), tgt.Key())
	assert.Equal(t, "compiles everything", tgt.Description())

	want := []domain.Dependency{
		{Name: "generate", Mode: domain.Synchronous},
		{Name: "lint", Mode: domain.Asynchronous},
		{Name: "vet", Mode: domain.Asynchronous},
		{Name: "test", Mode: domain.Synchronous},
	}
	if diff := cmp.Diff(want, tgt.Dependencies()); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}

	tasks := tgt.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.KindAction, tasks[0].Task.Kind())
	assert.Equal(t, domain.Synchronous, tasks[0].Mode)
	assert.Equal(t, domain.KindExec, tasks[1].Task.Kind())
	assert.Equal(t, domain.Asynchronous, tasks[1].Mode)

	require.NoError(t, tasks[0].Task.Execute(context.Background(), &domain.TaskContext{Target: tgt}))
	assert.True(t, called)
}

func TestTarget_Elapsed(t *testing.T) {
	tgt := domain.NewTarget("a")
	tgt.AddElapsed(2 * time.Second)
	tgt.AddElapsed(500 * time.Millisecond)
	assert.Equal(t, 2500*time.Millisecond, tgt.Elapsed())
}

func TestCommandTask_EmptyCommand(t *testing.T) {
	task := &domain.CommandTask{}
	err := task.Execute(context.Background(), &domain.TaskContext{})
	assert.ErrorIs(t, err, domain.ErrEmptyCommand)
}

func TestSession_Allows(t *testing.T) {
	open := domain.Session{}
	assert.False(t, open.Restricted())
	assert.True(t, open.Allows("anything"))

	restricted := domain.Session{TargetsToExecute: []string{"Compile", "test"}}
	assert.True(t, restricted.Restricted())
	assert.True(t, restricted.Allows("compile"))
	assert.True(t, restricted.Allows("TEST"))
	assert.False(t, restricted.Allows("deploy"))
}

func TestKeyOf_CaseInsensitive(t *testing.T) {
	assert.Equal(t, domain.KeyOf("Build"), domain.KeyOf("bUILD"))
	assert.Equal(t, "build", domain.KeyOf("BUILD").String())
	assert.NotEqual(t, domain.KeyOf("build"), domain.KeyOf("test"))
	assert.True(t, domain.TargetKey{}.IsZero())
	assert.False(t, domain.KeyOf("x").IsZero())

	keys := domain.KeysOf([]string{"A", "b"})
	assert.Equal(t, []string{"a", "b"}, []string{keys[0].String(), keys[1].String()})
}

func TestDetectCycle(t *testing.T) {
	edgesFrom := func(graph map[string][]string) domain.EdgeFunc {
		return func(name string) ([]domain.Dependency, bool) {
			deps, ok := graph[name]
			if !ok {
				return nil, false
			}
			out := make([]domain.Dependency, len(deps))
			for i, d := range deps {
				out[i] = domain.Dependency{Name: d}
			}
			return out, true
		}
	}

	tests := []struct {
		name      string
		graph     map[string][]string
		roots     []string
		wantCycle string
	}{
		{
			name:  "diamond is acyclic",
			graph: map[string][]string{"A": {"B", "C"}, "B": {"D"}, "C": {"D"}, "D": nil},
			roots: []string{"A"},
		},
		{
			name:      "self loop",
			graph:     map[string][]string{"A": {"A"}},
			roots:     []string{"A"},
			wantCycle: "A -> A",
		},
		{
			name:      "three node cycle",
			graph:     map[string][]string{"A": {"B"}, "B": {"C"}, "C": {"A"}},
			roots:     []string{"A"},
			wantCycle: "A -> B -> C -> A",
		},
		{
			name:  "unknown dependency is a leaf",
			graph: map[string][]string{"A": {"missing"}},
			roots: []string{"A"},
		},
		{
			name:  "cycle outside roots is ignored",
			graph: map[string][]string{"A": nil, "X": {"Y"}, "Y": {"X"}},
			roots: []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.DetectCycle(tt.roots, edgesFrom(tt.graph))
			if tt.wantCycle == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrCycleDetected)
			assert.Equal(t, domain.CodeCycleDetected, domain.CodeOf(err))

			var z *zerr.Error
			require.ErrorAs(t, err, &z)
			assert.Equal(t, tt.wantCycle, z.Metadata()["cycle"])
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, domain.ErrorCode(""), domain.CodeOf(nil))
	assert.Equal(t, domain.ErrorCode(""), domain.CodeOf(errors.New("plain")))

	coded := domain.WithCode(zerr.Wrap(domain.ErrTargetNotOnExecutionList, "blocked"), domain.CodeTargetNotOnExecutionList)
	wrapped := zerr.Wrap(coded, "outer")
	joined := errors.Join(errors.New("other"), wrapped)

	assert.Equal(t, domain.CodeTargetNotOnExecutionList, domain.CodeOf(coded))
	assert.Equal(t, domain.CodeTargetNotOnExecutionList, domain.CodeOf(wrapped))
	assert.Equal(t, domain.CodeTargetNotOnExecutionList, domain.CodeOf(joined))
	assert.ErrorIs(t, joined, domain.ErrTargetNotOnExecutionList)
}

func TestScriptAnalyzerResult(t *testing.T) {
	res := domain.NewScriptAnalyzerResult()

	ref := domain.Reference{ImportPath: "example.com/lib", TypeName: "Thing"}
	assert.True(t, res.AddReference(ref))
	assert.False(t, res.AddReference(ref))
	assert.True(t, res.AddReference(domain.Reference{ImportPath: "example.com/lib", TypeName: "Other"}))
	assert.Len(t, res.References, 2)

	res.AddRequirement(module.Version{Path: "example.com/lib", Version: "v1.2.0"})
	res.AddRequirement(module.Version{Path: "example.com/lib", Version: "v1.1.0"})
	res.AddRequirement(module.Version{Path: "example.com/lib", Version: "v1.3.0"})
	assert.Equal(t, []module.Version{{Path: "example.com/lib", Version: "v1.3.0"}}, res.Requirements)

	res.AddInclude("helpers.go")
	res.AddInclude("helpers.go")
	assert.Equal(t, []string{"helpers.go"}, res.Includes)
}
