package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/adapters/linear"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/directive"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type testMocks struct {
	loader   *mocks.MockConfigLoader
	logger   *mocks.MockLogger
	executor *mocks.MockExecutor
}

func newProvider(t *testing.T) (ComponentProvider, testMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := testMocks{
		loader:   mocks.NewMockConfigLoader(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
	}
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	application := app.New(
		m.loader,
		scheduler.NewTree(m.logger, telemetry.NewNoopTracer(), m.executor),
		linear.NewRenderer(io.Discard, io.Discard),
		m.logger,
		directive.NewAnalyzer(mocks.NewMockTypeResolver(ctrl)),
		fs.NewHasher(fs.NewWalker()),
		mocks.NewMockWatcher(ctrl),
	).WithStdout(io.Discard)

	provider := func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: m.logger}, func() {}, nil
	}
	return provider, m
}

func failingBuild() *domain.Buildfile {
	return &domain.Buildfile{
		Root: "/work",
		Path: "/work/forge.yaml",
		Targets: []*domain.Target{
			domain.NewTarget("test").AddTask(&domain.CommandTask{Command: domain.Command{Args: []string{"false"}}}),
		},
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	provider, _ := newProvider(t)

	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that errors before the build starts are logged.
func TestRun_ExecutionError(t *testing.T) {
	provider, m := newProvider(t)
	m.loader.EXPECT().Load(gomock.Any()).Return(nil, errors.New("load failed"))
	m.logger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"run", "target"}, new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_BuildFailure verifies that a failed build exits 1 without logging the error again.
func TestRun_BuildFailure(t *testing.T) {
	provider, m := newProvider(t)
	m.loader.EXPECT().Load(gomock.Any()).Return(failingBuild(), nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ErrCommandFailed)

	exitCode := run(context.Background(), []string{"run", "test"}, new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Signal verifies that the context is canceled when the caller's context ends.
func TestRun_Signal(t *testing.T) {
	provider, m := newProvider(t)
	m.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	started := make(chan struct{})
	m.loader.EXPECT().Load(gomock.Any()).Return(failingBuild(), nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *domain.Command, _, _ io.Writer) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})

	ctx, cancel := context.WithCancel(context.Background())
	exitCh := make(chan int, 1)
	go func() {
		exitCh <- run(ctx, []string{"run", "test"}, io.Discard, provider)
	}()

	<-started
	cancel()

	select {
	case code := <-exitCh:
		assert.NotEqual(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}
