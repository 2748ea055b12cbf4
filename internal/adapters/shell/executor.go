// Package shell runs the external commands of exec tasks.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/creack/pty"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec, with a pseudo terminal
// when running interactively.
type Executor struct {
	logger      ports.Logger
	interactive bool
	environ     func() []string

	ptyOnce sync.Once
	ptyErr  error
}

// NewExecutor creates an Executor. Interactive executors attach commands to a pty
// so tools keep their colored output.
func NewExecutor(logger ports.Logger, interactive bool) *Executor {
	return &Executor{
		logger:      logger,
		interactive: interactive,
		environ:     os.Environ,
	}
}

// Execute runs cmd and waits for it to exit.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error {
	if cmd == nil || len(cmd.Args) == 0 {
		return domain.ErrEmptyCommand
	}

	env := resolveEnvironment(e.environ(), cmd.Env)
	name := cmd.Args[0]
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // commands come from the buildfile
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env

	var err error
	if e.interactive && e.ptyAvailable() {
		err = runPTY(c, stdout)
	} else {
		err = runPiped(c, stdout, stderr)
	}
	if err != nil {
		return commandFailed(cmd, err)
	}
	return nil
}

// ptyAvailable probes once for a pseudo terminal and warns when there is none.
func (e *Executor) ptyAvailable() bool {
	e.ptyOnce.Do(func() {
		ptmx, tty, err := pty.Open()
		if err != nil {
			e.ptyErr = err
			e.logger.Warn(fmt.Sprintf("no pseudo terminal available, commands use pipes: %v", err))
			return
		}
		_ = tty.Close()
		_ = ptmx.Close()
	})
	return e.ptyErr == nil
}

// runPTY merges the command's output streams into stdout.
func runPTY(c *exec.Cmd, stdout io.Writer) error {
	ptmx, err := pty.Start(c)
	if err != nil {
		return err
	}

	out := &lineWriter{w: stdout}
	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// The read fails with EIO once the child side closes.
		_, _ = io.Copy(out, ptmx)
	}()

	err = c.Wait()
	<-ioDone
	_ = ptmx.Close()
	_ = out.Close()
	return err
}

func runPiped(c *exec.Cmd, stdout, stderr io.Writer) error {
	c.Stdout = stdout
	c.Stderr = stderr
	return c.Run()
}

func commandFailed(cmd *domain.Command, err error) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	wrapped := zerr.With(fmt.Errorf("%w: %w", domain.ErrCommandFailed, err), "command", cmd.String())
	wrapped = zerr.With(wrapped, "exit_code", exitCode)
	return domain.WithCode(wrapped, domain.CodeCommandFailed)
}

// lineWriter forwards complete lines, turning the CRLF endings a pty produces into LF.
type lineWriter struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

func (l *lineWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf = append(l.buf, p...)
	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSuffix(l.buf[:i], []byte{'\r'})
		if _, err := l.w.Write(append(slices.Clip(line), '\n')); err != nil {
			return len(p), err
		}
		l.buf = l.buf[i+1:]
	}
	return len(p), nil
}

// Close flushes a trailing partial line.
func (l *lineWriter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buf) == 0 {
		return nil
	}
	_, err := l.w.Write(bytes.TrimSuffix(l.buf, []byte{'\r'}))
	l.buf = nil
	return err
}

// allowListedEnvVars are the variables commands inherit from the forge process.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"TERM":   {},
	"USER":   {},
	"PATH":   {},
	"TMPDIR": {},
	"LANG":   {},
}

// resolveEnvironment filters sysEnv through the allow-list and applies the
// command overrides. The result is sorted by key.
func resolveEnvironment(sysEnv []string, cmdEnv map[string]string) []string {
	envMap := make(map[string]string, len(allowListedEnvVars)+len(cmdEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	for k, v := range cmdEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches the PATH of env rather than the forge process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
