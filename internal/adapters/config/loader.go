// Package config loads forge.yaml and forge.hcl build files.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var validTargetNameRegex = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)

// reservedTargetNames are registered by every target tree.
var reservedTargetNames = []string{"help", "tasks"}

// Loader implements ports.ConfigLoader.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a loader reading from the host filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// DiscoverPath walks up from cwd and returns the first build file found.
// Within one directory forge.yaml wins over forge.hcl.
func (l *Loader) DiscoverPath(cwd string) (string, error) {
	dir := filepath.Clean(cwd)
	for {
		for _, name := range []string{domain.BuildFileYAML, domain.BuildFileHCL} {
			candidate := filepath.Join(dir, name)
			if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "discover build file"), "cwd", cwd)
}

// Load discovers the build file from cwd and loads it.
func (l *Loader) Load(cwd string) (*domain.Buildfile, error) {
	path, err := l.DiscoverPath(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(path)
}

// LoadFile loads the build file at path. The format follows the extension.
func (l *Loader) LoadFile(path string) (*domain.Buildfile, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "path", path)
	}

	var spec *fileSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		spec, err = decodeHCL(path, data)
	default:
		spec, err = decodeYAML(data)
	}
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	bf, err := l.build(path, spec)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return bf, nil
}

// fileSpec is the format-independent content of a build file.
type fileSpec struct {
	Defaults []string
	Targets  []targetSpec
}

type targetSpec struct {
	Name        string
	Description string
	Hidden      bool
	Deps        []domain.Dependency
	Tasks       []taskSpec
}

type taskSpec struct {
	Cmd   []string
	Dir   string
	Env   map[string]string
	Async bool
}

func (l *Loader) build(path string, spec *fileSpec) (*domain.Buildfile, error) {
	root := filepath.Dir(path)
	bf := &domain.Buildfile{
		Root: root,
		Path: path,
	}

	seen := make(map[domain.TargetKey]string, len(spec.Targets))
	for _, ts := range spec.Targets {
		if err := validateTargetName(ts.Name); err != nil {
			return nil, err
		}
		key := domain.KeyOf(ts.Name)
		if first, ok := seen[key]; ok {
			err := zerr.Wrap(domain.ErrTargetAlreadyExists, "duplicate target in build file")
			err = zerr.With(err, "target", ts.Name)
			return nil, zerr.With(err, "existing", first)
		}
		seen[key] = ts.Name

		target, err := buildTarget(root, ts)
		if err != nil {
			return nil, err
		}
		bf.Targets = append(bf.Targets, target)
	}

	for _, ts := range spec.Targets {
		for _, dep := range ts.Deps {
			if _, ok := seen[domain.KeyOf(dep.Name)]; !ok {
				l.Logger.Warn(fmt.Sprintf("target %s depends on %s, which is not declared in %s",
					ts.Name, dep.Name, filepath.Base(path)))
			}
		}
	}

	for _, name := range spec.Defaults {
		if _, ok := seen[domain.KeyOf(name)]; !ok {
			err := zerr.Wrap(domain.ErrTargetNotFound, "unknown default target")
			return nil, zerr.With(err, "target", name)
		}
		bf.Defaults = append(bf.Defaults, name)
	}
	return bf, nil
}

func buildTarget(root string, ts targetSpec) (*domain.Target, error) {
	target := domain.NewTarget(ts.Name).
		SetDescription(ts.Description).
		SetHidden(ts.Hidden)

	for _, dep := range ts.Deps {
		if strings.TrimSpace(dep.Name) == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTargetName, "empty dependency name"), "target", ts.Name)
		}
		target.AddDependency(dep.Name, dep.Mode)
	}

	for i, task := range ts.Tasks {
		if len(task.Cmd) == 0 {
			err := zerr.With(zerr.Wrap(domain.ErrEmptyCommand, "invalid task"), "target", ts.Name)
			return nil, zerr.With(err, "task", i)
		}
		cmd := &domain.CommandTask{Command: domain.Command{
			Args: task.Cmd,
			Dir:  resolveDir(root, task.Dir),
			Env:  task.Env,
		}}
		if task.Async {
			target.AddTaskAsync(cmd)
		} else {
			target.AddTask(cmd)
		}
	}
	return target, nil
}

func validateTargetName(name string) error {
	if !validTargetNameRegex.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidTargetName, "invalid characters"), "target", name)
	}
	for _, reserved := range reservedTargetNames {
		if strings.EqualFold(name, reserved) {
			return zerr.With(zerr.Wrap(domain.ErrInvalidTargetName, "name is reserved"), "target", name)
		}
	}
	return nil
}

// resolveDir resolves a task directory against the build file directory.
func resolveDir(root, dir string) string {
	if dir == "" {
		return root
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Clean(filepath.Join(root, dir))
}
