package config

import (
	"fmt"
	"slices"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only build file schema version understood by the loader.
const SupportedVersion = "1"

// Forgefile is the structure of forge.yaml.
type Forgefile struct {
	Version string                `yaml:"version"`
	Default StringList            `yaml:"default"`
	Targets map[string]*TargetDTO `yaml:"targets"`
}

// TargetDTO is a target definition in forge.yaml.
type TargetDTO struct {
	Description string          `yaml:"description"`
	Hidden      bool            `yaml:"hidden"`
	DependsOn   []DependencyDTO `yaml:"dependsOn"`
	Tasks       []TaskDTO       `yaml:"tasks"`
}

// DependencyDTO is an entry of dependsOn: either a plain target name or
// a mapping with target and async keys.
type DependencyDTO struct {
	Target string `yaml:"target"`
	Async  bool   `yaml:"async"`
}

// UnmarshalYAML accepts a scalar name or a mapping.
func (d *DependencyDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Target = node.Value
		d.Async = false
		return nil
	}

	type plain DependencyDTO
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = DependencyDTO(p)
	return nil
}

// TaskDTO is an external command run by a target.
type TaskDTO struct {
	Cmd   []string          `yaml:"cmd"`
	Dir   string            `yaml:"dir"`
	Env   map[string]string `yaml:"env"`
	Async bool              `yaml:"async"`
}

// StringList decodes either a single string or a sequence of strings.
type StringList []string

// UnmarshalYAML accepts a scalar or a sequence.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = StringList{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

func decodeYAML(data []byte) (*fileSpec, error) {
	var file Forgefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err)
	}
	if file.Version != "" && file.Version != SupportedVersion {
		err := zerr.Wrap(domain.ErrConfigParseFailed, "unsupported version")
		return nil, zerr.With(err, "version", file.Version)
	}

	spec := &fileSpec{Defaults: file.Default}

	// Map order is lost in YAML decoding, so targets are declared by name.
	names := make([]string, 0, len(file.Targets))
	for name := range file.Targets {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		dto := file.Targets[name]
		if dto == nil {
			dto = &TargetDTO{}
		}

		ts := targetSpec{
			Name:        name,
			Description: dto.Description,
			Hidden:      dto.Hidden,
		}
		for _, dep := range dto.DependsOn {
			mode := domain.Synchronous
			if dep.Async {
				mode = domain.Asynchronous
			}
			ts.Deps = append(ts.Deps, domain.Dependency{Name: dep.Target, Mode: mode})
		}
		for _, task := range dto.Tasks {
			ts.Tasks = append(ts.Tasks, taskSpec(task))
		}
		spec.Targets = append(spec.Targets, ts)
	}
	return spec, nil
}
