package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"go.trai.ch/forge/internal/core/domain"
)

// hclFile is the top-level structure of forge.hcl.
type hclFile struct {
	Default []string     `hcl:"default,optional"`
	Targets []*hclTarget `hcl:"target,block"`
}

type hclTarget struct {
	Name         string           `hcl:"name,label"`
	Description  string           `hcl:"description,optional"`
	Hidden       bool             `hcl:"hidden,optional"`
	Dependencies []*hclDependency `hcl:"dependency,block"`
	Tasks        []*hclTask       `hcl:"task,block"`
}

type hclDependency struct {
	Target string `hcl:"target,label"`
	Async  bool   `hcl:"async,optional"`
}

type hclTask struct {
	Cmd   []string          `hcl:"cmd"`
	Dir   string            `hcl:"dir,optional"`
	Env   map[string]string `hcl:"env,optional"`
	Async bool              `hcl:"async,optional"`
}

func decodeHCL(path string, data []byte) (*fileSpec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, diags)
	}

	var root hclFile
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, diags)
	}

	spec := &fileSpec{Defaults: root.Default}
	for _, t := range root.Targets {
		ts := targetSpec{
			Name:        t.Name,
			Description: t.Description,
			Hidden:      t.Hidden,
		}
		for _, dep := range t.Dependencies {
			mode := domain.Synchronous
			if dep.Async {
				mode = domain.Asynchronous
			}
			ts.Deps = append(ts.Deps, domain.Dependency{Name: dep.Target, Mode: mode})
		}
		for _, task := range t.Tasks {
			ts.Tasks = append(ts.Tasks, taskSpec(*task))
		}
		spec.Targets = append(spec.Targets, ts)
	}
	return spec, nil
}

// evalContext exposes the process environment as env.NAME and a few string functions.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}

	env := cty.MapValEmpty(cty.String)
	if len(vars) > 0 {
		env = cty.MapVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
		Functions: map[string]function.Function{
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"join":     stdlib.JoinFunc,
			"concat":   stdlib.ConcatFunc,
			"format":   stdlib.FormatFunc,
			"coalesce": stdlib.CoalesceFunc,
		},
	}
}
