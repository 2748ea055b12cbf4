package directive

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/mod/module"
)

// ModuleMarker starts a module requirement directive:
//
//	//#mod example.com/lib@v1.2.3
//	//#mod example.com/lib v1.2.3
const ModuleMarker = "//#mod"

// ModuleProcessor records the module requirements of a script.
type ModuleProcessor struct{}

// NewModuleProcessor creates a ModuleProcessor.
func NewModuleProcessor() *ModuleProcessor {
	return &ModuleProcessor{}
}

// Matches reports whether line is a //#mod directive.
func (p *ModuleProcessor) Matches(line string) bool {
	return hasMarker(line, ModuleMarker)
}

// Process validates the requirement and adds it to result.
func (p *ModuleProcessor) Process(
	_ context.Context,
	result *domain.ScriptAnalyzerResult,
	line string,
	_ int,
) error {
	arg, ok := argument(line, ModuleMarker)
	if !ok {
		return nil
	}

	req, err := parseRequirement(arg)
	if err != nil {
		return zerr.With(err, "requirement", arg)
	}
	result.AddRequirement(req)
	return nil
}

func parseRequirement(arg string) (module.Version, error) {
	var path, version string
	if fields := strings.Fields(arg); len(fields) > 1 {
		path, version = fields[0], fields[1]
	} else if i := strings.LastIndexByte(arg, '@'); i > 0 {
		path, version = arg[:i], arg[i+1:]
	} else {
		path = arg
	}

	if version == "" {
		return module.Version{}, zerr.Wrap(domain.ErrInvalidModuleDirective, "missing version")
	}
	if err := module.Check(path, version); err != nil {
		return module.Version{}, fmt.Errorf("%w: %w", domain.ErrInvalidModuleDirective, err)
	}
	return module.Version{Path: path, Version: version}, nil
}
