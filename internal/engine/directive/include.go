package directive

import (
	"context"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
)

// IncludeMarker starts a directive naming an extra source file to compile with the script:
//
//	//#imp ./helpers.go
const IncludeMarker = "//#imp"

// IncludeProcessor records extra source files. Paths are kept as written;
// Analyzer.AnalyzeFile resolves them against the script directory.
type IncludeProcessor struct{}

// NewIncludeProcessor creates an IncludeProcessor.
func NewIncludeProcessor() *IncludeProcessor {
	return &IncludeProcessor{}
}

// Matches reports whether line is a //#imp directive.
func (p *IncludeProcessor) Matches(line string) bool {
	return hasMarker(line, IncludeMarker)
}

// Process adds the named file to result.
func (p *IncludeProcessor) Process(
	_ context.Context,
	result *domain.ScriptAnalyzerResult,
	line string,
	_ int,
) error {
	path, ok := argument(line, IncludeMarker)
	if !ok {
		return nil
	}
	result.AddInclude(filepath.Clean(path))
	return nil
}
