package directive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

const maxLineSize = 1 << 20

// Analyzer scans build scripts line by line through a Chain.
type Analyzer struct {
	chain *Chain
}

// NewAnalyzer creates an analyzer with the //#ref, //#mod and //#imp processors.
func NewAnalyzer(resolver ports.TypeResolver) *Analyzer {
	return NewAnalyzerWithChain(NewChain(
		NewReferenceProcessor(resolver),
		NewModuleProcessor(),
		NewIncludeProcessor(),
	))
}

// NewAnalyzerWithChain creates an analyzer using a custom chain.
func NewAnalyzerWithChain(chain *Chain) *Analyzer {
	return &Analyzer{chain: chain}
}

// Analyze scans r and returns what its directives declare.
// The first processor error aborts the scan; no partial result is returned.
func (a *Analyzer) Analyze(ctx context.Context, r io.Reader) (*domain.ScriptAnalyzerResult, error) {
	result := domain.NewScriptAnalyzerResult()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineIndex := 0
	for scanner.Scan() {
		lineIndex++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := scanner.Text()
		if _, err := a.chain.ProcessLine(ctx, result, line, lineIndex); err != nil {
			err = zerr.With(fmt.Errorf("%w: %w", domain.ErrDirectiveFailed, err), "line", lineIndex)
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrScriptReadFailed, err)
	}
	return result, nil
}

// AnalyzeFile scans the script at path. Types named by //#ref are resolved
// from the script's directory and relative //#imp paths are joined to it.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*domain.ScriptAnalyzerResult, error) {
	f, err := os.Open(path) //nolint:gosec // Path is provided by the user
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrScriptReadFailed, err), "path", path)
	}
	defer func() { _ = f.Close() }()

	dir := filepath.Dir(path)
	if abs, err := filepath.Abs(dir); err == nil {
		ctx = domain.WithScriptDir(ctx, abs)
	}

	result, err := a.Analyze(ctx, f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	for i, inc := range result.Includes {
		if !filepath.IsAbs(inc) {
			result.Includes[i] = filepath.Join(dir, inc)
		}
	}
	return result, nil
}
