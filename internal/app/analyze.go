package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Output formats for Analyze.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// AnalyzeOptions configures Analyze.
type AnalyzeOptions struct {
	// Format is FormatYAML (the default) or FormatJSON.
	Format string
	// NoCache forces a fresh analysis.
	NoCache bool
}

// Analyze scans the directives of script and prints the result.
func (a *App) Analyze(ctx context.Context, script string, opts AnalyzeOptions) error {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = FormatYAML
	}
	if format != FormatYAML && format != FormatJSON {
		return zerr.With(zerr.Wrap(domain.ErrUnsupportedFormat, "analyze"), "format", opts.Format)
	}

	result, err := a.AnalyzeScript(ctx, script, opts.NoCache)
	if err != nil {
		return err
	}
	return encodeResult(a.stdout, format, result)
}

// AnalyzeScript returns the analysis of script, reusing a cached result while
// neither the script nor its includes changed. The in-memory cache is tried
// before the analysis store.
func (a *App) AnalyzeScript(ctx context.Context, script string, noCache bool) (*domain.ScriptAnalyzerResult, error) {
	abs, err := filepath.Abs(script)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "resolve script path"), "path", script)
	}

	if !noCache {
		if result, ok := a.cached(abs); ok {
			return result, nil
		}
	}

	result, err := a.analyzer.AnalyzeFile(ctx, abs)
	if err != nil {
		return nil, err
	}

	hash, err := a.hasher.ComputeScriptHash(abs, result.Includes)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("analysis of %s not cached: %v", filepath.Base(abs), err))
		return result, nil
	}
	a.cache.Put(abs, hash, result)
	if a.store != nil {
		if err := a.store.Put(domain.CachedAnalysis{Script: abs, Hash: hash, Result: result}); err != nil {
			a.logger.Warn(fmt.Sprintf("analysis of %s not stored: %v", filepath.Base(abs), err))
		}
	}
	return result, nil
}

func (a *App) cached(script string) (*domain.ScriptAnalyzerResult, bool) {
	if includes, ok := a.cache.Includes(script); ok {
		if hash, err := a.hasher.ComputeScriptHash(script, includes); err == nil {
			if result, ok := a.cache.Get(script, hash); ok {
				return result, true
			}
		}
	}

	if a.store == nil {
		return nil, false
	}
	entry, err := a.store.Get(script)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("stored analysis of %s ignored: %v", filepath.Base(script), err))
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	hash, err := a.hasher.ComputeScriptHash(script, entry.Result.Includes)
	if err != nil || hash != entry.Hash {
		return nil, false
	}
	a.cache.Put(script, hash, entry.Result)
	return entry.Result, true
}

func encodeResult(w io.Writer, format string, result *domain.ScriptAnalyzerResult) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return zerr.Wrap(err, "encode analysis as JSON")
		}
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return zerr.Wrap(err, "encode analysis as YAML")
	}
	return enc.Close()
}
