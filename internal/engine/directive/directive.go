// Package directive scans build scripts for directive comments such as
// //#ref and collects what they declare into a domain.ScriptAnalyzerResult.
package directive

import (
	"context"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
)

// Processor recognizes one kind of directive line.
// Implementations hold no per-scan state and may be shared between scans.
type Processor interface {
	// Matches reports whether the processor claims line.
	Matches(line string) bool
	// Process handles a claimed line. lineIndex is 1-based.
	Process(ctx context.Context, result *domain.ScriptAnalyzerResult, line string, lineIndex int) error
}

// Chain offers each line to its processors in order until one claims it.
type Chain struct {
	processors []Processor
}

// NewChain creates a chain trying processors in the given order.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// ProcessLine offers line to the chain. It reports whether a processor claimed it.
func (c *Chain) ProcessLine(
	ctx context.Context,
	result *domain.ScriptAnalyzerResult,
	line string,
	lineIndex int,
) (bool, error) {
	for _, p := range c.processors {
		if !p.Matches(line) {
			continue
		}
		return true, p.Process(ctx, result, line, lineIndex)
	}
	return false, nil
}

// hasMarker reports whether line starts with marker, ignoring leading
// whitespace and case.
func hasMarker(line, marker string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return len(trimmed) >= len(marker) && strings.EqualFold(trimmed[:len(marker)], marker)
}

// argument returns the text after the first space following marker.
// ok is false when there is no space or nothing follows it.
func argument(line, marker string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < len(marker) {
		return "", false
	}
	rest := trimmed[len(marker):]
	i := strings.IndexByte(rest, ' ')
	if i < 0 {
		return "", false
	}
	arg := strings.TrimSpace(rest[i:])
	return arg, arg != ""
}
