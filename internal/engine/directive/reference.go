package directive

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// ReferenceMarker starts a type reference directive:
//
//	//#ref example.com/lib/pkg.Type[, example.com/lib[@v1.2.3]]
const ReferenceMarker = "//#ref"

// ReferenceProcessor resolves the type named by a //#ref directive and records
// the package that defines it.
type ReferenceProcessor struct {
	resolver ports.TypeResolver
}

// NewReferenceProcessor creates a processor resolving types with resolver.
func NewReferenceProcessor(resolver ports.TypeResolver) *ReferenceProcessor {
	return &ReferenceProcessor{resolver: resolver}
}

// Matches reports whether line is a //#ref directive.
func (p *ReferenceProcessor) Matches(line string) bool {
	return hasMarker(line, ReferenceMarker)
}

// Process resolves the identifier and adds the reference. A directive without
// an identifier is ignored. Resolution failures are returned.
func (p *ReferenceProcessor) Process(
	ctx context.Context,
	result *domain.ScriptAnalyzerResult,
	line string,
	_ int,
) error {
	identifier, ok := argument(line, ReferenceMarker)
	if !ok {
		return nil
	}

	ref, err := p.resolver.ResolveType(ctx, identifier)
	if err != nil {
		if !errors.Is(err, domain.ErrTypeResolutionFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrTypeResolutionFailed, err)
		}
		// zerr.With copies a bare sentinel, so wrap first.
		err = zerr.Wrap(err, "resolve "+identifier)
		return zerr.With(err, "identifier", identifier)
	}

	result.AddReference(ref)
	return nil
}
