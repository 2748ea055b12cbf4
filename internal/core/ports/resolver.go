package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// TypeResolver resolves a type identifier found in a //#ref directive.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type TypeResolver interface {
	// ResolveType returns the reference for identifier, or an error wrapping
	// domain.ErrTypeResolutionFailed if no such type exists.
	ResolveType(ctx context.Context, identifier string) (domain.Reference, error)
}
