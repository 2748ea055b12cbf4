package ports

import "go.trai.ch/forge/internal/core/domain"

// AnalysisStore persists script analyses between invocations.
//
//go:generate mockgen -source=analysis_store.go -destination=mocks/mock_analysis_store.go -package=mocks
type AnalysisStore interface {
	// Get returns the stored analysis of script, or nil if there is none.
	Get(script string) (*domain.CachedAnalysis, error)

	// Put stores entry under entry.Script, replacing any previous one.
	Put(entry domain.CachedAnalysis) error
}
