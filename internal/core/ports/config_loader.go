package ports

import "go.trai.ch/forge/internal/core/domain"

// ConfigLoader defines the interface for loading the build file.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the build file walking up from cwd and returns its targets.
	Load(cwd string) (*domain.Buildfile, error)

	// DiscoverPath walks up from cwd and returns the path of the build file.
	DiscoverPath(cwd string) (string, error)
}
