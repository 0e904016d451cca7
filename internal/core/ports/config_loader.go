package ports

import "go.trai.ch/puppet/internal/core/domain"

// ConfigLoader defines the interface for loading the deployment manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and validates the manifest at the given path.
	Load(path string) (*domain.Manifest, error)
}
