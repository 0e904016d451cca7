package ports

import "go.trai.ch/puppet/internal/core/domain"

// ArtifactStore defines the interface for persisting task completion artifacts.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Exists reports whether an artifact is stored for the key.
	Exists(key domain.Key) (bool, error)

	// Get retrieves the artifact for a key.
	// Returns nil, nil if not found.
	Get(key domain.Key) (*domain.Artifact, error)

	// Put stores the artifact. It is the only operation marking a task done.
	Put(artifact domain.Artifact) error

	// Delete removes the artifact so the task runs again.
	Delete(key domain.Key) error
}
