// Package cas implements the file-per-identity artifact store.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ArtifactStore with one JSON file per task identity.
// Artifacts live at <root>/<Type>/<hash>.json.
type Store struct {
	root string
}

// NewStore creates a new ArtifactStore rooted at the given directory.
func NewStore(root string) (*Store, error) {
	return &Store{root: filepath.Clean(root)}, nil
}

// Root returns the directory the store writes to.
func (s *Store) Root() string {
	return s.root
}

// Exists reports whether an artifact is stored for the key.
func (s *Store) Exists(key domain.Key) (bool, error) {
	_, err := os.Stat(s.getFilename(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key.String())
}

// Get retrieves the artifact for a key. It returns nil, nil when the task has not completed.
func (s *Store) Get(key domain.Key) (*domain.Artifact, error) {
	filename := s.getFilename(key)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key.String())
	}

	var artifact domain.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "key", key.String())
	}

	return &artifact, nil
}

// Put stores the artifact. The file is written to a temporary name and renamed
// into place so a crash never leaves a partial artifact behind.
func (s *Store) Put(artifact domain.Artifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()), "key", artifact.Key.String())
	}

	filename := s.getFilename(artifact.Key)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", artifact.Key.String())
	}

	return nil
}

// Delete removes the artifact so the task runs again. Deleting a missing artifact is not an error.
func (s *Store) Delete(key domain.Key) error {
	err := os.Remove(s.getFilename(key))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return zerr.With(zerr.Wrap(err, domain.ErrStoreDeleteFailed.Error()), "key", key.String())
}

// Clear removes every artifact, forcing a full re-run.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.root); err != nil {
		return zerr.Wrap(err, domain.ErrStoreDeleteFailed.Error())
	}
	return nil
}

func (s *Store) getFilename(key domain.Key) string {
	return filepath.Join(s.root, string(key.Type()), key.Hash()+".json")
}
