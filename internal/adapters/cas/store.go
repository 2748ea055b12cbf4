// Package cas persists script analyses in a content addressed directory.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.AnalysisStore = (*Store)(nil)

// Store keeps one JSON file per script, named by the SHA-256 of the script path.
type Store struct {
	dir string
}

// NewStore creates a Store below dir. The directory is created on first Put.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the per-user analysis cache directory, falling back to
// the temporary directory when the user cache directory is unknown.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "forge", "analysis")
}

// Get returns the stored analysis of script, or nil if none is stored.
func (s *Store) Get(script string) (*domain.CachedAnalysis, error) {
	filename := s.filename(script)
	//nolint:gosec // Path is the store directory plus a hashed file name
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "script", script)
	}

	var entry domain.CachedAnalysis
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreReadFailed, err), "script", script)
	}
	// A hash collision or a file copied between scripts is a miss.
	if entry.Script != script || entry.Result == nil {
		return nil, nil
	}
	return &entry, nil
}

// Put stores entry, replacing the previous analysis of the same script.
func (s *Store) Put(entry domain.CachedAnalysis) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err)
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "dir", s.dir)
	}

	filename := s.filename(entry.Script)
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "path", tmp)
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrStoreWriteFailed, err), "path", filename)
	}
	return nil
}

func (s *Store) filename(script string) string {
	hash := sha256.Sum256([]byte(script))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:])+".json")
}
