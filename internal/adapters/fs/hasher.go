package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints scripts and their included files with XXHash.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash returns the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return digest.Sum64(), nil
}

// ComputeScriptHash returns one hash over the script and its includes.
// Directory includes cover every file below them. The order of includes does
// not matter; duplicates count once.
func (h *Hasher) ComputeScriptHash(script string, includes []string) (string, error) {
	digest := xxhash.New()
	if err := h.hashFile(script, digest); err != nil {
		return "", err
	}
	_, _ = digest.Write([]byte{0})

	sorted := slices.Clone(includes)
	slices.Sort(sorted)
	for _, include := range slices.Compact(sorted) {
		if err := h.hashPath(include, digest); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

func (h *Hasher) hashPath(path string, w io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat include"), "path", path)
	}
	if !info.IsDir() {
		return h.hashFile(path, w)
	}
	for file := range h.walker.WalkFiles(path, nil) {
		if err := h.hashFile(file, w); err != nil {
			return err
		}
	}
	return nil
}

// hashFile writes the cleaned path and the content hash of path to w.
func (h *Hasher) hashFile(path string, w io.Writer) error {
	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}
	_, _ = io.WriteString(w, filepath.Clean(path))
	_, _ = w.Write([]byte{0})
	if err := binary.Write(w, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
