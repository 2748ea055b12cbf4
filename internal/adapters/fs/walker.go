// Package fs walks and fingerprints the files a build script depends on.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// skippedDirectories are never descended into.
var skippedDirectories = map[string]bool{
	".git":   true,
	".jj":    true,
	".forge": true,
}

// Walker yields the regular files below a directory in lexical order.
type Walker struct{}

// NewWalker creates a Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the files below root. Entries whose base name matches one of
// the ignores patterns (filepath.Match syntax) are left out, directories with
// their contents.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && ignored(d.Name(), d.IsDir(), ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func ignored(name string, dir bool, ignores []string) bool {
	if dir && skippedDirectories[name] {
		return true
	}
	for _, pattern := range ignores {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
