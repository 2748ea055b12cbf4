package app

import (
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
)

// cacheEntry is an analysis result together with the fingerprint it was computed for.
type cacheEntry struct {
	hash   string
	result *domain.ScriptAnalyzerResult
	files  []string
}

// AnalysisCache keeps script analyses in memory, keyed by script path.
// An entry is valid while the hash over the script and its includes is unchanged.
type AnalysisCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewAnalysisCache creates an empty cache.
func NewAnalysisCache() *AnalysisCache {
	return &AnalysisCache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached result for script if it was stored under hash.
func (c *AnalysisCache) Get(script, hash string) (*domain.ScriptAnalyzerResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[filepath.Clean(script)]
	if !ok || entry.hash != hash {
		return nil, false
	}
	return entry.result, true
}

// Includes returns the includes recorded for script, used to recompute its hash.
func (c *AnalysisCache) Includes(script string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[filepath.Clean(script)]
	if !ok {
		return nil, false
	}
	return slices.Clone(entry.result.Includes), true
}

// Put stores result for script under hash.
func (c *AnalysisCache) Put(script, hash string, result *domain.ScriptAnalyzerResult) {
	script = filepath.Clean(script)
	files := make([]string, 0, len(result.Includes)+1)
	files = append(files, script)
	for _, include := range result.Includes {
		files = append(files, filepath.Clean(include))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[script] = cacheEntry{hash: hash, result: result, files: files}
}

// Invalidate drops every entry whose script or includes contain one of paths.
// A directory include is affected by changes anywhere below it. It returns the
// number of dropped entries.
func (c *AnalysisCache) Invalidate(paths []string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for script, entry := range c.entries {
		if slices.ContainsFunc(paths, func(p string) bool { return affects(entry.files, filepath.Clean(p)) }) {
			delete(c.entries, script)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries.
func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func affects(files []string, changed string) bool {
	for _, f := range files {
		if f == changed {
			return true
		}
		if rel, err := filepath.Rel(f, changed); err == nil && filepath.IsLocal(rel) {
			return true
		}
	}
	return false
}
