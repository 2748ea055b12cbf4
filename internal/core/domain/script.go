package domain

import (
	"context"
	"slices"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// Reference is a resolved type reference declared with //#ref.
// It names the package defining the type and, when known, its module.
type Reference struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	ImportPath string `json:"importPath" yaml:"importPath"`
	TypeName   string `json:"type" yaml:"type"`
	Module     string `json:"module,omitempty" yaml:"module,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	Dir        string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// key identifies a reference for deduplication.
func (r Reference) key() string {
	return r.ImportPath + "." + r.TypeName + "@" + r.Module + "@" + r.Version
}

// ScriptAnalyzerResult accumulates what directive processors find in a build script.
// It is add-only for the duration of a scan.
type ScriptAnalyzerResult struct {
	References   []Reference      `json:"references" yaml:"references"`
	Requirements []module.Version `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Includes     []string         `json:"includes,omitempty" yaml:"includes,omitempty"`
}

// NewScriptAnalyzerResult returns an empty result.
func NewScriptAnalyzerResult() *ScriptAnalyzerResult {
	return &ScriptAnalyzerResult{
		References: []Reference{},
	}
}

// AddReference adds ref unless an identical reference is already present.
// It reports whether the reference was added.
func (r *ScriptAnalyzerResult) AddReference(ref Reference) bool {
	k := ref.key()
	if slices.ContainsFunc(r.References, func(e Reference) bool { return e.key() == k }) {
		return false
	}
	r.References = append(r.References, ref)
	return true
}

// AddRequirement adds a module requirement. When the path is already required,
// the higher semantic version wins.
func (r *ScriptAnalyzerResult) AddRequirement(req module.Version) {
	for i, existing := range r.Requirements {
		if existing.Path == req.Path {
			if semver.Compare(req.Version, existing.Version) > 0 {
				r.Requirements[i] = req
			}
			return
		}
	}
	r.Requirements = append(r.Requirements, req)
}

// AddInclude adds an extra source file unless it is already listed.
func (r *ScriptAnalyzerResult) AddInclude(path string) {
	if slices.Contains(r.Includes, path) {
		return
	}
	r.Includes = append(r.Includes, path)
}

// CachedAnalysis is a persisted analysis together with the script hash it was computed for.
type CachedAnalysis struct {
	Script string                `json:"script"`
	Hash   string                `json:"hash"`
	Result *ScriptAnalyzerResult `json:"result"`
}

type scriptDirKey struct{}

// WithScriptDir returns a context carrying the directory of the script being analyzed.
func WithScriptDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, scriptDirKey{}, dir)
}

// ScriptDirFrom returns the script directory stored in ctx, if any.
func ScriptDirFrom(ctx context.Context) (string, bool) {
	dir, ok := ctx.Value(scriptDirKey{}).(string)
	return dir, ok && dir != ""
}
