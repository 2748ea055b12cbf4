// Package golang resolves type identifiers to the Go packages and modules defining them.
package golang

import (
	"context"
	"fmt"
	"go/types"
	"strings"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedTypes | packages.NeedModule

// LoadFunc loads the package with the given import path.
type LoadFunc func(ctx context.Context, dir, importPath string) ([]*packages.Package, error)

// Resolver implements ports.TypeResolver with golang.org/x/tools/go/packages.
// Successful resolutions are cached per directory and identifier.
type Resolver struct {
	dir  string
	load LoadFunc

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]domain.Reference
}

// NewResolver creates a resolver loading packages relative to dir when the
// context names no script directory. An empty dir means the current working directory.
func NewResolver(dir string) *Resolver {
	return NewResolverWithLoader(dir, loadPackages)
}

// NewResolverWithLoader creates a resolver with a custom package loader.
func NewResolverWithLoader(dir string, load LoadFunc) *Resolver {
	return &Resolver{
		dir:   dir,
		load:  load,
		cache: make(map[string]domain.Reference),
	}
}

func loadPackages(ctx context.Context, dir, importPath string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:    loadMode,
		Context: ctx,
		Dir:     dir,
	}
	return packages.Load(cfg, importPath)
}

// Identifier is a parsed //#ref argument.
type Identifier struct {
	ImportPath string
	TypeName   string
	Module     string
	Version    string
}

// ParseIdentifier parses "importpath.Type[, module[@version]]".
func ParseIdentifier(s string) (Identifier, error) {
	typePart, modPart, _ := strings.Cut(s, ",")
	typePart = strings.TrimSpace(typePart)
	modPart = strings.TrimSpace(modPart)

	slash := strings.LastIndexByte(typePart, '/')
	dot := strings.LastIndexByte(typePart, '.')
	if dot <= slash+1 || dot == len(typePart)-1 {
		return Identifier{}, zerr.With(zerr.Wrap(domain.ErrInvalidTypeIdentifier, "parse identifier"), "identifier", s)
	}

	id := Identifier{
		ImportPath: typePart[:dot],
		TypeName:   typePart[dot+1:],
	}
	if modPart != "" {
		id.Module, id.Version, _ = strings.Cut(modPart, "@")
	}
	return id, nil
}

// ResolveType loads the package named by identifier and checks that it
// declares the exported type. Packages are loaded from the script directory
// carried by ctx, falling back to the resolver's own directory.
func (r *Resolver) ResolveType(ctx context.Context, identifier string) (domain.Reference, error) {
	identifier = strings.TrimSpace(identifier)
	dir := r.dir
	if scriptDir, ok := domain.ScriptDirFrom(ctx); ok {
		dir = scriptDir
	}
	key := dir + "\x00" + identifier

	r.mu.RLock()
	ref, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return ref, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		ref, err := r.resolve(ctx, dir, identifier)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[key] = ref
		r.mu.Unlock()
		return ref, nil
	})
	if err != nil {
		return domain.Reference{}, err
	}
	return v.(domain.Reference), nil
}

func (r *Resolver) resolve(ctx context.Context, dir, identifier string) (domain.Reference, error) {
	id, err := ParseIdentifier(identifier)
	if err != nil {
		return domain.Reference{}, err
	}

	pkgs, err := r.load(ctx, dir, id.ImportPath)
	if err != nil {
		return domain.Reference{}, resolutionFailed(identifier, err)
	}
	if len(pkgs) == 0 {
		return domain.Reference{}, resolutionFailed(identifier, fmt.Errorf("package %s not found", id.ImportPath))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return domain.Reference{}, resolutionFailed(identifier, pkg.Errors[0])
	}
	if pkg.Types == nil {
		return domain.Reference{}, resolutionFailed(identifier, fmt.Errorf("package %s has no type information", id.ImportPath))
	}

	obj := pkg.Types.Scope().Lookup(id.TypeName)
	if _, isType := obj.(*types.TypeName); !isType || !obj.Exported() {
		return domain.Reference{}, resolutionFailed(
			identifier,
			fmt.Errorf("%s does not declare an exported type %s", id.ImportPath, id.TypeName),
		)
	}

	ref := domain.Reference{
		Identifier: identifier,
		ImportPath: pkg.PkgPath,
		TypeName:   id.TypeName,
		Module:     id.Module,
		Version:    id.Version,
	}
	if m := pkg.Module; m != nil {
		if id.Module != "" && id.Module != m.Path {
			return domain.Reference{}, resolutionFailed(
				identifier,
				fmt.Errorf("%s belongs to module %s, not %s", id.ImportPath, m.Path, id.Module),
			)
		}
		ref.Module = m.Path
		ref.Dir = m.Dir
		if ref.Version == "" {
			ref.Version = m.Version
		}
	}
	return ref, nil
}

func resolutionFailed(identifier string, err error) error {
	return zerr.With(fmt.Errorf("%w: %w", domain.ErrTypeResolutionFailed, err), "identifier", identifier)
}
