package resolver

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/onecommons/tosca-parser-go/namespace"
	"github.com/onecommons/tosca-parser-go/value"
	"github.com/onecommons/tosca-parser-go/yamltree"
)

// FileResolver is the default [namespace.Resolver]: it resolves
// relative file imports against a base directory, treats an http:// or
// https:// location as opaque-but-unsupported (a caller wanting HTTP(S)
// imports wires its own Resolver using the same interface), and loads
// YAML content straight off disk or out of a CSAR archive.
type FileResolver struct {
	// BaseDir anchors relative paths when no importing document has
	// established a base location yet (the root document).
	BaseDir string
}

// NewFileResolver returns a FileResolver rooted at baseDir.
func NewFileResolver(baseDir string) *FileResolver {
	return &FileResolver{BaseDir: baseDir}
}

var _ namespace.Resolver = (*FileResolver)(nil)

// Resolve implements [namespace.Resolver]. A URL-shaped spec.File is
// accepted verbatim (IsLocal false); everything else is joined against
// baseLocation's directory (or BaseDir, for the root document) the way
// `imports.py`'s `_get_full_path` resolves relative import files.
func (r *FileResolver) Resolve(baseLocation string, spec namespace.ImportSpec) (namespace.ResolvedLocation, error) {
	if spec.File == "" {
		return namespace.ResolvedLocation{}, fmt.Errorf("resolver: import spec has no file")
	}

	if isURL(spec.File) {
		return namespace.ResolvedLocation{Canonical: spec.File, IsLocal: false}, nil
	}

	if isURL(baseLocation) {
		if filepath.IsAbs(spec.File) {
			return namespace.ResolvedLocation{}, namespace.ErrAbsolutePathInURLTemplate
		}

		base, err := url.Parse(baseLocation)
		if err != nil {
			return namespace.ResolvedLocation{}, fmt.Errorf("resolver: parsing base URL %q: %w", baseLocation, err)
		}

		resolved := base.ResolveReference(&url.URL{Path: spec.File})

		return namespace.ResolvedLocation{Canonical: resolved.String(), IsLocal: false}, nil
	}

	dir := r.BaseDir
	if baseLocation != "" {
		dir = filepath.Dir(baseLocation)
	}

	canonical := spec.File
	if !filepath.IsAbs(canonical) {
		canonical = filepath.Join(dir, canonical)
	}

	canonical = filepath.Clean(canonical)

	return namespace.ResolvedLocation{Canonical: canonical, IsLocal: true}, nil
}

// Load implements [namespace.Resolver]: reads loc.Canonical (a plain
// file, or an entry inside a CSAR ZIP when loc.Fragment names one) and
// parses it via [yamltree.Parse].
func (r *FileResolver) Load(loc namespace.ResolvedLocation) (value.Value, error) {
	if !loc.IsLocal {
		return value.NewNull(), fmt.Errorf("resolver: remote location %q requires a caller-supplied Resolver", loc.Canonical)
	}

	if isCSAR(loc.Canonical) {
		return loadFromCSAR(loc.Canonical, loc.Fragment)
	}

	data, err := os.ReadFile(loc.Canonical)
	if err != nil {
		return value.NewNull(), fmt.Errorf("resolver: reading %q: %w", loc.Canonical, err)
	}

	return yamltree.Parse(loc.Canonical, data)
}

// GetRepository implements [namespace.Resolver]: a document's
// `repositories:` entries are themselves plain data, so this just
// normalizes the mapping/bare-string shape into a
// [namespace.Repository].
func (r *FileResolver) GetRepository(name string, def value.Value) (namespace.Repository, error) {
	if def.Kind() == value.KindString {
		return namespace.Repository{Name: name, URL: def.String()}, nil
	}

	if def.Kind() != value.KindMapping {
		return namespace.Repository{}, fmt.Errorf("resolver: repository %q must be a string or mapping", name)
	}

	m := def.Mapping()

	return namespace.Repository{
		Name:       name,
		URL:        m.GetOr("url", value.NewNull()).String(),
		Credential: m.GetOr("credential", value.NewNull()),
	}, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
