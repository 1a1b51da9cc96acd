package tosca

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/namespace"
	"github.com/onecommons/tosca-parser-go/topology"
	"github.com/onecommons/tosca-parser-go/types"
	"github.com/onecommons/tosca-parser-go/value"
)

// ErrMissingVersion is reported when a document has no
// `tosca_definitions_version` key -- the one structural error spec.md
// §6 requires [Parse] to raise even when verify is false.
var ErrMissingVersion = errors.New("tosca: missing tosca_definitions_version")

// ErrInvalidVersion is reported when `tosca_definitions_version` names a
// string the active [VersionRegistry] does not recognize.
var ErrInvalidVersion = errors.New("tosca: unrecognized tosca_definitions_version")

// ErrResolverRequired is returned when input is a path/URL string but no
// resolver was supplied to fetch and parse it (spec.md §1 NON-GOALS:
// the core never performs network/filesystem access or YAML
// deserialization itself).
var ErrResolverRequired = errors.New("tosca: a resolver is required to load a path or URL")

// Options configures [Parse].
type Options struct {
	// ParsedParams holds caller-supplied input values. Parse does not
	// read it: the Model's Inputs are the document's own `inputs:`
	// definitions, defaults included.
	ParsedParams *value.Mapping

	// Resolver fetches imports and, when input is a path or URL string
	// rather than an already-parsed tree, the root document itself.
	Resolver namespace.Resolver

	// Versions overrides the default [VersionRegistry]; nil uses one
	// seeded with [MainVersions] only.
	Versions *VersionRegistry

	// Verify, when false, still raises on structural errors (a missing
	// or invalid version, an unparsable root mapping) but otherwise
	// returns a partially-validated Model instead of an aggregate error
	// (spec.md §6: "verify=false produces a partially-validated model
	// that still raises on structural errors").
	Verify bool

	// Logger receives Debug-level import/type-registration events and
	// Warn-level recoverable failures (also recorded in the error
	// collector). Defaults to [slog.Default] when nil.
	Logger *slog.Logger
}

// Parse implements spec.md §6's top-level API. input is either a
// value.Value (an already-parsed tree) or a string path/URL, resolved
// and loaded via opts.Resolver.
func Parse(input any, opts Options) (*Model, error) {
	tree, err := rootTree(input, opts.Resolver)
	if err != nil {
		return nil, err
	}

	if tree.Kind() != value.KindMapping {
		return nil, fmt.Errorf("tosca: root document must be a mapping, got %s", tree.Kind())
	}

	docMap := tree.Mapping()

	versionVal, ok := docMap.Get("tosca_definitions_version")
	if !ok || versionVal.Kind() != value.KindString || versionVal.String() == "" {
		return nil, ErrMissingVersion
	}

	version := versionVal.String()

	versions := opts.Versions
	if versions == nil {
		versions = NewVersionRegistry()
	}

	if !versions.IsValid(version) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	collector := &errcol.Collector{}
	collector.Start()

	reg := types.NewRegistry()
	graph := namespace.NewGraph(opts.Resolver, reg, collector)
	graph.SetLogger(logger)

	rootLocation := ""
	if s, isStr := input.(string); isStr {
		rootLocation = s
	}

	logger.Debug("tosca: parsing document", "version", version, "root", rootLocation)

	rootNS, err := graph.Root(rootLocation, tree)
	if err != nil {
		return nil, fmt.Errorf("tosca: loading root namespace: %w", err)
	}

	topo := topology.Build(reg, rootNS, tree, collector)
	model := newModel(topo, version, reg)

	logger.Debug("tosca: parse complete", "node_templates", len(model.NodeTemplates), "diagnostics", len(collector.Diagnostics()))

	if opts.Verify {
		if err := collector.Report(); err != nil {
			return model, err
		}
	}

	return model, nil
}

// rootTree resolves input into a parsed tree: passed through directly
// if it is already a [value.Value], otherwise resolved and loaded via
// resolver (spec.md §1 NON-GOALS: the core never deserializes YAML or
// touches the filesystem/network itself).
func rootTree(input any, resolver namespace.Resolver) (value.Value, error) {
	if v, ok := input.(value.Value); ok {
		return v, nil
	}

	path, ok := input.(string)
	if !ok {
		return value.Value{}, fmt.Errorf("tosca: unsupported input type %T", input)
	}

	if resolver == nil {
		return value.Value{}, ErrResolverRequired
	}

	loc, err := resolver.Resolve("", namespace.ImportSpec{File: path})
	if err != nil {
		return value.Value{}, fmt.Errorf("tosca: resolving %q: %w", path, err)
	}

	tree, err := resolver.Load(loc)
	if err != nil {
		return value.Value{}, fmt.Errorf("tosca: loading %q: %w", path, err)
	}

	return tree, nil
}
