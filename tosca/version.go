package tosca

import "sync"

// MainVersions are the `tosca_definitions_version` values spec.md §6
// names directly.
var MainVersions = []string{
	"tosca_simple_yaml_1_0",
	"tosca_simple_yaml_1_2",
	"tosca_simple_yaml_1_3",
}

// VersionRegistry tracks MainVersions plus any externally-declared
// versions a caller registers (spec.md §6: "plus a registry of
// externally-declared versions"), grounded on `tosca_template.py`'s
// `VALID_TEMPLATE_VERSIONS = MAIN_TEMPLATE_VERSIONS +
// exttools.get_versions()` composition, without the plugin-discovery
// mechanism (`exttools`) itself -- out of scope for the core, which only
// needs to know whether a version string is acceptable.
type VersionRegistry struct {
	mu    sync.RWMutex
	extra map[string]bool
}

// NewVersionRegistry returns a VersionRegistry seeded with MainVersions.
func NewVersionRegistry() *VersionRegistry {
	return &VersionRegistry{extra: make(map[string]bool)}
}

// Register adds name as a recognized `tosca_definitions_version` value.
func (vr *VersionRegistry) Register(name string) {
	vr.mu.Lock()
	defer vr.mu.Unlock()

	vr.extra[name] = true
}

// IsValid reports whether name is one of MainVersions or was registered
// via [VersionRegistry.Register].
func (vr *VersionRegistry) IsValid(name string) bool {
	for _, v := range MainVersions {
		if v == name {
			return true
		}
	}

	vr.mu.RLock()
	defer vr.mu.RUnlock()

	return vr.extra[name]
}
