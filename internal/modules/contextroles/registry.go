package contextroles

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var defaultRegistryYAML []byte

type Scope string

const (
	ScopeCore   Scope = "core"
	ScopeBrain  Scope = "brain"
	ScopeCustom Scope = "custom"
)

// Rank orders scopes for display: core, then brain, then everything else.
func (s Scope) Rank() int {
	switch s {
	case ScopeCore:
		return 0
	case ScopeBrain:
		return 1
	default:
		return 2
	}
}

type RoleDef struct {
	Key         string `yaml:"key" json:"key"`
	Label       string `yaml:"label" json:"label"`
	Scope       Scope  `yaml:"scope" json:"scope"`
	Ordering    int    `yaml:"ordering" json:"ordering"`
	Required    bool   `yaml:"required" json:"required"`
	Description string `yaml:"description" json:"description,omitempty"`
}

type registryFile struct {
	Roles []RoleDef `yaml:"roles"`
}

// Registry is the set of known context roles. It is immutable after load.
type Registry struct {
	roles    map[string]RoleDef
	required []string
}

// ParseRegistry decodes a YAML role list. Keys are lower-cased and must be unique.
func ParseRegistry(raw []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse role registry: %w", err)
	}
	reg := &Registry{roles: make(map[string]RoleDef, len(f.Roles))}
	for i, def := range f.Roles {
		def.Key = strings.ToLower(strings.TrimSpace(def.Key))
		if def.Key == "" {
			return nil, fmt.Errorf("parse role registry: role #%d has no key", i)
		}
		if _, dup := reg.roles[def.Key]; dup {
			return nil, fmt.Errorf("parse role registry: duplicate role %q", def.Key)
		}
		switch def.Scope {
		case ScopeCore, ScopeBrain, ScopeCustom:
		case "":
			def.Scope = ScopeCustom
		default:
			return nil, fmt.Errorf("parse role registry: role %q has unknown scope %q", def.Key, def.Scope)
		}
		if strings.TrimSpace(def.Label) == "" {
			def.Label = def.Key
		}
		reg.roles[def.Key] = def
		if def.Required {
			reg.required = append(reg.required, def.Key)
		}
	}
	sort.SliceStable(reg.required, func(i, j int) bool {
		a, b := reg.roles[reg.required[i]], reg.roles[reg.required[j]]
		if a.Scope.Rank() != b.Scope.Rank() {
			return a.Scope.Rank() < b.Scope.Rank()
		}
		return a.Ordering < b.Ordering
	})
	return reg, nil
}

// LoadRegistry reads the registry at path, or the embedded default when path is empty.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ParseRegistry(defaultRegistryYAML)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role registry %s: %w", path, err)
	}
	return ParseRegistry(raw)
}

// DefaultRegistry returns the embedded registry.
func DefaultRegistry() *Registry {
	reg, err := ParseRegistry(defaultRegistryYAML)
	if err != nil {
		panic(err)
	}
	return reg
}

func (r *Registry) Lookup(key string) (RoleDef, bool) {
	if r == nil {
		return RoleDef{}, false
	}
	def, ok := r.roles[strings.ToLower(strings.TrimSpace(key))]
	return def, ok
}

// RequiredRoles lists the roles a foundation needs, in display order.
func (r *Registry) RequiredRoles() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.required))
	copy(out, r.required)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.roles)
}
