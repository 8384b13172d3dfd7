package contextroles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []string{"problem", "customer", "vision"}, reg.RequiredRoles())
	assert.Equal(t, 10, reg.Len())

	def, ok := reg.Lookup(" Insight ")
	require.True(t, ok)
	assert.Equal(t, ScopeBrain, def.Scope)
	assert.Equal(t, "Insight", def.Label)

	_, ok = reg.Lookup("moat")
	assert.False(t, ok)
}

func TestParseRegistry_Rejects(t *testing.T) {
	_, err := ParseRegistry([]byte("roles:\n  - key: a\n  - key: A\n"))
	assert.ErrorContains(t, err, "duplicate role")

	_, err = ParseRegistry([]byte("roles:\n  - label: nameless\n"))
	assert.ErrorContains(t, err, "has no key")

	_, err = ParseRegistry([]byte("roles:\n  - key: a\n    scope: orbit\n"))
	assert.ErrorContains(t, err, "unknown scope")

	_, err = ParseRegistry([]byte("roles: [\n"))
	assert.Error(t, err)
}

func TestLoadRegistry_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	raw := []byte(`roles:
  - key: mission
    scope: core
    required: true
  - key: problem
    scope: core
    ordering: 2
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"mission"}, reg.RequiredRoles())
	def, _ := reg.Lookup("mission")
	assert.Equal(t, "mission", def.Label)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	reg, err = LoadRegistry("")
	require.NoError(t, err)
	assert.Equal(t, 10, reg.Len())
}

func TestScopeRank(t *testing.T) {
	assert.Less(t, ScopeCore.Rank(), ScopeBrain.Rank())
	assert.Less(t, ScopeBrain.Rank(), ScopeCustom.Rank())
	assert.Equal(t, ScopeCustom.Rank(), Scope("other").Rank())
}
