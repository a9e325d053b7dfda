package access

import (
	"strings"
	"testing"

	"github.com/MrEthical07/goGuard/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	require.NoError(t, c.RegisterPermission("posts.read", "posts.write", "users.manage"))
	require.NoError(t, c.RegisterRole("viewer", []string{"posts.read"}))
	require.NoError(t, c.RegisterRole("admin", []string{"posts.read", "posts.write", "users.manage"}))
	c.Freeze()
	return c
}

func TestCatalogRegistration(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.RegisterPermission("a"))

	assert.Error(t, c.RegisterPermission("a"), "duplicate permission")
	assert.Error(t, c.RegisterPermission(""), "empty permission")
	assert.ErrorIs(t, c.RegisterRole("r", []string{"missing"}), ErrUnknownPermission)
	assert.Error(t, c.RegisterRole("", nil))

	require.NoError(t, c.RegisterRole("r", []string{"a"}))
	assert.Error(t, c.RegisterRole("r", nil), "duplicate role")

	c.Freeze()
	assert.True(t, c.Frozen())
	assert.ErrorIs(t, c.RegisterPermission("b"), ErrCatalogFrozen)
	assert.ErrorIs(t, c.RegisterRole("s", nil), ErrCatalogFrozen)
	assert.Equal(t, 1, c.Count())
}

func TestCatalogRoles(t *testing.T) {
	c := newTestCatalog(t)

	roles, err := c.Roles("admin", "viewer")
	require.NoError(t, err)
	assert.Equal(t, []identity.Role{
		{Name: "admin", Permissions: []string{"posts.read", "posts.write", "users.manage"}},
		{Name: "viewer", Permissions: []string{"posts.read"}},
	}, roles)

	roles[0].Permissions[0] = "mutated"
	again, ok := c.Role("admin")
	require.True(t, ok)
	assert.Equal(t, "posts.read", again.Permissions[0])

	_, err = c.Roles("ghost")
	assert.ErrorIs(t, err, ErrUnknownRole)

	assert.Equal(t, []string{"viewer", "admin"}, c.RoleNames())
}

func TestCatalogValidateRule(t *testing.T) {
	c := newTestCatalog(t)

	assert.NoError(t, c.ValidateRule(Rule{Roles: []string{"admin"}, Permissions: []string{"posts.read"}}))
	assert.ErrorIs(t, c.ValidateRule(Rule{Roles: []string{"root"}}), ErrUnknownRole)
	assert.ErrorIs(t, c.ValidateRule(Rule{Permissions: []string{"posts.delete"}}), ErrUnknownPermission)

	err := c.ValidateMenu(MenuSections{
		"nav": {{AccessControl: Rule{Roles: []string{"root"}}, Link: "/root"}},
	})
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.Contains(t, err.Error(), `"nav"`)
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader(`
permissions: [posts.read, posts.write]
roles:
  - name: editor
    permissions: [posts.read, posts.write]
`))
	require.NoError(t, err)
	assert.True(t, c.Frozen())

	role, ok := c.Role("editor")
	require.True(t, ok)
	assert.Equal(t, []string{"posts.read", "posts.write"}, role.Permissions)

	_, err = LoadCatalog(strings.NewReader(`
permissions: [a]
roles:
  - name: r
    permissions: [b]
`))
	assert.ErrorIs(t, err, ErrUnknownPermission)
}
