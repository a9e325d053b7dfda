package access

import (
	"errors"
	"testing"

	"github.com/MrEthical07/goGuard/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole([]string{"admin", "editor"}, []string{"admin"}))
	assert.False(t, HasRole([]string{"viewer"}, []string{"admin"}))
	assert.True(t, HasRole([]string{"viewer"}, []string{"admin", "viewer"}))
	assert.False(t, HasRole(nil, []string{"admin"}))
	assert.False(t, HasRole([]string{"admin"}, []string{}))
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission([]string{"p1", "p2"}, []string{"p3", "p2"}))
	assert.False(t, HasPermission([]string{"p1"}, []string{"p2"}))
}

func TestHasAttribute(t *testing.T) {
	tests := []struct {
		name     string
		user     map[string]any
		required map[string]any
		want     bool
	}{
		{"subset match", map[string]any{"id": "x1", "team": "alpha"}, map[string]any{"team": "alpha"}, true},
		{"value mismatch", map[string]any{"team": "alpha"}, map[string]any{"team": "beta"}, false},
		{"missing key", map[string]any{"team": "alpha"}, map[string]any{"region": "eu"}, false},
		{"all keys required", map[string]any{"team": "alpha", "region": "eu"}, map[string]any{"team": "alpha", "region": "us"}, false},
		{"numeric normalisation", map[string]any{"level": float64(3)}, map[string]any{"level": 3}, true},
		{"deep equality", map[string]any{"org": map[string]any{"unit": "ops", "tags": []any{"a"}}}, map[string]any{"org": map[string]any{"unit": "ops", "tags": []string{"a"}}}, true},
		{"deep mismatch", map[string]any{"org": map[string]any{"unit": "ops"}}, map[string]any{"org": map[string]any{"unit": "dev"}}, false},
		{"empty required", map[string]any{"team": "alpha"}, map[string]any{}, true},
		{"bool", map[string]any{"active": true}, map[string]any{"active": false}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasAttribute(tc.user, tc.required))
		})
	}
}

func TestGenerateUserAccessControlConfig(t *testing.T) {
	user := &identity.User{
		ID: "u-1",
		Roles: []identity.Role{
			{Name: "admin", Permissions: []string{"p1"}},
			{Name: "editor", Permissions: []string{"p1", "p2"}},
			{Name: "admin", Permissions: []string{"p3"}},
		},
		Attributes: map[string]any{"team": "alpha", "roles": "ignored"},
	}

	cfg := GenerateUserAccessControlConfig(user)
	assert.Equal(t, []string{"admin", "editor"}, cfg.UserRoles)
	assert.Equal(t, []string{"p1", "p2", "p3"}, cfg.UserPermissions)
	assert.Equal(t, map[string]any{"id": "u-1", "team": "alpha"}, cfg.UserAttributes)

	assert.Equal(t, cfg, GenerateUserAccessControlConfig(user), "derivation is deterministic")

	cfg.UserAttributes["team"] = "mutated"
	assert.Equal(t, "alpha", user.Attributes["team"], "snapshot does not alias the user")
}

func TestGenerateUserAccessControlConfigSpecExample(t *testing.T) {
	user := &identity.User{
		ID: "u-1",
		Roles: []identity.Role{
			{Name: "admin", Permissions: []string{"p1"}},
			{Name: "editor", Permissions: []string{"p1", "p2"}},
		},
	}
	cfg := GenerateUserAccessControlConfig(user)
	assert.Equal(t, []string{"p1", "p2"}, cfg.UserPermissions)
}

func TestGenerateUserAccessControlConfigNilUser(t *testing.T) {
	cfg := GenerateUserAccessControlConfig(nil)
	assert.Empty(t, cfg.UserRoles)
	assert.Empty(t, cfg.UserPermissions)
	assert.Empty(t, cfg.UserAttributes)
	assert.True(t, CheckAccess(cfg, Rule{}))
	assert.False(t, CheckAccess(cfg, Rule{Roles: []string{"admin"}}))
}

func TestCheckAccess(t *testing.T) {
	cfg := Config{
		UserRoles:       []string{"editor"},
		UserPermissions: []string{"posts.read", "posts.write"},
		UserAttributes:  map[string]any{"id": "u-1", "team": "alpha"},
	}

	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"empty rule", Rule{}, true},
		{"role or-match", Rule{Roles: []string{"admin", "editor"}}, true},
		{"role miss", Rule{Roles: []string{"admin"}}, false},
		{"explicit empty roles deny", Rule{Roles: []string{}}, false},
		{"permission match", Rule{Permissions: []string{"posts.write"}}, true},
		{"attributes match", Rule{Attributes: map[string]any{"team": "alpha"}}, true},
		{"categories are anded", Rule{Roles: []string{"editor"}, Permissions: []string{"posts.delete"}}, false},
		{"all categories pass", Rule{
			Roles:       []string{"editor"},
			Permissions: []string{"posts.read"},
			Attributes:  map[string]any{"team": "alpha"},
		}, true},
		{"attribute fails others pass", Rule{
			Roles:      []string{"editor"},
			Attributes: map[string]any{"team": "beta"},
		}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckAccess(cfg, tc.rule))
		})
	}
}

func TestRequireAccess(t *testing.T) {
	cfg := Config{UserRoles: []string{"viewer"}}

	require.NoError(t, RequireAccess(cfg, Rule{}))

	err := RequireAccess(cfg, Rule{Roles: []string{"admin"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccessDenied))
	assert.Contains(t, err.Error(), "roles")
}

func TestGenerateMenuAccess(t *testing.T) {
	cfg := Config{
		UserRoles:       []string{"editor"},
		UserPermissions: []string{"posts.read"},
		UserAttributes:  map[string]any{"id": "u-1"},
	}

	sections := MenuSections{
		"single": {
			{AccessControl: Rule{Roles: []string{"editor"}}, Link: "/editor"},
		},
		"first-match": {
			{AccessControl: Rule{Roles: []string{"admin"}}, Link: "/admin"},
			{AccessControl: Rule{Permissions: []string{"posts.read"}}, Link: "/posts"},
			{AccessControl: Rule{}, Link: "/home"},
		},
		"fallback": {
			{AccessControl: Rule{Roles: []string{"admin"}}, Link: "/admin"},
			{AccessControl: Rule{Roles: []string{"owner"}}, Link: "/owner"},
		},
		"empty": {},
	}

	got := GenerateMenuAccess(cfg, sections)
	assert.Equal(t, MenuAccess{HasAccess: true, Link: "/editor"}, got["single"])
	assert.Equal(t, MenuAccess{HasAccess: true, Link: "/posts"}, got["first-match"])
	assert.Equal(t, MenuAccess{HasAccess: false, Link: "/owner"}, got["fallback"])
	assert.Equal(t, MenuAccess{}, got["empty"])
	assert.Len(t, got, 4)
}
