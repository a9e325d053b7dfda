package access

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMenuSections(t *testing.T) {
	sections, err := LoadMenuSections(strings.NewReader(`
dashboard:
  - accessControl:
      roles: [admin]
    link: /admin
  - accessControl:
      attributes:
        team: alpha
        level: 3
    link: /team
  - accessControl: {}
    link: /home
`))
	require.NoError(t, err)
	require.Len(t, sections["dashboard"], 3)
	assert.Equal(t, []string{"admin"}, sections["dashboard"][0].AccessControl.Roles)
	assert.True(t, sections["dashboard"][2].AccessControl.IsEmpty())

	cfg := Config{UserAttributes: map[string]any{"team": "alpha", "level": float64(3)}}
	got := GenerateMenuAccess(cfg, sections)
	assert.Equal(t, MenuAccess{HasAccess: true, Link: "/team"}, got["dashboard"])
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules(strings.NewReader(`
/admin:
  roles: [admin]
/reports:
  permissions: [reports.read]
  attributes: {team: alpha}
/locked:
  roles: []
`))
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, []string{"admin"}, rules["/admin"].Roles)
	assert.Nil(t, rules["/admin"].Permissions)
	assert.Equal(t, map[string]any{"team": "alpha"}, rules["/reports"].Attributes)

	locked := rules["/locked"]
	assert.NotNil(t, locked.Roles)
	assert.False(t, CheckAccess(Config{UserRoles: []string{"admin"}}, locked))
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := LoadRules(strings.NewReader(`
/admin:
  role: [admin]
`))
	assert.Error(t, err)
}

func TestLoadEmptyInput(t *testing.T) {
	rules, err := LoadRules(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rules)

	sections, err := LoadMenuSections(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, sections)
}
