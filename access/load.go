package access

import (
	"errors"
	"fmt"
	"io"

	"github.com/MrEthical07/goGuard/identity"
	"gopkg.in/yaml.v3"
)

// LoadMenuSections decodes YAML of the form
//
//	dashboard:
//	  - accessControl: {roles: [admin]}
//	    link: /admin
//	  - accessControl: {}
//	    link: /home
func LoadMenuSections(r io.Reader) (MenuSections, error) {
	var sections MenuSections
	if err := decodeYAML(r, &sections); err != nil {
		return nil, fmt.Errorf("decode menu sections: %w", err)
	}
	if sections == nil {
		sections = MenuSections{}
	}
	return sections, nil
}

// LoadRules decodes YAML mapping resource keys (typically route patterns) to
// rules:
//
//	/admin:
//	  roles: [admin]
//	/reports:
//	  permissions: [reports.read]
//	  attributes: {team: alpha}
func LoadRules(r io.Reader) (map[string]Rule, error) {
	var rules map[string]Rule
	if err := decodeYAML(r, &rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if rules == nil {
		rules = map[string]Rule{}
	}
	return rules, nil
}

type catalogFile struct {
	Permissions []string        `yaml:"permissions"`
	Roles       []identity.Role `yaml:"roles"`
}

// LoadCatalog decodes and freezes a catalog declared as
//
//	permissions: [posts.read, posts.write]
//	roles:
//	  - name: editor
//	    permissions: [posts.read, posts.write]
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := decodeYAML(r, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := NewCatalog()
	if err := c.RegisterPermission(file.Permissions...); err != nil {
		return nil, err
	}
	for _, role := range file.Roles {
		if err := c.RegisterRole(role.Name, role.Permissions); err != nil {
			return nil, err
		}
	}
	c.Freeze()
	return c, nil
}

func decodeYAML(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
