package access

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrEthical07/goGuard/identity"
)

var (
	// ErrCatalogFrozen is returned by registrations after Freeze.
	ErrCatalogFrozen = errors.New("role catalog frozen")
	// ErrUnknownRole is returned for role names the catalog does not know.
	ErrUnknownRole = errors.New("unknown role")
	// ErrUnknownPermission is returned for permission names the catalog does
	// not know.
	ErrUnknownPermission = errors.New("unknown permission")
)

// Catalog is the application's declared set of permissions and roles. It is
// populated at startup, frozen, and then used to build users' roles at login
// and to reject rules that reference names nobody can ever hold.
type Catalog struct {
	mu          sync.RWMutex
	permissions map[string]struct{}
	roles       map[string][]string
	roleOrder   []string
	frozen      bool
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		permissions: make(map[string]struct{}),
		roles:       make(map[string][]string),
	}
}

// RegisterPermission declares permission names. Must be called before
// [Catalog.Freeze].
func (c *Catalog) RegisterPermission(names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return ErrCatalogFrozen
	}
	for _, name := range names {
		if name == "" {
			return errors.New("permission name cannot be empty")
		}
		if _, exists := c.permissions[name]; exists {
			return fmt.Errorf("permission already registered: %s", name)
		}
		c.permissions[name] = struct{}{}
	}
	return nil
}

// RegisterRole declares a role granting already registered permissions.
func (c *Catalog) RegisterRole(name string, permissions []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return ErrCatalogFrozen
	}
	if name == "" {
		return errors.New("role name cannot be empty")
	}
	if _, exists := c.roles[name]; exists {
		return fmt.Errorf("role already registered: %s", name)
	}
	for _, perm := range permissions {
		if _, ok := c.permissions[perm]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, perm)
		}
	}

	c.roles[name] = append([]string(nil), permissions...)
	c.roleOrder = append(c.roleOrder, name)
	return nil
}

// Freeze prevents further registrations.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Frozen reports whether Freeze has been called.
func (c *Catalog) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// Role returns the named role with a copy of its permissions.
func (c *Catalog) Role(name string) (identity.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	perms, ok := c.roles[name]
	if !ok {
		return identity.Role{}, false
	}
	return identity.Role{Name: name, Permissions: append([]string(nil), perms...)}, true
}

// Roles resolves role names, in the given order, into role values suitable
// for identity.User.Roles.
func (c *Catalog) Roles(names ...string) ([]identity.Role, error) {
	out := make([]identity.Role, 0, len(names))
	for _, name := range names {
		role, ok := c.Role(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRole, name)
		}
		out = append(out, role)
	}
	return out, nil
}

// RoleNames returns registered role names in registration order.
func (c *Catalog) RoleNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.roleOrder...)
}

// Count returns the number of registered roles.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.roles)
}

// ValidateRule reports rules that reference unknown roles or permissions.
func (c *Catalog) ValidateRule(rule Rule) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, role := range rule.Roles {
		if _, ok := c.roles[role]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRole, role)
		}
	}
	for _, perm := range rule.Permissions {
		if _, ok := c.permissions[perm]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, perm)
		}
	}
	return nil
}

// ValidateMenu applies ValidateRule to every candidate of every section.
func (c *Catalog) ValidateMenu(sections MenuSections) error {
	for key, candidates := range sections {
		for i, cand := range candidates {
			if err := c.ValidateRule(cand.AccessControl); err != nil {
				return fmt.Errorf("menu section %q candidate %d: %w", key, i, err)
			}
		}
	}
	return nil
}
