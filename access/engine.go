package access

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/MrEthical07/goGuard/identity"
)

// ErrAccessDenied is returned by [RequireAccess] when a rule is not satisfied.
var ErrAccessDenied = errors.New("access denied")

// HasRole reports whether userRoles and required share at least one entry.
func HasRole(userRoles, required []string) bool {
	return intersects(userRoles, required)
}

// HasPermission reports whether userPermissions and required share at least
// one entry.
func HasPermission(userPermissions, required []string) bool {
	return intersects(userPermissions, required)
}

func intersects(have, want []string) bool {
	if len(have) == 0 || len(want) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

// HasAttribute reports whether every key in required is present in
// userAttributes with an equal value. Values are compared after JSON
// normalisation, so 1 and 1.0 are equal and nested maps compare deeply.
func HasAttribute(userAttributes, required map[string]any) bool {
	for key, want := range required {
		have, ok := userAttributes[key]
		if !ok || !equalValues(have, want) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	na, okA := normalize(a)
	nb, okB := normalize(b)
	return okA && okB && reflect.DeepEqual(na, nb)
}

func normalize(v any) (any, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return out, true
}

// GenerateUserAccessControlConfig derives the access-control snapshot of
// user. Role names and permissions keep declaration order with duplicates
// removed. Attributes are the user's own fields, id included, roles excluded.
func GenerateUserAccessControlConfig(user *identity.User) Config {
	cfg := Config{
		UserRoles:       []string{},
		UserPermissions: []string{},
		UserAttributes:  map[string]any{},
	}
	if user == nil {
		return cfg
	}

	seenRoles := make(map[string]struct{}, len(user.Roles))
	seenPerms := make(map[string]struct{})
	for _, role := range user.Roles {
		if _, ok := seenRoles[role.Name]; !ok {
			seenRoles[role.Name] = struct{}{}
			cfg.UserRoles = append(cfg.UserRoles, role.Name)
		}
		for _, perm := range role.Permissions {
			if _, ok := seenPerms[perm]; ok {
				continue
			}
			seenPerms[perm] = struct{}{}
			cfg.UserPermissions = append(cfg.UserPermissions, perm)
		}
	}

	for k, v := range user.Clone().Attributes {
		if k == "roles" {
			continue
		}
		cfg.UserAttributes[k] = v
	}
	cfg.UserAttributes["id"] = user.ID.String()

	return cfg
}

// CheckAccess reports whether cfg satisfies rule. Present categories are
// combined with AND; an empty rule always grants access.
func CheckAccess(cfg Config, rule Rule) bool {
	return failedCategory(cfg, rule) == ""
}

// RequireAccess is CheckAccess as a guard. The returned error wraps
// [ErrAccessDenied] and names the first failing category.
func RequireAccess(cfg Config, rule Rule) error {
	if category := failedCategory(cfg, rule); category != "" {
		return fmt.Errorf("%w: %s requirement not met", ErrAccessDenied, category)
	}
	return nil
}

func failedCategory(cfg Config, rule Rule) string {
	if rule.Roles != nil && !HasRole(cfg.UserRoles, rule.Roles) {
		return "roles"
	}
	if rule.Permissions != nil && !HasPermission(cfg.UserPermissions, rule.Permissions) {
		return "permissions"
	}
	if rule.Attributes != nil && !HasAttribute(cfg.UserAttributes, rule.Attributes) {
		return "attributes"
	}
	return ""
}

// GenerateMenuAccess resolves every section to its first candidate whose rule
// passes. When none passes the section reports HasAccess=false with the last
// candidate's link, which is for display only.
func GenerateMenuAccess(cfg Config, sections MenuSections) map[string]MenuAccess {
	out := make(map[string]MenuAccess, len(sections))
	for key, candidates := range sections {
		out[key] = resolveSection(cfg, candidates)
	}
	return out
}

func resolveSection(cfg Config, candidates []MenuCandidate) MenuAccess {
	for _, c := range candidates {
		if CheckAccess(cfg, c.AccessControl) {
			return MenuAccess{HasAccess: true, Link: c.Link}
		}
	}
	if len(candidates) == 0 {
		return MenuAccess{}
	}
	return MenuAccess{Link: candidates[len(candidates)-1].Link}
}
