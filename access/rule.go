package access

// Rule is the access-control declaration attached to a protected resource.
//
// A nil category places no constraint. A non-nil but empty Roles or
// Permissions list can never be satisfied, so it denies; an empty Attributes
// map is satisfied vacuously.
type Rule struct {
	Roles       []string       `json:"roles,omitempty"       yaml:"roles,omitempty"`
	Permissions []string       `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"  yaml:"attributes,omitempty"`
}

// IsEmpty reports whether the rule declares no predicate at all.
func (r Rule) IsEmpty() bool {
	return r.Roles == nil && r.Permissions == nil && r.Attributes == nil
}

// Config is the per-request snapshot of what a user holds. It is derived by
// [GenerateUserAccessControlConfig] and must not be cached across requests.
type Config struct {
	UserRoles       []string       `json:"userRoles"`
	UserPermissions []string       `json:"userPermissions"`
	UserAttributes  map[string]any `json:"userAttributes"`
}

// MenuCandidate is one entry of a menu section: the rule guarding it and the
// link shown when it is chosen.
type MenuCandidate struct {
	AccessControl Rule   `json:"accessControl" yaml:"accessControl"`
	Link          string `json:"link"          yaml:"link"`
}

// MenuSections maps a section key to its ordered candidates.
type MenuSections map[string][]MenuCandidate

// MenuAccess is the resolved state of one menu section.
type MenuAccess struct {
	HasAccess bool   `json:"hasAccess"`
	Link      string `json:"link"`
}
