package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrEmptyUserID is returned when a user carries no identifier.
var ErrEmptyUserID = errors.New("user id is empty")

// UserID is the stable identifier of a user for the lifetime of a session.
//
// Hosts may key users by strings or integers. Both are normalised to the
// decimal/string form, which is the identifier form every adapter stores.
type UserID string

// IntUserID converts an integer key into a [UserID].
func IntUserID(n int64) UserID {
	return UserID(strconv.FormatInt(n, 10))
}

func (id UserID) String() string {
	return string(id)
}

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// Role is a named bundle of permissions.
type Role struct {
	Name        string   `json:"name"        yaml:"name"`
	Permissions []string `json:"permissions" yaml:"permissions"`
}

// User is the value persisted per session. It satisfies the minimal
// identifier shape through ID and carries roles plus arbitrary attributes.
//
// The JSON form is flat: "id" and "roles" sit next to the attribute keys.
// Attribute keys named "id" or "roles" are ignored on encode.
type User struct {
	ID         UserID
	Roles      []Role
	Attributes map[string]any
}

// Validate reports whether the user can be persisted.
func (u *User) Validate() error {
	if u == nil || u.ID == "" {
		return ErrEmptyUserID
	}
	return nil
}

// Attribute returns a single attribute value.
func (u *User) Attribute(key string) (any, bool) {
	if u == nil {
		return nil, false
	}
	if key == "id" {
		return string(u.ID), true
	}
	v, ok := u.Attributes[key]
	return v, ok
}

// Clone returns a deep copy of u. Nil stays nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	out := &User{ID: u.ID}
	if u.Roles != nil {
		out.Roles = make([]Role, len(u.Roles))
		for i, r := range u.Roles {
			out.Roles[i] = Role{Name: r.Name}
			if r.Permissions != nil {
				out.Roles[i].Permissions = append([]string(nil), r.Permissions...)
			}
		}
	}
	if u.Attributes != nil {
		out.Attributes = make(map[string]any, len(u.Attributes))
		for k, v := range u.Attributes {
			out.Attributes[k] = cloneValue(v)
		}
	}
	return out
}

// Normalize returns a copy of u in its JSON form: attribute values become
// what encoding/json decodes them to (float64 numbers, []any slices,
// map[string]any objects). Every storage strategy hands back users in this
// form, whether or not the record was ever serialized.
func (u *User) Normalize() (*User, error) {
	if u == nil {
		return nil, nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	var out User
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &out, nil
}

// MarshalJSON renders the flat JSON form.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Attributes)+2)
	for k, v := range u.Attributes {
		if k == "id" || k == "roles" {
			continue
		}
		out[k] = v
	}
	out["id"] = u.ID
	if len(u.Roles) > 0 {
		out["roles"] = u.Roles
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the flat JSON form.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var next User
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &next.ID); err != nil {
			return err
		}
		delete(raw, "id")
	}
	if v, ok := raw["roles"]; ok {
		if err := json.Unmarshal(v, &next.Roles); err != nil {
			return fmt.Errorf("decode roles: %w", err)
		}
		delete(raw, "roles")
	}
	if len(raw) > 0 {
		next.Attributes = make(map[string]any, len(raw))
		for k, v := range raw {
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return fmt.Errorf("decode attribute %q: %w", k, err)
			}
			next.Attributes[k] = val
		}
	}

	*u = next
	return nil
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
