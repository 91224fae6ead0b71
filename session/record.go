// Package session persists the single client session slot and derives the
// current role from whatever the slot holds.
package session

import (
	"encoding/json"
	"strings"
)

// Role is one of the closed set of route-gating roles.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleFaculty          Role = "faculty"
	RoleHOD              Role = "hod"
	RoleDean             Role = "dean"
	RoleDirector         Role = "director"
	RoleExternal         Role = "external"
	RoleVerificationTeam Role = "verification_team"
)

// Known reports whether r is one of the recognized roles.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleHOD, RoleDean, RoleDirector, RoleExternal, RoleVerificationTeam:
		return true
	}
	return false
}

// Record is the persisted session: the authenticated user's identity, role
// sources and bearer token. Server fields the client does not model are kept
// in Extra so that saving a loaded record never drops data.
type Record struct {
	ID          string
	Name        string
	Email       string
	Department  string
	Role        string
	Designation string
	Token       string

	Extra map[string]json.RawMessage
}

// ResolveRole applies the role precedence rule: the explicit role tag wins,
// else the lowercased designation, else none.
func (r *Record) ResolveRole() Role {
	if r == nil {
		return ""
	}
	if r.Role != "" {
		return Role(r.Role)
	}
	if r.Designation != "" {
		return Role(strings.ToLower(r.Designation))
	}
	return ""
}

// Wire keys for the known record fields. The server has used both "dept" and
// "department" for the organizational unit; "department" is preferred and
// "dept" accepted on input.
const (
	keyID          = "_id"
	keyName        = "name"
	keyEmail       = "email"
	keyDepartment  = "department"
	keyDept        = "dept"
	keyRole        = "role"
	keyDesignation = "desg"
	keyToken       = "token"
)

// MarshalJSON emits the known fields under their wire keys and overlays the
// extra bag. Extra entries never shadow a known field.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Extra)+8)
	for k, v := range r.Extra {
		out[k] = v
	}

	set := func(key, val string, always bool) error {
		if val == "" && !always {
			return nil
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return err
		}
		out[key] = raw
		return nil
	}

	if err := set(keyID, r.ID, true); err != nil {
		return nil, err
	}
	if err := set(keyName, r.Name, true); err != nil {
		return nil, err
	}
	if err := set(keyEmail, r.Email, true); err != nil {
		return nil, err
	}
	if err := set(keyDepartment, r.Department, true); err != nil {
		return nil, err
	}
	if err := set(keyRole, r.Role, false); err != nil {
		return nil, err
	}
	if err := set(keyDesignation, r.Designation, false); err != nil {
		return nil, err
	}
	if err := set(keyToken, r.Token, false); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// UnmarshalJSON fills the known fields and keeps every unrecognized key in
// the extra bag verbatim.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	take := func(key string, dst *string) {
		v, ok := raw[key]
		if !ok {
			return
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			// Non-string value under a known key: leave it in the bag.
			return
		}
		*dst = s
		delete(raw, key)
	}

	take(keyID, &r.ID)
	take(keyName, &r.Name)
	take(keyEmail, &r.Email)
	take(keyDepartment, &r.Department)
	if r.Department == "" {
		take(keyDept, &r.Department)
	}
	take(keyRole, &r.Role)
	take(keyDesignation, &r.Designation)
	take(keyToken, &r.Token)

	if len(raw) > 0 {
		r.Extra = raw
	} else {
		r.Extra = nil
	}
	return nil
}
