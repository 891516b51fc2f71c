// Package roles defines the access roles and the capability set each one
// grants. Gates check capabilities rather than comparing role strings, so
// adding a role is a matter of extending the grant table.
package roles

// Role is an access role attached to a user account.
type Role string

// Known roles.
const (
	// RoleMaster can manage characters, session logs, and accounts.
	RoleMaster Role = "master"
	// RoleReadonly can only view characters and session logs.
	RoleReadonly Role = "readonly"
)

// Capability is a single permitted action.
type Capability string

// Capability definitions.
const (
	CapViewCharacters    Capability = "characters.view"
	CapManageCharacters  Capability = "characters.manage"
	CapViewSessionLogs   Capability = "session-logs.view"
	CapManageSessionLogs Capability = "session-logs.manage"
	CapManageUsers       Capability = "users.manage"
)

// grants maps each role to its capability set.
var grants = map[Role]map[Capability]struct{}{
	RoleMaster: {
		CapViewCharacters:    {},
		CapManageCharacters:  {},
		CapViewSessionLogs:   {},
		CapManageSessionLogs: {},
		CapManageUsers:       {},
	},
	RoleReadonly: {
		CapViewCharacters:  {},
		CapViewSessionLogs: {},
	},
}

// Valid reports whether the role is a known role.
func (r Role) Valid() bool {
	_, ok := grants[r]
	return ok
}

// Has reports whether the role grants the capability.
func (r Role) Has(cap Capability) bool {
	set, ok := grants[r]
	if !ok {
		return false
	}
	_, ok = set[cap]
	return ok
}

// Capabilities returns the capabilities granted to the role.
func (r Role) Capabilities() []Capability {
	set, ok := grants[r]
	if !ok {
		return nil
	}
	out := make([]Capability, 0, len(set))
	for cap := range set {
		out = append(out, cap)
	}
	return out
}
