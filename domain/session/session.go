// Package session provides the session fact consumed by route evaluation.
// This package has NO dependencies on I/O or external packages. The session
// itself is established elsewhere; this core only reads it.
package session

// Role identifies the privilege level of a session.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole converts a stored role string. Unknown values map to guest so
// a corrupted role can never grant privilege.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s)
	default:
		return RoleGuest
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Session represents the authentication facts for one request (immutable
// value type). It is supplied by an external collaborator and never mutated
// by route evaluation.
type Session struct {
	Authenticated bool
	Role          Role
	UserID        string // empty when unauthenticated
}

// Anonymous returns the session used when no credentials are present.
func Anonymous() Session {
	return Session{Authenticated: false, Role: RoleGuest}
}
