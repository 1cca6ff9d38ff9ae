package model

import "strings"

// Role is the closed set of account roles, persisted uppercase.
type Role string

const (
	RoleUser     Role = "USER"
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

// Roles lists every role in display order.
var Roles = []Role{RoleUser, RoleEmployee, RoleAdmin}

// ParseRole accepts any casing and rejects unknown roles.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEmployee, RoleAdmin:
		return true
	default:
		return false
	}
}

// HomePath is where a freshly authenticated client lands.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleEmployee:
		return "/employee/tickets"
	case RoleUser:
		return "/tickets"
	default:
		return "/"
	}
}

func (r Role) String() string { return string(r) }

// Status is the lifecycle state of an account.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

var Statuses = []Status{StatusPending, StatusActive, StatusInactive, StatusSuspended}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive, StatusSuspended:
		return true
	default:
		return false
	}
}

// CanSignIn reports whether the account may hold a session.
func (s Status) CanSignIn() bool {
	switch s {
	case StatusActive, StatusPending:
		return true
	case StatusInactive, StatusSuspended:
		return false
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }
