package membership

import (
	"slices"

	"github.com/jrsteele09/portal-group-access/portal"
)

// State is a step of one reconciliation.
type State string

const (
	StateUnchecked      State = "unchecked"
	StateAlreadyMember  State = "already_member"
	StateNeedsDirectAdd State = "needs_direct_add"
	StateNeedsInvite    State = "needs_invite"

	StateAdded                  State = "added"
	StateInvited                State = "invited"
	StateInviteAcceptedOnBehalf State = "invite_accepted_on_behalf"
	StateFailed                 State = "failed"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StateAlreadyMember, StateAdded, StateInvited, StateInviteAcceptedOnBehalf, StateFailed:
		return true
	}
	return false
}

// Role is a user's standing in a group.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleMember    Role = "member"
	RoleInvited   Role = "invited"
	RoleNotMember Role = "not-a-member"
)

// RoleOf derives username's role from a group roster.
func RoleOf(roster *portal.GroupUsers, username string) Role {
	switch {
	case roster == nil || username == "":
		return RoleNotMember
	case roster.Owner == username:
		return RoleOwner
	case slices.Contains(roster.Admins, username):
		return RoleAdmin
	case slices.Contains(roster.Users, username):
		return RoleMember
	}
	return RoleNotMember
}

// IsMember reports whether the role already grants group access.
func (r Role) IsMember() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember
}
