package domain

import "strings"

// Role is the fixed identity label of a connected party. Exactly two exist
// per session: the first connection gets RoleFirst, the second RoleSecond.
type Role string

const (
	RoleFirst  Role = "first"
	RoleSecond Role = "second"
)

// LeaveKeyword is the magic content value historically accepted as a leave
// signal inside a regular content message, alongside the explicit QUIT frame.
const LeaveKeyword = "sair"

// Other returns the counterpart role.
func (r Role) Other() Role {
	if r == RoleFirst {
		return RoleSecond
	}
	return RoleFirst
}

func (r Role) Valid() bool {
	return r == RoleFirst || r == RoleSecond
}

// IsLeaveText reports whether a content text counts as a leave signal.
// Comparison is case-insensitive after trimming surrounding whitespace.
func IsLeaveText(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), LeaveKeyword)
}
