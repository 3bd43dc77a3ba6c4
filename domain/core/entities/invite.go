package entities

import (
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// InviteCode is a group invitation code. The code string is not a UUID; it
// is a short random token looked up through a secondary index, with
// uniqueness enforced by an existence-check retry loop at creation.
type InviteCode struct {
	Code      string
	GroupID   valueobjects.GroupID
	CreatedBy valueobjects.UserID
	CreatedAt time.Time
	MaxUses   int
	Uses      int
	Revoked   bool
}

// Usable reports whether the code can still admit members
func (c InviteCode) Usable() bool {
	if c.Revoked {
		return false
	}
	return c.MaxUses == 0 || c.Uses < c.MaxUses
}
