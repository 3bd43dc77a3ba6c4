package entities

import (
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// Auth-adjacent records. These have explicit-deletion lifecycles (removed on
// logout or use) and are looked up through secondary indexes on their hash,
// phone or email rather than their partition key.

// RefreshToken is a stored refresh-token hash for a user session
type RefreshToken struct {
	UserID    valueobjects.UserID
	TokenHash string
	Device    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry
func (t RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// VerificationCode is a phone verification code awaiting confirmation
type VerificationCode struct {
	UserID    valueobjects.UserID
	Phone     string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordResetRequest is an outstanding password reset token for an email
type PasswordResetRequest struct {
	UserID    valueobjects.UserID
	Email     string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
