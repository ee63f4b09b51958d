package model

import "time"

// Role values stored in users.role and embedded in session tokens.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User mirrors the `users` table.  Verification fields track the e-mail
// confirmation flow: a 6-digit code with an expiry and a sent-at timestamp
// used to throttle resends.  FailedLoginAttempts and LockedUntil implement
// account lockout after repeated bad passwords.
type User struct {
	ID                      uint64
	Email                   string
	PasswordHash            string
	Role                    string
	EmailVerified           bool
	VerificationCode        *string
	VerificationCodeExpires *time.Time
	VerificationCodeSentAt  *time.Time
	FailedLoginAttempts     int
	LockedUntil             *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Locked reports whether the account is currently locked out.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
