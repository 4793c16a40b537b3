package models

import "time"

// OTPChallenge is the pending verification code for one email address.
// The code is kept as a bcrypt hash so a leaked store does not leak codes.
type OTPChallenge struct {
	CodeHash  string    `json:"codeHash"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the challenge is past its expiry at now.
func (c OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
