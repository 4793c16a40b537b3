package otp

import "errors"

var (
	ErrInvalidEmail      = errors.New("a valid email is required")
	ErrMissingFields     = errors.New("email and otp are required")
	ErrAlreadyRegistered = errors.New("email already registered")
	ErrNoChallenge       = errors.New("no code found for this email, request a code first")
	ErrExpired           = errors.New("code expired, request a new one")
	ErrInvalidCode       = errors.New("invalid code")
)

// IsRejection reports whether err is a client-side rejection rather than an
// infrastructure failure.
func IsRejection(err error) bool {
	for _, target := range []error{ErrInvalidEmail, ErrMissingFields, ErrAlreadyRegistered, ErrNoChallenge, ErrExpired, ErrInvalidCode} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
