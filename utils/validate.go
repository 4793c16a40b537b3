package utils

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail checks the basic local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
