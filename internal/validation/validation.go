package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern is a pragmatic email check: one '@', no spaces, a dot in the
// domain part. Full RFC 5322 validation is deliberately out of scope.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ColorPattern matches hex color codes like #3b82f6 or #fff.
var ColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

const (
	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen = 6
	// MaxEmailLen caps the stored email length.
	MaxEmailLen = 254
)

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email (already normalized) is usable as a login
// identifier.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email format is invalid")
	}

	return nil
}

// ValidatePassword checks minimum password requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateColor checks that color is a hex swatch like #3b82f6.
func ValidateColor(color string) error {
	if !ColorPattern.MatchString(color) {
		return fmt.Errorf("color must be a hex code like #3b82f6")
	}
	return nil
}
