// Package validation provides input validation utilities.
package validation

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

var reservedUsernames = map[string]struct{}{
	"admin":         {},
	"api":           {},
	"auth":          {},
	"me":            {},
	"settings":      {},
	"users":         {},
	"posts":         {},
	"comments":      {},
	"conversations": {},
	"notifications": {},
	"events":        {},
	"saved":         {},
	"media":         {},
	"generate":      {},
	"ws":            {},
	"metrics":       {},
	"login":         {},
	"signup":        {},
	"cheapbite":     {},
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only lowercase letters, numbers, and underscores")
	}

	if strings.HasPrefix(username, "_") || strings.HasSuffix(username, "_") {
		return fmt.Errorf("username cannot start or end with an underscore")
	}

	if _, exists := reservedUsernames[username]; exists {
		return fmt.Errorf("username is reserved")
	}

	return nil
}

// ValidateEmail performs a light structural check on an email address.
func ValidateEmail(email string) error {
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

var invalidUsernameChars = regexp.MustCompile(`[^a-z0-9_]`)

// DeriveUsername builds a username candidate from the local part of an email
// address. Invalid characters are stripped; too-short or reserved results fall
// back to a randomized handle.
func DeriveUsername(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	candidate := invalidUsernameChars.ReplaceAllString(strings.ToLower(local), "")
	candidate = strings.Trim(candidate, "_")
	if len(candidate) > 30 {
		candidate = candidate[:30]
	}
	if ValidateUsername(candidate) != nil {
		return RandomUsername()
	}
	return candidate
}

// RandomUsername returns a randomized fallback handle.
func RandomUsername() string {
	return fmt.Sprintf("foodie_%06d", rand.Intn(1000000))
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and collapses runs of non-alphanumeric characters into
// single hyphens. Used for saved-item ID derivation.
func Slug(s string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
