package handlers

import (
	"strings"
	"unicode/utf8"

	"digitaldrive/internal/models"
)

// Validation limits for the user form.
const (
	maxEmailLen       = 254
	maxDisplayNameLen = 200
	minPasswordLen    = 8
)

// validateNewUser checks the new user form inputs and returns the first
// error found. Page and tile forms are validated by the editor package.
func validateNewUser(email, password, displayName string, role models.Role) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen || !strings.Contains(email, "@") {
		return "Email is not valid."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "Display name is required."
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return "Display name is too long (max 200 characters)."
	}
	if role != models.RoleAdmin && role != models.RoleOperator {
		return "Role must be admin or operator."
	}
	return ""
}
