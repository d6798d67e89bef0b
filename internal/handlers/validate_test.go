package handlers

import (
	"strings"
	"testing"

	"digitaldrive/internal/models"
)

func TestValidateNewUser(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		password    string
		displayName string
		role        models.Role
		wantErr     string
	}{
		{"valid operator", "op@digitaldrive.local", "long-enough", "Op", models.RoleOperator, ""},
		{"valid admin", "boss@digitaldrive.local", "long-enough", "Boss", models.RoleAdmin, ""},
		{"empty email", "", "long-enough", "Op", models.RoleOperator, "Email is required."},
		{"whitespace email", "   ", "long-enough", "Op", models.RoleOperator, "Email is required."},
		{"no at sign", "not-an-email", "long-enough", "Op", models.RoleOperator, "Email is not valid."},
		{"short password", "op@digitaldrive.local", "short", "Op", models.RoleOperator, "Password must be at least 8 characters."},
		{"empty name", "op@digitaldrive.local", "long-enough", "  ", models.RoleOperator, "Display name is required."},
		{"long name", "op@digitaldrive.local", "long-enough", strings.Repeat("x", 201), models.RoleOperator, "Display name is too long (max 200 characters)."},
		{"bad role", "op@digitaldrive.local", "long-enough", "Op", models.Role("superuser"), "Role must be admin or operator."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateNewUser(tt.email, tt.password, tt.displayName, tt.role)
			if got != tt.wantErr {
				t.Errorf("validateNewUser() = %q, want %q", got, tt.wantErr)
			}
		})
	}
}
