package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default admin user if none exists, plus a sample page so
// the builder has something to show on first login. The admin will be
// prompted to set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user. 2FA is not enabled — they must set it up
	// on first login.
	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "admin@digitaldrive.local", string(hash), "Admin", "admin", false).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A sample product page with two tiles so the builder isn't empty.
	var pageID string
	err = db.QueryRow(`
		INSERT INTO pages (user_id, title, type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, adminID, "Welcome to Digital Drive", "product",
		"Edit this page in the builder, or create your own.").Scan(&pageID)
	if err != nil {
		return fmt.Errorf("seed insert page: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO tiles (page_id, user_id, title, description, link_url, link_type)
		VALUES
			($1, $2, 'Our Services', 'What we can do for you.', 'https://www.digitaldrive.pk', 'external'),
			($1, $2, 'Get in Touch', 'Questions? Write to us.', 'mailto:hello@digitaldrive.pk', 'external')
	`, pageID, adminID)
	if err != nil {
		return fmt.Errorf("seed insert tiles: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@digitaldrive.local",
		"password", "admin",
	)

	return nil
}
