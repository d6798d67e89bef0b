// store_test.go provides shared test infrastructure for store integration
// tests. Tests are skipped when PostgreSQL is unavailable.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"digitaldrive/internal/database"
	"digitaldrive/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "digitaldrive")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "digitaldrive")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testOwner creates a throwaway user to own pages and tiles in a test.
func testOwner(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()

	s := NewUserStore(db)
	email := "owner-" + uuid.NewString()[:8] + "@test.local"
	u, err := s.Create(context.Background(), email, "password123", "Test Owner", models.RoleOperator)
	if err != nil {
		t.Fatalf("create test owner: %v", err)
	}
	t.Cleanup(func() {
		// Pages cascade to tiles; remove the owner's rows then the owner.
		db.Exec("DELETE FROM pages WHERE user_id = $1", u.ID)
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u.ID
}

// testPage creates a page owned by ownerID with sensible defaults.
func testPage(t *testing.T, db *sql.DB, ownerID uuid.UUID, title string) *models.Page {
	t.Helper()

	s := NewPageStore(db)
	p, err := s.Create(context.Background(), ownerID, &models.Page{
		Title:       title,
		Type:        models.PageTypeProduct,
		HeaderColor: models.DefaultHeaderColor,
		AccentColor: models.DefaultAccentColor,
	})
	if err != nil {
		t.Fatalf("create test page: %v", err)
	}
	return p
}
