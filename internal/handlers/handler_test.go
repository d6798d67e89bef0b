// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"digitaldrive/internal/builder"
	"digitaldrive/internal/cache"
	"digitaldrive/internal/database"
	"digitaldrive/internal/middleware"
	"digitaldrive/internal/models"
	"digitaldrive/internal/render"
	"digitaldrive/internal/session"
	"digitaldrive/internal/store"
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

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Renderer  *render.Renderer
	Sessions  *session.Store
	Builders  *builder.Registry
	UserStore *store.UserStore
	PageStore *store.PageStore
	TileStore *store.TileStore
	PageCache *cache.PageCache
	Admin     *Admin
	Auth      *Auth
	Public    *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	userStore := store.NewUserStore(db)
	pageStore := store.NewPageStore(db)
	tileStore := store.NewTileStore(db)
	builders := builder.NewRegistry(pageStore, tileStore)
	pageCache := cache.NewPageCache(vk, 1*time.Minute)

	admin := NewAdmin(renderer, sessions, builders, userStore, pageStore, tileStore, pageCache, "http://localhost:8080")
	auth := NewAuth(renderer, sessions, userStore, builders)
	public := NewPublic(pageStore, tileStore, pageCache)

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Renderer:  renderer,
		Sessions:  sessions,
		Builders:  builders,
		UserStore: userStore,
		PageStore: pageStore,
		TileStore: tileStore,
		PageCache: pageCache,
		Admin:     admin,
		Auth:      auth,
		Public:    public,
	}
}

// testOperator creates a throwaway operator account and returns it with
// a completed session. The account and everything it owns are removed
// when the test finishes.
func testOperator(t *testing.T, env *testEnv) (*models.User, *session.Data) {
	t.Helper()

	email := "op-" + uuid.NewString()[:8] + "@digitaldrive.local"
	user, err := env.UserStore.Create(context.Background(), email, "test-password", "Test Operator", models.RoleOperator)
	if err != nil {
		t.Fatalf("create test operator: %v", err)
	}
	t.Cleanup(func() {
		env.Builders.Drop(user.ID)
		env.DB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})

	return user, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   true,
	}
}

// pageDraft returns a minimal valid page draft for builder tests.
func pageDraft(title string) models.Page {
	return models.Page{
		Title:       title,
		Type:        models.PageTypeProduct,
		HeaderColor: models.DefaultHeaderColor,
		AccentColor: models.DefaultAccentColor,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withSession attaches session data to a request.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(ctxWithSession(r.Context(), sess))
}

// withChiURLParams attaches chi URL parameters and optionally a session
// to a request. Pairs are given as key, value, key, value, ...
func withChiURLParams(r *http.Request, sess *session.Data, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}
	return r.WithContext(ctx)
}
