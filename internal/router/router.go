// Package router sets up all HTTP routes and middleware chains for the
// Digital Drive server. It organizes routes into public and admin groups
// with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"digitaldrive/internal/handlers"
	"digitaldrive/internal/middleware"
	"digitaldrive/internal/session"
	"digitaldrive/web"
)

// Options carries the router's cross-cutting settings.
type Options struct {
	// Secure marks cookies Secure; enabled outside development.
	Secure bool

	// LoginLimiter throttles login attempts per client IP. Optional.
	LoginLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Embedded static assets for the admin UI in production builds.
	if staticFS, err := fs.Sub(web.StaticFS, "static"); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	// Admin routes — require authentication and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.Secure))

		// Auth pages — accessible without a session.
		r.Get("/login", auth.LoginPage)
		if opts.LoginLimiter != nil {
			r.With(opts.LoginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		} else {
			r.Post("/login", auth.LoginSubmit)
		}
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// Authenticated + 2FA-verified builder area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Dashboard
			r.Get("/", admin.Dashboard)
			r.Get("/dashboard", admin.Dashboard)

			// Page builder
			r.Get("/builder", admin.Builder)
			r.Post("/builder/select/{pageID}", admin.BuilderSelect)

			// Pages and their tiles
			r.Route("/pages", func(r chi.Router) {
				r.Get("/new", admin.PageNew)
				r.Post("/", admin.PageCreate)
				r.Get("/{pageID}/edit", admin.PageEdit)
				r.Post("/{pageID}", admin.PageUpdate)
				r.Post("/{pageID}/delete", admin.PageDelete)

				r.Route("/{pageID}/tiles", func(r chi.Router) {
					r.Get("/new", admin.TileNew)
					r.Post("/", admin.TileCreate)
					r.Get("/{tileID}/edit", admin.TileEdit)
					r.Post("/{tileID}", admin.TileUpdate)
					r.Post("/{tileID}/delete", admin.TileDelete)
				})
			})

			// Preview and export
			r.Get("/preview/{pageID}", admin.Preview)
			r.Get("/preview/{pageID}/frame", admin.PreviewFrame)
			r.Get("/export/{pageID}", admin.Export)

			// User management — admin only
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.UsersList)
				r.Get("/new", admin.UserNew)
				r.Post("/", admin.UserCreate)
				r.Post("/{userID}/reset-2fa", admin.UserReset2FA)
			})
		})
	})

	// Public routes.
	r.Get("/", public.Homepage)
	r.Get("/page/{pageID}", public.Page)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
