package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"digitaldrive/internal/middleware"
	"digitaldrive/internal/session"

	"github.com/google/uuid"
)

func newRenderer(t *testing.T, devMode bool) *Renderer {
	t.Helper()
	rn, err := New(devMode)
	if err != nil {
		t.Fatalf("New(%v): %v", devMode, err)
	}
	return rn
}

func adminSession() *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "test@digitaldrive.local",
		DisplayName: "Test User",
		Role:        "admin",
		TwoFADone:   true,
	}
}

// adminRequest carries a session in its context the way LoadSession would.
func adminRequest(target string, sess *session.Data) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sess != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.SessionKey, sess))
	}
	return req
}

func dashboardData(sess *session.Data) *PageData {
	return &PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Session: sess,
		Data:    map[string]any{"PageCount": 3, "TileCount": 10, "UserCount": 2},
	}
}

func TestNewParsesTemplates(t *testing.T) {
	for _, devMode := range []bool{true, false} {
		rn := newRenderer(t, devMode)

		// Every admin view plus the standalone auth pages must be present;
		// base.html is the layout and must not be registered on its own.
		for _, name := range []string{
			"dashboard", "login", "2fa_setup", "2fa_verify",
			"builder", "page_form", "tile_form", "preview",
			"users_list", "user_form",
		} {
			if _, ok := rn.templates[name]; !ok {
				t.Errorf("devMode=%v: template %q not parsed", devMode, name)
			}
		}
		if _, ok := rn.templates["base"]; ok {
			t.Errorf("devMode=%v: base layout registered as a template", devMode)
		}
	}
}

func TestAssetModes(t *testing.T) {
	t.Run("dev mode uses CDN assets", func(t *testing.T) {
		rn := newRenderer(t, true)

		w := httptest.NewRecorder()
		rn.Page(w, adminRequest("/admin/login", nil), "login", &PageData{Title: "Login"})

		body := w.Body.String()
		if !strings.Contains(body, "cdn.tailwindcss.com") {
			t.Error("expected Tailwind CDN reference")
		}
		if strings.Contains(body, "/static/css/admin.css") {
			t.Error("dev mode should not reference compiled static CSS")
		}
	})

	t.Run("prod mode uses local assets", func(t *testing.T) {
		rn := newRenderer(t, false)

		w := httptest.NewRecorder()
		rn.Page(w, adminRequest("/admin/login", nil), "login", &PageData{Title: "Login"})

		body := w.Body.String()
		if strings.Contains(body, "cdn.tailwindcss.com") {
			t.Error("prod mode should not reference the Tailwind CDN")
		}
		if !strings.Contains(body, "/static/css/admin.css") {
			t.Error("expected compiled static CSS reference")
		}
	})
}

func TestFullPageRender(t *testing.T) {
	rn := newRenderer(t, true)
	sess := adminSession()

	w := httptest.NewRecorder()
	rn.Page(w, adminRequest("/admin/dashboard", sess), "dashboard", dashboardData(sess))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "Digital Drive", "Welcome back"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestHTMXPartialRender(t *testing.T) {
	rn := newRenderer(t, true)
	sess := adminSession()

	req := adminRequest("/admin/dashboard", sess)
	req.Header.Set("HX-Request", "true")

	w := httptest.NewRecorder()
	rn.Page(w, req, "dashboard", dashboardData(sess))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}

	body := w.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") || strings.Contains(body, "<head>") {
		t.Error("partial render should not include the base layout")
	}
	if !strings.Contains(body, "Welcome back") {
		t.Error("partial render should still include the content block")
	}
}

func TestStandaloneTemplates(t *testing.T) {
	rn := newRenderer(t, true)

	for _, name := range []string{"login", "2fa_setup", "2fa_verify"} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			rn.Page(w, adminRequest("/admin/"+name, nil), name, &PageData{Title: name, Data: map[string]any{}})

			if w.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", w.Code)
			}

			body := w.Body.String()
			if !strings.Contains(body, "<!DOCTYPE html>") {
				t.Error("standalone template should render its own document")
			}
			// The base layout sidebar carries this class.
			if strings.Contains(body, "lg:flex-shrink-0") {
				t.Error("standalone template should not pull in the admin sidebar")
			}
		})
	}
}

func TestMissingTemplate(t *testing.T) {
	rn := newRenderer(t, true)

	w := httptest.NewRecorder()
	rn.Page(w, adminRequest("/admin/nope", nil), "no_such_template", &PageData{Title: "Nope"})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Error("error body should mention the missing template")
	}
}

func TestCSRFTokenInjection(t *testing.T) {
	rn := newRenderer(t, true)

	// Run a request through the CSRF middleware to get a token into the
	// context, then render with that request.
	var captured *http.Request
	handler := middleware.NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	if captured == nil {
		t.Fatal("CSRF middleware did not invoke the handler")
	}
	token := middleware.CSRFTokenFromCtx(captured.Context())
	if token == "" {
		t.Fatal("no CSRF token in context")
	}

	w := httptest.NewRecorder()
	data := &PageData{Title: "Login"}
	rn.Page(w, captured, "login", data)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", w.Code, w.Body.String())
	}
	if data.CSRFToken != token {
		t.Errorf("PageData.CSRFToken: got %q, want %q", data.CSRFToken, token)
	}
	if !strings.Contains(w.Body.String(), token) {
		t.Error("rendered output should embed the CSRF token")
	}
}

func TestSessionInjection(t *testing.T) {
	rn := newRenderer(t, true)
	sess := adminSession()

	// Session deliberately left off the PageData; Page should pull it
	// from the request context.
	data := &PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    map[string]any{"PageCount": 0, "TileCount": 0, "UserCount": 0},
	}

	w := httptest.NewRecorder()
	rn.Page(w, adminRequest("/admin/dashboard", sess), "dashboard", data)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", w.Code, w.Body.String())
	}
	if data.Session == nil || data.Session.DisplayName != "Test User" {
		t.Errorf("session not injected from context: %+v", data.Session)
	}
	if !strings.Contains(w.Body.String(), "Test User") {
		t.Error("rendered output should show the operator's display name")
	}
}

func TestIsHTMX(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"true", true},
		{"false", false},
		{"yes", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("HX-Request", tt.header)
		}
		if got := isHTMX(req); got != tt.want {
			t.Errorf("HX-Request=%q: got %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestBuilderTemplateEmptyState(t *testing.T) {
	rn := newRenderer(t, true)
	sess := adminSession()
	w := httptest.NewRecorder()
	rn.Page(w, adminRequest("/admin/builder", sess), "builder", &PageData{
		Title:   "Builder",
		Section: "builder",
		Session: sess,
		Data:    map[string]any{"Pages": nil, "Selected": nil},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "No pages yet") {
		t.Error("builder with no pages should show the empty state")
	}
}
