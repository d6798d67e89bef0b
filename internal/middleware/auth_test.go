package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"digitaldrive/internal/session"

	"github.com/google/uuid"
)

func sessionData(role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "op@digitaldrive.local",
		DisplayName: "Operator",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// probe returns a handler that records whether it ran.
func probe() (http.Handler, *bool) {
	ran := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		w.WriteHeader(http.StatusOK)
	}), &ran
}

func requestWithSession(target string, data *session.Data) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if data != nil {
		req = req.WithContext(context.WithValue(req.Context(), SessionKey, data))
	}
	return req
}

func TestSessionFromCtx(t *testing.T) {
	sess := sessionData("admin", true)
	ctx := context.WithValue(context.Background(), SessionKey, sess)

	got := SessionFromCtx(ctx)
	if got == nil || got.Email != sess.Email || got.Role != "admin" {
		t.Errorf("got %+v, want the stored session", got)
	}

	if SessionFromCtx(context.Background()) != nil {
		t.Error("empty context should yield nil")
	}

	badCtx := context.WithValue(context.Background(), SessionKey, "not-a-session")
	if SessionFromCtx(badCtx) != nil {
		t.Error("wrong value type should yield nil")
	}
}

func TestLoadSessionWithoutCookie(t *testing.T) {
	// No cookie on the request means Store.Get returns before touching
	// Valkey, so a store with no live client is fine here.
	store := session.NewStore(nil, false)

	var got *session.Data
	handler := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if got != nil {
		t.Errorf("expected no session in context, got %+v", got)
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("no session redirects to login", func(t *testing.T) {
		inner, ran := probe()
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, requestWithSession("/admin/builder", nil))

		if *ran {
			t.Error("handler should not run")
		}
		if rr.Code != http.StatusSeeOther {
			t.Errorf("status: got %d, want 303", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/admin/login" {
			t.Errorf("location: got %q, want /admin/login", loc)
		}
	})

	t.Run("session passes through", func(t *testing.T) {
		inner, ran := probe()
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, requestWithSession("/admin/builder", sessionData("operator", true)))

		if !*ran {
			t.Error("handler should run")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

func TestRequire2FA(t *testing.T) {
	tests := []struct {
		name     string
		sess     *session.Data
		wantCode int
		wantLoc  string
		wantRan  bool
	}{
		{"pending 2FA redirects to setup", sessionData("admin", false), http.StatusSeeOther, "/admin/2fa/setup", false},
		{"completed 2FA passes through", sessionData("admin", true), http.StatusOK, "", true},
		{"nil session passes through for RequireAuth to handle", nil, http.StatusOK, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, ran := probe()
			rr := httptest.NewRecorder()
			Require2FA(inner).ServeHTTP(rr, requestWithSession("/admin/builder", tt.sess))

			if *ran != tt.wantRan {
				t.Errorf("handler ran: got %v, want %v", *ran, tt.wantRan)
			}
			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantLoc != "" {
				if loc := rr.Header().Get("Location"); loc != tt.wantLoc {
					t.Errorf("location: got %q, want %q", loc, tt.wantLoc)
				}
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		sess     *session.Data
		wantCode int
	}{
		{"nil session", nil, http.StatusForbidden},
		{"operator role", sessionData("operator", true), http.StatusForbidden},
		{"blank role", sessionData("", true), http.StatusForbidden},
		{"admin role", sessionData("admin", true), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, ran := probe()
			rr := httptest.NewRecorder()
			RequireAdmin(inner).ServeHTTP(rr, requestWithSession("/admin/users", tt.sess))

			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if wantRan := tt.wantCode == http.StatusOK; *ran != wantRan {
				t.Errorf("handler ran: got %v, want %v", *ran, wantRan)
			}
		})
	}
}
