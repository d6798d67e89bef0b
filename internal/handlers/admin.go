// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for Digital Drive.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"digitaldrive/internal/builder"
	"digitaldrive/internal/cache"
	"digitaldrive/internal/editor"
	"digitaldrive/internal/export"
	"digitaldrive/internal/middleware"
	"digitaldrive/internal/models"
	"digitaldrive/internal/render"
	"digitaldrive/internal/session"
	"digitaldrive/internal/store"
)

// Admin groups all builder panel HTTP handlers and their dependencies.
type Admin struct {
	renderer      *render.Renderer
	sessions      *session.Store
	builders      *builder.Registry
	userStore     *store.UserStore
	pageStore     *store.PageStore
	tileStore     *store.TileStore
	pageCache     *cache.PageCache
	publicBaseURL string
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// pageCache may be nil when Valkey is not configured. publicBaseURL is
// the externally visible origin used for shareable page links.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, builders *builder.Registry, userStore *store.UserStore, pageStore *store.PageStore, tileStore *store.TileStore, pageCache *cache.PageCache, publicBaseURL string) *Admin {
	return &Admin{
		renderer:      renderer,
		sessions:      sessions,
		builders:      builders,
		userStore:     userStore,
		pageStore:     pageStore,
		tileStore:     tileStore,
		pageCache:     pageCache,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// notices maps the one-time notice codes carried in the redirect query
// string to the flash shown on the next page load.
var notices = map[string]render.Flash{
	"page-created":  {Type: "success", Message: "Page created."},
	"page-updated":  {Type: "success", Message: "Page updated."},
	"page-deleted":  {Type: "success", Message: "Page deleted."},
	"tile-created":  {Type: "success", Message: "Tile added."},
	"tile-updated":  {Type: "success", Message: "Tile updated."},
	"tile-deleted":  {Type: "success", Message: "Tile deleted."},
	"user-created":  {Type: "success", Message: "User created."},
	"2fa-reset":     {Type: "success", Message: "Two-factor authentication was reset."},

	"err-page-create": {Type: "error", Message: "Could not create the page. Please try again."},
	"err-page-update": {Type: "error", Message: "Could not update the page. Please try again."},
	"err-page-delete": {Type: "error", Message: "Could not delete the page. Please try again."},
	"err-tile-create": {Type: "error", Message: "Could not add the tile. Please try again."},
	"err-tile-update": {Type: "error", Message: "Could not update the tile. Please try again."},
	"err-tile-delete": {Type: "error", Message: "Could not delete the tile. Please try again."},
	"err-2fa-reset":   {Type: "error", Message: "Could not reset two-factor authentication. Please try again."},
	"err-not-found":   {Type: "error", Message: "That item no longer exists."},
	"err-timeout":     {Type: "error", Message: "The operation timed out. Please try again."},
}

// flashesFrom translates the notice query parameter into flashes.
func flashesFrom(r *http.Request) []render.Flash {
	if f, ok := notices[r.URL.Query().Get("notice")]; ok {
		return []render.Flash{f}
	}
	return nil
}

// noticeFor picks the notice code for a failed builder operation.
// Not-found and timeout failures keep their error-class notice; every
// other failure gets the action's own notice so the operator sees
// which step went wrong.
func noticeFor(action string, err error) string {
	switch {
	case errors.Is(err, builder.ErrNotFound):
		return "err-not-found"
	case errors.Is(err, builder.ErrTimeout):
		return "err-timeout"
	default:
		return "err-" + action
	}
}

// redirectNotice sends a see-other redirect carrying a one-time notice.
func redirectNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	http.Redirect(w, r, path+"?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

// controller resolves the current operator's builder controller. On
// failure it writes the error response and returns ok=false.
func (a *Admin) controller(w http.ResponseWriter, r *http.Request) (*builder.Controller, *session.Data, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return nil, nil, false
	}

	ctl, err := a.builders.Get(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("builder load failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, nil, false
	}
	return ctl, sess, true
}

// pageID extracts and parses the pageID URL parameter.
func pageID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "pageID"))
}

// Dashboard renders the admin dashboard with per-operator stats.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	pageCount, err := a.pageStore.CountByOwner(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("count pages failed", "error", err, "user_id", sess.UserID)
	}
	tileCount, err := a.tileStore.CountByOwner(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("count tiles failed", "error", err, "user_id", sess.UserID)
	}

	data := map[string]any{
		"PageCount": pageCount,
		"TileCount": tileCount,
	}
	if sess.Role == string(models.RoleAdmin) {
		users, err := a.userStore.List(r.Context())
		if err != nil {
			slog.Error("list users failed", "error", err)
		}
		data["UserCount"] = len(users)
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    data,
	})
}

// --- Builder panel ---

// Builder renders the page builder: the operator's page list plus the
// currently selected page with its tiles.
func (a *Admin) Builder(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	a.renderer.Page(w, r, "builder", &render.PageData{
		Title:   "Page Builder",
		Section: "builder",
		Flashes: flashesFrom(r),
		Data: map[string]any{
			"Pages":    ctl.Pages(),
			"Selected": ctl.Selected(),
		},
	})
}

// BuilderSelect changes which page the builder shows. Unknown ids are
// ignored and the builder re-renders unchanged.
func (a *Admin) BuilderSelect(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	if id, err := pageID(r); err == nil {
		ctl.Select(id)
	}
	http.Redirect(w, r, "/admin/builder", http.StatusSeeOther)
}

// --- Page CRUD ---

// PageNew renders the new page form with default colors preselected.
func (a *Admin) PageNew(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "page_form", &render.PageData{
		Title:   "New Page",
		Section: "builder",
		Data: map[string]any{
			"Heading": "New Page",
			"Action":  "/admin/pages",
			"Page": models.Page{
				Type:        models.PageTypeProduct,
				HeaderColor: models.DefaultHeaderColor,
				AccentColor: models.DefaultAccentColor,
			},
		},
	})
}

// PageCreate handles the new page form submission. The created page
// becomes the selected one so the operator lands on it in the builder.
func (a *Admin) PageCreate(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	draft, errMsg := editor.ParsePage(r.PostForm)
	if errMsg != "" {
		a.renderer.Page(w, r, "page_form", &render.PageData{
			Title:   "New Page",
			Section: "builder",
			Data: map[string]any{
				"Heading": "New Page",
				"Action":  "/admin/pages",
				"Page":    draft,
				"Error":   errMsg,
			},
		})
		return
	}

	created, err := ctl.CreatePage(r.Context(), draft)
	if err != nil {
		slog.Error("create page failed", "error", err)
		redirectNotice(w, r, "/admin/builder", noticeFor("page-create", err))
		return
	}

	ctl.Select(created.ID)
	redirectNotice(w, r, "/admin/builder", "page-created")
}

// PageEdit renders the edit form for an existing page.
func (a *Admin) PageEdit(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page := ctl.Page(id)
	if page == nil {
		http.NotFound(w, r)
		return
	}

	a.renderer.Page(w, r, "page_form", &render.PageData{
		Title:   "Edit Page",
		Section: "builder",
		Data: map[string]any{
			"Heading": "Edit Page",
			"Action":  fmt.Sprintf("/admin/pages/%s", page.ID),
			"Page":    *page,
		},
	})
}

// PageUpdate handles the edit page form submission.
func (a *Admin) PageUpdate(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	draft, errMsg := editor.ParsePage(r.PostForm)
	if errMsg != "" {
		draft.ID = id
		a.renderer.Page(w, r, "page_form", &render.PageData{
			Title:   "Edit Page",
			Section: "builder",
			Data: map[string]any{
				"Heading": "Edit Page",
				"Action":  fmt.Sprintf("/admin/pages/%s", id),
				"Page":    draft,
				"Error":   errMsg,
			},
		})
		return
	}

	if _, err := ctl.UpdatePage(r.Context(), id, draft); err != nil {
		slog.Error("update page failed", "error", err, "page_id", id)
		redirectNotice(w, r, "/admin/builder", noticeFor("page-update", err))
		return
	}

	a.invalidate(r, id)
	redirectNotice(w, r, "/admin/builder", "page-updated")
}

// PageDelete removes a page and all its tiles.
func (a *Admin) PageDelete(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := ctl.DeletePage(r.Context(), id); err != nil {
		slog.Error("delete page failed", "error", err, "page_id", id)
		redirectNotice(w, r, "/admin/builder", noticeFor("page-delete", err))
		return
	}

	a.invalidate(r, id)
	redirectNotice(w, r, "/admin/builder", "page-deleted")
}

// --- Tile CRUD ---

// TileNew renders the add tile form for a page.
func (a *Admin) TileNew(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page := ctl.Page(id)
	if page == nil {
		http.NotFound(w, r)
		return
	}

	a.renderer.Page(w, r, "tile_form", &render.PageData{
		Title:   "Add Tile",
		Section: "builder",
		Data: map[string]any{
			"Heading":   "Add Tile",
			"PageTitle": page.Title,
			"Action":    fmt.Sprintf("/admin/pages/%s/tiles", page.ID),
			"Tile":      models.Tile{LinkType: models.LinkTypeExternal},
		},
	})
}

// TileCreate handles the add tile form submission. The tile lands at
// the end of the page's tile list.
func (a *Admin) TileCreate(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	draft, errMsg := editor.ParseTile(r.PostForm)
	if errMsg != "" {
		page := ctl.Page(id)
		if page == nil {
			http.NotFound(w, r)
			return
		}
		a.renderer.Page(w, r, "tile_form", &render.PageData{
			Title:   "Add Tile",
			Section: "builder",
			Data: map[string]any{
				"Heading":   "Add Tile",
				"PageTitle": page.Title,
				"Action":    fmt.Sprintf("/admin/pages/%s/tiles", id),
				"Tile":      draft,
				"Error":     errMsg,
			},
		})
		return
	}

	if _, err := ctl.AddTile(r.Context(), id, draft); err != nil {
		slog.Error("add tile failed", "error", err, "page_id", id)
		redirectNotice(w, r, "/admin/builder", noticeFor("tile-create", err))
		return
	}

	a.invalidate(r, id)
	redirectNotice(w, r, "/admin/builder", "tile-created")
}

// TileEdit renders the edit form for an existing tile.
func (a *Admin) TileEdit(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	tileID, err := uuid.Parse(chi.URLParam(r, "tileID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	page := ctl.Page(id)
	if page == nil {
		http.NotFound(w, r)
		return
	}
	tile := page.TileByID(tileID)
	if tile == nil {
		http.NotFound(w, r)
		return
	}

	a.renderer.Page(w, r, "tile_form", &render.PageData{
		Title:   "Edit Tile",
		Section: "builder",
		Data: map[string]any{
			"Heading":   "Edit Tile",
			"PageTitle": page.Title,
			"Action":    fmt.Sprintf("/admin/pages/%s/tiles/%s", page.ID, tile.ID),
			"Tile":      *tile,
		},
	})
}

// TileUpdate handles the edit tile form submission.
func (a *Admin) TileUpdate(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	tileID, err := uuid.Parse(chi.URLParam(r, "tileID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	draft, errMsg := editor.ParseTile(r.PostForm)
	if errMsg != "" {
		page := ctl.Page(id)
		if page == nil {
			http.NotFound(w, r)
			return
		}
		a.renderer.Page(w, r, "tile_form", &render.PageData{
			Title:   "Edit Tile",
			Section: "builder",
			Data: map[string]any{
				"Heading":   "Edit Tile",
				"PageTitle": page.Title,
				"Action":    fmt.Sprintf("/admin/pages/%s/tiles/%s", id, tileID),
				"Tile":      draft,
				"Error":     errMsg,
			},
		})
		return
	}

	if _, err := ctl.UpdateTile(r.Context(), id, tileID, draft); err != nil {
		slog.Error("update tile failed", "error", err, "page_id", id, "tile_id", tileID)
		redirectNotice(w, r, "/admin/builder", noticeFor("tile-update", err))
		return
	}

	a.invalidate(r, id)
	redirectNotice(w, r, "/admin/builder", "tile-updated")
}

// TileDelete removes one tile from a page.
func (a *Admin) TileDelete(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	tileID, err := uuid.Parse(chi.URLParam(r, "tileID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := ctl.DeleteTile(r.Context(), id, tileID); err != nil {
		slog.Error("delete tile failed", "error", err, "page_id", id, "tile_id", tileID)
		redirectNotice(w, r, "/admin/builder", noticeFor("tile-delete", err))
		return
	}

	a.invalidate(r, id)
	redirectNotice(w, r, "/admin/builder", "tile-deleted")
}

// --- Preview and export ---

// Preview renders the preview shell: an action bar plus an iframe that
// loads the standalone document.
func (a *Admin) Preview(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page := ctl.Page(id)
	if page == nil {
		http.NotFound(w, r)
		return
	}

	a.renderer.Page(w, r, "preview", &render.PageData{
		Title:   "Preview: " + page.Title,
		Section: "builder",
		Data: map[string]any{
			"Page":      *page,
			"PublicURL": a.publicBaseURL + "/page/" + page.ID.String(),
		},
	})
}

// PreviewFrame serves the full standalone document for the preview
// iframe. Preview and export go through the same generator, so what the
// operator sees is exactly what downloads.
func (a *Admin) PreviewFrame(w http.ResponseWriter, r *http.Request) {
	a.serveDocument(w, r, false)
}

// Export serves the standalone document as a file download.
func (a *Admin) Export(w http.ResponseWriter, r *http.Request) {
	a.serveDocument(w, r, true)
}

func (a *Admin) serveDocument(w http.ResponseWriter, r *http.Request, download bool) {
	ctl, _, ok := a.controller(w, r)
	if !ok {
		return
	}

	id, err := pageID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page := ctl.Page(id)
	if page == nil {
		http.NotFound(w, r)
		return
	}

	doc, err := export.Document(page)
	if err != nil {
		slog.Error("document generation failed", "error", err, "page_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if download {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.Filename(page.Title)))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(doc)
}

// invalidate drops the public cache entry for a page after a mutation.
func (a *Admin) invalidate(r *http.Request, pageID uuid.UUID) {
	if a.pageCache != nil {
		a.pageCache.InvalidatePage(r.Context(), pageID)
	}
}

// --- User management (admin role only; enforced by the router) ---

// UsersList renders the user management page.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.userStore.List(r.Context())
	if err != nil {
		slog.Error("list users failed", "error", err)
	}

	a.renderer.Page(w, r, "users_list", &render.PageData{
		Title:   "Users",
		Section: "users",
		Flashes: flashesFrom(r),
		Data:    map[string]any{"Users": users},
	})
}

// UserNew renders the new user form.
func (a *Admin) UserNew(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "user_form", &render.PageData{
		Title:   "New User",
		Section: "users",
	})
}

// UserCreate handles the new user form submission.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	displayName := r.FormValue("display_name")
	role := models.Role(r.FormValue("role"))

	if errMsg := validateNewUser(email, password, displayName, role); errMsg != "" {
		a.renderer.Page(w, r, "user_form", &render.PageData{
			Title:   "New User",
			Section: "users",
			Data:    map[string]any{"Error": errMsg},
		})
		return
	}

	if _, err := a.userStore.Create(r.Context(), email, password, displayName, role); err != nil {
		slog.Error("create user failed", "error", err)
		a.renderer.Page(w, r, "user_form", &render.PageData{
			Title:   "New User",
			Section: "users",
			Data:    map[string]any{"Error": "Could not create the user. The email may already be in use."},
		})
		return
	}

	redirectNotice(w, r, "/admin/users", "user-created")
}

// UserReset2FA clears a user's TOTP enrollment so they re-enroll on
// their next login.
func (a *Admin) UserReset2FA(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := a.userStore.ResetTOTP(r.Context(), userID); err != nil {
		slog.Error("reset totp failed", "error", err, "user_id", userID)
		redirectNotice(w, r, "/admin/users", "err-2fa-reset")
		return
	}

	redirectNotice(w, r, "/admin/users", "2fa-reset")
}
