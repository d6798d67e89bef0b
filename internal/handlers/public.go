// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"digitaldrive/internal/cache"
	"digitaldrive/internal/export"
	"digitaldrive/internal/store"
)

// Public groups handlers for the public-facing site. Published pages go
// through the same document generator as preview and export, so all
// three surfaces always agree. The Valkey page cache is checked before
// generating, and filled on miss.
type Public struct {
	pageStore *store.PageStore
	tileStore *store.TileStore
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group. pageCache may be nil
// when Valkey is not configured.
func NewPublic(pageStore *store.PageStore, tileStore *store.TileStore, pageCache *cache.PageCache) *Public {
	return &Public{
		pageStore: pageStore,
		tileStore: tileStore,
		pageCache: pageCache,
	}
}

// Homepage serves the Digital Drive marketing landing page.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><title>Digital Drive</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<script src="https://cdn.tailwindcss.com"></script></head>
<body class="bg-gray-50 flex items-center justify-center min-h-screen">
<div class="text-center px-6">
<h1 class="text-5xl font-bold text-gray-900"><span class="text-indigo-600">Digital</span> Drive</h1>
<p class="mt-4 text-lg text-gray-500">Marketing pages, built tile by tile.</p>
<p class="mt-1 text-sm text-gray-400">digitaldrive.pk &middot; hello@digitaldrive.pk</p>
<a href="/admin/login" class="mt-6 inline-block rounded-md bg-indigo-600 px-4 py-2 text-sm font-semibold text-white hover:bg-indigo-500">Operator Sign In</a>
</div></body></html>`))
}

// Page serves a published page by its id. Malformed and unknown ids get
// the same branded not-found response, so the URL space leaks nothing
// about which ids exist.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "pageID"))
	if err != nil {
		p.notFound(w)
		return
	}

	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, id); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	page, err := p.pageStore.FindPublicByID(ctx, id)
	if err != nil {
		slog.Error("find public page failed", "error", err, "page_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if page == nil {
		p.notFound(w)
		return
	}

	tiles, err := p.tileStore.ListPublicByPage(ctx, id)
	if err != nil {
		slog.Error("list public tiles failed", "error", err, "page_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	page.Tiles = tiles

	doc, err := export.Document(page)
	if err != nil {
		slog.Error("public document generation failed", "error", err, "page_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if p.pageCache != nil {
		p.pageCache.Set(ctx, id, doc)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(doc)
}

// notFound writes the branded 404 page.
func (p *Public) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><title>Page Not Found - Digital Drive</title>
<script src="https://cdn.tailwindcss.com"></script></head>
<body class="bg-gray-50 flex items-center justify-center min-h-screen">
<div class="text-center px-6">
<h1 class="text-4xl font-bold text-gray-900">Page Not Found</h1>
<p class="mt-2 text-gray-500">The page you are looking for does not exist or is no longer published.</p>
<a href="/" class="mt-4 inline-block text-indigo-600 hover:text-indigo-800 text-sm">Back to Digital Drive</a>
<a href="/admin" class="mt-4 ml-4 inline-block text-gray-400 hover:text-gray-600 text-sm">Admin Panel</a>
</div></body></html>`))
}
