// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package builder implements the admin page-builder controller. A
// Controller owns the authoritative in-memory mirror of one operator's
// pages (each with its tiles attached) and keeps it consistent with the
// store after every mutation: created entities are appended, updated
// entities replaced by id, deleted entities filtered out. A failed store
// call leaves the mirror untouched, so the admin UI never shows a
// partially applied mutation.
package builder

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"digitaldrive/internal/models"
)

// DefaultCallTimeout bounds every store call made by a controller.
const DefaultCallTimeout = 10 * time.Second

// PageStore is the page persistence surface the controller depends on.
// Implemented by store.PageStore; controller tests use an in-memory fake.
type PageStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Page, error)
	Create(ctx context.Context, ownerID uuid.UUID, p *models.Page) (*models.Page, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, p *models.Page) (*models.Page, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// TileStore is the tile persistence surface the controller depends on.
type TileStore interface {
	ListByPage(ctx context.Context, pageID, ownerID uuid.UUID) ([]models.Tile, error)
	Create(ctx context.Context, pageID, ownerID uuid.UUID, t *models.Tile) (*models.Tile, error)
	Update(ctx context.Context, id, pageID, ownerID uuid.UUID, t *models.Tile) (*models.Tile, error)
	Delete(ctx context.Context, id, pageID, ownerID uuid.UUID) error
}

// Controller mirrors one owner's pages and tiles in memory. The owner id
// is fixed at construction and threaded into every store call, so
// ownership is enforced at the application layer as well as in the SQL.
type Controller struct {
	ownerID     uuid.UUID
	pages       PageStore
	tiles       TileStore
	callTimeout time.Duration

	mu       sync.RWMutex
	loaded   bool
	state    []models.Page
	selected uuid.UUID // uuid.Nil when nothing is selected

	// ops serializes mutations per entity id so two rapid edits of the
	// same page or tile resolve last-write-wins deterministically
	// instead of racing at the transport layer.
	ops keyedMutex
}

// NewController creates a controller for the given owner. Call Load
// before reading state.
func NewController(ownerID uuid.UUID, pages PageStore, tiles TileStore) *Controller {
	return &Controller{
		ownerID:     ownerID,
		pages:       pages,
		tiles:       tiles,
		callTimeout: DefaultCallTimeout,
	}
}

// OwnerID returns the owner this controller is scoped to.
func (c *Controller) OwnerID() uuid.UUID { return c.ownerID }

// withDeadline bounds a store call with the controller's timeout.
func (c *Controller) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.callTimeout)
}

// Load fetches all of the owner's pages, then each page's tiles, and
// replaces the in-memory mirror. If nothing is selected afterwards and
// pages exist, the first page (newest) becomes selected.
func (c *Controller) Load(ctx context.Context) error {
	cctx, cancel := c.withDeadline(ctx)
	defer cancel()

	pages, err := c.pages.ListByOwner(cctx, c.ownerID)
	if err != nil {
		return classify("load pages", err)
	}

	for i := range pages {
		tiles, err := c.tiles.ListByPage(cctx, pages[i].ID, c.ownerID)
		if err != nil {
			return classify("load tiles", err)
		}
		if tiles == nil {
			tiles = []models.Tile{}
		}
		pages[i].Tiles = tiles
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = pages
	c.loaded = true
	if c.selected == uuid.Nil && len(c.state) > 0 {
		c.selected = c.state[0].ID
	} else if c.selected != uuid.Nil && c.indexOf(c.selected) == -1 {
		c.selected = uuid.Nil
	}
	return nil
}

// Loaded reports whether the initial fetch has completed.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Pages returns a snapshot of the mirror. Callers may not mutate the
// controller's state through it; tile slices are copied.
func (c *Controller) Pages() []models.Page {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Page, len(c.state))
	copy(out, c.state)
	for i := range out {
		tiles := make([]models.Tile, len(out[i].Tiles))
		copy(tiles, out[i].Tiles)
		out[i].Tiles = tiles
	}
	return out
}

// Page returns a snapshot of a single page from the mirror, or nil if
// the id is not in the loaded set.
func (c *Controller) Page(id uuid.UUID) *models.Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotAt(c.indexOf(id))
}

// Selected returns a snapshot of the currently selected page, or nil.
func (c *Controller) Selected() *models.Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == uuid.Nil {
		return nil
	}
	return c.snapshotAt(c.indexOf(c.selected))
}

// Select makes the page with the given id current. Selecting an id that
// is not in the loaded set is a no-op.
func (c *Controller) Select(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(id) != -1 {
		c.selected = id
	}
}

// CreatePage persists a new page and appends it to the mirror with an
// empty tile list.
func (c *Controller) CreatePage(ctx context.Context, draft models.Page) (*models.Page, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrValidation
	}

	unlock := c.ops.lock(c.ownerID)
	defer unlock()

	cctx, cancel := c.withDeadline(ctx)
	defer cancel()

	created, err := c.pages.Create(cctx, c.ownerID, &draft)
	if err != nil {
		return nil, classify("create page", err)
	}
	created.Tiles = []models.Tile{}

	c.mu.Lock()
	c.state = append(c.state, *created)
	if c.selected == uuid.Nil {
		c.selected = created.ID
	}
	c.mu.Unlock()

	return created, nil
}

// UpdatePage persists changes to an existing page and replaces it in the
// mirror by id, preserving its tiles.
func (c *Controller) UpdatePage(ctx context.Context, id uuid.UUID, draft models.Page) (*models.Page, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrValidation
	}

	unlock := c.ops.lock(id)
	defer unlock()

	cctx, cancel := c.withDeadline(ctx)
	defer cancel()

	updated, err := c.pages.Update(cctx, id, c.ownerID, &draft)
	if err != nil {
		return nil, classify("update page", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	c.mu.Lock()
	if i := c.indexOf(id); i != -1 {
		updated.Tiles = c.state[i].Tiles
		c.state[i] = *updated
	}
	c.mu.Unlock()

	return updated, nil
}

// DeletePage removes a page (and, via the store cascade, its tiles) and
// filters it out of the mirror. If the deleted page was selected, the
// selection clears; it does not auto-advance to another page.
func (c *Controller) DeletePage(ctx context.Context, id uuid.UUID) error {
	unlock := c.ops.lock(id)
	defer unlock()

	cctx, cancel := c.withDeadline(ctx)
	defer cancel()

	if err := c.pages.Delete(cctx, id, c.ownerID); err != nil {
		return classify("delete page", err)
	}

	c.mu.Lock()
	if i := c.indexOf(id); i != -1 {
		c.state = append(c.state[:i], c.state[i+1:]...)
	}
	if c.selected == id {
		c.selected = uuid.Nil
	}
	c.mu.Unlock()

	return nil
}

// AddTile persists a new tile under the given page and appends it to the
// end of that page's in-memory tile list, leaving existing tiles and
// their order untouched.
func (c *Controller) AddTile(ctx context.Context, pageID uuid.UUID, draft models.Tile) (*models.Tile, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrValidation
	}
	if !c.hasPage(pageID) {
		return nil, ErrNotFound
	}

	// Creation appends under the page, so serialize on the page id.
	unlock := c.ops.lock(pageID)
	defer unlock()

	cctx, cancel := c.withDeadline(ctx)
	defer cancel()

	created, err := c.tiles.Create(cctx, pageID, c.ownerID, &draft)
	if err != nil {
		return nil, classify("add tile", err)
	}

	c.mu.Lock()
	if i := c.indexOf(pageID); i != -1 {
		c.state[i].Tiles = append(c.state[i].Tiles, *created)
	}
	c.mu.Unlock()

	return created, nil
}

// UpdateTile persists changes to a tile addressed by (pageID, tileID)
// and replaces it in place in the mirror.
func (c *Controller) UpdateTile(ctx context.Context, pageID, tileID uuid.UUID, draft models.Tile) (*models.Tile, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, ErrValidation
	}
	if !c.hasPage(pageID) {
		return nil, ErrNotFound
	}

	unlock := c.ops.lock(tileID)
	defer unlock()

	cctx, cancel := c.withDeadline(ctx)
	defer cancel()

	updated, err := c.tiles.Update(cctx, tileID, pageID, c.ownerID, &draft)
	if err != nil {
		return nil, classify("update tile", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	c.mu.Lock()
	if i := c.indexOf(pageID); i != -1 {
		for j := range c.state[i].Tiles {
			if c.state[i].Tiles[j].ID == tileID {
				c.state[i].Tiles[j] = *updated
				break
			}
		}
	}
	c.mu.Unlock()

	return updated, nil
}

// DeleteTile removes exactly the tile matching (pageID, tileID) from the
// store and the mirror, leaving all other tiles in their relative order.
func (c *Controller) DeleteTile(ctx context.Context, pageID, tileID uuid.UUID) error {
	if !c.hasPage(pageID) {
		return ErrNotFound
	}

	unlock := c.ops.lock(tileID)
	defer unlock()

	cctx, cancel := c.withDeadline(ctx)
	defer cancel()

	if err := c.tiles.Delete(cctx, tileID, pageID, c.ownerID); err != nil {
		return classify("delete tile", err)
	}

	c.mu.Lock()
	if i := c.indexOf(pageID); i != -1 {
		tiles := c.state[i].Tiles
		for j := range tiles {
			if tiles[j].ID == tileID {
				c.state[i].Tiles = append(tiles[:j], tiles[j+1:]...)
				break
			}
		}
	}
	c.mu.Unlock()

	return nil
}

// indexOf returns the position of a page in the mirror, or -1. Callers
// must hold c.mu.
func (c *Controller) indexOf(id uuid.UUID) int {
	for i := range c.state {
		if c.state[i].ID == id {
			return i
		}
	}
	return -1
}

// snapshotAt copies the page at index i. Callers must hold c.mu.
func (c *Controller) snapshotAt(i int) *models.Page {
	if i == -1 {
		return nil
	}
	p := c.state[i]
	tiles := make([]models.Tile, len(p.Tiles))
	copy(tiles, p.Tiles)
	p.Tiles = tiles
	return &p
}

func (c *Controller) hasPage(id uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(id) != -1
}

// keyedMutex provides one mutex per entity id. Entries are held for the
// lifetime of the controller; an admin session touches at most a few
// dozen entities.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key uuid.UUID) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
