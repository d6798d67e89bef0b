// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Registry hands out one Controller per authenticated owner. The first
// request for an owner loads their pages; later requests reuse the
// already-loaded mirror.
type Registry struct {
	pages PageStore
	tiles TileStore

	mu          sync.Mutex
	controllers map[uuid.UUID]*Controller
}

// NewRegistry creates a controller registry over the given stores.
func NewRegistry(pages PageStore, tiles TileStore) *Registry {
	return &Registry{
		pages:       pages,
		tiles:       tiles,
		controllers: make(map[uuid.UUID]*Controller),
	}
}

// Get returns the controller for ownerID, creating and loading it on
// first use. A load failure is returned without caching the controller,
// so the next request retries the load.
func (r *Registry) Get(ctx context.Context, ownerID uuid.UUID) (*Controller, error) {
	r.mu.Lock()
	c, ok := r.controllers[ownerID]
	r.mu.Unlock()
	if ok {
		return c, nil
	}

	c = NewController(ownerID, r.pages, r.tiles)
	if err := c.Load(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	// Another request may have loaded concurrently; keep the first one.
	if existing, ok := r.controllers[ownerID]; ok {
		c = existing
	} else {
		r.controllers[ownerID] = c
	}
	r.mu.Unlock()

	return c, nil
}

// Drop discards the cached controller for ownerID. Called on logout so
// the next login starts from fresh store state.
func (r *Registry) Drop(ownerID uuid.UUID) {
	r.mu.Lock()
	delete(r.controllers, ownerID)
	r.mu.Unlock()
}
