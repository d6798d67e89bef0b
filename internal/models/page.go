// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PageType categorizes a builder page. The type drives labeling in the
// admin panel only; all three types render through the same document.
type PageType string

const (
	PageTypeProduct PageType = "product"
	PageTypeBlog    PageType = "blog"
	PageTypeTalent  PageType = "talent"
)

// Default colors applied when the page editor leaves them blank.
const (
	DefaultHeaderColor = "#4F46E5"
	DefaultAccentColor = "#06B6D4"
)

// ValidPageType reports whether t is one of the allowed page types.
func ValidPageType(t PageType) bool {
	switch t {
	case PageTypeProduct, PageTypeBlog, PageTypeTalent:
		return true
	}
	return false
}

// Page is a tile-composed content page owned by a single operator.
// Tiles are stored in their own table and attached in memory after
// loading, ordered oldest-first (creation order).
type Page struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Title            string    `json:"title"`
	Type             PageType  `json:"type"`
	Description      string    `json:"description,omitempty"`
	HeaderColor      string    `json:"header_color"`
	AccentColor      string    `json:"accent_color"`
	FeatureImage     string    `json:"feature_image,omitempty"`
	FeatureImageLink string    `json:"feature_image_link,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Tiles is populated by the builder controller, never by the store
	// scan itself.
	Tiles []Tile `json:"tiles"`
}

// HasFeatureImage reports whether the feature image block should render.
// Presence of the image URL alone gates rendering; the link only decides
// whether the image is wrapped in an anchor.
func (p *Page) HasFeatureImage() bool {
	return p.FeatureImage != ""
}

// TileByID returns the tile with the given id, or nil if the page does
// not contain it.
func (p *Page) TileByID(id uuid.UUID) *Tile {
	for i := range p.Tiles {
		if p.Tiles[i].ID == id {
			return &p.Tiles[i]
		}
	}
	return nil
}
