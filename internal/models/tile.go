// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// LinkType distinguishes tiles that open an external URL from tiles that
// navigate within the published page's site.
type LinkType string

const (
	LinkTypeExternal LinkType = "external"
	LinkTypeInternal LinkType = "internal"
)

// ValidLinkType reports whether t is one of the allowed link types.
func ValidLinkType(t LinkType) bool {
	return t == LinkTypeExternal || t == LinkTypeInternal
}

// Tile is one image + text + link card inside a page. A tile always
// belongs to exactly one page, and mirrors that page's owner; every
// authenticated read or write is scoped by the (page_id, user_id) pair.
type Tile struct {
	ID          uuid.UUID `json:"id"`
	PageID      uuid.UUID `json:"page_id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	LinkURL     string    `json:"link_url,omitempty"`
	LinkType    LinkType  `json:"link_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasLink reports whether the tile has a link target configured.
func (t Tile) HasLink() bool {
	return t.LinkURL != ""
}

// LinkBadge returns the label shown on the tile's link-type badge.
func (t Tile) LinkBadge() string {
	if t.LinkType == LinkTypeInternal {
		return "Internal Page"
	}
	return "External Link"
}
