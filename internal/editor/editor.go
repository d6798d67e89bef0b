// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor parses and validates the admin builder's page and tile
// forms into model drafts. It never touches persistence; handlers pass
// the resulting drafts to the builder controller.
package editor

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"digitaldrive/internal/models"
)

// Validation limits for page and tile fields.
const (
	maxTitleLen       = 300
	maxDescriptionLen = 10_000
	maxURLLen         = 2_000
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Both parsers report the first problem found as a ready-to-display
// message; an empty string means the draft is valid.

// ParsePage builds a page draft from form values. Blank colors fall back
// to the brand defaults; a malformed color is an error, not a fallback.
func ParsePage(form url.Values) (models.Page, string) {
	p := models.Page{
		Title:            strings.TrimSpace(form.Get("title")),
		Type:             models.PageType(form.Get("type")),
		Description:      form.Get("description"),
		HeaderColor:      strings.TrimSpace(form.Get("header_color")),
		AccentColor:      strings.TrimSpace(form.Get("accent_color")),
		FeatureImage:     strings.TrimSpace(form.Get("feature_image")),
		FeatureImageLink: strings.TrimSpace(form.Get("feature_image_link")),
	}

	if p.Title == "" {
		return p, "Title is required."
	}
	if utf8.RuneCountInString(p.Title) > maxTitleLen {
		return p, "Title is too long (max 300 characters)."
	}
	if p.Type == "" {
		p.Type = models.PageTypeProduct
	}
	if !models.ValidPageType(p.Type) {
		return p, "Unknown page type."
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLen {
		return p, "Description is too long (max 10,000 characters)."
	}
	if p.HeaderColor == "" {
		p.HeaderColor = models.DefaultHeaderColor
	}
	if !hexColorRe.MatchString(p.HeaderColor) {
		return p, "Header color must be a #RRGGBB value."
	}
	if p.AccentColor == "" {
		p.AccentColor = models.DefaultAccentColor
	}
	if !hexColorRe.MatchString(p.AccentColor) {
		return p, "Accent color must be a #RRGGBB value."
	}
	if utf8.RuneCountInString(p.FeatureImage) > maxURLLen {
		return p, "Feature image URL is too long."
	}
	if utf8.RuneCountInString(p.FeatureImageLink) > maxURLLen {
		return p, "Feature image link is too long."
	}
	return p, ""
}

// ParseTile builds a tile draft from form values. The link type defaults
// to external, matching the tile form's preselected option.
func ParseTile(form url.Values) (models.Tile, string) {
	t := models.Tile{
		Title:       strings.TrimSpace(form.Get("title")),
		Description: form.Get("description"),
		ImageURL:    strings.TrimSpace(form.Get("image_url")),
		LinkURL:     strings.TrimSpace(form.Get("link_url")),
		LinkType:    models.LinkType(form.Get("link_type")),
	}

	if t.Title == "" {
		return t, "Title is required."
	}
	if utf8.RuneCountInString(t.Title) > maxTitleLen {
		return t, "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLen {
		return t, "Description is too long (max 10,000 characters)."
	}
	if t.LinkType == "" {
		t.LinkType = models.LinkTypeExternal
	}
	if !models.ValidLinkType(t.LinkType) {
		return t, "Unknown link type."
	}
	if utf8.RuneCountInString(t.ImageURL) > maxURLLen {
		return t, "Image URL is too long."
	}
	if utf8.RuneCountInString(t.LinkURL) > maxURLLen {
		return t, "Link URL is too long."
	}
	return t, ""
}
