// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns arbitrary titles into URL- and filename-safe slugs.
// Used for export download names, where browsers mangle anything outside
// the lowercase-alphanumeric-hyphen set.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a lowercase letter,
	// digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a slug from the given string.
// Example: "Spring Launch 2026!" → "spring-launch-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Filename creates a download filename from a title, falling back to
// fallback when the title slugs to nothing (all punctuation, emoji, or
// whitespace). The extension is appended with a dot.
func Filename(title, fallback, ext string) string {
	name := Generate(title)
	if name == "" {
		name = fallback
	}
	return name + "." + ext
}
