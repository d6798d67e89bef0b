// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Digital Drive
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Authenticated operations always carry the owner's user id in
// the SQL filter; the public read path is the only unscoped access.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"digitaldrive/internal/models"
)

// PageStore handles all page-related database operations.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, user_id, title, type, description, header_color,
	       accent_color, feature_image, feature_image_link, created_at, updated_at`

// scanPage reads one page row into a models.Page. Tiles are never loaded
// here; the builder controller attaches them.
func scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	p := &models.Page{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Type, &p.Description, &p.HeaderColor,
		&p.AccentColor, &p.FeatureImage, &p.FeatureImageLink, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByOwner returns all pages owned by ownerID, newest first.
func (s *PageStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// FindByID retrieves a page by id, scoped to its owner. Returns nil if
// the id does not exist or belongs to a different owner.
func (s *PageStore) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages WHERE id = $1 AND user_id = $2
	`, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// FindPublicByID retrieves a page by id without owner scoping. Used only
// by the public renderer.
func (s *PageStore) FindPublicByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find public page: %w", err)
	}
	return p, nil
}

// Create inserts a new page for ownerID and returns it with the
// store-assigned id and timestamps.
func (s *PageStore) Create(ctx context.Context, ownerID uuid.UUID, p *models.Page) (*models.Page, error) {
	created, err := scanPage(s.db.QueryRowContext(ctx, `
		INSERT INTO pages (user_id, title, type, description, header_color,
		                   accent_color, feature_image, feature_image_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+pageColumns+`
	`, ownerID, p.Title, p.Type, p.Description, p.HeaderColor,
		p.AccentColor, p.FeatureImage, p.FeatureImageLink,
	))
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return created, nil
}

// Update modifies the mutable fields of a page and bumps updated_at.
// Returns nil if the id+owner pair does not exist.
func (s *PageStore) Update(ctx context.Context, id, ownerID uuid.UUID, p *models.Page) (*models.Page, error) {
	updated, err := scanPage(s.db.QueryRowContext(ctx, `
		UPDATE pages SET
			title = $1, type = $2, description = $3, header_color = $4,
			accent_color = $5, feature_image = $6, feature_image_link = $7,
			updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING `+pageColumns+`
	`, p.Title, p.Type, p.Description, p.HeaderColor,
		p.AccentColor, p.FeatureImage, p.FeatureImageLink, id, ownerID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return updated, nil
}

// Delete removes a page owned by ownerID. Tiles go with it via the
// ON DELETE CASCADE constraint on tiles.page_id.
func (s *PageStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}

// CountByOwner returns the number of pages owned by ownerID.
func (s *PageStore) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE user_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return count, nil
}
