// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"digitaldrive/internal/models"
)

// TileStore handles all tile-related database operations. Tile mutations
// are addressed by the (tile id, page id, owner id) triple so a tile can
// never be edited through the wrong page, even if someone guesses an id.
type TileStore struct {
	db *sql.DB
}

// NewTileStore creates a new TileStore with the given database connection.
func NewTileStore(db *sql.DB) *TileStore {
	return &TileStore{db: db}
}

const tileColumns = `id, page_id, user_id, title, description, image_url,
	       link_url, link_type, created_at, updated_at`

func scanTile(row interface{ Scan(...any) error }) (*models.Tile, error) {
	t := &models.Tile{}
	err := row.Scan(
		&t.ID, &t.PageID, &t.UserID, &t.Title, &t.Description, &t.ImageURL,
		&t.LinkURL, &t.LinkType, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByPage returns all tiles of a page owned by ownerID, oldest first.
// Creation order is the display order.
func (s *TileStore) ListByPage(ctx context.Context, pageID, ownerID uuid.UUID) ([]models.Tile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tileColumns+`
		FROM tiles
		WHERE page_id = $1 AND user_id = $2
		ORDER BY created_at ASC
	`, pageID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tiles: %w", err)
	}
	defer rows.Close()

	var tiles []models.Tile
	for rows.Next() {
		t, err := scanTile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tile: %w", err)
		}
		tiles = append(tiles, *t)
	}
	return tiles, rows.Err()
}

// ListPublicByPage returns all tiles of a page without owner scoping,
// oldest first. Used only by the public renderer.
func (s *TileStore) ListPublicByPage(ctx context.Context, pageID uuid.UUID) ([]models.Tile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tileColumns+`
		FROM tiles
		WHERE page_id = $1
		ORDER BY created_at ASC
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("list public tiles: %w", err)
	}
	defer rows.Close()

	var tiles []models.Tile
	for rows.Next() {
		t, err := scanTile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tile: %w", err)
		}
		tiles = append(tiles, *t)
	}
	return tiles, rows.Err()
}

// Create inserts a new tile under the given page and owner, returning it
// with the store-assigned id and timestamps.
func (s *TileStore) Create(ctx context.Context, pageID, ownerID uuid.UUID, t *models.Tile) (*models.Tile, error) {
	created, err := scanTile(s.db.QueryRowContext(ctx, `
		INSERT INTO tiles (page_id, user_id, title, description, image_url, link_url, link_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+tileColumns+`
	`, pageID, ownerID, t.Title, t.Description, t.ImageURL, t.LinkURL, t.LinkType,
	))
	if err != nil {
		return nil, fmt.Errorf("create tile: %w", err)
	}
	return created, nil
}

// Update modifies a tile's mutable fields and bumps updated_at. Returns
// nil if the (id, page, owner) triple does not match an existing row.
func (s *TileStore) Update(ctx context.Context, id, pageID, ownerID uuid.UUID, t *models.Tile) (*models.Tile, error) {
	updated, err := scanTile(s.db.QueryRowContext(ctx, `
		UPDATE tiles SET
			title = $1, description = $2, image_url = $3,
			link_url = $4, link_type = $5, updated_at = NOW()
		WHERE id = $6 AND page_id = $7 AND user_id = $8
		RETURNING `+tileColumns+`
	`, t.Title, t.Description, t.ImageURL, t.LinkURL, t.LinkType, id, pageID, ownerID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update tile: %w", err)
	}
	return updated, nil
}

// Delete removes a tile addressed by the (id, page, owner) triple.
func (s *TileStore) Delete(ctx context.Context, id, pageID, ownerID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM tiles WHERE id = $1 AND page_id = $2 AND user_id = $3
	`, id, pageID, ownerID)
	if err != nil {
		return fmt.Errorf("delete tile: %w", err)
	}
	return nil
}

// CountByOwner returns the number of tiles owned by ownerID across all
// of their pages.
func (s *TileStore) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tiles WHERE user_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tiles: %w", err)
	}
	return count, nil
}
