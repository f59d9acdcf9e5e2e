// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pixelpress/internal/models"
)

const contentColumns = `id, type, title, slug, body, body_format, excerpt, status,
	meta_description, author_id, published_at, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ContentStore handles all content-related database operations.
// It serves both posts and pages through the unified content table.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ListByType returns all content items of the given type, newest first.
func (s *ContentStore) ListByType(contentType models.ContentType) ([]models.Content, error) {
	return s.list(`SELECT `+contentColumns+` FROM content WHERE type = $1 ORDER BY created_at DESC`, contentType)
}

// ListPublishedByType returns published content of the given type, most
// recently published first. Used by the public homepage.
func (s *ContentStore) ListPublishedByType(contentType models.ContentType) ([]models.Content, error) {
	return s.list(`SELECT `+contentColumns+` FROM content
		WHERE type = $1 AND status = 'published'
		ORDER BY published_at DESC NULLS LAST`, contentType)
}

// FindByID retrieves a content item by its UUID.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.Content, error) {
	c, err := scanContent(s.db.QueryRow(`SELECT `+contentColumns+` FROM content WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a published content item by its slug.
func (s *ContentStore) FindBySlug(slug string) (*models.Content, error) {
	c, err := scanContent(s.db.QueryRow(`SELECT `+contentColumns+` FROM content
		WHERE slug = $1 AND status = 'published'`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new content item and returns it with the generated ID.
func (s *ContentStore) Create(c *models.Content) (*models.Content, error) {
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}
	if c.BodyFormat == "" {
		c.BodyFormat = models.BodyFormatMarkdown
	}

	created, err := scanContent(s.db.QueryRow(`
		INSERT INTO content (type, title, slug, body, body_format, excerpt, status,
		                     meta_description, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+contentColumns,
		c.Type, c.Title, c.Slug, c.Body, c.BodyFormat, c.Excerpt, c.Status,
		c.MetaDescription, c.AuthorID, c.PublishedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return created, nil
}

// Update modifies an existing content item.
func (s *ContentStore) Update(c *models.Content) error {
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	_, err := s.db.Exec(`
		UPDATE content SET
			title = $1, slug = $2, body = $3, body_format = $4, excerpt = $5,
			status = $6, meta_description = $7, published_at = $8,
			updated_at = NOW()
		WHERE id = $9
	`, c.Title, c.Slug, c.Body, c.BodyFormat, c.Excerpt,
		c.Status, c.MetaDescription, c.PublishedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// Autosave stores an in-progress title and body without touching status,
// slug or metadata.
func (s *ContentStore) Autosave(id uuid.UUID, title, body string) error {
	_, err := s.db.Exec(`UPDATE content SET title = $1, body = $2, updated_at = NOW() WHERE id = $3`, title, body, id)
	if err != nil {
		return fmt.Errorf("autosave content: %w", err)
	}
	return nil
}

// Delete removes a content item by ID. Its metadata rows cascade.
func (s *ContentStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM content WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// CountByType returns the number of content items of the given type.
func (s *ContentStore) CountByType(contentType models.ContentType) (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM content WHERE type = $1`, contentType).Scan(&count); err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return count, nil
}

func (s *ContentStore) list(query string, args ...any) ([]models.Content, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func scanContent(row rowScanner) (*models.Content, error) {
	c := &models.Content{}
	err := row.Scan(
		&c.ID, &c.Type, &c.Title, &c.Slug, &c.Body, &c.BodyFormat, &c.Excerpt,
		&c.Status, &c.MetaDescription, &c.AuthorID,
		&c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
