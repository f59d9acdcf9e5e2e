// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ContentMetaStore manages per-content key/value metadata.
type ContentMetaStore struct {
	db *sql.DB
}

// NewContentMetaStore returns a ContentMetaStore backed by the given database.
func NewContentMetaStore(db *sql.DB) *ContentMetaStore {
	return &ContentMetaStore{db: db}
}

// Get returns the value stored under key for a content item, or fallback
// when no row exists. Unlike SiteSettingStore.Get, an empty stored value is
// returned as-is.
func (s *ContentMetaStore) Get(contentID uuid.UUID, key, fallback string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT meta_value FROM content_meta WHERE content_id = $1 AND meta_key = $2`,
		contentID, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("get content meta: %w", err)
	}
	return val, nil
}

// GetMany returns the values stored under key for several content items.
// Items without a row are absent from the result.
func (s *ContentMetaStore) GetMany(contentIDs []uuid.UUID, key string) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(contentIDs))
	for i, id := range contentIDs {
		ids[i] = id.String()
	}

	rows, err := s.db.Query(`
		SELECT content_id, meta_value FROM content_meta
		WHERE meta_key = $1 AND content_id = ANY($2::uuid[])`, key, ids)
	if err != nil {
		return nil, fmt.Errorf("get content meta batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var val string
		if err := rows.Scan(&id, &val); err != nil {
			return nil, fmt.Errorf("scan content meta: %w", err)
		}
		out[id] = val
	}
	return out, rows.Err()
}

// Set upserts a metadata value. The previous value is replaced, never merged.
func (s *ContentMetaStore) Set(contentID uuid.UUID, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO content_meta (content_id, meta_key, meta_value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (content_id, meta_key)
		DO UPDATE SET meta_value = EXCLUDED.meta_value, updated_at = EXCLUDED.updated_at`,
		contentID, key, value,
	)
	if err != nil {
		return fmt.Errorf("set content meta: %w", err)
	}
	return nil
}
