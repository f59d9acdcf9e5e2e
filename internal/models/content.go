// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes between posts and pages in the unified content table.
type ContentType string

const (
	ContentTypePost ContentType = "post"
	ContentTypePage ContentType = "page"
)

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// BodyFormat records how the body was authored.
type BodyFormat string

const (
	BodyFormatMarkdown BodyFormat = "markdown"
	BodyFormatHTML     BodyFormat = "html"
)

// Content represents a post or page in the CMS. Posts and pages share the
// same table, differentiated by the Type field.
type Content struct {
	ID              uuid.UUID     `json:"id"`
	Type            ContentType   `json:"type"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Body            string        `json:"body"`
	BodyFormat      BodyFormat    `json:"body_format"`
	Excerpt         *string       `json:"excerpt,omitempty"`
	Status          ContentStatus `json:"status"`
	MetaDescription *string       `json:"meta_description,omitempty"`
	AuthorID        uuid.UUID     `json:"author_id"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// IsPublished returns true if the content item is in published status.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// EditableBy reports whether a user with the given role may edit this item.
// Admins and editors edit everything; authors only their own content.
func (c *Content) EditableBy(userID uuid.UUID, role Role) bool {
	switch role {
	case RoleAdmin, RoleEditor:
		return true
	case RoleAuthor:
		return c.AuthorID == userID
	}
	return false
}

// BodyClass returns the CSS classes put on <body> when the item is viewed
// on its own page. Posts get "single-post post-<id>", pages "page page-id-<id>".
func (c *Content) BodyClass() string {
	if c.Type == ContentTypePage {
		return "page page-id-" + c.ID.String()
	}
	return "single-post post-" + c.ID.String()
}
