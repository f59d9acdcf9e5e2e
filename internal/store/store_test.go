// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides the shared database helpers for store integration
// tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pixelpress/internal/database"
	"pixelpress/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens the test database and runs migrations, skipping the test
// when the database is unreachable.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "pixelpress") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "pixelpress") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway author and removes it when the test ends.
func testUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	db.Exec("DELETE FROM users WHERE email = $1", email)

	u, err := NewUserStore(db).Create(email, "secret-pass", "Store Test", models.RoleAuthor)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM content WHERE author_id = $1", u.ID)
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// testContent creates a draft post owned by author.
func testContent(t *testing.T, db *sql.DB, authorID uuid.UUID, slug string) *models.Content {
	t.Helper()
	db.Exec("DELETE FROM content WHERE slug = $1", slug)

	c, err := NewContentStore(db).Create(&models.Content{
		Type:     models.ContentTypePost,
		Title:    "Store test " + slug,
		Slug:     slug,
		Body:     "body",
		Status:   models.ContentStatusDraft,
		AuthorID: authorID,
	})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	return c
}
