// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"pixelpress/internal/models"
	"pixelpress/internal/slug"
)

var formValidator = validator.New()

// contentForm is the editable part of a post or page as submitted by the
// edit screen. Length limits count characters, not bytes.
type contentForm struct {
	Title           string               `validate:"required,max=300"`
	Slug            string               `validate:"max=300"`
	Body            string               `validate:"max=100000"`
	Excerpt         string               `validate:"max=1000"`
	MetaDescription string               `validate:"max=500"`
	Status          models.ContentStatus `validate:"oneof=draft published"`
	BodyFormat      models.BodyFormat    `validate:"oneof=markdown html"`
}

// readContentForm pulls the content fields out of a submitted form and fills
// in defaults: draft status, Markdown body, and a slug derived from the title.
func readContentForm(r *http.Request) contentForm {
	f := contentForm{
		Title:           strings.TrimSpace(r.FormValue("title")),
		Slug:            strings.TrimSpace(r.FormValue("slug")),
		Body:            r.FormValue("body"),
		Excerpt:         strings.TrimSpace(r.FormValue("excerpt")),
		MetaDescription: strings.TrimSpace(r.FormValue("meta_description")),
		Status:          models.ContentStatus(r.FormValue("status")),
		BodyFormat:      models.BodyFormat(r.FormValue("body_format")),
	}
	if f.Status == "" {
		f.Status = models.ContentStatusDraft
	}
	if f.BodyFormat == "" {
		f.BodyFormat = models.BodyFormatMarkdown
	}
	if f.Slug == "" {
		f.Slug = slug.Generate(f.Title)
	}
	return f
}

// validate returns the first problem with the form as a user-facing
// message, or "" when the form is acceptable.
func (f contentForm) validate() string {
	err := formValidator.Struct(f)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}
	if err != nil {
		return "The form could not be validated."
	}
	if !slug.Valid(f.Slug) {
		return "Slug must contain only lowercase letters, digits and hyphens, and must not be reserved."
	}
	return ""
}

// apply copies the form onto a content item.
func (f contentForm) apply(c *models.Content) {
	c.Title = f.Title
	c.Slug = f.Slug
	c.Body = f.Body
	c.Status = f.Status
	c.BodyFormat = f.BodyFormat
	c.Excerpt = optional(f.Excerpt)
	c.MetaDescription = optional(f.MetaDescription)
}

func fieldMessage(fe validator.FieldError) string {
	label := map[string]string{
		"Title":           "Title",
		"Slug":            "Slug",
		"Body":            "Body",
		"Excerpt":         "Excerpt",
		"MetaDescription": "Meta description",
		"Status":          "Status",
		"BodyFormat":      "Format",
	}[fe.Field()]

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s is too long (max %s characters).", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return label + " is invalid."
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
