// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cabin manages the rentable cabins.

Cabins are plain resource documents with two additions: every write derives
the URL slug from the name, and creates and updates accept a multipart body
carrying the cabin image, which is stored in the cabin-images bucket before
the row is written.
*/
package cabin

import (
	"context"
	"strings"
	"time"

	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/validate"
	"github.com/taibuivan/wildoasis/internal/resource"
	"github.com/taibuivan/wildoasis/pkg/slug"
)

// Client-facing messages.
const (
	MessageRequiredFields = "Some required fields are missing."
	MessageImageRequired  = "Please upload an image file."
)

// ImageField is the multipart field carrying the cabin image.
const ImageField = "image"

// Cabin is a rentable unit.
type Cabin struct {
	ID           string    `json:"_id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Description  string    `json:"description" db:"description"`
	MaxCapacity  int64     `json:"maxCapacity" db:"max_capacity"`
	RegularPrice float64   `json:"regularPrice" db:"regular_price"`
	Discount     float64   `json:"discount" db:"discount"`
	Image        string    `json:"image" db:"image"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	Version      *int64    `json:"__v,omitempty" db:"version"`
}

// NewDescriptor declares the cabins resource.
func NewDescriptor() *resource.Descriptor[Cabin] {
	return &resource.Descriptor[Cabin]{
		Name:          "cabin",
		Plural:        "cabins",
		Schema:        schema.Cabin.Query(),
		Writable:      []string{"name", "description", "maxCapacity", "regularPrice", "discount", "image"},
		Required:      []string{"name", "description", "maxCapacity", "regularPrice", "image"},
		BeforePersist: normalize,
	}
}

// normalize trims the text fields, keeps the slug in step with the name and
// checks the amounts.
func normalize(_ context.Context, _ resource.Op, _ string, values resource.Values) error {
	for _, name := range []string{"name", "description"} {
		if text, ok := values[name].(string); ok {
			values[name] = strings.TrimSpace(text)
		}
	}

	if values.Has("name") {
		values["slug"] = slug.From(values.String("name"))
	}
	return checkAmounts(values)
}

// checkAmounts rejects negative prices and a cabin that sleeps nobody.
func checkAmounts(values resource.Values) error {
	validator := &validate.Validator{}
	if capacity, ok := values.Number("maxCapacity"); ok {
		validator.Min("maxCapacity", capacity, 1)
	}
	for _, name := range []string{"regularPrice", "discount"} {
		if amount, ok := values.Number(name); ok {
			validator.Min(name, amount, 0)
		}
	}
	return validator.Err()
}
