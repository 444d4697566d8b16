// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package guest manages the hotel guests.
package guest

import (
	"context"
	"strings"
	"time"

	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/postgres"
	"github.com/taibuivan/wildoasis/internal/platform/validate"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// Guest is a person staying in a cabin.
type Guest struct {
	ID          string    `json:"_id" db:"id"`
	FullName    string    `json:"fullName" db:"full_name"`
	Email       string    `json:"email" db:"email"`
	NationalID  string    `json:"nationalID" db:"national_id"`
	Nationality string    `json:"nationality" db:"nationality"`
	CountryFlag string    `json:"countryFlag" db:"country_flag"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	Version     *int64    `json:"__v,omitempty" db:"version"`
}

// NewDescriptor declares the guests resource.
func NewDescriptor() *resource.Descriptor[Guest] {
	return &resource.Descriptor[Guest]{
		Name:          "guest",
		Plural:        "guests",
		Schema:        schema.Guest.Query(),
		Writable:      []string{"fullName", "email", "nationalID", "nationality", "countryFlag"},
		Required:      []string{"fullName", "email"},
		BeforePersist: normalize,
	}
}

// NewStore creates the PostgreSQL store for guests.
func NewStore(db postgres.DB) *resource.Store[Guest] {
	return resource.NewStore(db, NewDescriptor())
}

// normalize stores emails lowercase and rejects malformed ones.
func normalize(_ context.Context, _ resource.Op, _ string, values resource.Values) error {
	if name, ok := values["fullName"].(string); ok {
		values["fullName"] = strings.TrimSpace(name)
	}

	email, ok := values["email"].(string)
	if !ok {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	values["email"] = email

	return (&validate.Validator{}).Email("email", email).Err()
}
