// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package setting manages the application settings document.

There is at most one settings row. It is created once, then only read,
modified or removed; the database enforces the singleton with a unique index
so that concurrent creates cannot both succeed.
*/
package setting

import (
	"context"
	"time"

	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/postgres"
	"github.com/taibuivan/wildoasis/internal/platform/validate"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// Client-facing messages.
const (
	MessageNotFound      = "Setting document not found."
	MessageAlreadyExists = "There can be only one setting document and it already exists so you can't create a new one. Only modification of that setting document is possible"
)

// Setting holds the booking rules shared by the whole hotel.
type Setting struct {
	ID                  string    `json:"_id" db:"id"`
	MinBookingLength    int64     `json:"minBookingLength" db:"min_booking_length"`
	MaxBookingLength    int64     `json:"maxBookingLength" db:"max_booking_length"`
	MaxGuestsPerBooking int64     `json:"maxGuestsPerBooking" db:"max_guests_per_booking"`
	BreakfastPrice      float64   `json:"breakfastPrice" db:"breakfast_price"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
	Version             *int64    `json:"__v,omitempty" db:"version"`
}

// NewDescriptor declares the settings resource.
func NewDescriptor() *resource.Descriptor[Setting] {
	fields := []string{"minBookingLength", "maxBookingLength", "maxGuestsPerBooking", "breakfastPrice"}
	return &resource.Descriptor[Setting]{
		Name:          "setting",
		Plural:        "settings",
		Schema:        schema.Setting.Query(),
		Writable:      fields,
		Required:      fields,
		BeforePersist: checkLengths,
	}
}

// NewStore creates the PostgreSQL store for settings.
func NewStore(db postgres.DB) *resource.Store[Setting] {
	return resource.NewStore(db, NewDescriptor())
}

// checkLengths validates the lower bounds of the fields present and rejects
// a minimum above the maximum when a write sets both. Partial updates of one
// length are left to the table constraint.
func checkLengths(_ context.Context, _ resource.Op, _ string, values resource.Values) error {
	validator := &validate.Validator{}

	for _, name := range []string{"minBookingLength", "maxBookingLength", "maxGuestsPerBooking"} {
		if count, ok := values.Number(name); ok {
			validator.Min(name, count, 1)
		}
	}
	if price, ok := values.Number("breakfastPrice"); ok {
		validator.Min("breakfastPrice", price, 0)
	}

	minimum, hasMin := values.Number("minBookingLength")
	maximum, hasMax := values.Number("maxBookingLength")
	validator.Custom("minBookingLength", hasMin && hasMax && minimum > maximum, "Minimum booking length must not exceed the maximum booking length")

	return validator.Err()
}
