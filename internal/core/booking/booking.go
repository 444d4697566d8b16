// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package booking manages cabin reservations.

Bookings reference one cabin and one guest. Every loaded booking carries the
referenced documents, fetched in one extra query per referenced table for the
whole page. Two read models serve the admin dashboard:

  - Stays today: arrivals (unconfirmed, starting today) and departures
    (checked in, ending today).
  - Booked dates: every calendar day occupied by the current and future
    bookings of a cabin.
*/
package booking

import (
	"context"
	"time"

	"github.com/taibuivan/wildoasis/internal/core/cabin"
	"github.com/taibuivan/wildoasis/internal/core/guest"
	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/validate"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// Booking statuses.
const (
	StatusUnconfirmed = "unconfirmed"
	StatusCheckedIn   = "checked-in"
	StatusCheckedOut  = "checked-out"
)

// MessageCabinNotFound answers booked-dates lookups for an unknown cabin.
const MessageCabinNotFound = "Either cabinId not found or cabinId not valid"

// Booking is one reservation of a cabin by a guest.
type Booking struct {
	ID           string    `json:"_id" db:"id"`
	StartDate    time.Time `json:"startDate" db:"start_date"`
	EndDate      time.Time `json:"endDate" db:"end_date"`
	NumNights    int64     `json:"numNights" db:"num_nights"`
	NumGuests    int64     `json:"numGuests" db:"num_guests"`
	CabinPrice   float64   `json:"cabinPrice" db:"cabin_price"`
	ExtrasPrice  float64   `json:"extrasPrice" db:"extras_price"`
	TotalPrice   float64   `json:"totalPrice" db:"total_price"`
	Status       string    `json:"status" db:"status"`
	HasBreakfast bool      `json:"hasBreakfast" db:"has_breakfast"`
	IsPaid       bool      `json:"isPaid" db:"is_paid"`
	Observations string    `json:"observations" db:"observations"`
	CabinID      string    `json:"-" db:"cabin_id"`
	GuestID      string    `json:"-" db:"guest_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	Version      *int64    `json:"__v,omitempty" db:"version"`

	Cabin *cabin.Cabin `json:"cabin,omitempty" db:"-"`
	Guest *guest.Guest `json:"guest,omitempty" db:"-"`
}

// Stay is a dashboard row for an arrival or departure happening today.
type Stay struct {
	ID        string    `json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
	NumNights int64     `json:"numNights"`
	Guest     StayGuest `json:"guest"`
}

// StayGuest is the guest summary attached to a [Stay].
type StayGuest struct {
	FullName    string `json:"fullName"`
	Nationality string `json:"nationality"`
	CountryFlag string `json:"countryFlag"`
}

// Interval is the occupied span of one booking.
type Interval struct {
	StartDate time.Time
	EndDate   time.Time
}

// NewDescriptor declares the bookings resource. The after-load hook is set
// by [NewStore].
func NewDescriptor() *resource.Descriptor[Booking] {
	return &resource.Descriptor[Booking]{
		Name:   "booking",
		Plural: "bookings",
		Schema: schema.Booking.Query(),
		Writable: []string{
			"startDate", "endDate", "numNights", "numGuests",
			"cabinPrice", "extrasPrice", "totalPrice", "status",
			"hasBreakfast", "isPaid", "observations", "cabin", "guest",
		},
		Required:      []string{"startDate", "endDate", "numNights", "numGuests", "cabinPrice", "totalPrice", "cabin", "guest"},
		BeforePersist: checkBooking,
	}
}

// checkBooking validates the status, counts and prices present in a write.
func checkBooking(_ context.Context, _ resource.Op, _ string, values resource.Values) error {
	validator := &validate.Validator{}

	if status, ok := values["status"].(string); ok {
		validator.OneOf("status", status, StatusUnconfirmed, StatusCheckedIn, StatusCheckedOut)
	}
	for _, name := range []string{"numNights", "numGuests"} {
		if count, ok := values.Number(name); ok {
			validator.Min(name, count, 1)
		}
	}
	for _, name := range []string{"cabinPrice", "extrasPrice", "totalPrice"} {
		if amount, ok := values.Number(name); ok {
			validator.Min(name, amount, 0)
		}
	}
	return validator.Err()
}
