// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/wildoasis/internal/platform/features"

// BookingTable represents the 'bookings' table
type BookingTable struct {
	Table        string
	ID           string
	StartDate    string
	EndDate      string
	NumNights    string
	NumGuests    string
	CabinPrice   string
	ExtrasPrice  string
	TotalPrice   string
	Status       string
	HasBreakfast string
	IsPaid       string
	Observations string
	CabinID      string
	GuestID      string
	CreatedAt    string
}

// Booking is the schema definition for bookings
var Booking = BookingTable{
	Table:        "bookings",
	ID:           ColumnID,
	StartDate:    "start_date",
	EndDate:      "end_date",
	NumNights:    "num_nights",
	NumGuests:    "num_guests",
	CabinPrice:   "cabin_price",
	ExtrasPrice:  "extras_price",
	TotalPrice:   "total_price",
	Status:       "status",
	HasBreakfast: "has_breakfast",
	IsPaid:       "is_paid",
	Observations: "observations",
	CabinID:      "cabin_id",
	GuestID:      "guest_id",
	CreatedAt:    ColumnCreatedAt,
}

// Query returns the public field mapping. The cabin and guest references
// keep their document names.
func (t BookingTable) Query() features.Schema {
	return newQuery(t.Table, "",
		features.Field{Name: "startDate", Column: t.StartDate, Kind: features.KindTime},
		features.Field{Name: "endDate", Column: t.EndDate, Kind: features.KindTime},
		features.Field{Name: "numNights", Column: t.NumNights, Kind: features.KindInt},
		features.Field{Name: "numGuests", Column: t.NumGuests, Kind: features.KindInt},
		features.Field{Name: "cabinPrice", Column: t.CabinPrice, Kind: features.KindFloat},
		features.Field{Name: "extrasPrice", Column: t.ExtrasPrice, Kind: features.KindFloat},
		features.Field{Name: "totalPrice", Column: t.TotalPrice, Kind: features.KindFloat},
		features.Field{Name: "status", Column: t.Status, Kind: features.KindString},
		features.Field{Name: "hasBreakfast", Column: t.HasBreakfast, Kind: features.KindBool},
		features.Field{Name: "isPaid", Column: t.IsPaid, Kind: features.KindBool},
		features.Field{Name: "observations", Column: t.Observations, Kind: features.KindString},
		features.Field{Name: "cabin", Column: t.CabinID, Kind: features.KindID},
		features.Field{Name: "guest", Column: t.GuestID, Kind: features.KindID},
	)
}
