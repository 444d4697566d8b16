// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/wildoasis/internal/platform/features"

// SettingTable represents the 'settings' table
type SettingTable struct {
	Table               string
	ID                  string
	MinBookingLength    string
	MaxBookingLength    string
	MaxGuestsPerBooking string
	BreakfastPrice      string
}

// Setting is the schema definition for settings
var Setting = SettingTable{
	Table:               "settings",
	ID:                  ColumnID,
	MinBookingLength:    "min_booking_length",
	MaxBookingLength:    "max_booking_length",
	MaxGuestsPerBooking: "max_guests_per_booking",
	BreakfastPrice:      "breakfast_price",
}

// Query returns the public field mapping.
func (t SettingTable) Query() features.Schema {
	return newQuery(t.Table, "",
		features.Field{Name: "minBookingLength", Column: t.MinBookingLength, Kind: features.KindInt},
		features.Field{Name: "maxBookingLength", Column: t.MaxBookingLength, Kind: features.KindInt},
		features.Field{Name: "maxGuestsPerBooking", Column: t.MaxGuestsPerBooking, Kind: features.KindInt},
		features.Field{Name: "breakfastPrice", Column: t.BreakfastPrice, Kind: features.KindFloat},
	)
}
