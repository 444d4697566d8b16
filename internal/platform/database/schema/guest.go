// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/wildoasis/internal/platform/features"

// GuestTable represents the 'guests' table
type GuestTable struct {
	Table       string
	ID          string
	FullName    string
	Email       string
	NationalID  string
	Nationality string
	CountryFlag string
}

// Guest is the schema definition for guests
var Guest = GuestTable{
	Table:       "guests",
	ID:          ColumnID,
	FullName:    "full_name",
	Email:       "email",
	NationalID:  "national_id",
	Nationality: "nationality",
	CountryFlag: "country_flag",
}

// Query returns the public field mapping.
func (t GuestTable) Query() features.Schema {
	return newQuery(t.Table, "",
		features.Field{Name: "fullName", Column: t.FullName, Kind: features.KindString},
		features.Field{Name: "email", Column: t.Email, Kind: features.KindString},
		features.Field{Name: "nationalID", Column: t.NationalID, Kind: features.KindString},
		features.Field{Name: "nationality", Column: t.Nationality, Kind: features.KindString},
		features.Field{Name: "countryFlag", Column: t.CountryFlag, Kind: features.KindString},
	)
}
