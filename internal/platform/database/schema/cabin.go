// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/wildoasis/internal/platform/features"

// CabinTable represents the 'cabins' table
type CabinTable struct {
	Table        string
	ID           string
	Name         string
	Slug         string
	Description  string
	MaxCapacity  string
	RegularPrice string
	Discount     string
	Image        string
}

// Cabin is the schema definition for cabins
var Cabin = CabinTable{
	Table:        "cabins",
	ID:           ColumnID,
	Name:         "name",
	Slug:         "slug",
	Description:  "description",
	MaxCapacity:  "max_capacity",
	RegularPrice: "regular_price",
	Discount:     "discount",
	Image:        "image",
}

// Query returns the public field mapping.
func (t CabinTable) Query() features.Schema {
	return newQuery(t.Table, "",
		features.Field{Name: "name", Column: t.Name, Kind: features.KindString},
		features.Field{Name: "slug", Column: t.Slug, Kind: features.KindString},
		features.Field{Name: "description", Column: t.Description, Kind: features.KindString},
		features.Field{Name: "maxCapacity", Column: t.MaxCapacity, Kind: features.KindInt},
		features.Field{Name: "regularPrice", Column: t.RegularPrice, Kind: features.KindFloat},
		features.Field{Name: "discount", Column: t.Discount, Kind: features.KindFloat},
		features.Field{Name: "image", Column: t.Image, Kind: features.KindString},
	)
}
