// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table and column of the Wild Oasis database.

Each table has a typed column set, used by hand-written SQL in the
repositories, and a [features.Schema] that maps the public JSON field names
onto those columns for the generic list, get and write paths.
*/
package schema

import "github.com/taibuivan/wildoasis/internal/platform/features"

// Audit columns shared by every table.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
	ColumnVersion   = "version"
)

// auditFields are appended to every query schema.
func auditFields() []features.Field {
	return []features.Field{
		{Name: "createdAt", Column: ColumnCreatedAt, Kind: features.KindTime},
		{Name: "updatedAt", Column: ColumnUpdatedAt, Kind: features.KindTime},
		{Name: "__v", Column: ColumnVersion, Kind: features.KindInt, Hidden: true},
	}
}

func idField() features.Field {
	return features.Field{Name: features.IDField, Column: ColumnID, Kind: features.KindID}
}

// newQuery assembles a query schema with the identifier first and the audit
// fields last.
func newQuery(table, scope string, fields ...features.Field) features.Schema {
	all := append([]features.Field{idField()}, fields...)
	return features.Schema{
		Table:       table,
		Fields:      append(all, auditFields()...),
		Scope:       scope,
		DefaultSort: "-createdAt",
	}
}
