// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package features

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/pkg/uuid"
)

// Kind is the value type of a field. It decides how query-string and
// payload values are cast before they reach the store.
type Kind int

const (
	KindString Kind = iota + 1
	KindInt
	KindFloat
	KindBool
	KindTime
	KindID
)

// IDField is the JSON name of every primary key.
const IDField = "_id"

// Field maps a public (JSON) field name to its column.
type Field struct {
	// Name is the JSON name used in query strings, payloads and responses.
	Name string
	// Column is the SQL column name.
	Column string
	// Kind decides how values are cast.
	Kind Kind
	// Hidden fields are left out of the default projection.
	Hidden bool
}

// Schema describes one table for the query builder.
type Schema struct {
	// Table is the SQL table name.
	Table string
	// Fields lists every queryable field, including the identifier.
	Fields []Field
	// Scope is an optional SQL predicate applied to every query (e.g. "is_active = TRUE").
	Scope string
	// DefaultSort is used when no sort parameter is given.
	DefaultSort string
}

// Lookup returns the field with the given JSON name.
func (schema Schema) Lookup(name string) (Field, bool) {
	for _, field := range schema.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// MustLookup returns the named field and panics when it is not declared.
// It is meant for package-level wiring of known fields.
func (schema Schema) MustLookup(name string) Field {
	field, ok := schema.Lookup(name)
	if !ok {
		panic("features: unknown field " + name + " on " + schema.Table)
	}
	return field
}

// DefaultProjection returns every non-hidden field.
func (schema Schema) DefaultProjection() []Field {
	projection := make([]Field, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		if !field.Hidden {
			projection = append(projection, field)
		}
	}
	return projection
}

// ColumnList renders the columns of fields as a comma-separated SQL list.
func ColumnList(fields []Field) string {
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Column
	}
	return strings.Join(columns, ", ")
}

// # Casting

// Cast converts a query-string value to the Go type of the field. Values
// that cannot be converted produce a 400 cast error naming the field.
func Cast(field Field, raw string) (any, error) {
	switch field.Kind {
	case KindInt:
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.Cast(field.Name, raw)
		}
		return value, nil

	case KindFloat:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperr.Cast(field.Name, raw)
		}
		return value, nil

	case KindBool:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperr.Cast(field.Name, raw)
		}
		return value, nil

	case KindTime:
		value, err := ParseTime(raw)
		if err != nil {
			return nil, apperr.Cast(field.Name, raw)
		}
		return value, nil

	case KindID:
		if !uuid.Valid(raw) {
			return nil, apperr.Cast(field.Name, raw)
		}
		return raw, nil
	}

	return raw, nil
}

// CastJSON converts a raw JSON payload value to the Go type of the field.
// JSON null is returned as nil. Strings are accepted for every kind and go
// through [Cast], matching how form fields arrive.
func CastJSON(field Field, raw json.RawMessage) (any, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return nil, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return Cast(field, text)
	}

	switch field.Kind {
	case KindInt, KindFloat, KindBool:
		// Numbers and booleans keep their JSON spelling, which strconv accepts.
		return Cast(field, trimmed)
	}

	return nil, apperr.Cast(field.Name, trimmed)
}

// timeLayouts are tried in order by [ParseTime].
var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseTime accepts RFC 3339 timestamps and plain dates (interpreted as UTC midnight).
func ParseTime(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		value, err := time.Parse(layout, raw)
		if err == nil {
			return value.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
