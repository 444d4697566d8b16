// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resource implements the CRUD operations shared by every entity.

A [Descriptor] declares how one entity is stored and exposed: its table
schema, the fields clients may write, and two optional hooks. A [Store]
executes the SQL through pgx and a [Handler] exposes the five HTTP
operations with the standard envelope:

	List   GET    /          {status, results, totalDocuments, data:{<plural>:[...]}}
	Get    GET    /{id}      {status, data:{<name>: doc}}
	Create POST   /          201 {status, data:{<name>: doc}}
	Update PATCH  /{id}      {status, data:{<name>: doc}}
	Delete DELETE /{id}      204

Domain packages embed these pieces and add their own routes around them.
*/
package resource

import (
	"context"
	"fmt"

	"github.com/taibuivan/wildoasis/internal/platform/features"
)

// Op identifies the write being prepared by a [Descriptor.BeforePersist] hook.
type Op int

const (
	OpCreate Op = iota + 1
	OpUpdate
)

// Values holds cast payload values keyed by JSON field name.
type Values map[string]any

// Has reports whether the payload sets name.
func (values Values) Has(name string) bool {
	_, ok := values[name]
	return ok
}

// String returns the string value of name, or "" when it is absent or not a string.
func (values Values) String(name string) string {
	text, _ := values[name].(string)
	return text
}

// Number returns the numeric value of name. ok is false when it is absent or
// not a number.
func (values Values) Number(name string) (number float64, ok bool) {
	switch value := values[name].(type) {
	case int64:
		return float64(value), true
	case float64:
		return value, true
	}
	return 0, false
}

// Descriptor declares one entity.
type Descriptor[T any] struct {
	// Name is the singular key used in responses and messages ("cabin").
	Name string
	// Plural is the list key ("cabins").
	Plural string
	// Schema describes the table and the queryable fields.
	Schema features.Schema
	// Writable lists the JSON fields accepted from clients.
	Writable []string
	// Required lists the JSON fields that must be present on create and may
	// not be cleared on update.
	Required []string
	// BeforePersist may validate or derive values before every write. The id
	// is empty for creates.
	BeforePersist func(ctx context.Context, op Op, id string, values Values) error
	// AfterLoad may enrich documents after every read or write.
	AfterLoad func(ctx context.Context, docs []*T) error
}

// NotFoundMessage is the 404 message for a missing document.
func (descriptor *Descriptor[T]) NotFoundMessage() string {
	return fmt.Sprintf("No %s found with that ID", descriptor.Name)
}

// writable returns the writable fields in declaration order.
func (descriptor *Descriptor[T]) writable() []features.Field {
	fields := make([]features.Field, len(descriptor.Writable))
	for i, name := range descriptor.Writable {
		fields[i] = descriptor.Schema.MustLookup(name)
	}
	return fields
}
