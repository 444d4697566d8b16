// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/dberr"
	"github.com/taibuivan/wildoasis/internal/platform/features"
	"github.com/taibuivan/wildoasis/internal/platform/postgres"
	"github.com/taibuivan/wildoasis/pkg/uuid"
)

// Repository is the storage contract used by [Handler].
type Repository[T any] interface {
	List(ctx context.Context, plan *features.Features) ([]*T, int, error)
	Get(ctx context.Context, id string, projection []features.Field) (*T, error)
	Create(ctx context.Context, values Values) (*T, error)
	Update(ctx context.Context, id string, values Values) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Store is the PostgreSQL implementation of [Repository].
//
// Rows are mapped onto T by column name, so T must carry `db` tags matching
// the schema columns. Columns not selected leave their field at its zero value.
type Store[T any] struct {
	db         postgres.DB
	descriptor *Descriptor[T]
}

// NewStore creates a store for the described entity.
func NewStore[T any](db postgres.DB, descriptor *Descriptor[T]) *Store[T] {
	return &Store[T]{db: db, descriptor: descriptor}
}

// DB exposes the underlying connection for domain-specific queries.
func (store *Store[T]) DB() postgres.DB { return store.db }

// Descriptor returns the entity descriptor.
func (store *Store[T]) Descriptor() *Descriptor[T] { return store.descriptor }

// # Reads

// List runs the plan and returns the page together with the number of
// documents matching the filter.
func (store *Store[T]) List(ctx context.Context, plan *features.Features) ([]*T, int, error) {
	if err := plan.Err(); err != nil {
		return nil, 0, err
	}

	countSQL, countArgs := plan.CountSQL()
	var total int
	if err := store.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_"+store.descriptor.Plural)
	}

	selectSQL, args := plan.SelectSQL()
	docs, err := store.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// Get loads one document. A nil projection selects the default fields.
func (store *Store[T]) Get(ctx context.Context, id string, projection []features.Field) (*T, error) {
	if !uuid.Valid(id) {
		return nil, apperr.Cast(features.IDField, id)
	}
	if projection == nil {
		projection = store.descriptor.Schema.DefaultProjection()
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		features.ColumnList(projection), store.descriptor.Schema.Table, store.byID(1))

	return store.queryOne(ctx, "get_"+store.descriptor.Name, query, id)
}

// Query runs an arbitrary SELECT and maps every row onto T, running the
// after-load hook on the result.
func (store *Store[T]) Query(ctx context.Context, query string, args ...any) ([]*T, error) {
	rows, err := store.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "query_"+store.descriptor.Plural)
	}

	docs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, dberr.Wrap(err, "scan_"+store.descriptor.Plural)
	}

	if err := store.afterLoad(ctx, docs...); err != nil {
		return nil, err
	}
	return docs, nil
}

// # Writes

// Create validates values, runs the before-persist hook and inserts the row.
func (store *Store[T]) Create(ctx context.Context, values Values) (*T, error) {
	if err := store.checkRequired(values, OpCreate); err != nil {
		return nil, err
	}
	if err := store.beforePersist(ctx, OpCreate, "", values); err != nil {
		return nil, err
	}

	columns := []string{store.descriptor.Schema.MustLookup(features.IDField).Column}
	placeholders := []string{"$1"}
	args := []any{uuid.New()}

	for _, field := range store.descriptor.Schema.Fields {
		value, ok := values[field.Name]
		if !ok || field.Name == features.IDField {
			continue
		}
		args = append(args, value)
		columns = append(columns, field.Column)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		store.descriptor.Schema.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		store.returning(),
	)

	return store.queryOne(ctx, "create_"+store.descriptor.Name, query, args...)
}

// Update applies a partial update and returns the new document.
func (store *Store[T]) Update(ctx context.Context, id string, values Values) (*T, error) {
	if !uuid.Valid(id) {
		return nil, apperr.Cast(features.IDField, id)
	}
	if err := store.checkRequired(values, OpUpdate); err != nil {
		return nil, err
	}
	if err := store.beforePersist(ctx, OpUpdate, id, values); err != nil {
		return nil, err
	}

	assignments := []string{"version = version + 1", "updated_at = now()"}
	var args []any

	for _, field := range store.descriptor.Schema.Fields {
		value, ok := values[field.Name]
		if !ok || field.Name == features.IDField {
			continue
		}
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", field.Column, len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s",
		store.descriptor.Schema.Table,
		strings.Join(assignments, ", "),
		store.byID(len(args)),
		store.returning(),
	)

	return store.queryOne(ctx, "update_"+store.descriptor.Name, query, args...)
}

// Delete removes the row.
func (store *Store[T]) Delete(ctx context.Context, id string) error {
	if !uuid.Valid(id) {
		return apperr.Cast(features.IDField, id)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s", store.descriptor.Schema.Table, store.byID(1))

	tag, err := store.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_"+store.descriptor.Name)
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound(store.descriptor.NotFoundMessage())
	}
	return nil
}

// # Helpers

func (store *Store[T]) queryOne(ctx context.Context, action, query string, args ...any) (*T, error) {
	rows, err := store.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	doc, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dberr.NotFound(store.descriptor.NotFoundMessage())
		}
		return nil, dberr.Wrap(err, action)
	}

	if err := store.afterLoad(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// byID renders the primary key predicate, including the schema scope.
func (store *Store[T]) byID(position int) string {
	schema := store.descriptor.Schema
	predicate := fmt.Sprintf("%s = $%d", schema.MustLookup(features.IDField).Column, position)
	if schema.Scope != "" {
		predicate += " AND " + schema.Scope
	}
	return predicate
}

func (store *Store[T]) returning() string {
	return features.ColumnList(store.descriptor.Schema.DefaultProjection())
}

func (store *Store[T]) checkRequired(values Values, op Op) error {
	var details []apperr.FieldError
	for _, name := range store.descriptor.Required {
		value, present := values[name]
		missing := value == nil || value == ""
		if (op == OpCreate && (!present || missing)) || (op == OpUpdate && present && missing) {
			details = append(details, apperr.FieldError{Field: name, Message: "This field is required"})
		}
	}
	if len(details) > 0 {
		return apperr.InvalidInput(details...)
	}
	return nil
}

func (store *Store[T]) beforePersist(ctx context.Context, op Op, id string, values Values) error {
	if store.descriptor.BeforePersist == nil {
		return nil
	}
	return store.descriptor.BeforePersist(ctx, op, id, values)
}

func (store *Store[T]) afterLoad(ctx context.Context, docs ...*T) error {
	if store.descriptor.AfterLoad == nil || len(docs) == 0 {
		return nil
	}
	return store.descriptor.AfterLoad(ctx, docs)
}
