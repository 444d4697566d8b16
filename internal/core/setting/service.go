// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package setting

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/dberr"
	"github.com/taibuivan/wildoasis/internal/platform/features"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// ErrNotFound is returned while no settings document exists.
var ErrNotFound = apperr.NotFound(MessageNotFound)

// Service implements the singleton operations.
type Service struct {
	store *resource.Store[Setting]
}

// NewService creates a settings service.
func NewService(store *resource.Store[Setting]) *Service {
	return &Service{store: store}
}

// Get returns the settings document.
func (service *Service) Get(ctx context.Context) (*Setting, error) {
	query := fmt.Sprintf("SELECT %s FROM %s LIMIT 1",
		features.ColumnList(service.store.Descriptor().Schema.DefaultProjection()), schema.Setting.Table)

	docs, err := service.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

// Create inserts the settings document unless one already exists.
func (service *Service) Create(ctx context.Context, values resource.Values) (*Setting, error) {
	_, err := service.Get(ctx)
	switch {
	case err == nil:
		return nil, apperr.BadRequest(MessageAlreadyExists)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	created, err := service.store.Create(ctx, values)
	if dberr.IsDuplicate(err) {
		return nil, apperr.BadRequest(MessageAlreadyExists)
	}
	return created, err
}

// Update modifies the settings document.
func (service *Service) Update(ctx context.Context, values resource.Values) (*Setting, error) {
	current, err := service.Get(ctx)
	if err != nil {
		return nil, err
	}
	return service.store.Update(ctx, current.ID, values)
}

// Delete removes the settings document, if any.
func (service *Service) Delete(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", schema.Setting.Table)
	if _, err := service.store.DB().Exec(ctx, query); err != nil {
		return dberr.Wrap(err, "delete_settings")
	}
	return nil
}
