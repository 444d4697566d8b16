// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taibuivan/wildoasis/internal/platform/features"
	requestutil "github.com/taibuivan/wildoasis/internal/platform/request"
	"github.com/taibuivan/wildoasis/internal/platform/respond"
)

// IDParam is the route parameter holding document identifiers.
const IDParam = "id"

// Handler serves the generic CRUD operations for one entity.
type Handler[T any] struct {
	repository Repository[T]
	descriptor *Descriptor[T]
}

// NewHandler creates a handler over repository.
func NewHandler[T any](repository Repository[T], descriptor *Descriptor[T]) *Handler[T] {
	return &Handler[T]{repository: repository, descriptor: descriptor}
}

// # Reads

// List serves GET / with filtering, sorting, projection and pagination.
func (handler *Handler[T]) List(writer http.ResponseWriter, request *http.Request) {
	plan := features.New(handler.descriptor.Schema, request.URL.Query()).
		Filter().
		Sort().
		LimitFields().
		Paginate()
	if err := plan.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	docs, total, err := handler.repository.List(request.Context(), plan)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.Render(docs, plan)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, map[string]any{handler.descriptor.Plural: payload}, len(docs), total)
}

// Get serves GET /{id}. The fields parameter narrows the projection.
func (handler *Handler[T]) Get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, IDParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	plan := features.New(handler.descriptor.Schema, request.URL.Query()).LimitFields()
	if err := plan.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	doc, err := handler.repository.Get(request.Context(), id, plan.Projection())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.Render([]*T{doc}, plan)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{handler.descriptor.Name: payload[0]})
}

// # Writes

// Create serves POST / with a JSON body.
func (handler *Handler[T]) Create(writer http.ResponseWriter, request *http.Request) {
	values, err := handler.descriptor.DecodeJSON(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	doc, err := handler.repository.Create(request.Context(), values)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{handler.descriptor.Name: doc})
}

// Update serves PATCH /{id} with a partial JSON body.
func (handler *Handler[T]) Update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, IDParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	values, err := handler.descriptor.DecodeJSON(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	doc, err := handler.repository.Update(request.Context(), id, values)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{handler.descriptor.Name: doc})
}

// Delete serves DELETE /{id}.
func (handler *Handler[T]) Delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, IDParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.repository.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Projection

// Render prepares docs for the response. Without an explicit projection the
// documents are returned as is; otherwise each one is reduced to the
// projected fields.
func (handler *Handler[T]) Render(docs []*T, plan *features.Features) ([]any, error) {
	payload := make([]any, len(docs))
	for i, doc := range docs {
		if !plan.Explicit() {
			payload[i] = doc
			continue
		}
		projected, err := Project(doc, plan.Projection())
		if err != nil {
			return nil, err
		}
		payload[i] = projected
	}
	return payload, nil
}

// Project reduces doc to the JSON keys named by fields.
func Project(doc any, fields []features.Field) (map[string]json.RawMessage, error) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("resource_project_failed: %w", err)
	}

	all := map[string]json.RawMessage{}
	if err := json.Unmarshal(encoded, &all); err != nil {
		return nil, fmt.Errorf("resource_project_failed: %w", err)
	}

	projected := make(map[string]json.RawMessage, len(fields))
	for _, field := range fields {
		if value, ok := all[field.Name]; ok {
			projected[field.Name] = value
		}
	}
	return projected, nil
}
