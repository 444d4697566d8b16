// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	requestutil "github.com/taibuivan/wildoasis/internal/platform/request"
	"github.com/taibuivan/wildoasis/internal/platform/respond"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
)

// Handler serves /api-management.
type Handler struct {
	service *Service
}

// NewHandler creates the API key handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the key management endpoints. All of them are
// restricted to admins.
func (handler *Handler) RegisterRoutes(router chi.Router, access *middleware.Access) {
	router.Group(func(admin chi.Router) {
		admin.Use(access.Session(sec.AdminsOnly...))
		admin.Post("/generate-api-key", handler.generate)
		admin.Get("/api-keys", handler.list)
		admin.Delete("/api-keys/{owner}", handler.deactivate)
	})
}

type generateRequest struct {
	ForWhom string `json:"forWhom"`
}

func (handler *Handler) generate(writer http.ResponseWriter, request *http.Request) {
	var input generateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	secret, err := handler.service.Generate(request.Context(), input.ForWhom)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]any{"apiKey": secret})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	keys, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, map[string]any{"apiKeys": keys}, len(keys), len(keys))
}

func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Deactivate(request.Context(), requestutil.Param(request, "owner")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
