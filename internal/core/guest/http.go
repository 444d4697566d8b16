// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guest

import (
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// Handler serves /guests.
type Handler struct {
	crud *resource.Handler[Guest]
}

func NewHandler(store *resource.Store[Guest]) *Handler {
	return &Handler{crud: resource.NewHandler[Guest](store, store.Descriptor())}
}

// RegisterRoutes mounts the guest endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router, access *middleware.Access) {
	router.With(access.Machine(sec.AllRoles...)).Get("/", handler.crud.List)
	router.With(access.Machine(sec.StaffAndAbove...)).Post("/", handler.crud.Create)

	router.With(access.Session(sec.AllRoles...)).Get("/{id}", handler.crud.Get)
	router.With(access.Machine(sec.StaffAndAbove...)).Patch("/{id}", handler.crud.Update)
	router.With(access.Session(sec.ManagersAndAdmins...)).Delete("/{id}", handler.crud.Delete)
}
