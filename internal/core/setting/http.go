// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package setting

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	"github.com/taibuivan/wildoasis/internal/platform/respond"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// Handler serves /settings.
type Handler struct {
	descriptor *resource.Descriptor[Setting]
	service    *Service
}

func NewHandler(store *resource.Store[Setting], service *Service) *Handler {
	return &Handler{descriptor: store.Descriptor(), service: service}
}

// RegisterRoutes mounts the settings endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router, access *middleware.Access) {
	router.With(access.Machine(sec.AllRoles...)).Get("/", handler.getSetting)
	router.With(access.Session(sec.ManagersAndAdmins...)).Post("/", handler.createSetting)
	router.With(access.Session(sec.ManagersAndAdmins...)).Patch("/", handler.updateSetting)
	router.With(access.Session(sec.ManagersAndAdmins...)).Delete("/", handler.deleteSetting)
}

func (handler *Handler) getSetting(writer http.ResponseWriter, request *http.Request) {
	setting, err := handler.service.Get(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"setting": setting})
}

func (handler *Handler) createSetting(writer http.ResponseWriter, request *http.Request) {
	values, err := handler.descriptor.DecodeJSON(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setting, err := handler.service.Create(request.Context(), values)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]any{"setting": setting})
}

func (handler *Handler) updateSetting(writer http.ResponseWriter, request *http.Request) {
	values, err := handler.descriptor.DecodeJSON(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setting, err := handler.service.Update(request.Context(), values)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"setting": setting})
}

func (handler *Handler) deleteSetting(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
