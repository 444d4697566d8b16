// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cabin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	requestutil "github.com/taibuivan/wildoasis/internal/platform/request"
	"github.com/taibuivan/wildoasis/internal/platform/respond"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// Handler serves /cabins.
type Handler struct {
	crud       *resource.Handler[Cabin]
	descriptor *resource.Descriptor[Cabin]
	service    *Service
}

// NewHandler creates the cabin handler.
func NewHandler(store *resource.Store[Cabin], service *Service) *Handler {
	return &Handler{
		crud:       resource.NewHandler[Cabin](store, store.Descriptor()),
		descriptor: store.Descriptor(),
		service:    service,
	}
}

// RegisterRoutes mounts the cabin endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router, access *middleware.Access) {
	router.With(access.Machine(sec.AllRoles...)).Get("/", handler.crud.List)
	router.With(access.Session(sec.ManagersAndAdmins...)).Post("/", handler.createCabin)

	router.With(access.Machine(sec.AllRoles...)).Get("/{id}", handler.crud.Get)
	router.With(access.Session(sec.StaffAndAbove...)).Put("/{id}", handler.updateCabin)
	router.With(access.Session(sec.ManagersAndAdmins...)).Delete("/{id}", handler.crud.Delete)

	router.With(access.Session(sec.ManagersAndAdmins...)).Post("/{cabinId}/duplicate", handler.duplicateCabin)
}

func (handler *Handler) createCabin(writer http.ResponseWriter, request *http.Request) {
	values, image, err := handler.descriptor.DecodeUpload(writer, request, ImageField, MessageImageRequired)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cabin, err := handler.service.Create(request.Context(), values, image)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]any{"cabin": cabin})
}

func (handler *Handler) updateCabin(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, resource.IDParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	values, image, err := handler.descriptor.DecodeUpload(writer, request, ImageField, MessageImageRequired)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cabin, err := handler.service.Update(request.Context(), id, values, image)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"cabin": cabin})
}

func (handler *Handler) duplicateCabin(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "cabinId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cabin, err := handler.service.Duplicate(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]any{"cabin": cabin})
}
