// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	"github.com/taibuivan/wildoasis/internal/platform/respond"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// Handler serves /bookings.
type Handler struct {
	crud    *resource.Handler[Booking]
	service *Service
}

// NewHandler creates the booking handler.
func NewHandler(store *Store, service *Service) *Handler {
	return &Handler{
		crud:    resource.NewHandler[Booking](store, store.Descriptor()),
		service: service,
	}
}

// RegisterRoutes mounts the booking endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router, access *middleware.Access) {
	router.With(access.Machine(sec.AllRoles...)).Get("/", handler.crud.List)
	router.With(access.Machine(sec.ManagersAndAdmins...)).Post("/", handler.crud.Create)

	router.With(access.Session(sec.AllRoles...)).Get("/stays-today-activity", handler.staysToday)
	router.With(access.Machine(sec.AllRoles...)).Get("/get-booked-dates-by-cabin-id", handler.bookedDates)

	router.With(access.Machine(sec.AllRoles...)).Get("/{id}", handler.crud.Get)
	router.With(access.Machine(sec.StaffAndAbove...)).Patch("/{id}", handler.crud.Update)
	router.With(access.Machine(sec.ManagersAndAdmins...)).Delete("/{id}", handler.crud.Delete)
}

func (handler *Handler) staysToday(writer http.ResponseWriter, request *http.Request) {
	stays, err := handler.service.StaysToday(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	results := len(stays)
	respond.JSON(writer, http.StatusOK, respond.Envelope{
		Status:  respond.StatusSuccess,
		Results: &results,
		Data:    map[string]any{"stays": stays},
	})
}

func (handler *Handler) bookedDates(writer http.ResponseWriter, request *http.Request) {
	dates, err := handler.service.BookedDates(request.Context(), request.URL.Query().Get("cabinId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"bookedDates": dates})
}
