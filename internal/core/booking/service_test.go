// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/internal/core/booking"
	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/middleware/accesstest"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
)

type fakeRepository struct {
	from, to  time.Time
	stays     []*booking.Stay
	cabins    map[string]bool
	intervals []booking.Interval
	since     time.Time
}

func (repository *fakeRepository) StaysBetween(_ context.Context, from, to time.Time) ([]*booking.Stay, error) {
	repository.from, repository.to = from, to
	return repository.stays, nil
}

func (repository *fakeRepository) CabinExists(_ context.Context, id string) (bool, error) {
	return repository.cabins[id], nil
}

func (repository *fakeRepository) OccupiedIntervals(_ context.Context, _ string, from time.Time) ([]booking.Interval, error) {
	repository.since = from
	return repository.intervals, nil
}

func day(d int) time.Time {
	return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC)
}

var now = time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)

func TestService_StaysTodayBounds(t *testing.T) {
	repository := &fakeRepository{}
	service := booking.NewService(repository).WithClock(func() time.Time { return now })

	_, err := service.StaysToday(context.Background())
	require.NoError(t, err)

	assert.Equal(t, day(10), repository.from)
	assert.Equal(t, day(11), repository.to)
}

func TestService_BookedDatesExpandsEveryDay(t *testing.T) {
	repository := &fakeRepository{
		cabins: map[string]bool{cabinID: true},
		intervals: []booking.Interval{
			{StartDate: day(9), EndDate: day(11)},
			{StartDate: day(20).Add(14 * time.Hour), EndDate: day(22).Add(11 * time.Hour)},
		},
	}
	service := booking.NewService(repository).WithClock(func() time.Time { return now })

	dates, err := service.BookedDates(context.Background(), cabinID)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(9), day(10), day(11), day(20), day(21), day(22)}, dates)
	assert.Equal(t, day(10), repository.since)
}

func TestService_BookedDatesUnknownCabin(t *testing.T) {
	service := booking.NewService(&fakeRepository{})

	for _, id := range []string{"", "not-a-uuid", cabinID} {
		_, err := service.BookedDates(context.Background(), id)
		appError := apperr.As(err)
		require.NotNil(t, appError, id)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
		assert.Equal(t, booking.MessageCabinNotFound, appError.Message)
	}
}

func TestHandler_DashboardRoutes(t *testing.T) {
	repository := &fakeRepository{
		stays:     []*booking.Stay{{ID: bookingID, Status: booking.StatusUnconfirmed, NumNights: 2, Guest: booking.StayGuest{FullName: "Jonas"}}},
		cabins:    map[string]bool{cabinID: true},
		intervals: []booking.Interval{{StartDate: day(12), EndDate: day(13)}},
	}
	service := booking.NewService(repository).WithClock(func() time.Time { return now })

	router := chi.NewRouter()
	booking.NewHandler(booking.NewStore(newMock(t)), service).RegisterRoutes(router, accesstest.New())

	t.Run("stays today requires a session", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/stays-today-activity", nil)
		request.Header.Set(constants.HeaderAPIKey, accesstest.APIKey)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("stays today", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/stays-today-activity", nil)
		accesstest.Login(request, sec.RoleDemo, "0190d6a4-8f7e-7c3a-9b1e-aaaaaaaaaaaa")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Status  string `json:"status"`
			Results int    `json:"results"`
			Data    struct {
				Stays []booking.Stay `json:"stays"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Results)
		assert.Equal(t, "Jonas", body.Data.Stays[0].Guest.FullName)
	})

	t.Run("booked dates by api key", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/get-booked-dates-by-cabin-id?cabinId="+cabinID, nil)
		request.Header.Set(constants.HeaderAPIKey, accesstest.APIKey)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Data struct {
				BookedDates []time.Time `json:"bookedDates"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Len(t, body.Data.BookedDates, 2)
	})

	t.Run("staff cannot delete", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodDelete, "/"+bookingID, nil)
		accesstest.Login(request, sec.RoleStaff, "0190d6a4-8f7e-7c3a-9b1e-aaaaaaaaaaaa")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
