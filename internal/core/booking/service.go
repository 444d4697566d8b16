// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"context"
	"time"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/pkg/uuid"
)

// Repository is the storage contract of the dashboard reads.
type Repository interface {
	StaysBetween(ctx context.Context, from, to time.Time) ([]*Stay, error)
	CabinExists(ctx context.Context, id string) (bool, error)
	OccupiedIntervals(ctx context.Context, cabinID string, from time.Time) ([]Interval, error)
}

// Service implements the booking reads that are not plain resource queries.
type Service struct {
	repository Repository
	now        func() time.Time
}

// NewService creates a booking service.
func NewService(repository Repository) *Service {
	return &Service{repository: repository, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// StaysToday returns the guests arriving or leaving today.
func (service *Service) StaysToday(ctx context.Context) ([]*Stay, error) {
	start := startOfDay(service.now())
	return service.repository.StaysBetween(ctx, start, start.AddDate(0, 0, 1))
}

// BookedDates returns every day occupied by the current and upcoming
// bookings of a cabin, in booking order. Overlapping bookings repeat days.
func (service *Service) BookedDates(ctx context.Context, cabinID string) ([]time.Time, error) {
	if !uuid.Valid(cabinID) {
		return nil, apperr.NotFound(MessageCabinNotFound)
	}

	exists, err := service.repository.CabinExists(ctx, cabinID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound(MessageCabinNotFound)
	}

	intervals, err := service.repository.OccupiedIntervals(ctx, cabinID, startOfDay(service.now()))
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0)
	for _, interval := range intervals {
		dates = append(dates, eachDay(interval.StartDate, interval.EndDate)...)
	}
	return dates, nil
}

// eachDay lists the start of every calendar day from start to end, inclusive.
func eachDay(start, end time.Time) []time.Time {
	var days []time.Time
	last := startOfDay(end)
	for day := startOfDay(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
