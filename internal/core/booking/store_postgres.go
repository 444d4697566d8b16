// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/wildoasis/internal/core/cabin"
	"github.com/taibuivan/wildoasis/internal/core/guest"
	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/dberr"
	"github.com/taibuivan/wildoasis/internal/platform/features"
	"github.com/taibuivan/wildoasis/internal/platform/postgres"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// Store is the PostgreSQL store for bookings.
type Store struct {
	*resource.Store[Booking]
	cabins *resource.Store[cabin.Cabin]
	guests *resource.Store[guest.Guest]
}

// NewStore creates the booking store. Loaded bookings are populated with
// their cabin and guest.
func NewStore(db postgres.DB) *Store {
	store := &Store{
		cabins: cabin.NewStore(db),
		guests: guest.NewStore(db),
	}

	descriptor := NewDescriptor()
	descriptor.AfterLoad = store.populate
	store.Store = resource.NewStore(db, descriptor)

	return store
}

// # Population

func (store *Store) populate(ctx context.Context, bookings []*Booking) error {
	cabinIDs := distinct(bookings, func(booking *Booking) string { return booking.CabinID })
	guestIDs := distinct(bookings, func(booking *Booking) string { return booking.GuestID })

	cabins, err := loadByID(ctx, store.cabins, cabinIDs, func(doc *cabin.Cabin) string { return doc.ID })
	if err != nil {
		return err
	}
	guests, err := loadByID(ctx, store.guests, guestIDs, func(doc *guest.Guest) string { return doc.ID })
	if err != nil {
		return err
	}

	for _, booking := range bookings {
		booking.Cabin = cabins[booking.CabinID]
		booking.Guest = guests[booking.GuestID]
	}
	return nil
}

// loadByID fetches the documents with the given ids and indexes them.
func loadByID[T any](ctx context.Context, store *resource.Store[T], ids []string, key func(*T) string) (map[string]*T, error) {
	index := make(map[string]*T, len(ids))
	if len(ids) == 0 {
		return index, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ANY($1)",
		features.ColumnList(store.Descriptor().Schema.DefaultProjection()),
		store.Descriptor().Schema.Table,
		schema.ColumnID,
	)

	docs, err := store.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		index[key(doc)] = doc
	}
	return index, nil
}

func distinct(bookings []*Booking, id func(*Booking) string) []string {
	seen := make(map[string]bool, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		value := id(booking)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		ids = append(ids, value)
	}
	return ids
}

// # Dashboard Reads

// StaysBetween returns the arrivals and departures within [from, to),
// newest booking first.
func (store *Store) StaysBetween(ctx context.Context, from, to time.Time) ([]*Stay, error) {
	query := fmt.Sprintf(
		"SELECT b.%s, b.%s, b.%s, b.%s, g.%s, g.%s, g.%s FROM %s b JOIN %s g ON g.%s = b.%s "+
			"WHERE (b.%s = $1 AND b.%s >= $3 AND b.%s < $4) OR (b.%s = $2 AND b.%s >= $3 AND b.%s < $4) "+
			"ORDER BY b.%s DESC",
		schema.Booking.ID, schema.Booking.CreatedAt, schema.Booking.Status, schema.Booking.NumNights,
		schema.Guest.FullName, schema.Guest.Nationality, schema.Guest.CountryFlag,
		schema.Booking.Table, schema.Guest.Table, schema.Guest.ID, schema.Booking.GuestID,
		schema.Booking.Status, schema.Booking.StartDate, schema.Booking.StartDate,
		schema.Booking.Status, schema.Booking.EndDate, schema.Booking.EndDate,
		schema.Booking.CreatedAt,
	)

	rows, err := store.DB().Query(ctx, query, StatusUnconfirmed, StatusCheckedIn, from, to)
	if err != nil {
		return nil, dberr.Wrap(err, "list_stays")
	}
	defer rows.Close()

	stays := make([]*Stay, 0)
	for rows.Next() {
		stay := &Stay{}
		if err := rows.Scan(&stay.ID, &stay.CreatedAt, &stay.Status, &stay.NumNights,
			&stay.Guest.FullName, &stay.Guest.Nationality, &stay.Guest.CountryFlag); err != nil {
			return nil, dberr.Wrap(err, "scan_stay")
		}
		stays = append(stays, stay)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_stays")
	}

	return stays, nil
}

// CabinExists reports whether a cabin with id exists.
func (store *Store) CabinExists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", schema.Cabin.Table, schema.Cabin.ID)

	var exists bool
	if err := store.DB().QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_cabin")
	}
	return exists, nil
}

// OccupiedIntervals returns the bookings of a cabin that start on or after
// from or are currently checked in, ordered by start date.
func (store *Store) OccupiedIntervals(ctx context.Context, cabinID string, from time.Time) ([]Interval, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s = $1 AND (%s >= $2 OR %s = $3) ORDER BY %s ASC",
		schema.Booking.StartDate, schema.Booking.EndDate, schema.Booking.Table,
		schema.Booking.CabinID, schema.Booking.StartDate, schema.Booking.Status,
		schema.Booking.StartDate,
	)

	rows, err := store.DB().Query(ctx, query, cabinID, from, StatusCheckedIn)
	if err != nil {
		return nil, dberr.Wrap(err, "list_booked_intervals")
	}

	intervals, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Interval])
	if err != nil {
		return nil, dberr.Wrap(err, "scan_booked_intervals")
	}
	return intervals, nil
}
