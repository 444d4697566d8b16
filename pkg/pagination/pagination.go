// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters.
// Missing, zero or non-numeric values fall back to the defaults; negative
// values and pages beyond [MaxOffset] are rejected so that callers can report
// them before querying.
package pagination

import (
	"errors"
	"math"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxOffset is the largest number of rows a page may skip.
	MaxOffset = math.MaxInt32
)

var (
	// ErrNegativePage is returned for page < 0.
	ErrNegativePage = errors.New("page number should be positive integer")
	// ErrNegativeLimit is returned for limit < 0.
	ErrNegativeLimit = errors.New("limit should be positive integer")
	// ErrPageTooLarge is returned when the page would skip more than [MaxOffset] rows.
	ErrPageTooLarge = errors.New("page number is too large")
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Parse reads "page" and "limit" from query values.
func Parse(values url.Values) (Params, error) {
	page := parseIntParam(values, "page", DefaultPage)
	limit := parseIntParam(values, "limit", DefaultLimit)

	if page < 0 {
		return Params{}, ErrNegativePage
	}

	if limit < 0 {
		return Params{}, ErrNegativeLimit
	}

	if page > 1 && page-1 > MaxOffset/limit {
		return Params{}, ErrPageTooLarge
	}

	return Params{Page: page, Limit: limit}, nil
}

// parseIntParam parses a single integer query parameter with a fallback
// default for missing, zero and non-numeric values.
func parseIntParam(values url.Values, key string, defaultVal int) int {
	raw := values.Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return defaultVal
	}

	return n
}
