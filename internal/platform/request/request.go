// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/ctxutil"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/platform/validate"
	"github.com/taibuivan/wildoasis/pkg/uuid"
)

// ErrBodyTooLarge is returned when a JSON body exceeds [constants.MaxJSONBodyBytes].
var ErrBodyTooLarge = apperr.PayloadTooLarge("request entity too large")

/*
DecodeJSON reads the request body and decodes it into the target structure.

An empty body leaves target untouched, so handlers see an empty payload
rather than an error.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination value)

Returns:
  - error: ErrBodyTooLarge or validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	body := http.MaxBytesReader(nil, request.Body, constants.MaxJSONBodyBytes)

	err := json.NewDecoder(body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrBodyTooLarge
	}
	return validate.ErrInvalidJSON
}

/*
ID retrieves a named URL parameter that must be a document identifier.

Returns:
  - string: the identifier
  - error: a 400 cast error on "_id" when the value is not a UUID
*/
func ID(request *http.Request, name string) (string, error) {
	id := chi.URLParam(request, name)
	if !uuid.Valid(id) {
		return "", apperr.Cast("_id", id)
	}
	return id, nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Identity returns the authenticated caller, or nil for anonymous requests.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredUserID returns the ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized when the request carries no user session
*/
func RequiredUserID(request *http.Request) (string, error) {
	identity := ctxutil.GetIdentity(request.Context())

	if identity == nil || identity.UserID == "" {
		return "", apperr.Unauthorized("You are not logged in! Please log in to get access.")
	}

	return identity.UserID, nil
}
