// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package accesstest builds route guards for handler tests.
//
// Session tokens are "<role>:<user id>" strings signed into the regular
// session cookie, so a test can log in as any role without a database.
package accesstest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
)

// APIKey is the only key accepted by the guards returned from [New].
const APIKey = "accesstest-api-key"

const cookieSecret = "accesstest-cookie-secret-0123456"

var signer = sec.NewCookieSigner(constants.SessionCookieName, cookieSecret, time.Hour)

type verifier struct{}

func (verifier) Verify(_ context.Context, secret string) (bool, error) {
	return secret == APIKey, nil
}

type resolver struct{}

func (resolver) Resolve(_ context.Context, token string) (*sec.Identity, error) {
	role, userID, ok := strings.Cut(token, ":")
	if !ok || !sec.UserRole(role).Valid() {
		return nil, apperr.Unauthorized("Invalid token. Please log in again!")
	}
	return &sec.Identity{UserID: userID, Role: sec.UserRole(role)}, nil
}

// New returns guards backed by the fake verifier and resolver.
func New() *middleware.Access {
	return middleware.NewAccess(verifier{}, signer, resolver{})
}

// Login attaches a session cookie for role and userID to request.
func Login(request *http.Request, role sec.UserRole, userID string) {
	recorder := httptest.NewRecorder()
	if err := signer.Write(recorder, string(role)+":"+userID, time.Now()); err != nil {
		panic(err)
	}
	for _, cookie := range recorder.Result().Cookies() {
		request.AddCookie(cookie)
	}
}
