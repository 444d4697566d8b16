// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/ctxutil"
	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
)

const cookieSecret = "0123456789abcdef0123456789abcdef"

type fakeVerifier struct {
	valid string
	calls int
}

func (verifier *fakeVerifier) Verify(_ context.Context, secret string) (bool, error) {
	verifier.calls++
	return secret == verifier.valid, nil
}

type fakeResolver struct {
	identities map[string]*sec.Identity
	token      string
}

func (resolver *fakeResolver) Resolve(_ context.Context, token string) (*sec.Identity, error) {
	resolver.token = token
	identity, ok := resolver.identities[token]
	if !ok {
		return nil, apperr.Unauthorized("Invalid token. Please log in again!")
	}
	return identity, nil
}

// chain mounts the full access stack in front of a handler recording the identity.
func chain(verifier *fakeVerifier, resolver *fakeResolver, roles ...sec.UserRole) (http.Handler, **sec.Identity) {
	var seen *sec.Identity
	final := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetIdentity(request.Context())
		writer.WriteHeader(http.StatusOK)
	})

	signer := sec.NewCookieSigner("accessToken", cookieSecret, time.Hour)
	handler := middleware.APIKey(verifier)(
		middleware.Protect(signer, resolver)(
			middleware.RestrictTo(roles...)(final)))
	return handler, &seen
}

func sessionCookie(t *testing.T, token string) *http.Cookie {
	t.Helper()
	recorder := httptest.NewRecorder()
	signer := sec.NewCookieSigner("accessToken", cookieSecret, time.Hour)
	require.NoError(t, signer.Write(recorder, token, time.Now()))
	return recorder.Result().Cookies()[0]
}

func TestAccess_APIKeyBypassesSessionAndRoles(t *testing.T) {
	verifier := &fakeVerifier{valid: "good-key"}
	handler, seen := chain(verifier, &fakeResolver{}, sec.AdminsOnly...)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("x-api-key", "good-key")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, *seen)
	assert.True(t, (*seen).APIKey)
	assert.Equal(t, 1, verifier.calls)
}

func TestAccess_InvalidAPIKey(t *testing.T) {
	handler, _ := chain(&fakeVerifier{valid: "good-key"}, &fakeResolver{}, sec.AllRoles...)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("x-api-key", "stale-key")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Invalid or expired API key", decodeBody(t, recorder)["message"])
}

func TestAccess_MissingSession(t *testing.T) {
	handler, _ := chain(&fakeVerifier{}, &fakeResolver{}, sec.AllRoles...)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "You are not logged in! Please log in to get access.", decodeBody(t, recorder)["message"])
}

func TestAccess_TamperedCookie(t *testing.T) {
	handler, _ := chain(&fakeVerifier{}, &fakeResolver{}, sec.AllRoles...)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "accessToken", Value: "loggedout"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAccess_SessionRoles(t *testing.T) {
	resolver := &fakeResolver{identities: map[string]*sec.Identity{
		"staff-token":   {UserID: "u-1", Role: sec.RoleStaff},
		"manager-token": {UserID: "u-2", Role: sec.RoleManager},
	}}

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantMsg    string
	}{
		{name: "allowed role", token: "manager-token", wantStatus: http.StatusOK},
		{name: "forbidden role", token: "staff-token", wantStatus: http.StatusForbidden, wantMsg: "You do not have permission to perform this action"},
		{name: "resolver failure", token: "unknown", wantStatus: http.StatusUnauthorized, wantMsg: "Invalid token. Please log in again!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, seen := chain(&fakeVerifier{}, resolver, sec.ManagersAndAdmins...)

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.AddCookie(sessionCookie(t, tt.token))
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			require.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.token, resolver.token)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeBody(t, recorder)["message"])
				return
			}
			assert.Equal(t, "u-2", (*seen).UserID)
		})
	}
}

func TestRestrictTo_NoIdentity(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RestrictTo(sec.AllRoles...)(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAccess_SessionIgnoresAPIKey(t *testing.T) {
	signer := sec.NewCookieSigner("accessToken", cookieSecret, time.Hour)
	verifier := &fakeVerifier{valid: "good-key"}
	access := middleware.NewAccess(verifier, signer, &fakeResolver{})

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("x-api-key", "good-key")

	recorder := httptest.NewRecorder()
	access.Session(sec.AllRoles...)(okHandler).ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Zero(t, verifier.calls)

	recorder = httptest.NewRecorder()
	access.Machine(sec.AllRoles...)(okHandler).ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, verifier.calls)
}
