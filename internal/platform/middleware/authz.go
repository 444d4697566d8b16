// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/ctxutil"
	"github.com/taibuivan/wildoasis/internal/platform/respond"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
)

// Client-facing authorization messages.
const (
	MessageNotLoggedIn   = "You are not logged in! Please log in to get access."
	MessageInvalidAPIKey = "Invalid or expired API key"
	MessageForbidden     = "You do not have permission to perform this action"
)

// APIKeyVerifier checks a raw API key secret.
//
// Defining it here keeps the middleware independent of the apikey package and
// lets tests inject a fake.
type APIKeyVerifier interface {
	Verify(ctx context.Context, secret string) (bool, error)
}

// SessionResolver turns a session token into the caller identity. Failures
// are returned as client-facing [apperr.AppError] values.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*sec.Identity, error)
}

// # API Keys

// APIKey accepts machine clients presenting the x-api-key header.
//
// # Flow
//  1. No header: the request continues to [Protect] unchanged.
//  2. Valid key: an API key [sec.Identity] is attached; protect and role
//     checks are bypassed.
//  3. Invalid or expired key: 401.
func APIKey(verifier APIKeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			secret := request.Header.Get(constants.HeaderAPIKey)
			if secret == "" {
				next.ServeHTTP(writer, request)
				return
			}

			valid, err := verifier.Verify(request.Context(), secret)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if !valid {
				respond.Error(writer, request, apperr.Unauthorized(MessageInvalidAPIKey))
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{APIKey: true})
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Sessions

// Protect requires a valid session cookie unless an API key was accepted
// earlier in the chain.
func Protect(cookies *sec.CookieSigner, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if identity := ctxutil.GetIdentity(request.Context()); identity != nil && identity.APIKey {
				next.ServeHTTP(writer, request)
				return
			}

			token, err := cookies.Read(request)
			if err != nil || token == constants.LoggedOutCookieValue {
				respond.Error(writer, request, apperr.Unauthorized(MessageNotLoggedIn))
				return
			}

			identity, err := resolver.Resolve(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Roles

// RestrictTo allows only the listed roles. API key identities always pass.
//
// Must be registered after [Protect].
func RestrictTo(roles ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized(MessageNotLoggedIn))
				return
			}

			if !identity.Allowed(roles) {
				respond.Error(writer, request, apperr.Forbidden(MessageForbidden))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Route Guards

// Access builds the per-route guard chains.
type Access struct {
	apiKey  func(http.Handler) http.Handler
	protect func(http.Handler) http.Handler
}

// NewAccess creates the guards from the API key verifier and the session resolver.
func NewAccess(verifier APIKeyVerifier, cookies *sec.CookieSigner, resolver SessionResolver) *Access {
	return &Access{
		apiKey:  APIKey(verifier),
		protect: Protect(cookies, resolver),
	}
}

// Session requires a logged-in user holding one of roles.
func (access *Access) Session(roles ...sec.UserRole) func(http.Handler) http.Handler {
	restrict := RestrictTo(roles...)
	return func(next http.Handler) http.Handler {
		return access.protect(restrict(next))
	}
}

// Machine behaves like [Access.Session] but also admits a valid API key.
func (access *Access) Machine(roles ...sec.UserRole) func(http.Handler) http.Handler {
	session := access.Session(roles...)
	return func(next http.Handler) http.Handler {
		return access.apiKey(session(next))
	}
}
