// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, request limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: IP tracking TTLs for the in-process limiter.
  - Security: Cookie and header names used by the session and API key paths.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "wildoasis-api"
	AppVersion = "1.0.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Request Limits

const (
	// MaxJSONBodyBytes caps JSON request bodies.
	MaxJSONBodyBytes = 10 << 10

	// MaxUploadBytes caps multipart upload bodies.
	MaxUploadBytes = 5 << 20

	// CompressionLevel is the gzip level used for responses.
	CompressionLevel = 5
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 30 * time.Minute

	// RateLimitMessage is returned with every 429 response.
	RateLimitMessage = "Too many requests from this IP, please try again in an hour!"

	// RedisPrefixRateLimit namespaces the shared limiter keys.
	RedisPrefixRateLimit = "ratelimit:"
)

// # Authentication

const (
	// SessionCookieName is the signed cookie that carries the session token.
	SessionCookieName = "accessToken"

	// SessionCookiePath scopes the session cookie to the whole API.
	SessionCookiePath = "/"

	// LoggedOutCookieValue replaces the session token on logout.
	LoggedOutCookieValue = "loggedout"

	// SecureTokenBytes is the entropy of verification, reset and API key secrets.
	SecureTokenBytes = 32

	// PasswordMinLength is the shortest accepted password.
	PasswordMinLength = 8
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAPIKey        = "X-Api-Key"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData           = "data"
	FieldStatus         = "status"
	FieldMessage        = "message"
	FieldError          = "error"
	FieldCode           = "code"
	FieldResults        = "results"
	FieldTotalDocuments = "totalDocuments"
	FieldChecks         = "checks"
)

// # Object Storage Buckets

const (
	BucketCabinImages = "cabin-images"
	BucketAvatars     = "avatars"
)
