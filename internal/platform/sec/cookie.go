// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// ErrCookieMissing is returned by [CookieSigner.Read] when the cookie is absent.
var ErrCookieMissing = errors.New("auth: session cookie missing")

// CookieSigner writes and reads tamper-evident cookies. Values are
// authenticated with an HMAC under the cookie secret, not encrypted.
type CookieSigner struct {
	name  string
	codec *securecookie.SecureCookie
	ttl   time.Duration
}

// NewCookieSigner builds a signer for the named cookie.
func NewCookieSigner(name, secret string, ttl time.Duration) *CookieSigner {
	codec := securecookie.New([]byte(secret), nil)
	codec.MaxAge(int(ttl.Seconds()))
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &CookieSigner{name: name, codec: codec, ttl: ttl}
}

// Write sets the signed cookie on the response. It is HTTP-only, secure and
// cross-site, expiring after the configured TTL.
func (signer *CookieSigner) Write(writer http.ResponseWriter, value string, now time.Time) error {
	encoded, err := signer.codec.Encode(signer.name, value)
	if err != nil {
		return fmt.Errorf("auth: failed to sign cookie: %w", err)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     signer.name,
		Value:    encoded,
		Path:     "/",
		Expires:  now.Add(signer.ttl),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	return nil
}

// Clear overwrites the cookie with a placeholder that has already expired.
func (signer *CookieSigner) Clear(writer http.ResponseWriter, placeholder string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     signer.name,
		Value:    placeholder,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// Read returns the verified cookie value. A cookie whose signature does not
// verify is reported the same way as a missing one.
func (signer *CookieSigner) Read(request *http.Request) (string, error) {
	cookie, err := request.Cookie(signer.name)
	if err != nil || cookie.Value == "" {
		return "", ErrCookieMissing
	}

	var value string
	if err := signer.codec.Decode(signer.name, cookie.Value, &value); err != nil {
		return "", ErrCookieMissing
	}

	return value, nil
}
