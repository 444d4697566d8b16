// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, Cookie
// signing) from the domain logic. It acts as an Infrastructure service injected
// into the Application layer.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the payload embedded inside a session token.
//
// Only the user identifier is encoded. Role and account state are loaded
// from the store on every protected request so that demotions and password
// changes take effect immediately.
type SessionClaims struct {
	jwt.RegisteredClaims

	// UserID is the subject of the session.
	UserID string `json:"id"`
}

// TokenStatus is the outcome of a session token verification.
type TokenStatus int

const (
	// TokenValid means the signature and expiry checks passed.
	TokenValid TokenStatus = iota + 1
	// TokenExpired means the token was well formed and signed but is past its expiry.
	TokenExpired
	// TokenInvalid covers malformed tokens, bad signatures and unexpected algorithms.
	TokenInvalid
)

// Verification is the result of [TokenService.Verify]. Claims is set only
// when Status is [TokenValid].
type Verification struct {
	Status TokenStatus
	Claims *SessionClaims
}

// TokenService handles generation and verification of session tokens using HS256.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService signing with secret.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

// Issue creates a new signed session token for a user.
func (service *TokenService) Issue(userID string) (string, error) {
	currentTime := service.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a session token string.
func (service *TokenService) Verify(tokenString string) Verification {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Verification{Status: TokenExpired}
	case err != nil, !token.Valid, claims.UserID == "":
		return Verification{Status: TokenInvalid}
	}

	return Verification{Status: TokenValid, Claims: claims}
}

// IssuedAtTime returns the issue time of the token, or the zero time.
func (claims *SessionClaims) IssuedAtTime() time.Time {
	if claims.IssuedAt == nil {
		return time.Time{}
	}
	return claims.IssuedAt.Time
}
