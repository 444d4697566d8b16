// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/platform/validate"
	"github.com/taibuivan/wildoasis/pkg/uuid"
)

// Repository defines the data access contract for API keys.
type Repository interface {
	CreateIfNoneActive(ctx context.Context, key *APIKey, now time.Time) (bool, error)
	Touch(ctx context.Context, hash string, now time.Time) (bool, error)
	DeactivateOwner(ctx context.Context, owner string) (int64, error)
	List(ctx context.Context) ([]*APIKey, error)
}

// ErrActiveKeyExists is returned when the owner already holds an active key.
var ErrActiveKeyExists = apperr.BadRequest(MessageOnlyOneActive)

// Service issues and verifies API keys.
type Service struct {
	repository Repository
	secret     string
	ttl        time.Duration
	now        func() time.Time
}

// NewService creates the service. Secrets are keyed with hmacSecret and keys
// expire after ttl.
func NewService(repository Repository, hmacSecret string, ttl time.Duration) *Service {
	return &Service{repository: repository, secret: hmacSecret, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

/*
Generate issues a new key for owner and returns the raw secret.

Returns:
  - string: the secret, shown to the caller exactly once
  - error: ErrActiveKeyExists, validation or storage failures
*/
func (service *Service) Generate(ctx context.Context, owner string) (string, error) {
	owner = strings.TrimSpace(owner)

	validator := &validate.Validator{}
	validator.Required(FieldForWhom, owner).MaxLen(FieldForWhom, owner, 100)
	if err := validator.Err(); err != nil {
		return "", err
	}

	secret, err := sec.GenerateSecureToken(constants.SecureTokenBytes)
	if err != nil {
		return "", fmt.Errorf("apikey_generate_failed: %w", err)
	}

	now := service.now()
	key := &APIKey{
		ID:        uuid.New(),
		ForWhom:   owner,
		ExpiresAt: now.Add(service.ttl),
		IsActive:  true,
		Hash:      sec.KeyedHash(service.secret, secret),
	}

	created, err := service.repository.CreateIfNoneActive(ctx, key, now)
	if err != nil {
		return "", err
	}
	if !created {
		return "", ErrActiveKeyExists
	}
	return secret, nil
}

// Verify reports whether secret belongs to an active, unexpired key and
// counts the use when it does.
func (service *Service) Verify(ctx context.Context, secret string) (bool, error) {
	if secret == "" {
		return false, nil
	}
	return service.repository.Touch(ctx, sec.KeyedHash(service.secret, secret), service.now())
}

// Deactivate retires the active key of owner.
func (service *Service) Deactivate(ctx context.Context, owner string) error {
	retired, err := service.repository.DeactivateOwner(ctx, owner)
	if err != nil {
		return err
	}
	if retired == 0 {
		return apperr.NotFound(MessageNoActiveKey)
	}
	return nil
}

// List returns every issued key without its hash.
func (service *Service) List(ctx context.Context) ([]*APIKey, error) {
	return service.repository.List(ctx)
}
