// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/users/apikey"
)

const hmacSecret = "0123456789abcdef0123456789abcdef"

// memoryRepository mirrors the SQL semantics of the Postgres repository.
type memoryRepository struct {
	keys []*apikey.APIKey
}

func (repository *memoryRepository) CreateIfNoneActive(_ context.Context, key *apikey.APIKey, now time.Time) (bool, error) {
	for _, existing := range repository.keys {
		if existing.ForWhom != key.ForWhom || !existing.IsActive {
			continue
		}
		if !existing.ExpiresAt.After(now) {
			existing.IsActive = false
			continue
		}
		return false, nil
	}
	copied := *key
	repository.keys = append(repository.keys, &copied)
	return true, nil
}

func (repository *memoryRepository) Touch(_ context.Context, hash string, now time.Time) (bool, error) {
	for _, key := range repository.keys {
		if key.Hash == hash && key.IsActive && key.ExpiresAt.After(now) {
			key.UsageCount++
			key.LastUsedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (repository *memoryRepository) DeactivateOwner(_ context.Context, owner string) (int64, error) {
	var retired int64
	for _, key := range repository.keys {
		if key.ForWhom == owner && key.IsActive {
			key.IsActive = false
			retired++
		}
	}
	return retired, nil
}

func (repository *memoryRepository) List(context.Context) ([]*apikey.APIKey, error) {
	return repository.keys, nil
}

func newService(repository apikey.Repository, now *time.Time) *apikey.Service {
	return apikey.NewService(repository, hmacSecret, 90*24*time.Hour).WithClock(func() time.Time { return *now })
}

func TestGenerate_SecondKeyRefused(t *testing.T) {
	repository := &memoryRepository{}
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	service := newService(repository, &now)
	ctx := context.Background()

	secret, err := service.Generate(ctx, " booking-site ")
	require.NoError(t, err)
	assert.Len(t, secret, 64)

	require.Len(t, repository.keys, 1)
	stored := repository.keys[0]
	assert.Equal(t, "booking-site", stored.ForWhom)
	assert.Equal(t, sec.KeyedHash(hmacSecret, secret), stored.Hash)
	assert.NotEqual(t, secret, stored.Hash)
	assert.Equal(t, now.Add(90*24*time.Hour), stored.ExpiresAt)

	_, err = service.Generate(ctx, "booking-site")
	assert.Equal(t, apikey.MessageOnlyOneActive, apperr.As(err).Message)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

	// Owners are independent
	_, err = service.Generate(ctx, "channel-manager")
	assert.NoError(t, err)
}

func TestGenerate_ReplacesExpiredKey(t *testing.T) {
	repository := &memoryRepository{}
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	service := newService(repository, &now)

	first, err := service.Generate(context.Background(), "booking-site")
	require.NoError(t, err)

	now = now.Add(91 * 24 * time.Hour)
	second, err := service.Generate(context.Background(), "booking-site")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.False(t, repository.keys[0].IsActive)
	assert.True(t, repository.keys[1].IsActive)
}

func TestGenerate_RequiresOwner(t *testing.T) {
	now := time.Now()
	_, err := newService(&memoryRepository{}, &now).Generate(context.Background(), "  ")
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, apikey.FieldForWhom, apperr.As(err).Details[0].Field)
}

func TestVerify_CountsUsage(t *testing.T) {
	repository := &memoryRepository{}
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	service := newService(repository, &now)
	ctx := context.Background()

	secret, err := service.Generate(ctx, "booking-site")
	require.NoError(t, err)

	for range 3 {
		valid, err := service.Verify(ctx, secret)
		require.NoError(t, err)
		assert.True(t, valid)
	}
	assert.EqualValues(t, 3, repository.keys[0].UsageCount)
	assert.Equal(t, now, *repository.keys[0].LastUsedAt)

	valid, err := service.Verify(ctx, "not-the-secret")
	require.NoError(t, err)
	assert.False(t, valid)

	// Expired keys are refused without counting
	now = now.Add(91 * 24 * time.Hour)
	valid, err = service.Verify(ctx, secret)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.EqualValues(t, 3, repository.keys[0].UsageCount)
}

func TestDeactivate(t *testing.T) {
	repository := &memoryRepository{}
	now := time.Now()
	service := newService(repository, &now)
	ctx := context.Background()

	secret, err := service.Generate(ctx, "booking-site")
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, "booking-site"))
	valid, err := service.Verify(ctx, secret)
	require.NoError(t, err)
	assert.False(t, valid)

	err = service.Deactivate(ctx, "booking-site")
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}
