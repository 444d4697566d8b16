// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/internal/platform/dberr"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/users/auth"
)

const (
	userID      = "0190d6a4-8f7e-7c3a-9b1e-cccccccccccc"
	userColumns = "id, full_name, email, avatar, role, password_hash, password_changed_at, is_active, is_email_verified, last_sign_in, created_at, updated_at"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func userRows(active bool) *pgxmock.Rows {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return pgxmock.NewRows([]string{
		"id", "full_name", "email", "avatar", "role", "password_hash", "password_changed_at",
		"is_active", "is_email_verified", "last_sign_in", "created_at", "updated_at",
	}).AddRow(userID, "Ada Lovelace", adaEmail, defaultAvatar, sec.RoleAdmin, "$2a$12$hash", nil, active, active, nil, created, created)
}

func TestPostgresRepository_FindByEmail(t *testing.T) {
	mock := newMock(t)
	repository := auth.NewPostgresRepository(mock)

	mock.ExpectQuery("SELECT " + userColumns + " FROM users WHERE email = $1 AND is_active = TRUE").
		WithArgs(adaEmail).
		WillReturnRows(userRows(true))

	user, err := repository.FindByEmail(context.Background(), adaEmail)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, user.Role)
	assert.Equal(t, "$2a$12$hash", user.PasswordHash)
	assert.True(t, user.IsActive)
	assert.Nil(t, user.PasswordChangedAt)
}

func TestPostgresRepository_FindByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repository := auth.NewPostgresRepository(mock)

	mock.ExpectQuery("SELECT " + userColumns + " FROM users WHERE id = $1 AND is_active = TRUE").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repository.FindByID(context.Background(), userID)
	require.True(t, dberr.IsNotFound(err))
	assert.Equal(t, "No user found with that ID", dberr.As(err).AppError().Message)
}

func TestPostgresRepository_FindByVerificationTokenIgnoresActiveFlag(t *testing.T) {
	mock := newMock(t)
	repository := auth.NewPostgresRepository(mock)
	now := time.Now()

	mock.ExpectQuery("SELECT "+userColumns+" FROM users WHERE email_verification_token = $1 AND email_verification_expires > $2").
		WithArgs("token-hash", now).
		WillReturnRows(userRows(false))

	user, err := repository.FindByVerificationToken(context.Background(), "token-hash", now)
	require.NoError(t, err)
	assert.False(t, user.IsActive)
}

func TestPostgresRepository_InsertDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repository := auth.NewPostgresRepository(mock)
	expires := time.Now().Add(time.Hour)

	mock.ExpectExec("INSERT INTO users (id, full_name, email, avatar, role, password_hash, email_verification_token, email_verification_expires) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)").
		WithArgs(userID, "Ada Lovelace", adaEmail, defaultAvatar, "staff", "hash", "token-hash", expires).
		WillReturnError(&pgconn.PgError{Code: "23505", Detail: "Key (email)=(ada@wildoasis.test) already exists.", ConstraintName: "users_email_key"})

	err := repository.Insert(context.Background(), &auth.User{
		ID: userID, FullName: "Ada Lovelace", Email: adaEmail, Avatar: defaultAvatar, Role: sec.RoleStaff, PasswordHash: "hash",
	}, auth.Credentials{Hash: "token-hash", Expires: expires})

	require.True(t, dberr.IsDuplicate(err))
	assert.Equal(t, "Duplicate field value: ada@wildoasis.test. Please use another value!", dberr.As(err).AppError().Message)
}

func TestPostgresRepository_SetResetToken(t *testing.T) {
	mock := newMock(t)
	repository := auth.NewPostgresRepository(mock)
	expires := time.Now().Add(10 * time.Minute)
	query := "UPDATE users SET password_reset_token = $1, password_reset_expires = $2, updated_at = now() WHERE id = $3"

	hash := "reset-hash"
	mock.ExpectExec(query).
		WithArgs(&hash, &expires, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(query).
		WithArgs((*string)(nil), (*time.Time)(nil), userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repository.SetResetToken(context.Background(), userID, &auth.Credentials{Hash: hash, Expires: expires}))
	require.NoError(t, repository.SetResetToken(context.Background(), userID, nil))
}

func TestPostgresRepository_UpdatePasswordClearsResetToken(t *testing.T) {
	mock := newMock(t)
	repository := auth.NewPostgresRepository(mock)
	changedAt := time.Now().Add(-time.Second)

	mock.ExpectExec("UPDATE users SET password_hash = $1, password_changed_at = $2, password_reset_token = NULL, password_reset_expires = NULL, version = version + 1, updated_at = now() WHERE id = $3").
		WithArgs("new-hash", changedAt, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repository.UpdatePassword(context.Background(), userID, "new-hash", changedAt))
}

func TestPostgresRepository_Activate(t *testing.T) {
	mock := newMock(t)
	repository := auth.NewPostgresRepository(mock)

	mock.ExpectQuery("UPDATE users SET is_active = TRUE, is_email_verified = TRUE, email_verification_token = NULL, email_verification_expires = NULL, version = version + 1, updated_at = now() WHERE id = $1 RETURNING " + userColumns).
		WithArgs(userID).
		WillReturnRows(userRows(true))

	user, err := repository.Activate(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, user.IsEmailVerified)
}

func TestPostgresRepository_DeactivateMissing(t *testing.T) {
	mock := newMock(t)
	repository := auth.NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1 AND is_active = TRUE").
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repository.Deactivate(context.Background(), userID)
	assert.True(t, dberr.IsNotFound(err))
}
