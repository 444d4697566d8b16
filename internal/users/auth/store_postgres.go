// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/dberr"
	"github.com/taibuivan/wildoasis/internal/platform/postgres"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// userColumns is the full column set needed by the credential flows.
var userColumns = strings.Join([]string{
	schema.User.ID, schema.User.FullName, schema.User.Email, schema.User.Avatar, schema.User.Role,
	schema.User.PasswordHash, schema.User.PasswordChangedAt, schema.User.IsActive, schema.User.IsEmailVerified,
	schema.User.LastSignIn, schema.User.CreatedAt, schema.ColumnUpdatedAt,
}, ", ")

// PostgresRepository implements [UserRepository] and serves the generic
// admin reads through the embedded resource store.
type PostgresRepository struct {
	*resource.Store[User]
}

// NewPostgresRepository creates the user repository.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{Store: resource.NewStore(db, NewDescriptor())}
}

// # Lookups

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s",
		userColumns, schema.User.Table, schema.User.ID, schema.ActiveScope)
	return repository.queryUser(ctx, "find_user_by_id", query, id)
}

func (repository *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s",
		userColumns, schema.User.Table, schema.User.Email, schema.ActiveScope)
	return repository.queryUser(ctx, "find_user_by_email", query, email)
}

func (repository *PostgresRepository) FindByVerificationToken(ctx context.Context, hash string, now time.Time) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s > $2",
		userColumns, schema.User.Table, schema.User.EmailVerificationToken, schema.User.EmailVerificationExpires)
	return repository.queryUser(ctx, "find_user_by_verification_token", query, hash, now)
}

func (repository *PostgresRepository) FindByResetToken(ctx context.Context, hash string, now time.Time) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s > $2 AND %s",
		userColumns, schema.User.Table, schema.User.PasswordResetToken, schema.User.PasswordResetExpires, schema.ActiveScope)
	return repository.queryUser(ctx, "find_user_by_reset_token", query, hash, now)
}

// # Writes

func (repository *PostgresRepository) Insert(ctx context.Context, user *User, verification Credentials) error {
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		schema.User.Table,
		schema.User.ID, schema.User.FullName, schema.User.Email, schema.User.Avatar, schema.User.Role,
		schema.User.PasswordHash, schema.User.EmailVerificationToken, schema.User.EmailVerificationExpires,
	)

	_, err := repository.DB().Exec(ctx, query,
		user.ID, user.FullName, user.Email, user.Avatar, string(user.Role),
		user.PasswordHash, verification.Hash, verification.Expires,
	)
	return dberr.Wrap(err, "insert_user")
}

func (repository *PostgresRepository) Remove(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.User.Table, schema.User.ID)
	return repository.exec(ctx, "remove_user", query, id)
}

func (repository *PostgresRepository) Activate(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf("UPDATE %s SET %s = TRUE, %s = TRUE, %s = NULL, %s = NULL, version = version + 1, updated_at = now() WHERE %s = $1 RETURNING %s",
		schema.User.Table,
		schema.User.IsActive, schema.User.IsEmailVerified,
		schema.User.EmailVerificationToken, schema.User.EmailVerificationExpires,
		schema.User.ID, userColumns,
	)
	return repository.queryUser(ctx, "activate_user", query, id)
}

func (repository *PostgresRepository) SetResetToken(ctx context.Context, id string, reset *Credentials) error {
	var hash *string
	var expires *time.Time
	if reset != nil {
		hash, expires = &reset.Hash, &reset.Expires
	}

	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2, updated_at = now() WHERE %s = $3",
		schema.User.Table, schema.User.PasswordResetToken, schema.User.PasswordResetExpires, schema.User.ID)
	return repository.exec(ctx, "set_reset_token", query, hash, expires, id)
}

func (repository *PostgresRepository) UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2, %s = NULL, %s = NULL, version = version + 1, updated_at = now() WHERE %s = $3",
		schema.User.Table,
		schema.User.PasswordHash, schema.User.PasswordChangedAt,
		schema.User.PasswordResetToken, schema.User.PasswordResetExpires,
		schema.User.ID,
	)
	return repository.exec(ctx, "update_password", query, hash, changedAt, id)
}

func (repository *PostgresRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2", schema.User.Table, schema.User.LastSignIn, schema.User.ID)
	return repository.exec(ctx, "touch_sign_in", query, at, id)
}

func (repository *PostgresRepository) UpdateProfile(ctx context.Context, id string, values resource.Values) (*User, error) {
	return repository.Update(ctx, id, values)
}

func (repository *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = FALSE, updated_at = now() WHERE %s = $1 AND %s",
		schema.User.Table, schema.User.IsActive, schema.User.ID, schema.ActiveScope)
	return repository.exec(ctx, "deactivate_user", query, id)
}

// # Helpers

func (repository *PostgresRepository) queryUser(ctx context.Context, action, query string, args ...any) (*User, error) {
	rows, err := repository.DB().Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, dberr.NotFound(repository.Descriptor().NotFoundMessage())
	}
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

func (repository *PostgresRepository) exec(ctx context.Context, action, query string, args ...any) error {
	tag, err := repository.DB().Exec(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound(repository.Descriptor().NotFoundMessage())
	}
	return nil
}
