// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/dberr"
	"github.com/taibuivan/wildoasis/internal/platform/postgres"
)

// activeOwnerIndex enforces one active key per owner.
const activeOwnerIndex = "api_keys_active_owner_idx"

var keyColumns = strings.Join([]string{
	schema.APIKey.ID, schema.APIKey.ForWhom, schema.APIKey.ExpiresAt, schema.APIKey.UsageCount,
	schema.APIKey.LastUsedAt, schema.APIKey.IsActive, schema.APIKey.CreatedAt,
}, ", ")

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates the API key repository.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
CreateIfNoneActive retires the owner's expired keys and inserts key unless
another active key remains.

Description: Runs in one transaction. A concurrent insert for the same owner
loses on the partial unique index and is reported as not created.

Returns:
  - bool: false when the owner already holds an active key
  - error: database failures
*/
func (repository *PostgresRepository) CreateIfNoneActive(ctx context.Context, key *APIKey, now time.Time) (bool, error) {
	retire := fmt.Sprintf("UPDATE %s SET %s = FALSE, updated_at = now() WHERE %s = $1 AND %s AND %s <= $2",
		schema.APIKey.Table, schema.APIKey.IsActive, schema.APIKey.ForWhom, schema.APIKey.IsActive, schema.APIKey.ExpiresAt)
	exists := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s)",
		schema.APIKey.Table, schema.APIKey.ForWhom, schema.APIKey.IsActive)
	insert := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)",
		schema.APIKey.Table, schema.APIKey.ID, schema.APIKey.KeyHash, schema.APIKey.ForWhom, schema.APIKey.ExpiresAt)

	created := false
	err := postgres.InTx(ctx, repository.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, retire, key.ForWhom, now); err != nil {
			return dberr.Wrap(err, "retire_expired_api_keys")
		}

		var active bool
		if err := tx.QueryRow(ctx, exists, key.ForWhom).Scan(&active); err != nil {
			return dberr.Wrap(err, "check_active_api_key")
		}
		if active {
			return nil
		}

		if _, err := tx.Exec(ctx, insert, key.ID, key.Hash, key.ForWhom, key.ExpiresAt); err != nil {
			return dberr.Wrap(err, "insert_api_key")
		}
		created = true
		return nil
	})

	if dbErr := dberr.As(err); dbErr != nil && dbErr.Constraint == activeOwnerIndex {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return created, nil
}

// Touch counts one use of the active, unexpired key with the given hash. It
// reports false, without side effects, when no such key exists.
func (repository *PostgresRepository) Touch(ctx context.Context, hash string, now time.Time) (bool, error) {
	query := fmt.Sprintf("UPDATE %s SET %s = %s + 1, %s = $2 WHERE %s = $1 AND %s AND %s > $2",
		schema.APIKey.Table,
		schema.APIKey.UsageCount, schema.APIKey.UsageCount, schema.APIKey.LastUsedAt,
		schema.APIKey.KeyHash, schema.APIKey.IsActive, schema.APIKey.ExpiresAt,
	)

	tag, err := repository.db.Exec(ctx, query, hash, now)
	if err != nil {
		return false, dberr.Wrap(err, "touch_api_key")
	}
	return tag.RowsAffected() == 1, nil
}

// DeactivateOwner retires every active key of owner and returns how many were retired.
func (repository *PostgresRepository) DeactivateOwner(ctx context.Context, owner string) (int64, error) {
	query := fmt.Sprintf("UPDATE %s SET %s = FALSE, updated_at = now() WHERE %s = $1 AND %s",
		schema.APIKey.Table, schema.APIKey.IsActive, schema.APIKey.ForWhom, schema.APIKey.IsActive)

	tag, err := repository.db.Exec(ctx, query, owner)
	if err != nil {
		return 0, dberr.Wrap(err, "deactivate_api_keys")
	}
	return tag.RowsAffected(), nil
}

// List returns every key, newest first.
func (repository *PostgresRepository) List(ctx context.Context) ([]*APIKey, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC", keyColumns, schema.APIKey.Table, schema.APIKey.CreatedAt)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_api_keys")
	}

	keys, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[APIKey])
	if err != nil {
		return nil, dberr.Wrap(err, "list_api_keys")
	}
	return keys, nil
}
