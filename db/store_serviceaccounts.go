package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/google/uuid"
)

func serviceAccountColumns() []string {
	return []string{"id", "app_block_id", "api_key_hash", "last_rotated_at", "created_at"}
}

func (d *DataStore) ServiceAccountByAppBlockID(
	ctx context.Context,
	appBlockID uuid.UUID,
) (*tables.ServiceAccountTable, error) {
	q := sq.Select(serviceAccountColumns()...).
		From("service_accounts").
		Where(sq.Eq{"app_block_id": appBlockID})
	var table tables.ServiceAccountTable
	err := d.getStatement(ctx, &table, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

// ServiceAccountByKeyHash resolves an account by the digest of the
// presented api key; the plaintext never reaches the store
func (d *DataStore) ServiceAccountByKeyHash(
	ctx context.Context,
	apiKeyHash string,
) (*tables.ServiceAccountTable, error) {
	q := sq.Select(serviceAccountColumns()...).
		From("service_accounts").
		Where(sq.Eq{"api_key_hash": apiKeyHash})
	var table tables.ServiceAccountTable
	err := d.getStatement(ctx, &table, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (d *DataStore) InsertServiceAccount(
	ctx context.Context,
	appBlockID uuid.UUID,
	apiKeyHash string,
) (uuid.UUID, error) {
	exists, err := d.exists(ctx, "service_accounts", sq.Eq{"app_block_id": appBlockID})
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrAlreadyExists
	}
	id := uuid.New()
	insert := sq.Insert("service_accounts").SetMap(map[string]interface{}{
		"id":           id,
		"app_block_id": appBlockID,
		"api_key_hash": apiKeyHash,
		"created_at":   time.Now().UTC(),
	})
	if _, err := d.insertStatement(ctx, insert, nil); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// ReplaceServiceAccountKeyHash swaps the stored digest, the previous
// key stops validating the moment this commits
func (d *DataStore) ReplaceServiceAccountKeyHash(
	ctx context.Context,
	appBlockID uuid.UUID,
	apiKeyHash string,
) error {
	update := sq.Update("service_accounts").
		Set("api_key_hash", apiKeyHash).
		Set("last_rotated_at", time.Now().UTC()).
		Where(sq.Eq{"app_block_id": appBlockID})
	rs, err := d.updateStatement(ctx, update, nil)
	if err != nil {
		return err
	}
	affected, err := rs.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
