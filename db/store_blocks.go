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

func (d *DataStore) AppBlockByID(
	ctx context.Context,
	id uuid.UUID,
) (*tables.AppBlockTable, error) {
	q := sq.Select("id", "name", "owner_user_id", "status", "created_at", "updated_at").
		From("app_blocks").
		Where(sq.Eq{"id": id})
	var table tables.AppBlockTable
	err := d.getStatement(ctx, &table, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (d *DataStore) AppBlocks(
	ctx context.Context,
	opts ListOptions,
) ([]*tables.AppBlockTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	var c int
	err := sq.Select("COUNT(*)").From("app_blocks").RunWith(d.db).Scan(&c)
	if err != nil {
		return nil, 0, err
	}
	offset := (opts.Page - 1) * opts.PageSize
	if c < offset {
		return []*tables.AppBlockTable{}, c, nil
	}
	var entities []*tables.AppBlockTable
	q := sq.Select("id", "name", "owner_user_id", "status", "created_at", "updated_at").
		From("app_blocks").
		OrderBy("created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(opts.PageSize))
	err = d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return entities, c, nil
}

// CreateAppBlock inserts the block and its service account in one
// transaction; a block without its machine credential never exists
func (d *DataStore) CreateAppBlock(
	ctx context.Context,
	name string,
	ownerUserID uuid.UUID,
	apiKeyHash string,
) (uuid.UUID, uuid.UUID, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	now := time.Now().UTC()
	blockID := uuid.New()
	insert := sq.Insert("app_blocks").SetMap(map[string]interface{}{
		"id":            blockID,
		"name":          name,
		"owner_user_id": ownerUserID,
		"status":        "draft",
		"created_at":    now,
	})
	if _, err := d.insertStatement(ctx, insert, tx); err != nil {
		rollBack(tx, d)
		return uuid.Nil, uuid.Nil, err
	}
	accountID := uuid.New()
	insert = sq.Insert("service_accounts").SetMap(map[string]interface{}{
		"id":           accountID,
		"app_block_id": blockID,
		"api_key_hash": apiKeyHash,
		"created_at":   now,
	})
	if _, err := d.insertStatement(ctx, insert, tx); err != nil {
		rollBack(tx, d)
		return uuid.Nil, uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		rollBack(tx, d)
		return uuid.Nil, uuid.Nil, err
	}
	return blockID, accountID, nil
}

func (d *DataStore) RegistryEntryByAppBlockID(
	ctx context.Context,
	appBlockID uuid.UUID,
) (*tables.RegistryEntryTable, error) {
	q := sq.Select(
		"id",
		"app_block_id",
		"slug",
		"display_name",
		"description",
		"category",
		"visibility",
		"installable",
		"requires_approval",
		"created_at",
		"updated_at",
	).
		From("app_block_registry").
		Where(sq.Eq{"app_block_id": appBlockID})
	var table tables.RegistryEntryTable
	err := d.getStatement(ctx, &table, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (d *DataStore) PublishRegistryEntry(
	ctx context.Context,
	appBlockID uuid.UUID,
	slug string,
	displayName string,
	description *string,
	category string,
	requiresApproval bool,
) (uuid.UUID, error) {
	exists, err := d.exists(ctx, "app_block_registry", sq.Eq{"app_block_id": appBlockID})
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrAlreadyExists
	}
	id := uuid.New()
	insert := sq.Insert("app_block_registry").SetMap(map[string]interface{}{
		"id":                id,
		"app_block_id":      appBlockID,
		"slug":              slug,
		"display_name":      displayName,
		"description":       description,
		"category":          category,
		"visibility":        "private",
		"installable":       true,
		"requires_approval": requiresApproval,
		"created_at":        time.Now().UTC(),
	})
	if _, err := d.insertStatement(ctx, insert, nil); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (d *DataStore) ProviderByAppBlockID(
	ctx context.Context,
	appBlockID uuid.UUID,
) (*tables.ProviderTable, error) {
	q := sq.Select(
		"id",
		"app_block_id",
		"base_api_url",
		"api_version",
		"auth_methods",
		"status",
		"rate_limit_per_minute",
		"created_at",
		"updated_at",
	).
		From("app_block_providers").
		Where(sq.Eq{"app_block_id": appBlockID})
	var table tables.ProviderTable
	err := d.getStatement(ctx, &table, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (d *DataStore) CreateProvider(
	ctx context.Context,
	appBlockID uuid.UUID,
	baseAPIURL string,
	apiVersion string,
	authMethods []string,
	rateLimitPerMinute int,
) (uuid.UUID, error) {
	exists, err := d.exists(ctx, "app_block_providers", sq.Eq{"app_block_id": appBlockID})
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrAlreadyExists
	}
	id := uuid.New()
	insert := sq.Insert("app_block_providers").SetMap(map[string]interface{}{
		"id":                    id,
		"app_block_id":          appBlockID,
		"base_api_url":          baseAPIURL,
		"api_version":           apiVersion,
		"auth_methods":          tables.StringSlice(authMethods),
		"status":                "enabled",
		"rate_limit_per_minute": rateLimitPerMinute,
		"created_at":            time.Now().UTC(),
	})
	if _, err := d.insertStatement(ctx, insert, nil); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (d *DataStore) SetProviderStatus(
	ctx context.Context,
	appBlockID uuid.UUID,
	status string,
) error {
	update := sq.Update("app_block_providers").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
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
