package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// all access token related things in store

func accessTokenColumns() []string {
	return []string{
		"id",
		"token",
		"subject_type",
		"subject_id",
		"app_block_id",
		"scopes",
		"expires_at",
		"created_at",
	}
}

func (d *DataStore) InsertAccessToken(
	ctx context.Context,
	token string,
	subjectType string,
	subjectID uuid.UUID,
	appBlockID *uuid.UUID,
	scopes []string,
	expires time.Time,
) (uuid.UUID, error) {
	exists, err := d.exists(ctx, "access_tokens", sq.Eq{"token": token})
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrAlreadyExists
	}
	id := uuid.New()
	m := map[string]interface{}{
		"id":           id,
		"token":        token,
		"subject_type": subjectType,
		"subject_id":   subjectID,
		"app_block_id": appBlockID,
		"scopes":       tables.StringSlice(scopes),
		"expires_at":   expires,
		"created_at":   time.Now().UTC(),
	}
	insert := sq.Insert("access_tokens").SetMap(m)
	if _, err := d.insertStatement(ctx, insert, nil); err != nil {
		d.log.Error("could not insert access token", zap.Error(err))
		return uuid.Nil, err
	}
	return id, nil
}

// AccessTokenByValue is an exact match lookup, expiry is the callers
// concern so expired rows still resolve until cleanup deletes them
func (d *DataStore) AccessTokenByValue(
	ctx context.Context,
	token string,
) (*tables.AccessTokenTable, error) {
	q := sq.Select(accessTokenColumns()...).
		From("access_tokens").
		Where(sq.Eq{"token": token})
	var table tables.AccessTokenTable
	err := d.getStatement(ctx, &table, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

// DeleteAccessTokenByValue removes the token row, deleting an already
// absent token is not an error
func (d *DataStore) DeleteAccessTokenByValue(
	ctx context.Context,
	token string,
) (*tables.AccessTokenTable, error) {
	existing, err := d.AccessTokenByValue(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	del := sq.Delete("access_tokens").Where(sq.Eq{"token": token})
	if _, err := d.deleteStatement(ctx, del, nil); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteExpiredAccessTokens purges rows past their expiry as of now
func (d *DataStore) DeleteExpiredAccessTokens(
	ctx context.Context,
	now time.Time,
) (int, error) {
	del := sq.Delete("access_tokens").Where(sq.LtOrEq{"expires_at": now})
	rs, err := d.deleteStatement(ctx, del, nil)
	if err != nil {
		return 0, err
	}
	affected, err := rs.RowsAffected()
	return int(affected), err
}
