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

// ProviderScopes lists the scopes a provider currently declares
func (d *DataStore) ProviderScopes(
	ctx context.Context,
	providerID uuid.UUID,
) ([]*ScopeInfo, error) {
	q := sq.Select(
		"id",
		"scope_name AS name",
		"description",
		"is_public_read",
		"required_role",
	).
		From("provider_scopes").
		Where(sq.Eq{"provider_id": providerID}).
		OrderBy("scope_name ASC")
	var scopes []*ScopeInfo
	err := d.selectStatement(ctx, &scopes, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*ScopeInfo{}, nil
		}
		return nil, err
	}
	return scopes, nil
}

// ConnectorScopes lists the scopes a connector currently declares
func (d *DataStore) ConnectorScopes(
	ctx context.Context,
	connectorID uuid.UUID,
) ([]*ScopeInfo, error) {
	q := sq.Select(
		"id",
		"name",
		"description",
		"0 AS is_public_read",
		"required_role",
	).
		From("connector_scopes").
		Where(sq.Eq{"connector_id": connectorID}).
		OrderBy("name ASC")
	var scopes []*ScopeInfo
	err := d.selectStatement(ctx, &scopes, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*ScopeInfo{}, nil
		}
		return nil, err
	}
	return scopes, nil
}

func (d *DataStore) AddProviderScope(
	ctx context.Context,
	providerID uuid.UUID,
	name string,
	description *string,
	isPublicRead bool,
	requiredRole *string,
) (uuid.UUID, error) {
	exists, err := d.exists(
		ctx,
		"provider_scopes",
		sq.And{sq.Eq{"provider_id": providerID}, sq.Eq{"scope_name": name}},
	)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrAlreadyExists
	}
	id := uuid.New()
	insert := sq.Insert("provider_scopes").SetMap(map[string]interface{}{
		"id":             id,
		"provider_id":    providerID,
		"scope_name":     name,
		"description":    description,
		"is_public_read": isPublicRead,
		"required_role":  requiredRole,
		"created_at":     time.Now().UTC(),
	})
	if _, err := d.insertStatement(ctx, insert, nil); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (d *DataStore) RemoveProviderScope(
	ctx context.Context,
	providerID uuid.UUID,
	name string,
) error {
	del := sq.Delete("provider_scopes").
		Where(sq.And{sq.Eq{"provider_id": providerID}, sq.Eq{"scope_name": name}})
	rs, err := d.deleteStatement(ctx, del, nil)
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

func (d *DataStore) ConnectorByID(
	ctx context.Context,
	id uuid.UUID,
) (*tables.ConnectorTable, error) {
	q := sq.Select("id", "name", "description", "is_active", "created_at").
		From("connectors").
		Where(sq.Eq{"id": id})
	var table tables.ConnectorTable
	err := d.getStatement(ctx, &table, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (d *DataStore) Connectors(ctx context.Context) ([]*tables.ConnectorTable, error) {
	q := sq.Select("id", "name", "description", "is_active", "created_at").
		From("connectors").
		OrderBy("name ASC")
	var entities []*tables.ConnectorTable
	err := d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*tables.ConnectorTable{}, nil
		}
		return nil, err
	}
	return entities, nil
}

func (d *DataStore) CreateConnector(
	ctx context.Context,
	name string,
	description *string,
) (uuid.UUID, error) {
	exists, err := d.exists(ctx, "connectors", sq.Eq{"name": name})
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrAlreadyExists
	}
	id := uuid.New()
	insert := sq.Insert("connectors").SetMap(map[string]interface{}{
		"id":          id,
		"name":        name,
		"description": description,
		"is_active":   true,
		"created_at":  time.Now().UTC(),
	})
	if _, err := d.insertStatement(ctx, insert, nil); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (d *DataStore) AddConnectorScope(
	ctx context.Context,
	connectorID uuid.UUID,
	name string,
	description *string,
	requiredRole *string,
) (uuid.UUID, error) {
	exists, err := d.exists(
		ctx,
		"connector_scopes",
		sq.And{sq.Eq{"connector_id": connectorID}, sq.Eq{"name": name}},
	)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrAlreadyExists
	}
	id := uuid.New()
	insert := sq.Insert("connector_scopes").SetMap(map[string]interface{}{
		"id":            id,
		"connector_id":  connectorID,
		"name":          name,
		"description":   description,
		"required_role": requiredRole,
		"created_at":    time.Now().UTC(),
	})
	if _, err := d.insertStatement(ctx, insert, nil); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
