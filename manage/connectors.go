package manage

import (
	"context"
	"errors"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectorService administers the platform owned connectors and
// their fixed scope sets
type ConnectorService struct {
	store *db.DataStore
	log   *zap.Logger
}

func NewConnectorService(store *db.DataStore, log *zap.Logger) *ConnectorService {
	return &ConnectorService{
		store: store,
		log:   log,
	}
}

// Create registers a connector
func (c *ConnectorService) Create(
	ctx context.Context,
	name string,
	description *string,
) (uuid.UUID, error) {
	id, err := c.store.CreateConnector(ctx, name, description)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return uuid.Nil, ErrAlreadyExists
		}
		c.log.Error("could not create connector", zap.Error(err))
		return uuid.Nil, err
	}
	return id, nil
}

// AddScope declares a capability on the connector
func (c *ConnectorService) AddScope(
	ctx context.Context,
	connectorID uuid.UUID,
	name string,
	description *string,
	requiredRole *string,
) (uuid.UUID, error) {
	if _, err := c.store.ConnectorByID(ctx, connectorID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}
	id, err := c.store.AddConnectorScope(ctx, connectorID, name, description, requiredRole)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return uuid.Nil, ErrAlreadyExists
		}
		c.log.Error("could not add connector scope", zap.Error(err))
		return uuid.Nil, err
	}
	return id, nil
}

// List returns all registered connectors
func (c *ConnectorService) List(ctx context.Context) ([]ConnectorDTO, error) {
	connectors, err := c.store.Connectors(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]ConnectorDTO, 0, len(connectors))
	for _, connector := range connectors {
		dtos = append(dtos, ConnectorDTO{
			ID:          connector.ID,
			Name:        connector.Name,
			Description: connector.Description,
			IsActive:    connector.IsActive,
		})
	}
	return dtos, nil
}
