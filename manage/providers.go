package manage

import (
	"context"
	"errors"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/buidl-renaissance/renaissance-create-app-block/events/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProviderService administers the provider surface of app blocks and
// their declared scope vocabulary. Scope changes feed authorization
// decisions directly, so they all leave an audit trail.
type ProviderService struct {
	store      *db.DataStore
	log        *zap.Logger
	dispatcher *events.Dispatcher
}

func NewProviderService(
	store *db.DataStore,
	log *zap.Logger,
	dispatcher *events.Dispatcher,
) *ProviderService {
	return &ProviderService{
		store:      store,
		log:        log,
		dispatcher: dispatcher,
	}
}

// Create publishes a provider surface for the app block
func (p *ProviderService) Create(
	ctx context.Context,
	appBlockID uuid.UUID,
	baseAPIURL string,
	apiVersion string,
	authMethods []string,
	rateLimitPerMinute int,
) (uuid.UUID, error) {
	if _, err := p.store.AppBlockByID(ctx, appBlockID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}
	id, err := p.store.CreateProvider(
		ctx, appBlockID, baseAPIURL, apiVersion, authMethods, rateLimitPerMinute,
	)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return uuid.Nil, ErrAlreadyExists
		}
		p.log.Error("could not create provider", zap.Error(err))
		return uuid.Nil, err
	}
	return id, nil
}

// Enable turns the provider discoverable again
func (p *ProviderService) Enable(ctx context.Context, appBlockID uuid.UUID) error {
	return p.setStatus(ctx, appBlockID, "enabled")
}

// Disable removes the provider from discovery, its manifest becomes
// absent to consumers
func (p *ProviderService) Disable(ctx context.Context, appBlockID uuid.UUID) error {
	return p.setStatus(ctx, appBlockID, "disabled")
}

func (p *ProviderService) setStatus(
	ctx context.Context,
	appBlockID uuid.UUID,
	status string,
) error {
	err := p.store.SetProviderStatus(ctx, appBlockID, status)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		p.log.Error("could not set provider status", zap.Error(err))
		return err
	}
	return nil
}

// AddScope declares a new capability on the provider
func (p *ProviderService) AddScope(
	ctx context.Context,
	appBlockID uuid.UUID,
	name string,
	description *string,
	isPublicRead bool,
	requiredRole *string,
) (uuid.UUID, error) {
	provider, err := p.store.ProviderByAppBlockID(ctx, appBlockID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}
	id, err := p.store.AddProviderScope(
		ctx, provider.ID, name, description, isPublicRead, requiredRole,
	)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return uuid.Nil, ErrAlreadyExists
		}
		p.log.Error("could not add provider scope", zap.Error(err))
		return uuid.Nil, err
	}
	p.dispatcher.Dispatch(ctx, &event.ProviderScopeAdded{
		ScopeID: id,
		OwnerID: appBlockID,
		Scope:   name,
	})
	return id, nil
}

// RemoveScope withdraws a declared capability. Grants that captured
// the scope keep it, the reconciler reports the drift.
func (p *ProviderService) RemoveScope(
	ctx context.Context,
	appBlockID uuid.UUID,
	name string,
) error {
	provider, err := p.store.ProviderByAppBlockID(ctx, appBlockID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	var scopeID uuid.UUID
	scopes, err := p.store.ProviderScopes(ctx, provider.ID)
	if err != nil {
		return err
	}
	for _, scope := range scopes {
		if scope.Name == name {
			scopeID = scope.ID
		}
	}
	err = p.store.RemoveProviderScope(ctx, provider.ID, name)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		p.log.Error("could not remove provider scope", zap.Error(err))
		return err
	}
	p.dispatcher.Dispatch(ctx, &event.ProviderScopeRemoved{
		ScopeID: scopeID,
		OwnerID: appBlockID,
		Scope:   name,
	})
	return nil
}
