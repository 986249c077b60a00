package manage

import (
	"context"
	"errors"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/buidl-renaissance/renaissance-create-app-block/events/event"
	"github.com/buidl-renaissance/renaissance-create-app-block/serviceaccount"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates the managed entity could not be found
	ErrNotFound = errors.New("requested entity not found")
	// ErrAlreadyExists indicates the managed entity already exists
	ErrAlreadyExists = errors.New("entity already exists")
)

// AppBlockService administers app blocks and their registry entries
type AppBlockService struct {
	store      *db.DataStore
	log        *zap.Logger
	dispatcher *events.Dispatcher
	mintKey    func() string
}

func NewAppBlockService(
	store *db.DataStore,
	log *zap.Logger,
	dispatcher *events.Dispatcher,
	mintKey func() string,
) *AppBlockService {
	return &AppBlockService{
		store:      store,
		log:        log,
		dispatcher: dispatcher,
		mintKey:    mintKey,
	}
}

// Create inserts the block together with its service account, the api
// key plaintext is returned exactly once and never stored
func (a *AppBlockService) Create(
	ctx context.Context,
	name string,
	ownerUserID uuid.UUID,
) (uuid.UUID, string, error) {
	plaintext := a.mintKey()
	blockID, accountID, err := a.store.CreateAppBlock(
		ctx, name, ownerUserID, serviceaccount.HashKey(plaintext),
	)
	if err != nil {
		a.log.Error("could not create app block", zap.Error(err))
		return uuid.Nil, "", err
	}
	a.dispatcher.Dispatch(ctx, &event.ServiceAccountCreated{
		ServiceAccountID: accountID,
		AppBlockID:       blockID,
	})
	return blockID, plaintext, nil
}

// Publish lists the block in the public registry so it becomes
// discoverable and installable
func (a *AppBlockService) Publish(
	ctx context.Context,
	appBlockID uuid.UUID,
	slug string,
	displayName string,
	description *string,
	category string,
	requiresApproval bool,
) (uuid.UUID, error) {
	if _, err := a.store.AppBlockByID(ctx, appBlockID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}
	id, err := a.store.PublishRegistryEntry(
		ctx, appBlockID, slug, displayName, description, category, requiresApproval,
	)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return uuid.Nil, ErrAlreadyExists
		}
		a.log.Error("could not publish registry entry", zap.Error(err))
		return uuid.Nil, err
	}
	return id, nil
}

// List pages through all app blocks
func (a *AppBlockService) List(
	ctx context.Context,
	page int,
	pageSize int,
) ([]AppBlockDTO, int, error) {
	entities, total, err := a.store.AppBlocks(ctx, db.ListOptions{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]AppBlockDTO, 0, len(entities))
	for _, entity := range entities {
		dtos = append(dtos, AppBlockDTO{
			ID:          entity.ID,
			Name:        entity.Name,
			OwnerUserID: entity.OwnerUserID,
			Status:      entity.Status,
			CreatedAt:   entity.CreatedAt,
		})
	}
	return dtos, total, nil
}
