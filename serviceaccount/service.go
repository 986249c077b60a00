package serviceaccount

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/buidl-renaissance/renaissance-create-app-block/events/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates no service account matched
	ErrNotFound = errors.New("service account not found")
	// ErrAlreadyExists indicates the app block already holds an account
	ErrAlreadyExists = errors.New("app block already has a service account")
)

// KeyStore is the persistence surface the service needs, the plaintext
// key never crosses this boundary
type KeyStore interface {
	ServiceAccountByAppBlockID(ctx context.Context, appBlockID uuid.UUID) (*tables.ServiceAccountTable, error)
	ServiceAccountByKeyHash(ctx context.Context, apiKeyHash string) (*tables.ServiceAccountTable, error)
	InsertServiceAccount(ctx context.Context, appBlockID uuid.UUID, apiKeyHash string) (uuid.UUID, error)
	ReplaceServiceAccountKeyHash(ctx context.Context, appBlockID uuid.UUID, apiKeyHash string) error
}

// Service is the service account store: create, validate by digest
// lookup and rotate with immediate invalidation
type Service struct {
	log        *zap.Logger
	store      KeyStore
	dispatcher *events.Dispatcher
	keyFactory func() string
}

func NewServiceAccountService(
	log *zap.Logger,
	store KeyStore,
	dispatcher *events.Dispatcher,
	keyFactory func() string,
) *Service {
	return &Service{
		log:        log,
		store:      store,
		dispatcher: dispatcher,
		keyFactory: keyFactory,
	}
}

// HashKey is the deterministic one way digest of an api key, the same
// digest is used for storage and lookup
func HashKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func build(table *tables.ServiceAccountTable) *ServiceAccount {
	return &ServiceAccount{
		id:            table.ID,
		appBlockID:    table.AppBlockID,
		lastRotatedAt: table.LastRotatedAt,
		createdAt:     table.CreatedAt,
	}
}

// Create mints a key for the app block, stores only its digest and
// returns the plaintext exactly once
func (s *Service) Create(
	ctx context.Context,
	appBlockID uuid.UUID,
) (*ServiceAccount, string, error) {
	plaintext := s.keyFactory()
	id, err := s.store.InsertServiceAccount(ctx, appBlockID, HashKey(plaintext))
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, "", ErrAlreadyExists
		}
		s.log.Error("could not create service account", zap.Error(err))
		return nil, "", err
	}
	s.dispatcher.Dispatch(ctx, &event.ServiceAccountCreated{
		ServiceAccountID: id,
		AppBlockID:       appBlockID,
	})
	table, err := s.store.ServiceAccountByAppBlockID(ctx, appBlockID)
	if err != nil {
		s.log.Error("could not fetch just created service account", zap.Error(err))
		return nil, "", err
	}
	return build(table), plaintext, nil
}

// Validate resolves the account whose stored digest matches the
// presented key. The attempted key material is never logged.
func (s *Service) Validate(
	ctx context.Context,
	plaintextAPIKey string,
) (*ServiceAccount, error) {
	table, err := s.store.ServiceAccountByKeyHash(ctx, HashKey(plaintextAPIKey))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("could not validate service account key", zap.Error(err))
		return nil, err
	}
	return build(table), nil
}

// Rotate replaces the stored digest, the previous key stops validating
// immediately, there is no grace window. The new plaintext is returned
// exactly once.
func (s *Service) Rotate(
	ctx context.Context,
	appBlockID uuid.UUID,
) (string, error) {
	table, err := s.store.ServiceAccountByAppBlockID(ctx, appBlockID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrNotFound
		}
		s.log.Error("could not fetch service account for rotation", zap.Error(err))
		return "", err
	}
	plaintext := s.keyFactory()
	err = s.store.ReplaceServiceAccountKeyHash(ctx, appBlockID, HashKey(plaintext))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrNotFound
		}
		s.log.Error("could not rotate service account key", zap.Error(err))
		return "", err
	}
	s.dispatcher.Dispatch(ctx, &event.ServiceAccountRotated{
		ServiceAccountID: table.ID,
		AppBlockID:       appBlockID,
		RotatedAt:        time.Now().UTC(),
	})
	return plaintext, nil
}
