package serviceaccount

import (
	"context"
	"testing"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type fakeKeyStore struct {
	accounts map[uuid.UUID]*tables.ServiceAccountTable
}

func newFakeKeyStore() *fakeKeyStore {
	return &fakeKeyStore{accounts: make(map[uuid.UUID]*tables.ServiceAccountTable)}
}

func (f *fakeKeyStore) ServiceAccountByAppBlockID(
	_ context.Context,
	appBlockID uuid.UUID,
) (*tables.ServiceAccountTable, error) {
	a, ok := f.accounts[appBlockID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return a, nil
}

func (f *fakeKeyStore) ServiceAccountByKeyHash(
	_ context.Context,
	apiKeyHash string,
) (*tables.ServiceAccountTable, error) {
	for _, a := range f.accounts {
		if a.APIKeyHash == apiKeyHash {
			return a, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeKeyStore) InsertServiceAccount(
	_ context.Context,
	appBlockID uuid.UUID,
	apiKeyHash string,
) (uuid.UUID, error) {
	if _, ok := f.accounts[appBlockID]; ok {
		return uuid.Nil, db.ErrAlreadyExists
	}
	id := uuid.New()
	f.accounts[appBlockID] = &tables.ServiceAccountTable{
		ID:         id,
		AppBlockID: appBlockID,
		APIKeyHash: apiKeyHash,
		CreatedAt:  time.Now().UTC(),
	}
	return id, nil
}

func (f *fakeKeyStore) ReplaceServiceAccountKeyHash(
	_ context.Context,
	appBlockID uuid.UUID,
	apiKeyHash string,
) error {
	a, ok := f.accounts[appBlockID]
	if !ok {
		return db.ErrNotFound
	}
	now := time.Now().UTC()
	a.APIKeyHash = apiKeyHash
	a.LastRotatedAt = &now
	return nil
}

func testService(t *testing.T, store KeyStore, keys ...string) *Service {
	logger := zaptest.NewLogger(t)
	dispatcher := events.NewDispatcher(logger)
	next := 0
	return NewServiceAccountService(logger, store, dispatcher, func() string {
		key := keys[next%len(keys)]
		next++
		return key
	})
}

func TestCreateReturnsPlaintextOnceAndStoresDigest(t *testing.T) {
	assert := assert.New(t)
	store := newFakeKeyStore()
	service := testService(t, store, "rcsa_firstkey")
	blockID := uuid.New()

	account, plaintext, err := service.Create(context.Background(), blockID)
	assert.Nil(err)
	assert.Equal("rcsa_firstkey", plaintext)
	assert.Equal(blockID, account.AppBlockID())

	stored := store.accounts[blockID]
	assert.Equal(HashKey(plaintext), stored.APIKeyHash)
	assert.NotEqual(plaintext, stored.APIKeyHash)
}

func TestCreateSecondAccountForBlockFails(t *testing.T) {
	assert := assert.New(t)
	store := newFakeKeyStore()
	service := testService(t, store, "rcsa_firstkey")
	blockID := uuid.New()

	_, _, err := service.Create(context.Background(), blockID)
	assert.Nil(err)
	_, _, err = service.Create(context.Background(), blockID)
	assert.ErrorIs(err, ErrAlreadyExists)
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)
	store := newFakeKeyStore()
	service := testService(t, store, "rcsa_firstkey")
	blockID := uuid.New()

	created, plaintext, err := service.Create(context.Background(), blockID)
	assert.Nil(err)

	account, err := service.Validate(context.Background(), plaintext)
	assert.Nil(err)
	assert.Equal(created.ID(), account.ID())
	assert.Equal(blockID, account.AppBlockID())
}

func TestValidateUnknownKey(t *testing.T) {
	assert := assert.New(t)
	store := newFakeKeyStore()
	service := testService(t, store, "rcsa_firstkey")

	_, err := service.Validate(context.Background(), "rcsa_neverissued")
	assert.ErrorIs(err, ErrNotFound)
}

func TestRotateInvalidatesOldKeyImmediately(t *testing.T) {
	assert := assert.New(t)
	store := newFakeKeyStore()
	service := testService(t, store, "rcsa_firstkey", "rcsa_secondkey")
	blockID := uuid.New()

	_, oldKey, err := service.Create(context.Background(), blockID)
	assert.Nil(err)

	newKey, err := service.Rotate(context.Background(), blockID)
	assert.Nil(err)
	assert.Equal("rcsa_secondkey", newKey)
	assert.NotEqual(oldKey, newKey)

	_, err = service.Validate(context.Background(), oldKey)
	assert.ErrorIs(err, ErrNotFound)

	account, err := service.Validate(context.Background(), newKey)
	assert.Nil(err)
	assert.Equal(blockID, account.AppBlockID())
	assert.NotNil(account.LastRotatedAt())
}

func TestRotateUnknownBlock(t *testing.T) {
	assert := assert.New(t)
	store := newFakeKeyStore()
	service := testService(t, store, "rcsa_firstkey")

	_, err := service.Rotate(context.Background(), uuid.New())
	assert.ErrorIs(err, ErrNotFound)
}

func TestHashKeyIsDeterministic(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(HashKey("rcsa_abc"), HashKey("rcsa_abc"))
	assert.NotEqual(HashKey("rcsa_abc"), HashKey("rcsa_abd"))
	assert.Len(HashKey("rcsa_abc"), 64)
}
