package tokens

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

type fakeTokenStore struct {
	rows map[string]*tables.AccessTokenTable
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{rows: make(map[string]*tables.AccessTokenTable)}
}

func (f *fakeTokenStore) AccessTokenByValue(
	_ context.Context,
	token string,
) (*tables.AccessTokenTable, error) {
	row, ok := f.rows[token]
	if !ok {
		return nil, db.ErrNotFound
	}
	return row, nil
}

func (f *fakeTokenStore) DeleteAccessTokenByValue(
	_ context.Context,
	token string,
) (*tables.AccessTokenTable, error) {
	row, ok := f.rows[token]
	if !ok {
		return nil, nil
	}
	delete(f.rows, token)
	return row, nil
}

func (f *fakeTokenStore) DeleteExpiredAccessTokens(
	_ context.Context,
	now time.Time,
) (int, error) {
	affected := 0
	for token, row := range f.rows {
		if !row.ExpiresAt.After(now) {
			delete(f.rows, token)
			affected++
		}
	}
	return affected, nil
}

func (f *fakeTokenStore) add(token string, scopes []string, expiresAt time.Time) *tables.AccessTokenTable {
	blockID := uuid.New()
	row := &tables.AccessTokenTable{
		ID:          uuid.New(),
		Token:       token,
		SubjectType: SubjectService,
		SubjectID:   uuid.New(),
		AppBlockID:  &blockID,
		Scopes:      scopes,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now().UTC(),
	}
	f.rows[token] = row
	return row
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)
	store := newFakeTokenStore()
	row := store.add("rct_valid", []string{"events.read"}, time.Now().UTC().Add(time.Hour))
	verifier := NewVerifier(zaptest.NewLogger(t), store)

	validated, err := verifier.Validate(context.Background(), "rct_valid")
	assert.Nil(err)
	assert.Equal(row.SubjectID, validated.SubjectID())
	assert.Equal(SubjectService, validated.SubjectType())
	assert.True(validated.HasScope("events.read"))
	assert.False(validated.HasScope("events.write"))
}

func TestValidateUnknownToken(t *testing.T) {
	assert := assert.New(t)
	verifier := NewVerifier(zaptest.NewLogger(t), newFakeTokenStore())

	_, err := verifier.Validate(context.Background(), "rct_unknown")
	assert.ErrorIs(err, ErrInvalidToken)
}

func TestValidateExpiredLooksLikeUnknown(t *testing.T) {
	assert := assert.New(t)
	store := newFakeTokenStore()
	store.add("rct_expired", []string{"events.read"}, time.Now().UTC().Add(-time.Minute))
	verifier := NewVerifier(zaptest.NewLogger(t), store)

	_, err := verifier.Validate(context.Background(), "rct_expired")
	assert.ErrorIs(err, ErrInvalidToken)
}

func TestRevoke(t *testing.T) {
	assert := assert.New(t)
	store := newFakeTokenStore()
	store.add("rct_gone", []string{"events.read"}, time.Now().UTC().Add(time.Hour))
	logger := zaptest.NewLogger(t)
	revoker := NewRevoker(logger, store, events.NewDispatcher(logger))

	revoked, err := revoker.Revoke(context.Background(), "rct_gone")
	assert.Nil(err)
	assert.True(revoked)

	verifier := NewVerifier(logger, store)
	_, err = verifier.Validate(context.Background(), "rct_gone")
	assert.ErrorIs(err, ErrInvalidToken)
}

func TestRevokeAbsentTokenIsNotAnError(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	revoker := NewRevoker(logger, newFakeTokenStore(), events.NewDispatcher(logger))

	revoked, err := revoker.Revoke(context.Background(), "rct_nevergranted")
	assert.Nil(err)
	assert.False(revoked)
}

func TestCleanupExpired(t *testing.T) {
	assert := assert.New(t)
	store := newFakeTokenStore()
	store.add("rct_fresh", []string{"events.read"}, time.Now().UTC().Add(time.Hour))
	store.add("rct_stale", []string{"events.read"}, time.Now().UTC().Add(-time.Hour))
	store.add("rct_staler", []string{"events.read"}, time.Now().UTC().Add(-2*time.Hour))
	logger := zaptest.NewLogger(t)
	revoker := NewRevoker(logger, store, events.NewDispatcher(logger))

	affected, err := revoker.CleanupExpired(context.Background())
	assert.Nil(err)
	assert.Equal(2, affected)
	assert.Len(store.rows, 1)
}
