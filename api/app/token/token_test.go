package token

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/buidl-renaissance/renaissance-create-app-block/serviceaccount"
	"github.com/buidl-renaissance/renaissance-create-app-block/session"
	"github.com/buidl-renaissance/renaissance-create-app-block/tokens"
	"github.com/google/uuid"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"go.uber.org/zap"
)

// fakeStore backs every narrow persistence interface the token
// endpoint pulls in, kept in memory per test
type fakeStore struct {
	tokens   map[string]*tables.AccessTokenTable
	accounts map[string]*tables.ServiceAccountTable
	blocks   map[uuid.UUID]*tables.AppBlockTable
	grants   map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tokens:   make(map[string]*tables.AccessTokenTable),
		accounts: make(map[string]*tables.ServiceAccountTable),
		blocks:   make(map[uuid.UUID]*tables.AppBlockTable),
		grants:   make(map[string][]string),
	}
}

func (f *fakeStore) InsertAccessToken(
	_ context.Context,
	token string,
	subjectType string,
	subjectID uuid.UUID,
	appBlockID *uuid.UUID,
	scopes []string,
	expires time.Time,
) (uuid.UUID, error) {
	id := uuid.New()
	f.tokens[token] = &tables.AccessTokenTable{
		ID:          id,
		Token:       token,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		AppBlockID:  appBlockID,
		Scopes:      scopes,
		ExpiresAt:   expires,
		CreatedAt:   time.Now().UTC(),
	}
	return id, nil
}

func (f *fakeStore) AccessTokenByValue(
	_ context.Context,
	token string,
) (*tables.AccessTokenTable, error) {
	row, ok := f.tokens[token]
	if !ok {
		return nil, db.ErrNotFound
	}
	return row, nil
}

func (f *fakeStore) DeleteAccessTokenByValue(
	_ context.Context,
	token string,
) (*tables.AccessTokenTable, error) {
	row, ok := f.tokens[token]
	if !ok {
		return nil, nil
	}
	delete(f.tokens, token)
	return row, nil
}

func (f *fakeStore) DeleteExpiredAccessTokens(
	_ context.Context,
	now time.Time,
) (int, error) {
	affected := 0
	for token, row := range f.tokens {
		if !row.ExpiresAt.After(now) {
			delete(f.tokens, token)
			affected++
		}
	}
	return affected, nil
}

func (f *fakeStore) ServiceAccountByAppBlockID(
	_ context.Context,
	appBlockID uuid.UUID,
) (*tables.ServiceAccountTable, error) {
	for _, a := range f.accounts {
		if a.AppBlockID == appBlockID {
			return a, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) ServiceAccountByKeyHash(
	_ context.Context,
	apiKeyHash string,
) (*tables.ServiceAccountTable, error) {
	a, ok := f.accounts[apiKeyHash]
	if !ok {
		return nil, db.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) InsertServiceAccount(
	_ context.Context,
	appBlockID uuid.UUID,
	apiKeyHash string,
) (uuid.UUID, error) {
	id := uuid.New()
	f.accounts[apiKeyHash] = &tables.ServiceAccountTable{
		ID:         id,
		AppBlockID: appBlockID,
		APIKeyHash: apiKeyHash,
		CreatedAt:  time.Now().UTC(),
	}
	return id, nil
}

func (f *fakeStore) ReplaceServiceAccountKeyHash(
	_ context.Context,
	appBlockID uuid.UUID,
	apiKeyHash string,
) error {
	for hash, a := range f.accounts {
		if a.AppBlockID == appBlockID {
			delete(f.accounts, hash)
			a.APIKeyHash = apiKeyHash
			f.accounts[apiKeyHash] = a
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeStore) AppBlockByID(
	_ context.Context,
	id uuid.UUID,
) (*tables.AppBlockTable, error) {
	b, ok := f.blocks[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) ActiveScopes(
	_ context.Context,
	_ uuid.UUID,
	authType string,
) ([]string, error) {
	return f.grants[authType], nil
}

func newRessource(store *fakeStore) *TokenRessource {
	logger := zap.NewNop()
	dispatcher := events.NewDispatcher(logger)
	issuer := tokens.NewIssuer(
		logger, store, store, dispatcher,
		func() string { return "rct_testtoken" },
		time.Hour, 24*time.Hour,
	)
	verifier := tokens.NewVerifier(logger, store)
	revoker := tokens.NewRevoker(logger, store, dispatcher)
	accounts := serviceaccount.NewServiceAccountService(
		logger, store, dispatcher,
		func() string { return "rcsa_testkey" },
	)
	resolver := session.NewResolver(logger, []byte("0123456789abcdef"), "rcab-test", time.Hour)
	return NewTokenRessource(logger, issuer, verifier, revoker, accounts, resolver, store)
}

func TestServiceAccountGrant(t *testing.T) {
	store := newFakeStore()
	store.grants["service"] = []string{"events.read", "events.write"}
	ressource := newRessource(store)
	_, _, err := serviceaccount.NewServiceAccountService(
		zap.NewNop(), store, events.NewDispatcher(zap.NewNop()),
		func() string { return "rcsa_testkey" },
	).Create(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	apitest.New().
		Handler(ressource.Router()).
		Post("/").
		FormData("grant_type", "service_account").
		FormData("api_key", "rcsa_testkey").
		FormData("scope", "events.read").
		Expect(t).
		Assert(jsonpath.Equal(`$.access_token`, "rct_testtoken")).
		Assert(jsonpath.Equal(`$.token_type`, "Bearer")).
		Status(http.StatusOK).
		End()
}

func TestServiceAccountGrantUnknownKey(t *testing.T) {
	store := newFakeStore()
	ressource := newRessource(store)

	apitest.New().
		Handler(ressource.Router()).
		Post("/").
		FormData("grant_type", "service_account").
		FormData("api_key", "rcsa_wrong").
		Expect(t).
		Body(`{"error":"invalid_client"}`).
		Status(http.StatusUnauthorized).
		End()
}

func TestUnsupportedGrantType(t *testing.T) {
	store := newFakeStore()
	ressource := newRessource(store)

	apitest.New().
		Handler(ressource.Router()).
		Post("/").
		FormData("grant_type", "client_credentials").
		Expect(t).
		Body(`{"error":"unsupported_grant_type"}`).
		Status(http.StatusBadRequest).
		End()
}

func TestGrantOutsideDeclaredScopes(t *testing.T) {
	store := newFakeStore()
	store.grants["service"] = []string{"events.read"}
	ressource := newRessource(store)
	_, _, err := serviceaccount.NewServiceAccountService(
		zap.NewNop(), store, events.NewDispatcher(zap.NewNop()),
		func() string { return "rcsa_testkey" },
	).Create(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	apitest.New().
		Handler(ressource.Router()).
		Post("/").
		FormData("grant_type", "service_account").
		FormData("api_key", "rcsa_testkey").
		FormData("scope", "never.granted").
		Expect(t).
		Body(`{"error":"invalid_scope"}`).
		Status(http.StatusBadRequest).
		End()
}

func TestValidateUnknownToken(t *testing.T) {
	store := newFakeStore()
	ressource := newRessource(store)

	apitest.New().
		Handler(ressource.Router()).
		Post("/validate").
		FormData("token", "rct_unknown").
		Expect(t).
		Body(`{"valid":false}`).
		Status(http.StatusOK).
		End()
}

func TestValidateIssuedToken(t *testing.T) {
	store := newFakeStore()
	store.grants["service"] = []string{"events.read"}
	ressource := newRessource(store)
	blockID := uuid.New()
	_, err := store.InsertAccessToken(
		context.Background(), "rct_live", "service", uuid.New(), &blockID,
		[]string{"events.read"}, time.Now().UTC().Add(time.Hour),
	)
	if err != nil {
		t.Fatal(err)
	}

	apitest.New().
		Handler(ressource.Router()).
		Post("/validate").
		FormData("token", "rct_live").
		Expect(t).
		Assert(jsonpath.Equal(`$.valid`, true)).
		Assert(jsonpath.Equal(`$.subject_type`, "service")).
		Status(http.StatusOK).
		End()
}

func TestValidateExpiredToken(t *testing.T) {
	store := newFakeStore()
	ressource := newRessource(store)
	blockID := uuid.New()
	_, err := store.InsertAccessToken(
		context.Background(), "rct_old", "service", uuid.New(), &blockID,
		[]string{"events.read"}, time.Now().UTC().Add(-time.Hour),
	)
	if err != nil {
		t.Fatal(err)
	}

	apitest.New().
		Handler(ressource.Router()).
		Post("/validate").
		FormData("token", "rct_old").
		Expect(t).
		Body(`{"valid":false}`).
		Status(http.StatusOK).
		End()
}

func TestRevokeEndpoint(t *testing.T) {
	store := newFakeStore()
	ressource := newRessource(store)
	blockID := uuid.New()
	_, err := store.InsertAccessToken(
		context.Background(), "rct_doomed", "service", uuid.New(), &blockID,
		[]string{"events.read"}, time.Now().UTC().Add(time.Hour),
	)
	if err != nil {
		t.Fatal(err)
	}

	apitest.New().
		Handler(ressource.Router()).
		Post("/revoke").
		FormData("token", "rct_doomed").
		Expect(t).
		Body(`{"revoked":true}`).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(ressource.Router()).
		Post("/revoke").
		FormData("token", "rct_doomed").
		Expect(t).
		Body(`{"revoked":false}`).
		Status(http.StatusOK).
		End()
}
