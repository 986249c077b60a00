package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type insertedToken struct {
	token       string
	subjectType string
	subjectID   uuid.UUID
	appBlockID  *uuid.UUID
	scopes      []string
	expiresAt   time.Time
}

type fakeInserter struct {
	inserted []insertedToken
}

func (f *fakeInserter) InsertAccessToken(
	_ context.Context,
	token string,
	subjectType string,
	subjectID uuid.UUID,
	appBlockID *uuid.UUID,
	scopes []string,
	expires time.Time,
) (uuid.UUID, error) {
	f.inserted = append(f.inserted, insertedToken{
		token:       token,
		subjectType: subjectType,
		subjectID:   subjectID,
		appBlockID:  appBlockID,
		scopes:      scopes,
		expiresAt:   expires,
	})
	return uuid.New(), nil
}

type fakeGrants struct {
	scopes map[string][]string
}

func (f *fakeGrants) ActiveScopes(
	_ context.Context,
	_ uuid.UUID,
	authType string,
) ([]string, error) {
	return f.scopes[authType], nil
}

func newIssuer(t *testing.T, store *fakeInserter, grants *fakeGrants) *Issuer {
	logger := zaptest.NewLogger(t)
	dispatcher := events.NewDispatcher(logger)
	return NewIssuer(
		logger, store, grants, dispatcher,
		func() string { return "rct_issued" },
		time.Hour, 24*time.Hour,
	)
}

func TestIssueTakesEverythingGrantedWhenNothingRequested(t *testing.T) {
	assert := assert.New(t)
	store := &fakeInserter{}
	grants := &fakeGrants{scopes: map[string][]string{
		"service": {"events.read", "events.write"},
	}}
	issuer := newIssuer(t, store, grants)

	token, err := issuer.Issue(
		context.Background(), GrantServiceAccount, uuid.New(), uuid.New(), nil, 0,
	)
	assert.Nil(err)
	assert.Equal("rct_issued", token.Token())
	assert.Equal(SubjectService, token.SubjectType())
	assert.Equal([]string{"events.read", "events.write"}, token.Scopes())
}

func TestIssueIntersectsRequestedScopes(t *testing.T) {
	assert := assert.New(t)
	store := &fakeInserter{}
	grants := &fakeGrants{scopes: map[string][]string{
		"service": {"events.read", "events.write", "profiles.read"},
	}}
	issuer := newIssuer(t, store, grants)

	token, err := issuer.Issue(
		context.Background(), GrantServiceAccount, uuid.New(), uuid.New(),
		[]string{"events.read", "never.granted"}, 0,
	)
	assert.Nil(err)
	assert.Equal([]string{"events.read"}, token.Scopes())
}

func TestIssueEmptyIntersectionFails(t *testing.T) {
	assert := assert.New(t)
	store := &fakeInserter{}
	grants := &fakeGrants{scopes: map[string][]string{
		"service": {"events.read"},
	}}
	issuer := newIssuer(t, store, grants)

	_, err := issuer.Issue(
		context.Background(), GrantServiceAccount, uuid.New(), uuid.New(),
		[]string{"never.granted"}, 0,
	)
	assert.ErrorIs(err, ErrNoMatchingScopes)
	assert.Empty(store.inserted)
}

func TestIssueNothingGrantedFails(t *testing.T) {
	assert := assert.New(t)
	store := &fakeInserter{}
	grants := &fakeGrants{scopes: map[string][]string{}}
	issuer := newIssuer(t, store, grants)

	_, err := issuer.Issue(
		context.Background(), GrantServiceAccount, uuid.New(), uuid.New(), nil, 0,
	)
	assert.ErrorIs(err, ErrNoMatchingScopes)
}

func TestIssueUnknownGrantType(t *testing.T) {
	assert := assert.New(t)
	issuer := newIssuer(t, &fakeInserter{}, &fakeGrants{})

	_, err := issuer.Issue(
		context.Background(), "client_credentials", uuid.New(), uuid.New(), nil, 0,
	)
	assert.ErrorIs(err, ErrInvalidGrantType)
}

func TestIssueGrantTypeSelectsAuthMode(t *testing.T) {
	assert := assert.New(t)
	store := &fakeInserter{}
	grants := &fakeGrants{scopes: map[string][]string{
		"user":    {"profiles.read"},
		"service": {"events.read"},
	}}
	issuer := newIssuer(t, store, grants)

	token, err := issuer.Issue(
		context.Background(), GrantUserSession, uuid.New(), uuid.New(), nil, 0,
	)
	assert.Nil(err)
	assert.Equal(SubjectUser, token.SubjectType())
	assert.Equal([]string{"profiles.read"}, token.Scopes())
}

func TestIssueDefaultExpiry(t *testing.T) {
	assert := assert.New(t)
	store := &fakeInserter{}
	grants := &fakeGrants{scopes: map[string][]string{
		"service": {"events.read"},
	}}
	issuer := newIssuer(t, store, grants)

	before := time.Now().UTC()
	token, err := issuer.Issue(
		context.Background(), GrantServiceAccount, uuid.New(), uuid.New(), nil, 0,
	)
	assert.Nil(err)
	assert.WithinDuration(before.Add(time.Hour), token.ExpiresAt(), 5*time.Second)
}

func TestIssueClampsExpiryToMax(t *testing.T) {
	assert := assert.New(t)
	store := &fakeInserter{}
	grants := &fakeGrants{scopes: map[string][]string{
		"service": {"events.read"},
	}}
	issuer := newIssuer(t, store, grants)

	before := time.Now().UTC()
	token, err := issuer.Issue(
		context.Background(), GrantServiceAccount, uuid.New(), uuid.New(), nil, 100*24*time.Hour,
	)
	assert.Nil(err)
	assert.WithinDuration(before.Add(24*time.Hour), token.ExpiresAt(), 5*time.Second)
}
