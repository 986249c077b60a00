package registry

import (
	"context"
	"testing"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type fakeScopeSource struct {
	providers      map[uuid.UUID]*tables.ProviderTable
	providerScopes map[uuid.UUID][]*db.ScopeInfo
	connectors     map[uuid.UUID]*tables.ConnectorTable
	connScopes     map[uuid.UUID][]*db.ScopeInfo
}

func (f *fakeScopeSource) ProviderByAppBlockID(
	_ context.Context,
	appBlockID uuid.UUID,
) (*tables.ProviderTable, error) {
	p, ok := f.providers[appBlockID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (f *fakeScopeSource) ProviderScopes(
	_ context.Context,
	providerID uuid.UUID,
) ([]*db.ScopeInfo, error) {
	return f.providerScopes[providerID], nil
}

func (f *fakeScopeSource) ConnectorByID(
	_ context.Context,
	id uuid.UUID,
) (*tables.ConnectorTable, error) {
	c, ok := f.connectors[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return c, nil
}

func (f *fakeScopeSource) ConnectorScopes(
	_ context.Context,
	connectorID uuid.UUID,
) ([]*db.ScopeInfo, error) {
	return f.connScopes[connectorID], nil
}

func scopeInfo(name string) *db.ScopeInfo {
	return &db.ScopeInfo{ID: uuid.New(), Name: name}
}

func TestValidateRequestedScopes(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	blockID := uuid.New()
	providerID := uuid.New()
	store := &fakeScopeSource{
		providers: map[uuid.UUID]*tables.ProviderTable{
			blockID: {ID: providerID, AppBlockID: blockID},
		},
		providerScopes: map[uuid.UUID][]*db.ScopeInfo{
			providerID: {scopeInfo("events.read"), scopeInfo("events.write")},
		},
	}
	service := NewScopeRegistry(logger, store)
	err := service.ValidateRequestedScopes(
		context.Background(),
		ProviderOwner,
		blockID,
		[]string{"events.read", "events.write"},
	)
	assert.Nil(err)
}

func TestValidateRequestedScopesReportsExactMissing(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	blockID := uuid.New()
	providerID := uuid.New()
	store := &fakeScopeSource{
		providers: map[uuid.UUID]*tables.ProviderTable{
			blockID: {ID: providerID, AppBlockID: blockID},
		},
		providerScopes: map[uuid.UUID][]*db.ScopeInfo{
			providerID: {scopeInfo("events.read")},
		},
	}
	service := NewScopeRegistry(logger, store)
	err := service.ValidateRequestedScopes(
		context.Background(),
		ProviderOwner,
		blockID,
		[]string{"events.read", "events.write", "profiles.read"},
	)
	assert.NotNil(err)
	var invalid *InvalidScopesError
	if assert.ErrorAs(err, &invalid) {
		assert.Equal([]string{"events.write", "profiles.read"}, invalid.Missing)
	}
}

func TestValidateRequestedScopesUnknownProvider(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := &fakeScopeSource{providers: map[uuid.UUID]*tables.ProviderTable{}}
	service := NewScopeRegistry(logger, store)
	err := service.ValidateRequestedScopes(
		context.Background(),
		ProviderOwner,
		uuid.New(),
		[]string{"events.read"},
	)
	assert.ErrorIs(err, ErrNotFound)
}

func TestValidateRequestedScopesConnector(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	connectorID := uuid.New()
	store := &fakeScopeSource{
		connectors: map[uuid.UUID]*tables.ConnectorTable{
			connectorID: {ID: connectorID, Name: "identity", IsActive: true},
		},
		connScopes: map[uuid.UUID][]*db.ScopeInfo{
			connectorID: {scopeInfo("identity.verify")},
		},
	}
	service := NewScopeRegistry(logger, store)
	err := service.ValidateRequestedScopes(
		context.Background(),
		ConnectorOwner,
		connectorID,
		[]string{"identity.verify"},
	)
	assert.Nil(err)
}

func TestListScopes(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	connectorID := uuid.New()
	store := &fakeScopeSource{
		connectors: map[uuid.UUID]*tables.ConnectorTable{
			connectorID: {ID: connectorID, Name: "payments", IsActive: true},
		},
		connScopes: map[uuid.UUID][]*db.ScopeInfo{
			connectorID: {scopeInfo("payments.charge"), scopeInfo("payments.refund")},
		},
	}
	service := NewScopeRegistry(logger, store)
	scopes, err := service.ListScopes(context.Background(), ConnectorOwner, connectorID)
	assert.Nil(err)
	if assert.Len(scopes, 2) {
		assert.Equal("payments.charge", scopes[0].Name)
		assert.Equal("payments.refund", scopes[1].Name)
	}
}

func TestInvalidScopesErrorMessage(t *testing.T) {
	assert := assert.New(t)
	err := &InvalidScopesError{Missing: []string{"a.read", "b.write"}}
	assert.Equal("unknown scopes requested: a.read, b.write", err.Error())
}
