package manifest

import (
	"context"
	"testing"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type fakeProviderSource struct {
	providers map[uuid.UUID]*tables.ProviderTable
	entries   map[uuid.UUID]*tables.RegistryEntryTable
	scopes    map[uuid.UUID][]*db.ScopeInfo
}

func (f *fakeProviderSource) ProviderByAppBlockID(
	_ context.Context,
	appBlockID uuid.UUID,
) (*tables.ProviderTable, error) {
	p, ok := f.providers[appBlockID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (f *fakeProviderSource) RegistryEntryByAppBlockID(
	_ context.Context,
	appBlockID uuid.UUID,
) (*tables.RegistryEntryTable, error) {
	e, ok := f.entries[appBlockID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return e, nil
}

func (f *fakeProviderSource) ProviderScopes(
	_ context.Context,
	providerID uuid.UUID,
) ([]*db.ScopeInfo, error) {
	return f.scopes[providerID], nil
}

func seededSource(status string) (*fakeProviderSource, uuid.UUID) {
	blockID := uuid.New()
	providerID := uuid.New()
	description := "Reads the event stream"
	return &fakeProviderSource{
		providers: map[uuid.UUID]*tables.ProviderTable{
			blockID: {
				ID:                 providerID,
				AppBlockID:         blockID,
				BaseAPIURL:         "https://events.example.com/api",
				APIVersion:         "v1",
				AuthMethods:        []string{"user", "service"},
				Status:             status,
				RateLimitPerMinute: 120,
			},
		},
		entries: map[uuid.UUID]*tables.RegistryEntryTable{
			blockID: {
				AppBlockID:  blockID,
				Slug:        "event-stream",
				DisplayName: "Event Stream",
			},
		},
		scopes: map[uuid.UUID][]*db.ScopeInfo{
			providerID: {
				{ID: uuid.New(), Name: "events.read", Description: &description, IsPublicRead: true},
				{ID: uuid.New(), Name: "events.write"},
			},
		},
	}, blockID
}

func TestBuildManifest(t *testing.T) {
	assert := assert.New(t)
	store, blockID := seededSource("enabled")
	builder := NewManifestBuilder(zaptest.NewLogger(t), store)

	m, err := builder.BuildManifest(context.Background(), blockID)
	assert.Nil(err)
	assert.Equal("event-stream", m.Slug)
	assert.Equal("Event Stream", m.DisplayName)
	assert.Equal("https://events.example.com/api", m.BaseAPIURL)
	assert.Equal("v1", m.APIVersion)
	assert.Equal([]string{"user", "service"}, m.AuthMethods)
	assert.Equal(120, m.RateLimitPerMinute)
	if assert.Len(m.Scopes, 2) {
		assert.Equal("events.read", m.Scopes[0].Name)
		assert.True(m.Scopes[0].IsPublicRead)
		assert.Equal("events.write", m.Scopes[1].Name)
	}
}

func TestBuildManifestDisabledProviderIsAbsent(t *testing.T) {
	assert := assert.New(t)
	store, blockID := seededSource("disabled")
	builder := NewManifestBuilder(zaptest.NewLogger(t), store)

	_, err := builder.BuildManifest(context.Background(), blockID)
	assert.ErrorIs(err, ErrNotAProvider)
}

func TestBuildManifestUnknownBlock(t *testing.T) {
	assert := assert.New(t)
	store, _ := seededSource("enabled")
	builder := NewManifestBuilder(zaptest.NewLogger(t), store)

	_, err := builder.BuildManifest(context.Background(), uuid.New())
	assert.ErrorIs(err, ErrNotAProvider)
}

func TestBuildManifestWithoutRegistryEntry(t *testing.T) {
	assert := assert.New(t)
	store, blockID := seededSource("enabled")
	store.entries = map[uuid.UUID]*tables.RegistryEntryTable{}
	builder := NewManifestBuilder(zaptest.NewLogger(t), store)

	_, err := builder.BuildManifest(context.Background(), blockID)
	assert.ErrorIs(err, ErrNotAProvider)
}
