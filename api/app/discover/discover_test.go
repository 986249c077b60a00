package discover

import (
	"context"
	"net/http"
	"testing"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/manifest"
	"github.com/google/uuid"
	"github.com/steinfletcher/apitest"
	"go.uber.org/zap"
)

type fakeProviderSource struct {
	provider *tables.ProviderTable
	entry    *tables.RegistryEntryTable
	scopes   []*db.ScopeInfo
}

func (f *fakeProviderSource) ProviderByAppBlockID(
	_ context.Context,
	appBlockID uuid.UUID,
) (*tables.ProviderTable, error) {
	if f.provider == nil || f.provider.AppBlockID != appBlockID {
		return nil, db.ErrNotFound
	}
	return f.provider, nil
}

func (f *fakeProviderSource) RegistryEntryByAppBlockID(
	_ context.Context,
	appBlockID uuid.UUID,
) (*tables.RegistryEntryTable, error) {
	if f.entry == nil || f.entry.AppBlockID != appBlockID {
		return nil, db.ErrNotFound
	}
	return f.entry, nil
}

func (f *fakeProviderSource) ProviderScopes(
	_ context.Context,
	_ uuid.UUID,
) ([]*db.ScopeInfo, error) {
	return f.scopes, nil
}

func testSource(status string) (*fakeProviderSource, uuid.UUID) {
	blockID := uuid.MustParse("b7a7f3a0-0000-4000-8000-000000000001")
	return &fakeProviderSource{
		provider: &tables.ProviderTable{
			ID:                 uuid.New(),
			AppBlockID:         blockID,
			BaseAPIURL:         "https://events.example.com/api",
			APIVersion:         "v1",
			AuthMethods:        []string{"user", "service"},
			Status:             status,
			RateLimitPerMinute: 120,
		},
		entry: &tables.RegistryEntryTable{
			AppBlockID:  blockID,
			Slug:        "event-stream",
			DisplayName: "Event Stream",
		},
		scopes: []*db.ScopeInfo{
			{ID: uuid.New(), Name: "events.read", IsPublicRead: true},
		},
	}, blockID
}

func TestManifestEndpoint(t *testing.T) {
	store, blockID := testSource("enabled")
	builder := manifest.NewManifestBuilder(zap.NewNop(), store)
	d := NewDiscoverRessource(zap.NewNop(), builder)
	apitest.New().
		Handler(d.Router()).
		Get("/" + blockID.String() + "/manifest").
		Expect(t).
		Body(`{"slug":"event-stream","display_name":"Event Stream","base_api_url":"https://events.example.com/api","api_version":"v1","auth_methods":["user","service"],"rate_limit_per_minute":120,"scopes":[{"name":"events.read","is_public_read":true}]}`).
		Status(http.StatusOK).
		End()
}

func TestManifestEndpointDisabledProvider(t *testing.T) {
	store, blockID := testSource("disabled")
	builder := manifest.NewManifestBuilder(zap.NewNop(), store)
	d := NewDiscoverRessource(zap.NewNop(), builder)
	apitest.New().
		Handler(d.Router()).
		Get("/" + blockID.String() + "/manifest").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestManifestEndpointUnknownBlock(t *testing.T) {
	store, _ := testSource("enabled")
	builder := manifest.NewManifestBuilder(zap.NewNop(), store)
	d := NewDiscoverRessource(zap.NewNop(), builder)
	apitest.New().
		Handler(d.Router()).
		Get("/" + uuid.NewString() + "/manifest").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestManifestEndpointMalformedID(t *testing.T) {
	store, _ := testSource("enabled")
	builder := manifest.NewManifestBuilder(zap.NewNop(), store)
	d := NewDiscoverRessource(zap.NewNop(), builder)
	apitest.New().
		Handler(d.Router()).
		Get("/not-a-uuid/manifest").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}
