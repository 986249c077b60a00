package manifest

import (
	"context"
	"errors"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotAProvider covers app blocks that never published a provider
// surface and providers that are currently disabled. Disabled means
// absent to the outside, a manifest never carries a disabled flag.
var ErrNotAProvider = errors.New("no provider manifest available")

// Scope is one publicly discoverable capability
type Scope struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	IsPublicRead bool    `json:"is_public_read"`
	RequiredRole *string `json:"required_role,omitempty"`
}

// Manifest is the public, unauthenticated discovery document of a
// provider
type Manifest struct {
	Slug               string   `json:"slug"`
	DisplayName        string   `json:"display_name"`
	Description        *string  `json:"description,omitempty"`
	BaseAPIURL         string   `json:"base_api_url"`
	APIVersion         string   `json:"api_version"`
	AuthMethods        []string `json:"auth_methods"`
	RateLimitPerMinute int      `json:"rate_limit_per_minute"`
	Scopes             []Scope  `json:"scopes"`
}

// ProviderSource aggregates the read side a manifest is built from
type ProviderSource interface {
	ProviderByAppBlockID(ctx context.Context, appBlockID uuid.UUID) (*tables.ProviderTable, error)
	RegistryEntryByAppBlockID(ctx context.Context, appBlockID uuid.UUID) (*tables.RegistryEntryTable, error)
	ProviderScopes(ctx context.Context, providerID uuid.UUID) ([]*db.ScopeInfo, error)
}

// Builder assembles provider manifests for consumer discovery
type Builder struct {
	log   *zap.Logger
	store ProviderSource
}

func NewManifestBuilder(log *zap.Logger, store ProviderSource) *Builder {
	return &Builder{
		log:   log,
		store: store,
	}
}

// BuildManifest aggregates the provider record, its registry entry and
// its declared scopes into the discovery document
func (b *Builder) BuildManifest(
	ctx context.Context,
	providerOwnerID uuid.UUID,
) (*Manifest, error) {
	provider, err := b.store.ProviderByAppBlockID(ctx, providerOwnerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotAProvider
		}
		b.log.Error("could not fetch provider", zap.Error(err))
		return nil, err
	}
	if provider.Status != "enabled" {
		return nil, ErrNotAProvider
	}
	entry, err := b.store.RegistryEntryByAppBlockID(ctx, providerOwnerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotAProvider
		}
		b.log.Error("could not fetch registry entry", zap.Error(err))
		return nil, err
	}
	infos, err := b.store.ProviderScopes(ctx, provider.ID)
	if err != nil {
		b.log.Error("could not fetch provider scopes", zap.Error(err))
		return nil, err
	}
	scopes := make([]Scope, 0, len(infos))
	for _, info := range infos {
		scopes = append(scopes, Scope{
			Name:         info.Name,
			Description:  info.Description,
			IsPublicRead: info.IsPublicRead,
			RequiredRole: info.RequiredRole,
		})
	}
	return &Manifest{
		Slug:               entry.Slug,
		DisplayName:        entry.DisplayName,
		Description:        entry.Description,
		BaseAPIURL:         provider.BaseAPIURL,
		APIVersion:         provider.APIVersion,
		AuthMethods:        provider.AuthMethods,
		RateLimitPerMinute: provider.RateLimitPerMinute,
		Scopes:             scopes,
	}, nil
}
