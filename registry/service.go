package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound indicates the requested scope owner could not be found
var ErrNotFound = errors.New("requested entity not found")

// InvalidScopesError carries the exact names that are not declared by
// the owner, a consumer can correct its request and retry
type InvalidScopesError struct {
	Missing []string
}

func (e *InvalidScopesError) Error() string {
	return fmt.Sprintf("unknown scopes requested: %s", strings.Join(e.Missing, ", "))
}

// ScopeSource supplies the declared scope vocabulary from the store
type ScopeSource interface {
	ProviderByAppBlockID(ctx context.Context, appBlockID uuid.UUID) (*tables.ProviderTable, error)
	ProviderScopes(ctx context.Context, providerID uuid.UUID) ([]*db.ScopeInfo, error)
	ConnectorByID(ctx context.Context, id uuid.UUID) (*tables.ConnectorTable, error)
	ConnectorScopes(ctx context.Context, connectorID uuid.UUID) ([]*db.ScopeInfo, error)
}

// Service is the scope registry, the read-only vocabulary of
// capability names each connector and provider exposes
type Service struct {
	log   *zap.Logger
	store ScopeSource
}

func NewScopeRegistry(log *zap.Logger, store ScopeSource) *Service {
	return &Service{
		log:   log,
		store: store,
	}
}

func (s *Service) declared(
	ctx context.Context,
	owner OwnerKind,
	ownerID uuid.UUID,
) ([]*db.ScopeInfo, error) {
	switch owner {
	case ConnectorOwner:
		connector, err := s.store.ConnectorByID(ctx, ownerID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return s.store.ConnectorScopes(ctx, connector.ID)
	case ProviderOwner:
		provider, err := s.store.ProviderByAppBlockID(ctx, ownerID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return s.store.ProviderScopes(ctx, provider.ID)
	}
	return nil, ErrNotFound
}

// ListScopes returns the scopes the owner currently declares
func (s *Service) ListScopes(
	ctx context.Context,
	owner OwnerKind,
	ownerID uuid.UUID,
) ([]Scope, error) {
	infos, err := s.declared(ctx, owner, ownerID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("could not list declared scopes", zap.Error(err))
		}
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
	return scopes, nil
}

// ValidateRequestedScopes checks every requested name against the
// owners declared vocabulary. One unknown name fails the whole
// request, partial grants are never silently dropped.
func (s *Service) ValidateRequestedScopes(
	ctx context.Context,
	owner OwnerKind,
	ownerID uuid.UUID,
	requested []string,
) error {
	infos, err := s.declared(ctx, owner, ownerID)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		known[info.Name] = struct{}{}
	}
	missing := make([]string, 0)
	for _, name := range requested {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &InvalidScopesError{Missing: missing}
	}
	return nil
}
