package installation

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/buidl-renaissance/renaissance-create-app-block/events/event"
	"github.com/buidl-renaissance/renaissance-create-app-block/registry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates the installation could not be found
	ErrNotFound = errors.New("installation not found")
	// ErrSelfInstall indicates consumer and provider are the same entity
	ErrSelfInstall = errors.New("an app block cannot install itself")
	// ErrInvalidAuthType indicates an unknown authentication mode
	ErrInvalidAuthType = errors.New("auth type must be user or service")
	// ErrNotInstallable indicates the provider does not accept installs
	ErrNotInstallable = errors.New("provider is not installable")
	// ErrRevokedPair indicates the pair holds a revoked grant and the
	// reactivation policy forbids re-consent
	ErrRevokedPair = errors.New("installation for this pair has been revoked")
	// ErrNotPending indicates an approval on a grant that is not pending
	ErrNotPending = errors.New("installation is not awaiting approval")
)

// LedgerStore is the persistence surface shared by both ledgers
type LedgerStore interface {
	UpsertInstallation(ctx context.Context, kind db.InstallationKind, consumerID uuid.UUID, providerID uuid.UUID, scopes []string, authType string, newStatus string, reactivateRevoked bool) (*db.InstallationRow, bool, error)
	InstallationByID(ctx context.Context, kind db.InstallationKind, id uuid.UUID) (*db.InstallationRow, error)
	InstallationByPair(ctx context.Context, kind db.InstallationKind, consumerID uuid.UUID, providerID uuid.UUID) (*db.InstallationRow, error)
	InstallationsByConsumer(ctx context.Context, kind db.InstallationKind, consumerID uuid.UUID) ([]*db.InstallationRow, error)
	InstallationsByProvider(ctx context.Context, kind db.InstallationKind, providerID uuid.UUID) ([]*db.InstallationRow, error)
	ActiveInstallationsByConsumer(ctx context.Context, kind db.InstallationKind, consumerID uuid.UUID) ([]*db.InstallationRow, error)
	SetInstallationStatus(ctx context.Context, kind db.InstallationKind, id uuid.UUID, status string) error
	TouchInstallationUsage(ctx context.Context, kind db.InstallationKind, id uuid.UUID) error
	DeleteInstallation(ctx context.Context, kind db.InstallationKind, id uuid.UUID) error
}

// ScopeValidator rejects requests naming scopes the owner never declared
type ScopeValidator interface {
	ValidateRequestedScopes(ctx context.Context, owner registry.OwnerKind, ownerID uuid.UUID, requested []string) error
}

// InstallTargetSource supplies the install policy of the provider side
type InstallTargetSource interface {
	RegistryEntryByAppBlockID(ctx context.Context, appBlockID uuid.UUID) (*tables.RegistryEntryTable, error)
	ConnectorByID(ctx context.Context, id uuid.UUID) (*tables.ConnectorTable, error)
}

// Service is the installation ledger. It records capability grants
// per (consumer, provider) pair across the two isomorphic variants
// and drives their status lifecycle.
type Service struct {
	log        *zap.Logger
	store      LedgerStore
	scopes     ScopeValidator
	targets    InstallTargetSource
	dispatcher *events.Dispatcher

	// reactivateRevoked treats a fresh install over a revoked grant as
	// explicit re-consent; switched off, the revocation sticks
	reactivateRevoked bool
}

func NewInstallationService(
	log *zap.Logger,
	store LedgerStore,
	scopes ScopeValidator,
	targets InstallTargetSource,
	dispatcher *events.Dispatcher,
	reactivateRevoked bool,
) *Service {
	return &Service{
		log:               log,
		store:             store,
		scopes:            scopes,
		targets:           targets,
		dispatcher:        dispatcher,
		reactivateRevoked: reactivateRevoked,
	}
}

func ownerKind(kind db.InstallationKind) registry.OwnerKind {
	if kind == db.ConnectorInstallations {
		return registry.ConnectorOwner
	}
	return registry.ProviderOwner
}

// requiresApproval reads the install policy from the provider side,
// connectors never gate installs behind approval
func (s *Service) requiresApproval(
	ctx context.Context,
	kind db.InstallationKind,
	providerID uuid.UUID,
) (bool, error) {
	if kind == db.ConnectorInstallations {
		connector, err := s.targets.ConnectorByID(ctx, providerID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return false, ErrNotFound
			}
			return false, err
		}
		if !connector.IsActive {
			return false, ErrNotInstallable
		}
		return false, nil
	}
	entry, err := s.targets.RegistryEntryByAppBlockID(ctx, providerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, ErrNotInstallable
		}
		return false, err
	}
	if !entry.Installable {
		return false, ErrNotInstallable
	}
	return entry.RequiresApproval, nil
}

// Install grants the requested scopes to the consumer. An existing
// grant for the pair is updated in place and forced back to active,
// a fresh grant starts pending when the provider requires approval.
func (s *Service) Install(
	ctx context.Context,
	kind db.InstallationKind,
	consumerID uuid.UUID,
	providerID uuid.UUID,
	requestedScopes []string,
	authType string,
) (*Installation, error) {
	if consumerID == providerID {
		return nil, ErrSelfInstall
	}
	if authType != AuthTypeUser && authType != AuthTypeService {
		return nil, ErrInvalidAuthType
	}

	existing, err := s.store.InstallationByPair(ctx, kind, consumerID, providerID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		s.log.Error("could not look up installation pair", zap.Error(err))
		return nil, err
	}

	newStatus := StatusActive
	if existing == nil {
		// first grant for this pair, the request has to name declared
		// scopes and honor the providers approval requirement
		if err := s.scopes.ValidateRequestedScopes(ctx, ownerKind(kind), providerID, requestedScopes); err != nil {
			return nil, err
		}
		approval, err := s.requiresApproval(ctx, kind, providerID)
		if err != nil {
			return nil, err
		}
		if approval {
			newStatus = StatusPending
		}
	}

	row, updated, err := s.store.UpsertInstallation(
		ctx, kind, consumerID, providerID,
		requestedScopes, authType, newStatus, s.reactivateRevoked,
	)
	if err != nil {
		if errors.Is(err, db.ErrRevokedPair) {
			return nil, ErrRevokedPair
		}
		s.log.Error("could not upsert installation", zap.Error(err))
		return nil, err
	}

	if updated {
		s.dispatcher.Dispatch(ctx, &event.InstallationUpdated{
			InstallationID: row.ID,
			Kind:           event.InstallationKind(kind),
			ConsumerID:     consumerID,
			ProviderID:     providerID,
			Scopes:         requestedScopes,
			AuthType:       authType,
			WasRevoked:     existing != nil && existing.Status == StatusRevoked,
		})
	} else {
		s.dispatcher.Dispatch(ctx, &event.InstallationGranted{
			InstallationID: row.ID,
			Kind:           event.InstallationKind(kind),
			ConsumerID:     consumerID,
			ProviderID:     providerID,
			Scopes:         requestedScopes,
			AuthType:       authType,
			Pending:        row.Status == StatusPending,
		})
	}
	return fromRow(kind, row), nil
}

// ByID fetches a single installation
func (s *Service) ByID(
	ctx context.Context,
	kind db.InstallationKind,
	id uuid.UUID,
) (*Installation, error) {
	row, err := s.store.InstallationByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromRow(kind, row), nil
}

// Approve transitions a pending grant to active. Ownership of the
// provider side is checked at the boundary before this is called.
func (s *Service) Approve(
	ctx context.Context,
	kind db.InstallationKind,
	id uuid.UUID,
) (*Installation, error) {
	row, err := s.store.InstallationByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if row.Status != StatusPending {
		return nil, ErrNotPending
	}
	if err := s.store.SetInstallationStatus(ctx, kind, id, StatusActive); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("could not approve installation", zap.Error(err))
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, &event.InstallationApproved{
		InstallationID: id,
		Kind:           event.InstallationKind(kind),
		ApprovedAt:     time.Now().UTC(),
	})
	return s.ByID(ctx, kind, id)
}

// Revoke transitions the grant to revoked from any state. The grant
// only becomes active again via a fresh Install call, never through an
// internal un-revoke. Tokens already issued under it stay valid until
// their own expiry.
func (s *Service) Revoke(
	ctx context.Context,
	kind db.InstallationKind,
	id uuid.UUID,
) (*Installation, error) {
	if _, err := s.store.InstallationByID(ctx, kind, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.store.SetInstallationStatus(ctx, kind, id, StatusRevoked); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("could not revoke installation", zap.Error(err))
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, &event.InstallationRevoked{
		InstallationID: id,
		Kind:           event.InstallationKind(kind),
	})
	return s.ByID(ctx, kind, id)
}

// Delete removes the grant entirely on explicit consumer request,
// distinct from revocation
func (s *Service) Delete(
	ctx context.Context,
	kind db.InstallationKind,
	id uuid.UUID,
) error {
	err := s.store.DeleteInstallation(ctx, kind, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("could not delete installation", zap.Error(err))
		return err
	}
	s.dispatcher.Dispatch(ctx, &event.InstallationDeleted{
		InstallationID: id,
		Kind:           event.InstallationKind(kind),
	})
	return nil
}

// RecordUsage stamps last_used_at, best effort, a failure never aborts
// the calling request
func (s *Service) RecordUsage(
	ctx context.Context,
	kind db.InstallationKind,
	id uuid.UUID,
) {
	if err := s.store.TouchInstallationUsage(ctx, kind, id); err != nil {
		s.log.Warn("could not record installation usage",
			zap.String("installation_id", id.String()),
			zap.Error(err))
	}
}

// ByConsumer lists the grants a consumer holds
func (s *Service) ByConsumer(
	ctx context.Context,
	kind db.InstallationKind,
	consumerID uuid.UUID,
) ([]*Installation, error) {
	rows, err := s.store.InstallationsByConsumer(ctx, kind, consumerID)
	if err != nil {
		return nil, err
	}
	result := make([]*Installation, 0, len(rows))
	for _, row := range rows {
		result = append(result, fromRow(kind, row))
	}
	return result, nil
}

// ByProvider lists the grants made against a provider
func (s *Service) ByProvider(
	ctx context.Context,
	kind db.InstallationKind,
	providerID uuid.UUID,
) ([]*Installation, error) {
	rows, err := s.store.InstallationsByProvider(ctx, kind, providerID)
	if err != nil {
		return nil, err
	}
	result := make([]*Installation, 0, len(rows))
	for _, row := range rows {
		result = append(result, fromRow(kind, row))
	}
	return result, nil
}

// ActiveScopes is the union of granted scopes across the active grants
// of both ledgers held by the consumer, filtered to one auth mode. A
// service authenticated caller never draws from user mode grants and
// vice versa.
func (s *Service) ActiveScopes(
	ctx context.Context,
	consumerID uuid.UUID,
	authType string,
) ([]string, error) {
	union := make(map[string]struct{})
	for _, kind := range []db.InstallationKind{db.ConnectorInstallations, db.AppBlockInstallations} {
		rows, err := s.store.ActiveInstallationsByConsumer(ctx, kind, consumerID)
		if err != nil {
			s.log.Error("could not collect active grants", zap.Error(err))
			return nil, err
		}
		for _, row := range rows {
			if row.AuthType != authType {
				continue
			}
			for _, scope := range row.GrantedScopes {
				union[scope] = struct{}{}
			}
		}
	}
	scopes := make([]string, 0, len(union))
	for scope := range union {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes, nil
}
