package event

import (
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/google/uuid"
)

const (
	InstallationGrantedEvent  events.EventName = "installation_granted"
	InstallationUpdatedEvent  events.EventName = "installation_updated"
	InstallationApprovedEvent events.EventName = "installation_approved"
	InstallationRevokedEvent  events.EventName = "installation_revoked"
	InstallationDeletedEvent  events.EventName = "installation_deleted"

	TokenIssuedEvent  events.EventName = "token_issued"
	TokenRevokedEvent events.EventName = "token_revoked"

	ServiceAccountCreatedEvent events.EventName = "service_account_created"
	ServiceAccountRotatedEvent events.EventName = "service_account_rotated"

	ProviderScopeAddedEvent   events.EventName = "provider_scope_added"
	ProviderScopeRemovedEvent events.EventName = "provider_scope_removed"

	ExpiredTokensPurgedEvent events.EventName = "expired_tokens_purged"
)

// InstallationKind distinguishes the two isomorphic ledger variants
type InstallationKind string

const (
	ConnectorInstallationKind InstallationKind = "connector"
	AppBlockInstallationKind  InstallationKind = "app_block"
)

type InstallationGranted struct {
	InstallationID uuid.UUID
	Kind           InstallationKind
	ConsumerID     uuid.UUID
	ProviderID     uuid.UUID
	Scopes         []string
	AuthType       string
	Pending        bool
}

func (*InstallationGranted) Name() events.EventName { return InstallationGrantedEvent }

type InstallationUpdated struct {
	InstallationID uuid.UUID
	Kind           InstallationKind
	ConsumerID     uuid.UUID
	ProviderID     uuid.UUID
	Scopes         []string
	AuthType       string
	// WasRevoked indicates a re-consent over a revoked grant
	WasRevoked bool
}

func (*InstallationUpdated) Name() events.EventName { return InstallationUpdatedEvent }

type InstallationApproved struct {
	InstallationID uuid.UUID
	Kind           InstallationKind
	ApprovedAt     time.Time
}

func (*InstallationApproved) Name() events.EventName { return InstallationApprovedEvent }

type InstallationRevoked struct {
	InstallationID uuid.UUID
	Kind           InstallationKind
}

func (*InstallationRevoked) Name() events.EventName { return InstallationRevokedEvent }

type InstallationDeleted struct {
	InstallationID uuid.UUID
	Kind           InstallationKind
}

func (*InstallationDeleted) Name() events.EventName { return InstallationDeletedEvent }

type TokenIssued struct {
	TokenID     uuid.UUID
	SubjectType string
	SubjectID   uuid.UUID
	AppBlockID  uuid.UUID
	Scopes      []string
	ExpiresAt   time.Time
}

func (*TokenIssued) Name() events.EventName { return TokenIssuedEvent }

type TokenRevoked struct {
	TokenID uuid.UUID
}

func (*TokenRevoked) Name() events.EventName { return TokenRevokedEvent }

type ServiceAccountCreated struct {
	ServiceAccountID uuid.UUID
	AppBlockID       uuid.UUID
}

func (*ServiceAccountCreated) Name() events.EventName { return ServiceAccountCreatedEvent }

type ServiceAccountRotated struct {
	ServiceAccountID uuid.UUID
	AppBlockID       uuid.UUID
	RotatedAt        time.Time
}

func (*ServiceAccountRotated) Name() events.EventName { return ServiceAccountRotatedEvent }

type ProviderScopeAdded struct {
	ScopeID uuid.UUID
	OwnerID uuid.UUID
	Scope   string
}

func (*ProviderScopeAdded) Name() events.EventName { return ProviderScopeAddedEvent }

type ProviderScopeRemoved struct {
	ScopeID uuid.UUID
	OwnerID uuid.UUID
	Scope   string
}

func (*ProviderScopeRemoved) Name() events.EventName { return ProviderScopeRemovedEvent }

type ExpiredTokensPurged struct {
	Affected int
}

func (*ExpiredTokensPurged) Name() events.EventName { return ExpiredTokensPurgedEvent }
