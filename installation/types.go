package installation

import (
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/google/uuid"
)

const (
	// AuthTypeUser marks a grant made under a user session
	AuthTypeUser = "user"
	// AuthTypeService marks a grant made for machine to machine use
	AuthTypeService = "service"
)

const (
	// StatusPending awaits approval by the provider owner
	StatusPending = "pending"
	// StatusActive is a usable grant
	StatusActive = "active"
	// StatusRevoked is terminal, only a fresh install reactivates
	StatusRevoked = "revoked"
	// StatusExpired marks a grant past its provider imposed lifetime
	StatusExpired = "expired"
	// StatusError marks a grant in an unusable state
	StatusError = "error"
)

// Installation is the persisted record of a capability grant between
// a consumer and a provider or connector
type Installation struct {
	id            uuid.UUID
	kind          db.InstallationKind
	consumerID    uuid.UUID
	providerID    uuid.UUID
	grantedScopes []string
	authType      string
	status        string
	approvedAt    *time.Time
	lastUsedAt    *time.Time
	createdAt     time.Time
}

func (i *Installation) ID() uuid.UUID {
	return i.id
}

// Kind tells which of the two ledgers holds this grant
func (i *Installation) Kind() db.InstallationKind {
	return i.kind
}

func (i *Installation) ConsumerID() uuid.UUID {
	return i.consumerID
}

func (i *Installation) ProviderID() uuid.UUID {
	return i.providerID
}

// GrantedScopes is the scope set captured at grant time
func (i *Installation) GrantedScopes() []string {
	return i.grantedScopes
}

func (i *Installation) AuthType() string {
	return i.authType
}

func (i *Installation) Status() string {
	return i.status
}

func (i *Installation) ApprovedAt() *time.Time {
	return i.approvedAt
}

func (i *Installation) LastUsedAt() *time.Time {
	return i.lastUsedAt
}

func (i *Installation) CreatedAt() time.Time {
	return i.createdAt
}

func (i *Installation) IsActive() bool {
	return i.status == StatusActive
}

func (i *Installation) IsPending() bool {
	return i.status == StatusPending
}

func fromRow(kind db.InstallationKind, row *db.InstallationRow) *Installation {
	return &Installation{
		id:            row.ID,
		kind:          kind,
		consumerID:    row.ConsumerID,
		providerID:    row.ProviderID,
		grantedScopes: row.GrantedScopes,
		authType:      row.AuthType,
		status:        row.Status,
		approvedAt:    row.ApprovedAt,
		lastUsedAt:    row.LastUsedAt,
		createdAt:     row.CreatedAt,
	}
}
