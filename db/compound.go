package db

import (
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/google/uuid"
)

// InstallationKind selects one of the two isomorphic installation ledgers
type InstallationKind string

const (
	// ConnectorInstallations is the ledger of app block to platform connector grants
	ConnectorInstallations InstallationKind = "connector"
	// AppBlockInstallations is the ledger of app block to app block grants
	AppBlockInstallations InstallationKind = "app_block"
)

// InstallationRow is the normalized shape of a row from either
// installation ledger; consumer and provider reference an app block
// or a connector depending on the kind
type InstallationRow struct {
	ID            uuid.UUID          `db:"id"`
	ConsumerID    uuid.UUID          `db:"consumer_id"`
	ProviderID    uuid.UUID          `db:"provider_id"`
	GrantedScopes tables.StringSlice `db:"granted_scopes"`
	AuthType      string             `db:"auth_type"`
	Status        string             `db:"status"`
	ApprovedAt    *time.Time         `db:"approved_at"`
	LastUsedAt    *time.Time         `db:"last_used_at"`
	CreatedAt     time.Time          `db:"created_at"`
	UpdatedAt     *time.Time         `db:"updated_at"`
}

// ScopeInfo is the read-side projection of a declared scope
type ScopeInfo struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Description  *string   `db:"description"`
	IsPublicRead bool      `db:"is_public_read"`
	RequiredRole *string   `db:"required_role"`
}

// ListOptions carries pagination settings for listing queries
type ListOptions struct {
	PageSize int
	Page     int
}
