package tables

import (
	"time"

	"github.com/google/uuid"
)

// ConnectorInstallationTable represents the connector_installations table.
// One row per (app_block_id, connector_id) pair, enforced by a unique index.
type ConnectorInstallationTable struct {
	ID            uuid.UUID   `db:"id,omitempty"`
	AppBlockID    uuid.UUID   `db:"app_block_id"`
	ConnectorID   uuid.UUID   `db:"connector_id"`
	GrantedScopes StringSlice `db:"granted_scopes"`
	AuthType      string      `db:"auth_type"`
	Status        string      `db:"status"`
	ApprovedAt    *time.Time  `db:"approved_at"`
	LastUsedAt    *time.Time  `db:"last_used_at"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     *time.Time  `db:"updated_at"`
}

// AppBlockInstallationTable represents the app_block_installations table.
// One row per (consumer_app_block_id, provider_app_block_id) pair,
// enforced by a unique index.
type AppBlockInstallationTable struct {
	ID                  uuid.UUID   `db:"id,omitempty"`
	ConsumerAppBlockID  uuid.UUID   `db:"consumer_app_block_id"`
	ProviderAppBlockID  uuid.UUID   `db:"provider_app_block_id"`
	GrantedScopes       StringSlice `db:"granted_scopes"`
	AuthType            string      `db:"auth_type"`
	Status              string      `db:"status"`
	ApprovedAt          *time.Time  `db:"approved_at"`
	LastUsedAt          *time.Time  `db:"last_used_at"`
	CreatedAt           time.Time   `db:"created_at"`
	UpdatedAt           *time.Time  `db:"updated_at"`
}
