package tables

import (
	"time"

	"github.com/google/uuid"
)

// ProviderScopeTable represents the provider_scopes table
type ProviderScopeTable struct {
	ID           uuid.UUID `db:"id,omitempty"`
	ProviderID   uuid.UUID `db:"provider_id"`
	ScopeName    string    `db:"scope_name"`
	Description  *string   `db:"description"`
	IsPublicRead bool      `db:"is_public_read"`
	RequiredRole *string   `db:"required_role"`
	CreatedAt    time.Time `db:"created_at"`
}

// ConnectorScopeTable represents the connector_scopes table
type ConnectorScopeTable struct {
	ID           uuid.UUID `db:"id,omitempty"`
	ConnectorID  uuid.UUID `db:"connector_id"`
	Name         string    `db:"name"`
	Description  *string   `db:"description"`
	RequiredRole *string   `db:"required_role"`
	CreatedAt    time.Time `db:"created_at"`
}
