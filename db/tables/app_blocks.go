package tables

import (
	"time"

	"github.com/google/uuid"
)

// AppBlockTable represents the app_blocks table
type AppBlockTable struct {
	ID          uuid.UUID  `db:"id,omitempty"`
	Name        string     `db:"name"`
	OwnerUserID uuid.UUID  `db:"owner_user_id"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// RegistryEntryTable represents the app_block_registry table,
// the public listing that carries the install policy flags
type RegistryEntryTable struct {
	ID               uuid.UUID  `db:"id,omitempty"`
	AppBlockID       uuid.UUID  `db:"app_block_id"`
	Slug             string     `db:"slug"`
	DisplayName      string     `db:"display_name"`
	Description      *string    `db:"description"`
	Category         string     `db:"category"`
	Visibility       string     `db:"visibility"`
	Installable      bool       `db:"installable"`
	RequiresApproval bool       `db:"requires_approval"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
}

// ProviderTable represents the app_block_providers table
type ProviderTable struct {
	ID                 uuid.UUID   `db:"id,omitempty"`
	AppBlockID         uuid.UUID   `db:"app_block_id"`
	BaseAPIURL         string      `db:"base_api_url"`
	APIVersion         string      `db:"api_version"`
	AuthMethods        StringSlice `db:"auth_methods"`
	Status             string      `db:"status"`
	RateLimitPerMinute int         `db:"rate_limit_per_minute"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          *time.Time  `db:"updated_at"`
}
