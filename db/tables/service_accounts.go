package tables

import (
	"time"

	"github.com/google/uuid"
)

// ServiceAccountTable represents the service_accounts table.
// Exactly one row per app block; only the api key digest is stored.
type ServiceAccountTable struct {
	ID            uuid.UUID  `db:"id,omitempty"`
	AppBlockID    uuid.UUID  `db:"app_block_id"`
	APIKeyHash    string     `db:"api_key_hash"`
	LastRotatedAt *time.Time `db:"last_rotated_at"`
	CreatedAt     time.Time  `db:"created_at"`
}
