package tables

import (
	"time"

	"github.com/google/uuid"
)

// ConnectorTable represents the connectors table
type ConnectorTable struct {
	ID          uuid.UUID `db:"id,omitempty"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}
