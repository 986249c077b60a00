package manage

import (
	"time"

	"github.com/google/uuid"
)

// AppBlockDTO is the listing shape of an app block
type AppBlockDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConnectorDTO is the listing shape of a connector
type ConnectorDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
}
