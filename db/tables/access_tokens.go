package tables

import (
	"time"

	"github.com/google/uuid"
)

// AccessTokenTable represents the access_tokens table.
// Rows are immutable after insert, expiry and scopes never change.
type AccessTokenTable struct {
	ID          uuid.UUID   `db:"id,omitempty"`
	Token       string      `db:"token"`
	SubjectType string      `db:"subject_type"`
	SubjectID   uuid.UUID   `db:"subject_id"`
	AppBlockID  *uuid.UUID  `db:"app_block_id"`
	Scopes      StringSlice `db:"scopes"`
	ExpiresAt   time.Time   `db:"expires_at"`
	CreatedAt   time.Time   `db:"created_at"`
}
