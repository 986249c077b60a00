package serviceaccount

import (
	"time"

	"github.com/google/uuid"
)

// ServiceAccount is the machine credential bound one-to-one to an app
// block, the api key itself is only ever held as a digest
type ServiceAccount struct {
	id            uuid.UUID
	appBlockID    uuid.UUID
	lastRotatedAt *time.Time
	createdAt     time.Time
}

// ID of the service account
func (s *ServiceAccount) ID() uuid.UUID {
	return s.id
}

// AppBlockID is the owning app block
func (s *ServiceAccount) AppBlockID() uuid.UUID {
	return s.appBlockID
}

// LastRotatedAt is the time of the last key rotation, nil if the
// initial key is still in place
func (s *ServiceAccount) LastRotatedAt() *time.Time {
	return s.lastRotatedAt
}

// CreatedAt is the creation timestamp
func (s *ServiceAccount) CreatedAt() time.Time {
	return s.createdAt
}
