package tokens

import (
	"time"

	"github.com/google/uuid"
)

const (
	// GrantUserSession exchanges an authenticated user session
	GrantUserSession = "user_session"
	// GrantServiceAccount exchanges a validated service account key
	GrantServiceAccount = "service_account"
)

const (
	// SubjectUser marks a token held on behalf of a user
	SubjectUser = "user"
	// SubjectService marks a machine to machine token
	SubjectService = "service"
)

// ActiveToken is a freshly minted access token, the opaque value is
// handed out exactly once
type ActiveToken struct {
	id          uuid.UUID
	token       string
	subjectType string
	subjectID   uuid.UUID
	appBlockID  uuid.UUID
	scopes      []string
	expiresAt   time.Time
}

func (t *ActiveToken) ID() uuid.UUID {
	return t.id
}

// Token is the opaque bearer value
func (t *ActiveToken) Token() string {
	return t.token
}

func (t *ActiveToken) SubjectType() string {
	return t.subjectType
}

func (t *ActiveToken) SubjectID() uuid.UUID {
	return t.subjectID
}

func (t *ActiveToken) AppBlockID() uuid.UUID {
	return t.appBlockID
}

func (t *ActiveToken) Scopes() []string {
	return t.scopes
}

func (t *ActiveToken) ExpiresAt() time.Time {
	return t.expiresAt
}

// ExpiresIn is the remaining lifetime in whole seconds
func (t *ActiveToken) ExpiresIn() int {
	return int(time.Until(t.expiresAt).Seconds())
}

// Validated is the result of a successful token validation
type Validated struct {
	subjectType string
	subjectID   uuid.UUID
	appBlockID  *uuid.UUID
	scopes      []string
	expiresAt   time.Time
}

func (v *Validated) SubjectType() string {
	return v.subjectType
}

func (v *Validated) SubjectID() uuid.UUID {
	return v.subjectID
}

func (v *Validated) AppBlockID() *uuid.UUID {
	return v.appBlockID
}

func (v *Validated) Scopes() []string {
	return v.scopes
}

func (v *Validated) ExpiresAt() time.Time {
	return v.expiresAt
}

// HasScope checks membership of a single required scope, resource
// servers decide themselves which scope an endpoint demands
func (v *Validated) HasScope(name string) bool {
	for _, scope := range v.scopes {
		if scope == name {
			return true
		}
	}
	return false
}
