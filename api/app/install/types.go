package install

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type installRequest struct {
	Kind       string   `json:"kind"        validate:"required,oneof=connector app_block"`
	ConsumerID string   `json:"consumer_id" validate:"required,uuid4"`
	ProviderID string   `json:"provider_id" validate:"required,uuid4"`
	Scopes     []string `json:"scopes"      validate:"required,min=1"`
	AuthType   string   `json:"auth_type"   validate:"required,oneof=user service"`
}

type installationResponse struct {
	ID            uuid.UUID  `json:"id"`
	Kind          string     `json:"kind"`
	ConsumerID    uuid.UUID  `json:"consumer_id"`
	ProviderID    uuid.UUID  `json:"provider_id"`
	GrantedScopes []string   `json:"granted_scopes"`
	AuthType      string     `json:"auth_type"`
	Status        string     `json:"status"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (*installationResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

type installationListResponse struct {
	Installations []*installationResponse `json:"installations"`
}

func (*installationListResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

type errorResponse struct {
	Error         string   `json:"error"`
	InvalidScopes []string `json:"invalid_scopes,omitempty"`
	StatusCode    int      `json:"-"`
}

func (e *errorResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func createError(code string, status int) *errorResponse {
	return &errorResponse{
		Error:      code,
		StatusCode: status,
	}
}
