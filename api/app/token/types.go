package token

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// token exchange responses lean on the rfc 6749 access token response
// shape so clients can reuse standard tooling

type accessTokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	Scope       []string `json:"scope"`
}

func (*accessTokenResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

type validateResponse struct {
	Valid       bool       `json:"valid"`
	SubjectType string     `json:"subject_type,omitempty"`
	SubjectID   *uuid.UUID `json:"subject_id,omitempty"`
	Scopes      []string   `json:"scopes,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (*validateResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

type revokeResponse struct {
	Revoked bool `json:"revoked"`
}

func (*revokeResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

type tokenError string

const stdInvalidRequest tokenError = "invalid_request"
const stdInvalidClient tokenError = "invalid_client"
const stdUnauthorizedClient tokenError = "unauthorized_client"
const stdUnsupportedGrantType tokenError = "unsupported_grant_type"
const stdInvalidScope tokenError = "invalid_scope"
const stdInternalServerError tokenError = "server_error"

type stdErrorResponse struct {
	Error            tokenError `json:"error,omitempty"`
	ErrorDescription string     `json:"error_description,omitempty"`
	StatusCode       int        `json:"-"`
}

func (e *stdErrorResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func createStdError(err tokenError, status int, description string) *stdErrorResponse {
	return &stdErrorResponse{
		Error:            err,
		ErrorDescription: description,
		StatusCode:       status,
	}
}
