package signin

import (
	"net/http"

	"github.com/go-chi/render"
)

type codeResponse struct {
	Code      string `json:"code"`
	ExpiresIn int    `json:"expires_in"`
}

func (*codeResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type sessionResponse struct {
	SessionToken string `json:"session_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

func (*sessionResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type errorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"-"`
}

func (e *errorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}
