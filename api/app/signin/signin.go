package signin

import (
	"errors"
	"net/http"

	"github.com/buidl-renaissance/renaissance-create-app-block/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// SigninRessource hands sessions from one surface to another, an
// authenticated user mints a short lived one time code and whoever
// redeems it gets a session token for the same user
type SigninRessource struct {
	logger   *zap.Logger
	codes    *session.CodeStore
	resolver *session.Resolver
}

func NewSigninRessource(
	logger *zap.Logger,
	codes *session.CodeStore,
	resolver *session.Resolver,
) *SigninRessource {
	return &SigninRessource{
		logger:   logger,
		codes:    codes,
		resolver: resolver,
	}
}

func (s *SigninRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Post("/redeem", s.redeem)

	r.Group(func(gr chi.Router) {
		gr.Use(jwtauth.Authenticator)
		gr.Post("/code", s.code)
	})

	return r
}

func (s *SigninRessource) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		s.logger.Error("unable to render response", zap.Error(err))
	}
}

func (s *SigninRessource) code(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolver.ResolveSubject(r.Context())
	if err != nil {
		s.respond(w, r, &errorResponse{Error: "no_session", StatusCode: http.StatusUnauthorized})
		return
	}
	code := s.codes.Start(userID)
	s.respond(w, r, &codeResponse{
		Code:      code,
		ExpiresIn: int(s.codes.Expiry().Seconds()),
	})
}

func (s *SigninRessource) redeem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respond(w, r, &errorResponse{Error: "invalid_request", StatusCode: http.StatusBadRequest})
		return
	}
	userID, err := s.codes.Redeem(r.FormValue("code"))
	if err != nil {
		if errors.Is(err, session.ErrCodeInvalid) {
			s.respond(w, r, &errorResponse{Error: "invalid_code", StatusCode: http.StatusUnauthorized})
			return
		}
		s.logger.Error("could not redeem signin code", zap.Error(err))
		s.respond(w, r, &errorResponse{Error: "internal_server_error", StatusCode: http.StatusInternalServerError})
		return
	}
	token, err := s.resolver.IssueSession(userID)
	if err != nil {
		s.respond(w, r, &errorResponse{Error: "internal_server_error", StatusCode: http.StatusInternalServerError})
		return
	}
	s.respond(w, r, &sessionResponse{
		SessionToken: token,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.resolver.Expiry().Seconds()),
	})
}
