package token

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/serviceaccount"
	"github.com/buidl-renaissance/renaissance-create-app-block/session"
	"github.com/buidl-renaissance/renaissance-create-app-block/tokens"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	tokensIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "access_tokens_issued_total",
		Help: "Total number of issued access tokens",
	})
	tokenValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "access_token_validations_total",
		Help: "Total number of token validations by outcome",
	}, []string{"valid"})
)

// BlockOwnerSource confirms which user owns an app block, the
// ownership check happens here at the boundary, not in the core
type BlockOwnerSource interface {
	AppBlockByID(ctx context.Context, id uuid.UUID) (*tables.AppBlockTable, error)
}

// TokenRessource exchanges authenticated subjects for access tokens
// and lets resource servers validate and revoke them
type TokenRessource struct {
	logger   *zap.Logger
	issuer   *tokens.Issuer
	verifier *tokens.Verifier
	revoker  *tokens.Revoker
	accounts *serviceaccount.Service
	resolver *session.Resolver
	blocks   BlockOwnerSource
}

func NewTokenRessource(
	logger *zap.Logger,
	issuer *tokens.Issuer,
	verifier *tokens.Verifier,
	revoker *tokens.Revoker,
	accounts *serviceaccount.Service,
	resolver *session.Resolver,
	blocks BlockOwnerSource,
) *TokenRessource {
	return &TokenRessource{
		logger:   logger,
		issuer:   issuer,
		verifier: verifier,
		revoker:  revoker,
		accounts: accounts,
		resolver: resolver,
		blocks:   blocks,
	}
}

func (t *TokenRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Post("/", t.token)
	r.Post("/validate", t.validate)
	r.Post("/revoke", t.revoke)

	return r
}

func (t *TokenRessource) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		t.logger.Error("unable to render response", zap.Error(err))
	}
}

func (t *TokenRessource) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		t.logger.Error("could not parse form on token endpoint", zap.Error(err))
		t.respond(w, r, createStdError(stdInvalidRequest, http.StatusBadRequest, ""))
		return
	}
	grant := r.FormValue("grant_type")
	switch grant {
	case tokens.GrantUserSession:
		t.userSessionGrant(w, r)
	case tokens.GrantServiceAccount:
		t.serviceAccountGrant(w, r)
	default:
		t.respond(w, r, createStdError(stdUnsupportedGrantType, http.StatusBadRequest, ""))
	}
}

func (t *TokenRessource) userSessionGrant(w http.ResponseWriter, r *http.Request) {
	userID, err := t.resolver.ResolveSubject(r.Context())
	if err != nil {
		t.respond(w, r, createStdError(stdInvalidClient, http.StatusUnauthorized, ""))
		return
	}
	appBlockID, err := uuid.Parse(r.FormValue("app_block_id"))
	if err != nil {
		t.respond(
			w, r,
			createStdError(stdInvalidRequest, http.StatusBadRequest, "app_block_id is required"),
		)
		return
	}
	block, err := t.blocks.AppBlockByID(r.Context(), appBlockID)
	if err != nil || block.OwnerUserID != userID {
		// unknown block and foreign block look the same to the caller
		t.respond(w, r, createStdError(stdUnauthorizedClient, http.StatusForbidden, ""))
		return
	}
	t.issue(w, r, tokens.GrantUserSession, userID, appBlockID)
}

func (t *TokenRessource) serviceAccountGrant(w http.ResponseWriter, r *http.Request) {
	apiKey := r.FormValue("api_key")
	if apiKey == "" {
		t.respond(
			w, r,
			createStdError(stdInvalidRequest, http.StatusBadRequest, "api_key is required"),
		)
		return
	}
	account, err := t.accounts.Validate(r.Context(), apiKey)
	if err != nil {
		if errors.Is(err, serviceaccount.ErrNotFound) {
			t.respond(w, r, createStdError(stdInvalidClient, http.StatusUnauthorized, ""))
			return
		}
		t.respond(w, r, createStdError(stdInternalServerError, http.StatusInternalServerError, ""))
		return
	}
	t.issue(w, r, tokens.GrantServiceAccount, account.ID(), account.AppBlockID())
}

func (t *TokenRessource) issue(
	w http.ResponseWriter,
	r *http.Request,
	grantType string,
	subjectID uuid.UUID,
	appBlockID uuid.UUID,
) {
	requested := []string{}
	if scope := strings.TrimSpace(r.FormValue("scope")); scope != "" {
		requested = strings.Split(scope, " ")
	}
	var expiry time.Duration
	if raw := r.FormValue("ttl_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			t.respond(
				w, r,
				createStdError(stdInvalidRequest, http.StatusBadRequest, "malformed ttl_minutes"),
			)
			return
		}
		expiry = time.Duration(minutes) * time.Minute
	}

	issued, err := t.issuer.Issue(r.Context(), grantType, subjectID, appBlockID, requested, expiry)
	if err != nil {
		if errors.Is(err, tokens.ErrNoMatchingScopes) {
			t.respond(w, r, createStdError(stdInvalidScope, http.StatusBadRequest, ""))
			return
		}
		t.logger.Error("could not issue token", zap.Error(err))
		t.respond(w, r, createStdError(stdInternalServerError, http.StatusInternalServerError, ""))
		return
	}
	tokensIssuedTotal.Inc()
	t.respond(w, r, &accessTokenResponse{
		AccessToken: issued.Token(),
		TokenType:   "Bearer",
		ExpiresIn:   issued.ExpiresIn(),
		Scope:       issued.Scopes(),
	})
}

func (t *TokenRessource) validate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		t.respond(w, r, createStdError(stdInvalidRequest, http.StatusBadRequest, ""))
		return
	}
	validated, err := t.verifier.Validate(r.Context(), r.FormValue("token"))
	if err != nil {
		if !errors.Is(err, tokens.ErrInvalidToken) {
			t.logger.Error("token validation failed", zap.Error(err))
		}
		tokenValidationsTotal.WithLabelValues("false").Inc()
		t.respond(w, r, &validateResponse{Valid: false})
		return
	}
	tokenValidationsTotal.WithLabelValues("true").Inc()
	subjectID := validated.SubjectID()
	expiresAt := validated.ExpiresAt()
	t.respond(w, r, &validateResponse{
		Valid:       true,
		SubjectType: validated.SubjectType(),
		SubjectID:   &subjectID,
		Scopes:      validated.Scopes(),
		ExpiresAt:   &expiresAt,
	})
}

func (t *TokenRessource) revoke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		t.respond(w, r, createStdError(stdInvalidRequest, http.StatusBadRequest, ""))
		return
	}
	revoked, err := t.revoker.Revoke(r.Context(), r.FormValue("token"))
	if err != nil {
		t.respond(w, r, createStdError(stdInternalServerError, http.StatusInternalServerError, ""))
		return
	}
	t.respond(w, r, &revokeResponse{Revoked: revoked})
}
