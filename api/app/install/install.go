package install

import (
	"context"
	"errors"
	"net/http"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/db/tables"
	"github.com/buidl-renaissance/renaissance-create-app-block/installation"
	"github.com/buidl-renaissance/renaissance-create-app-block/registry"
	"github.com/buidl-renaissance/renaissance-create-app-block/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlockOwnerSource confirms which user owns an app block
type BlockOwnerSource interface {
	AppBlockByID(ctx context.Context, id uuid.UUID) (*tables.AppBlockTable, error)
}

// InstallRessource is the authenticated surface of the installation
// ledger. Every mutating call checks that the session user owns the
// side of the relationship the operation belongs to.
type InstallRessource struct {
	logger   *zap.Logger
	installs *installation.Service
	resolver *session.Resolver
	blocks   BlockOwnerSource
	validate *validator.Validate
}

func NewInstallRessource(
	logger *zap.Logger,
	installs *installation.Service,
	resolver *session.Resolver,
	blocks BlockOwnerSource,
	validate *validator.Validate,
) *InstallRessource {
	return &InstallRessource{
		logger:   logger,
		installs: installs,
		resolver: resolver,
		blocks:   blocks,
		validate: validate,
	}
}

func (i *InstallRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(jwtauth.Authenticator)

	r.Post("/", i.install)
	r.Get("/{kind}/consumer/{consumerID}", i.byConsumer)
	r.Get("/{kind}/provider/{providerID}", i.byProvider)
	r.Post("/{kind}/{id}/approve", i.approve)
	r.Post("/{kind}/{id}/revoke", i.revoke)
	r.Post("/{kind}/{id}/used", i.used)
	r.Delete("/{kind}/{id}", i.remove)

	return r
}

func (i *InstallRessource) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		i.logger.Error("unable to render response", zap.Error(err))
	}
}

func parseKind(raw string) (db.InstallationKind, bool) {
	switch raw {
	case string(db.ConnectorInstallations):
		return db.ConnectorInstallations, true
	case string(db.AppBlockInstallations):
		return db.AppBlockInstallations, true
	}
	return "", false
}

// ownsBlock confirms the session user owns the given app block
func (i *InstallRessource) ownsBlock(
	ctx context.Context,
	userID uuid.UUID,
	blockID uuid.UUID,
) bool {
	block, err := i.blocks.AppBlockByID(ctx, blockID)
	if err != nil {
		return false
	}
	return block.OwnerUserID == userID
}

func toResponse(ins *installation.Installation) *installationResponse {
	return &installationResponse{
		ID:            ins.ID(),
		Kind:          string(ins.Kind()),
		ConsumerID:    ins.ConsumerID(),
		ProviderID:    ins.ProviderID(),
		GrantedScopes: ins.GrantedScopes(),
		AuthType:      ins.AuthType(),
		Status:        ins.Status(),
		ApprovedAt:    ins.ApprovedAt(),
		LastUsedAt:    ins.LastUsedAt(),
		CreatedAt:     ins.CreatedAt(),
	}
}

func (i *InstallRessource) install(w http.ResponseWriter, r *http.Request) {
	userID, err := i.resolver.ResolveSubject(r.Context())
	if err != nil {
		i.respond(w, r, createError("unauthenticated", http.StatusUnauthorized))
		return
	}
	var req installRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		i.respond(w, r, createError("malformed_request", http.StatusBadRequest))
		return
	}
	if err := i.validate.Struct(&req); err != nil {
		i.respond(w, r, createError("malformed_request", http.StatusBadRequest))
		return
	}
	kind, _ := parseKind(req.Kind)
	consumerID := uuid.MustParse(req.ConsumerID)
	providerID := uuid.MustParse(req.ProviderID)

	// installing is the consumers move
	if !i.ownsBlock(r.Context(), userID, consumerID) {
		i.respond(w, r, createError("forbidden", http.StatusForbidden))
		return
	}

	ins, err := i.installs.Install(
		r.Context(), kind, consumerID, providerID, req.Scopes, req.AuthType,
	)
	if err != nil {
		var invalidScopes *registry.InvalidScopesError
		switch {
		case errors.As(err, &invalidScopes):
			i.respond(w, r, &errorResponse{
				Error:         "invalid_scopes",
				InvalidScopes: invalidScopes.Missing,
				StatusCode:    http.StatusBadRequest,
			})
		case errors.Is(err, installation.ErrSelfInstall):
			i.respond(w, r, createError("self_install", http.StatusBadRequest))
		case errors.Is(err, installation.ErrInvalidAuthType):
			i.respond(w, r, createError("malformed_request", http.StatusBadRequest))
		case errors.Is(err, installation.ErrNotInstallable),
			errors.Is(err, installation.ErrNotFound):
			i.respond(w, r, createError("not_installable", http.StatusNotFound))
		case errors.Is(err, installation.ErrRevokedPair):
			i.respond(w, r, createError("revoked", http.StatusConflict))
		default:
			i.logger.Error("could not install capability", zap.Error(err))
			i.respond(w, r, createError("internal_error", http.StatusInternalServerError))
		}
		return
	}
	render.Status(r, http.StatusCreated)
	i.respond(w, r, toResponse(ins))
}

func (i *InstallRessource) load(
	w http.ResponseWriter,
	r *http.Request,
) (db.InstallationKind, *installation.Installation, uuid.UUID, bool) {
	userID, err := i.resolver.ResolveSubject(r.Context())
	if err != nil {
		i.respond(w, r, createError("unauthenticated", http.StatusUnauthorized))
		return "", nil, uuid.Nil, false
	}
	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		i.respond(w, r, createError("malformed_request", http.StatusBadRequest))
		return "", nil, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		i.respond(w, r, createError("malformed_request", http.StatusBadRequest))
		return "", nil, uuid.Nil, false
	}
	ins, err := i.installs.ByID(r.Context(), kind, id)
	if err != nil {
		if errors.Is(err, installation.ErrNotFound) {
			i.respond(w, r, createError("not_found", http.StatusNotFound))
		} else {
			i.logger.Error("could not load installation", zap.Error(err))
			i.respond(w, r, createError("internal_error", http.StatusInternalServerError))
		}
		return "", nil, uuid.Nil, false
	}
	return kind, ins, userID, true
}

func (i *InstallRessource) approve(w http.ResponseWriter, r *http.Request) {
	kind, ins, userID, ok := i.load(w, r)
	if !ok {
		return
	}
	// approval is the provider owners move, connector grants never
	// await approval
	if kind != db.AppBlockInstallations ||
		!i.ownsBlock(r.Context(), userID, ins.ProviderID()) {
		i.respond(w, r, createError("forbidden", http.StatusForbidden))
		return
	}
	approved, err := i.installs.Approve(r.Context(), kind, ins.ID())
	if err != nil {
		if errors.Is(err, installation.ErrNotPending) {
			i.respond(w, r, createError("not_pending", http.StatusConflict))
			return
		}
		i.logger.Error("could not approve installation", zap.Error(err))
		i.respond(w, r, createError("internal_error", http.StatusInternalServerError))
		return
	}
	i.respond(w, r, toResponse(approved))
}

func (i *InstallRessource) revoke(w http.ResponseWriter, r *http.Request) {
	kind, ins, userID, ok := i.load(w, r)
	if !ok {
		return
	}
	// either side of the relationship may revoke
	allowed := i.ownsBlock(r.Context(), userID, ins.ConsumerID())
	if !allowed && kind == db.AppBlockInstallations {
		allowed = i.ownsBlock(r.Context(), userID, ins.ProviderID())
	}
	if !allowed {
		i.respond(w, r, createError("forbidden", http.StatusForbidden))
		return
	}
	revoked, err := i.installs.Revoke(r.Context(), kind, ins.ID())
	if err != nil {
		i.logger.Error("could not revoke installation", zap.Error(err))
		i.respond(w, r, createError("internal_error", http.StatusInternalServerError))
		return
	}
	i.respond(w, r, toResponse(revoked))
}

// used stamps last_used_at, providers ping this when serving a request
// under the grant
func (i *InstallRessource) used(w http.ResponseWriter, r *http.Request) {
	kind, ins, userID, ok := i.load(w, r)
	if !ok {
		return
	}
	allowed := i.ownsBlock(r.Context(), userID, ins.ConsumerID())
	if !allowed && kind == db.AppBlockInstallations {
		allowed = i.ownsBlock(r.Context(), userID, ins.ProviderID())
	}
	if !allowed {
		i.respond(w, r, createError("forbidden", http.StatusForbidden))
		return
	}
	i.installs.RecordUsage(r.Context(), kind, ins.ID())
	render.NoContent(w, r)
}

func (i *InstallRessource) remove(w http.ResponseWriter, r *http.Request) {
	kind, ins, userID, ok := i.load(w, r)
	if !ok {
		return
	}
	// deletion is an explicit consumer request
	if !i.ownsBlock(r.Context(), userID, ins.ConsumerID()) {
		i.respond(w, r, createError("forbidden", http.StatusForbidden))
		return
	}
	if err := i.installs.Delete(r.Context(), kind, ins.ID()); err != nil {
		i.logger.Error("could not delete installation", zap.Error(err))
		i.respond(w, r, createError("internal_error", http.StatusInternalServerError))
		return
	}
	render.NoContent(w, r)
}

func (i *InstallRessource) byConsumer(w http.ResponseWriter, r *http.Request) {
	i.list(w, r, "consumerID", i.installs.ByConsumer)
}

func (i *InstallRessource) byProvider(w http.ResponseWriter, r *http.Request) {
	i.list(w, r, "providerID", i.installs.ByProvider)
}

func (i *InstallRessource) list(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	fetch func(ctx context.Context, kind db.InstallationKind, id uuid.UUID) ([]*installation.Installation, error),
) {
	userID, err := i.resolver.ResolveSubject(r.Context())
	if err != nil {
		i.respond(w, r, createError("unauthenticated", http.StatusUnauthorized))
		return
	}
	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		i.respond(w, r, createError("malformed_request", http.StatusBadRequest))
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		i.respond(w, r, createError("malformed_request", http.StatusBadRequest))
		return
	}
	if !i.ownsBlock(r.Context(), userID, id) {
		i.respond(w, r, createError("forbidden", http.StatusForbidden))
		return
	}
	installs, err := fetch(r.Context(), kind, id)
	if err != nil {
		i.logger.Error("could not list installations", zap.Error(err))
		i.respond(w, r, createError("internal_error", http.StatusInternalServerError))
		return
	}
	responses := make([]*installationResponse, 0, len(installs))
	for _, ins := range installs {
		responses = append(responses, toResponse(ins))
	}
	i.respond(w, r, &installationListResponse{Installations: responses})
}
