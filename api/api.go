package api

import (
	"net/http"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/api/app/discover"
	"github.com/buidl-renaissance/renaissance-create-app-block/api/app/install"
	"github.com/buidl-renaissance/renaissance-create-app-block/api/app/signin"
	"github.com/buidl-renaissance/renaissance-create-app-block/api/app/token"
	"github.com/buidl-renaissance/renaissance-create-app-block/config"
	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/installation"
	"github.com/buidl-renaissance/renaissance-create-app-block/manifest"
	"github.com/buidl-renaissance/renaissance-create-app-block/serviceaccount"
	"github.com/buidl-renaissance/renaissance-create-app-block/session"
	"github.com/buidl-renaissance/renaissance-create-app-block/tokens"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate *validator.Validate

func compose(logger *zap.Logger,
	cfg *config.Configuration,
	store *db.DataStore,
	resolver *session.Resolver,
	codes *session.CodeStore,
	accounts *serviceaccount.Service,
	installs *installation.Service,
	issuer *tokens.Issuer,
	verifier *tokens.Verifier,
	revoker *tokens.Revoker,
	builder *manifest.Builder,
) (*chi.Mux, error) {
	validate = validator.New()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(loggerMiddleware(logger))

	r.Use(middleware.Recoverer)

	r.Use(middleware.Timeout(50 * time.Second))
	if cfg.Metrics != nil && cfg.Metrics.Enable {
		r.Use(metricsMiddleware)
		r.Method(http.MethodGet, "/metrics", metricsHandler())
	}
	r.Use(jwtauth.Verifier(resolver.Auth()))

	if cfg.DebugMode() {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("running in debug mode"))
		})
	}

	tokenRessource := token.NewTokenRessource(
		logger.Named("token_ressource"),
		issuer,
		verifier,
		revoker,
		accounts,
		resolver,
		store,
	)
	installRessource := install.NewInstallRessource(
		logger.Named("install_ressource"),
		installs,
		resolver,
		store,
		validate,
	)
	discoverRessource := discover.NewDiscoverRessource(
		logger.Named("discover_ressource"),
		builder,
	)
	signinRessource := signin.NewSigninRessource(
		logger.Named("signin_ressource"),
		codes,
		resolver,
	)

	r.Mount("/token", tokenRessource.Router())
	r.Mount("/install", installRessource.Router())
	r.Mount("/discover", discoverRessource.Router())
	r.Mount("/signin", signinRessource.Router())

	return r, nil
}
