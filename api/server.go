package api

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/config"
	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/installation"
	"github.com/buidl-renaissance/renaissance-create-app-block/manifest"
	"github.com/buidl-renaissance/renaissance-create-app-block/serviceaccount"
	"github.com/buidl-renaissance/renaissance-create-app-block/session"
	"github.com/buidl-renaissance/renaissance-create-app-block/tokens"
	"go.uber.org/zap"
)

type Server struct {
	server *http.Server
	log    *zap.Logger
}

func NewServer(
	cfg *config.Configuration,
	logger *zap.Logger,
	store *db.DataStore,
	resolver *session.Resolver,
	codes *session.CodeStore,
	accounts *serviceaccount.Service,
	installs *installation.Service,
	issuer *tokens.Issuer,
	verifier *tokens.Verifier,
	revoker *tokens.Revoker,
	builder *manifest.Builder,
) (*Server, error) {
	api, err := compose(logger.Named("api"),
		cfg,
		store,
		resolver,
		codes,
		accounts,
		installs,
		issuer,
		verifier,
		revoker,
		builder,
	)
	if err != nil {
		return nil, err
	}
	bind := net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port))
	srv := http.Server{
		Addr:              bind,
		Handler:           api,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{
		server: &srv,
		log:    logger,
	}, nil
}

// Start runs ListenAndServe on the http.Server with graceful shutdown.
func (srv *Server) Start() error {
	srv.log.Info("starting server")
	go func() {
		if err := srv.server.ListenAndServe(); err != http.ErrServerClosed {
			panic(err)
		}
	}()
	srv.log.Info("listening", zap.String("addr", srv.server.Addr))

	quit := make(chan os.Signal, 1)
	//nolint
	signal.Notify(quit, os.Interrupt)
	sig := <-quit
	srv.log.Info("shutting down", zap.Any("signal", sig))

	if err := srv.server.Shutdown(context.Background()); err != nil {
		srv.log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	srv.log.Info("graceful shutdown completed")
	return nil
}
