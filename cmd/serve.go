package cmd

import (
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/api"
	"github.com/buidl-renaissance/renaissance-create-app-block/generator"
	"github.com/buidl-renaissance/renaissance-create-app-block/manifest"
	"github.com/buidl-renaissance/renaissance-create-app-block/pkg/kv"
	"github.com/buidl-renaissance/renaissance-create-app-block/session"
	"github.com/buidl-renaissance/renaissance-create-app-block/tokens"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCommand = cobra.Command{
	Use:   "serve",
	Short: "starts the http server",
	Long:  `Starts a http server and serves the service`,
	Run: func(cmd *cobra.Command, args []string) {
		//this is our composite root - might wanna shift that somewhere else later

		//setup datastore
		dataStore := mustResolveUsableDataStore()

		//events dispatcher
		dispatcher := bootstrapDispatcher(dataStore.Auditor())

		gen := generator.New()

		//setup session handling
		resolver := mustResolveSessionResolver()
		codes := session.NewCodeStore(
			TopLevelLogger.Named("signin_codes"),
			kv.NewInMemory(LoadedConfig.Session.CodeExpiry),
			func() string { return string(gen.CreateSigninCode()) },
			LoadedConfig.Session.CodeExpiry,
		)

		//setup business services
		accountService := resolveServiceAccountService(dataStore, dispatcher, gen)
		installService := resolveInstallationService(dataStore, dispatcher)

		//setup token issuer
		issuer := tokens.NewIssuer(
			TopLevelLogger.Named("token_issuer"),
			dataStore,
			installService,
			dispatcher,
			func() string { return string(gen.CreateAccessToken()) },
			LoadedConfig.Token.DefaultExpiry,
			LoadedConfig.Token.MaxExpiry,
		)

		//setup token verifier
		verifier := tokens.NewVerifier(TopLevelLogger.Named("token_verifier"), dataStore)
		revoker := tokens.NewRevoker(TopLevelLogger.Named("token_revoker"), dataStore, dispatcher)

		builder := manifest.NewManifestBuilder(TopLevelLogger.Named("manifest_builder"), dataStore)

		//periodic expired token purge, validation enforces expiry either way
		cleanup := time.NewTicker(time.Hour)
		defer cleanup.Stop()
		go func() {
			for range cleanup.C {
				if _, err := revoker.CleanupExpired(cmd.Context()); err != nil {
					TopLevelLogger.Warn("expired token purge failed", zap.Error(err))
				}
			}
		}()

		server, err := api.NewServer(LoadedConfig, TopLevelLogger.Named("server"),
			dataStore,
			resolver,
			codes,
			accountService,
			installService,
			issuer,
			verifier,
			revoker,
			builder,
		)
		if err != nil {
			TopLevelLogger.Fatal("Failed to create server", zap.Error(err))
		}
		server.Start()
		TopLevelLogger.Info("Shutdown complete")
	},
}

func init() {
	viper.SetDefault("port", "3000")
	viper.SetDefault("log_level", "debug")
}
