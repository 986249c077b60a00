package cmd

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/db"
	"github.com/buidl-renaissance/renaissance-create-app-block/events"
	"github.com/buidl-renaissance/renaissance-create-app-block/generator"
	"github.com/buidl-renaissance/renaissance-create-app-block/installation"
	"github.com/buidl-renaissance/renaissance-create-app-block/registry"
	"github.com/buidl-renaissance/renaissance-create-app-block/serviceaccount"
	"github.com/buidl-renaissance/renaissance-create-app-block/session"
	"go.uber.org/zap"
)

func mustResolveUsableDataStore() *db.DataStore {
	var dataStore *db.DataStore
	var err error
	switch LoadedConfig.Database.Type {
	case "sqlite":
		dataStore, err = db.NewSqliteStore(TopLevelLogger.Named("database"), LoadedConfig.Database)
	case "mysql":
		dataStore, err = db.NewMysqlStore(TopLevelLogger.Named("database"), LoadedConfig.Database)
	case "pg":
		dataStore, err = db.NewPostgrestore(TopLevelLogger.Named("database"), LoadedConfig.Database)
	default:
		log.Fatal("Unknown database type")
	}
	if err != nil {
		TopLevelLogger.Fatal("Failed to create datastore", zap.Error(err))
	}
	err = dataStore.EnsureUsable()
	if err != nil {
		TopLevelLogger.Fatal("Datastore is unusable", zap.Error(err))
	}
	return dataStore
}

func bootstrapDispatcher(auditor db.Auditor) *events.Dispatcher {
	dispatcher := events.NewDispatcher(TopLevelLogger.Named("event_dispatcher"))
	//bootstrap listeners
	dbLayer := db.BootstrapListeners(auditor, TopLevelLogger.Named("event_listener"))
	dispatcher.Register(dbLayer...)
	return dispatcher
}

func mustResolveSigningKey() []byte {
	if LoadedConfig.Session.SigningKeyFile != "" {
		raw, err := os.ReadFile(LoadedConfig.Session.SigningKeyFile)
		if err != nil {
			TopLevelLogger.Fatal("Failed to read session signing key file", zap.Error(err))
		}
		return bytes.TrimSpace(raw)
	}
	return []byte(LoadedConfig.Session.SigningKey)
}

func mustResolveSessionResolver() *session.Resolver {
	return session.NewResolver(
		TopLevelLogger.Named("session_resolver"),
		mustResolveSigningKey(),
		LoadedConfig.Session.Issuer,
		LoadedConfig.Session.Expiry,
	)
}

func resolveServiceAccountService(
	dataStore *db.DataStore,
	dispatcher *events.Dispatcher,
	gen *generator.RandomTokenGenerator,
) *serviceaccount.Service {
	return serviceaccount.NewServiceAccountService(
		TopLevelLogger.Named("service_account_service"),
		dataStore,
		dispatcher,
		func() string { return string(gen.CreateAPIKey()) },
	)
}

func resolveInstallationService(
	dataStore *db.DataStore,
	dispatcher *events.Dispatcher,
) *installation.Service {
	scopeRegistry := registry.NewScopeRegistry(TopLevelLogger.Named("scope_registry"), dataStore)
	return installation.NewInstallationService(
		TopLevelLogger.Named("installation_service"),
		dataStore,
		scopeRegistry,
		dataStore,
		dispatcher,
		LoadedConfig.Policy.ReinstallReactivatesRevoked,
	)
}

func installationKindFromString(kind string) (db.InstallationKind, error) {
	switch kind {
	case "connector":
		return db.ConnectorInstallations, nil
	case "app_block":
		return db.AppBlockInstallations, nil
	}
	return "", fmt.Errorf("unknown installation kind %q, possible values: connector, app_block", kind)
}
