package main

import (
	"fmt"
	"log"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/cmd"
	"github.com/buidl-renaissance/renaissance-create-app-block/config"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	Version   = "?"
	BuildTime = "?"
	GitCommit = "-"
	GitRef    = "-"
)

func main() {
	//version info
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("rcab %s, built %s from %s (%s)", Version, BuildTime, GitCommit, GitRef)
		return
	}
	logger := bootstrap()
	defer func() {
		_ = logger.Sync()

	}()
	cmd.TopLevelLogger = logger
	cmd.Execute()
}

func bootstrap() *zap.Logger {
	if _, err := os.Stat(".env"); err == nil {
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Error loading .env file")
		}
	}
	cfg := zap.NewProductionConfig()
	if r := os.Getenv("RCAB_DEBUG_MODE"); r == "true" {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		log.Fatal(err)
	}
	cobra.OnInitialize(func() { initConfig(logger) })
	return logger
}

func setDefaults() {
	viper.SetDefault("server.address", "")
	viper.SetDefault("session.iss", "rcab")
	viper.SetDefault("session.exp", "24h")
	viper.SetDefault("session.code-expiry", "5m")
	viper.SetDefault("token.default-expiry", "1h")
	viper.SetDefault("token.max-expiry", "24h")
	viper.SetDefault("policy.reinstall-reactivates-revoked", true)
	viper.SetDefault("metrics.enable", false)
}

func initConfig(logger *zap.Logger) {
	bind := func(from string, to string) {
		err := viper.BindEnv(to, from)
		if err != nil {
			logger.Error("unable to bindenv", zap.String("from", from), zap.String(to, to), zap.Error(err))
		}

	}
	setDefaults()
	bind("PORT", "server.port")
	bind("ADDRESS", "server.address")

	bind("RCAB_PORT", "server.port")
	bind("RCAB_ADDRESS", "server.address")

	bind("RCAB_DATABASE_TYPE", "database.type")
	bind("RCAB_DATABASE_DSN", "database.dsn")

	bind("RCAB_SESSION_SIGNING_KEY", "session.signing-key")
	bind("RCAB_SESSION_SIGNING_KEY_FILE", "session.signing-key-file")
	bind("RCAB_SESSION_ISSUER", "session.iss")
	bind("RCAB_SESSION_EXP", "session.exp")
	bind("RCAB_SESSION_CODE_EXPIRY", "session.code-expiry")

	bind("RCAB_TOKEN_DEFAULT_EXPIRY", "token.default-expiry")
	bind("RCAB_TOKEN_MAX_EXPIRY", "token.max-expiry")

	bind("RCAB_POLICY_REINSTALL_REACTIVATES_REVOKED", "policy.reinstall-reactivates-revoked")

	bind("RCAB_METRICS_ENABLE", "metrics.enable")

	if cmd.ConfigFileLocation != "" {
		logger.Debug("Using supplied config file", zap.String("file", string(cmd.ConfigFileLocation)))
		viper.SetConfigFile(string(cmd.ConfigFileLocation))
	} else {
		path, err := os.Getwd()
		if err != nil {
			logger.Warn("Unable to get current working dir", zap.Error(err))
		}
		cobra.CheckErr(err)
		viper.AddConfigPath(path)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		logger.Debug("Looking for default config file")
	}
	//precedence: environment overwrites yml
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Debug("No confg file loaded")
	} else {
		logger.Debug("Config file loaded", zap.String("file", viper.ConfigFileUsed()))
	}

	conf := &config.Configuration{}
	err := viper.Unmarshal(conf)
	if err != nil {
		logger.Fatal("Unable to unmarshall config", zap.Error(err))
	}
	logger.Debug("Config loaded", zap.Any("config", conf))
	logger.Debug("Validating final config")
	if err = conf.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	cmd.LoadedConfig = conf
}
