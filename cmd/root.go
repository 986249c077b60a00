package cmd

import (
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ConfigFileLocation is of the config to load
var ConfigFileLocation string

// TopLevelLogger is the logger all loggers come from
var TopLevelLogger *zap.Logger

// LoadedConfig is the currently loaded configuration after initial bootstrapping
var LoadedConfig *config.Configuration

var rootCommand = cobra.Command{
	Use:   "rcab",
	Short: "rcab the app block authorization core",
	Long: `rcab is the capability scoped authorization core for the app block platform,
	it keeps the scope registry, the installation ledgers and the access token store`,
	Run: func(cmd *cobra.Command, args []string) {
		serveCommand.Run(cmd, args)
	},
}

func Execute() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {

	rootCommand.PersistentFlags().
		StringVar(&ConfigFileLocation, "config", "", "config file to be used")

	blockCommand.AddCommand(&createBlockCommand)
	blockCommand.AddCommand(&publishBlockCommand)
	blockCommand.AddCommand(&listBlocksCommand)

	providerScopeCommand.AddCommand(&addProviderScopeCommand)
	providerScopeCommand.AddCommand(&removeProviderScopeCommand)

	providerCommand.AddCommand(&createProviderCommand)
	providerCommand.AddCommand(&enableProviderCommand)
	providerCommand.AddCommand(&disableProviderCommand)
	providerCommand.AddCommand(&providerScopeCommand)

	connectorCommand.AddCommand(&createConnectorCommand)
	connectorCommand.AddCommand(&addConnectorScopeCommand)
	connectorCommand.AddCommand(&listConnectorsCommand)

	installCommand.AddCommand(&grantInstallCommand)
	installCommand.AddCommand(&approveInstallCommand)
	installCommand.AddCommand(&revokeInstallCommand)
	installCommand.AddCommand(&reconcileInstallCommand)

	tokenCommand.AddCommand(&tokenIssueCommand)
	tokenCommand.AddCommand(&tokenRevokeCommand)
	tokenCommand.AddCommand(&tokenCleanupCommand)

	accountCommand.AddCommand(&rotateAccountCommand)

	rootCommand.AddCommand(&blockCommand)
	rootCommand.AddCommand(&providerCommand)
	rootCommand.AddCommand(&connectorCommand)
	rootCommand.AddCommand(&installCommand)
	rootCommand.AddCommand(&tokenCommand)
	rootCommand.AddCommand(&accountCommand)
	rootCommand.AddCommand(&serveCommand)
}
