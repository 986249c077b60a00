package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/google/uuid"
)

var installGrantKind string
var installGrantScopes string
var installGrantAuthType string

var grantInstallCommand = cobra.Command{
	Use:   "grant",
	Short: "Grants an installation to a consumer",
	Long: `this command installs a connector or provider block for a consumer block,
	an existing grant for the pair is updated in place`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 || args[0] == "" || args[1] == "" {
			return errors.New("install grant (consumer_id) (provider_id) - requires a consumer id and a provider id")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := installationKindFromString(installGrantKind)
		if err != nil {
			fmt.Printf("%s\r\n", err)
			os.Exit(1)
			return
		}
		consumerID, err := uuid.Parse(args[0])
		if err != nil {
			fmt.Printf("Invalid consumer id: %s\r\n", err)
			os.Exit(1)
			return
		}
		providerID, err := uuid.Parse(args[1])
		if err != nil {
			fmt.Printf("Invalid provider id: %s\r\n", err)
			os.Exit(1)
			return
		}
		dataStore := mustResolveUsableDataStore()
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		service := resolveInstallationService(dataStore, dispatcher)
		ins, err := service.Install(cmd.Context(),
			kind,
			consumerID,
			providerID,
			strings.Fields(installGrantScopes),
			installGrantAuthType)
		if err != nil {
			fmt.Printf("Could not grant installation: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Installation %s is now %s with scopes %v\r\n", ins.ID(), ins.Status(), ins.GrantedScopes())
	},
}

func init() {
	grantInstallCommand.Flags().StringVarP(&installGrantKind, "kind", "k", "app_block", "the ledger the grant lives in (connector,app_block)")
	grantInstallCommand.Flags().StringVarP(&installGrantScopes, "scope", "o", "", "requested scopes separated by spaces")
	grantInstallCommand.Flags().StringVarP(&installGrantAuthType, "auth-type", "t", "service", "the auth mode the grant applies to (user,service)")
}
