package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/manage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var providerCreateBaseURL string
var providerCreateAPIVersion string
var providerCreateAuthMethods []string
var providerCreateRateLimit int

var createProviderCommand = cobra.Command{
	Use:   "create",
	Short: "Declares a provider surface for an app block",
	Long:  `this command declares the provider surface of an app block so other blocks can install against it`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("provider create (app_block_id) - requires an app block id")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		blockID, err := uuid.Parse(args[0])
		if err != nil {
			fmt.Printf("Invalid app block id: %s\r\n", err)
			os.Exit(1)
			return
		}
		dataStore := mustResolveUsableDataStore()
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		service := manage.NewProviderService(
			dataStore,
			TopLevelLogger.Named("manage_provider_service"),
			dispatcher)
		id, err := service.Create(cmd.Context(),
			blockID,
			providerCreateBaseURL,
			providerCreateAPIVersion,
			providerCreateAuthMethods,
			providerCreateRateLimit)
		if err != nil {
			fmt.Printf("Could not create provider: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Created provider with id: %s\r\n", id)
	},
}

func init() {
	createProviderCommand.Flags().StringVarP(&providerCreateBaseURL, "base-url", "b", "", "the base api url of the provider")
	createProviderCommand.Flags().StringVarP(&providerCreateAPIVersion, "api-version", "v", "v1", "the api version the provider serves")
	createProviderCommand.Flags().StringSliceVarP(&providerCreateAuthMethods, "auth", "a", []string{"user", "service"}, "the auth methods the provider accepts (user,service)")
	createProviderCommand.Flags().IntVarP(&providerCreateRateLimit, "rate-limit", "r", 60, "requests per minute the provider allows")
	_ = createProviderCommand.MarkFlagRequired("base-url")
}
