package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/manage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var providerScopeAddDescription string
var providerScopeAddPublicRead bool
var providerScopeAddRequiredRole string

var addProviderScopeCommand = cobra.Command{
	Use:   "add",
	Short: "Declares a scope on a provider",
	Long:  `this command adds a scope to the provider vocabulary so consumers can request it on install`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 || args[0] == "" || args[1] == "" {
			return errors.New("provider scope add (app_block_id) (scope) - requires an app block id and a scope name")
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
		var description *string
		if providerScopeAddDescription != "" {
			description = &providerScopeAddDescription
		}
		var requiredRole *string
		if providerScopeAddRequiredRole != "" {
			requiredRole = &providerScopeAddRequiredRole
		}
		id, err := service.AddScope(cmd.Context(),
			blockID,
			args[1],
			description,
			providerScopeAddPublicRead,
			requiredRole)
		if err != nil {
			fmt.Printf("Could not add scope: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Added scope %s with id: %s\r\n", args[1], id)
	},
}

func init() {
	addProviderScopeCommand.Flags().StringVarP(&providerScopeAddDescription, "description", "d", "", "what the scope grants access to")
	addProviderScopeCommand.Flags().BoolVarP(&providerScopeAddPublicRead, "public-read", "p", false, "marks the scope as public readable")
	addProviderScopeCommand.Flags().StringVarP(&providerScopeAddRequiredRole, "required-role", "r", "", "role a user session needs to exercise the scope")
}
