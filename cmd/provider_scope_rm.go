package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/manage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var removeProviderScopeCommand = cobra.Command{
	Use:   "rm",
	Short: "Removes a scope from a provider",
	Long: `this command withdraws a scope from the provider vocabulary,
	existing grants keep the scope until the reconciler reports them`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 || args[0] == "" || args[1] == "" {
			return errors.New("provider scope rm (app_block_id) (scope) - requires an app block id and a scope name")
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
		if err := service.RemoveScope(cmd.Context(), blockID, args[1]); err != nil {
			fmt.Printf("Could not remove scope: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Removed scope %s from app block %s\r\n", args[1], blockID)
	},
}
