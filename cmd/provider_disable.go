package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/manage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var disableProviderCommand = cobra.Command{
	Use:   "disable",
	Short: "Disables a provider",
	Long:  `this command takes a provider offline, its manifest stops being served while existing grants stay untouched`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("provider disable (app_block_id) - requires an app block id")
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
		if err := service.Disable(cmd.Context(), blockID); err != nil {
			fmt.Printf("Could not disable provider: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Provider disabled for app block %s\r\n", blockID)
	},
}
