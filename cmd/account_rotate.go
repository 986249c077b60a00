package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/generator"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rotateAccountCommand = cobra.Command{
	Use:   "rotate",
	Short: "Rotates a service account api key",
	Long: `this command replaces the api key of an app blocks service account,
	the old key stops working immediately and the new plaintext is printed exactly once`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("account rotate (app_block_id) - requires an app block id")
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
		service := resolveServiceAccountService(dataStore, dispatcher, generator.New())
		plaintext, err := service.Rotate(cmd.Context(), blockID)
		if err != nil {
			fmt.Printf("Could not rotate service account key: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("New api key (shown only this once): %s\r\n", plaintext)
	},
}
