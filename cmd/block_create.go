package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/generator"
	"github.com/buidl-renaissance/renaissance-create-app-block/manage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var blockCreateOwner string

var createBlockCommand = cobra.Command{
	Use:   "create",
	Short: "Creates a new app block",
	Long: `this command can be used to create a new app block,
	the api key of its service account is printed exactly once`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("block create (name) - requires a name")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		ownerID, err := uuid.Parse(blockCreateOwner)
		if err != nil {
			fmt.Printf("Invalid owner user id: %s\r\n", err)
			os.Exit(1)
			return
		}
		dataStore := mustResolveUsableDataStore()
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		gen := generator.New()
		service := manage.NewAppBlockService(
			dataStore,
			TopLevelLogger.Named("manage_block_service"),
			dispatcher,
			func() string { return string(gen.CreateAPIKey()) })
		blockID, apiKey, err := service.Create(cmd.Context(), args[0], ownerID)
		if err != nil {
			fmt.Printf("Could not create new app block: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Created new app block with id: %s\r\n", blockID)
		fmt.Printf("Service account api key (shown only this once): %s\r\n", apiKey)
	},
}

func init() {
	createBlockCommand.Flags().
		StringVarP(&blockCreateOwner, "owner", "u", "", "the user id of the block owner")
	_ = createBlockCommand.MarkFlagRequired("owner")
}
