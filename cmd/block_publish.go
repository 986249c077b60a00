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

var blockPublishSlug string
var blockPublishDisplayName string
var blockPublishDescription string
var blockPublishCategory string
var blockPublishRequiresApproval bool

var publishBlockCommand = cobra.Command{
	Use:   "publish",
	Short: "Publishes an app block to the registry",
	Long:  `this command lists an app block in the public registry so it becomes discoverable and installable`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("block publish (app_block_id) - requires an app block id")
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
		gen := generator.New()
		service := manage.NewAppBlockService(
			dataStore,
			TopLevelLogger.Named("manage_block_service"),
			dispatcher,
			func() string { return string(gen.CreateAPIKey()) })
		var description *string
		if blockPublishDescription != "" {
			description = &blockPublishDescription
		}
		id, err := service.Publish(cmd.Context(),
			blockID,
			blockPublishSlug,
			blockPublishDisplayName,
			description,
			blockPublishCategory,
			blockPublishRequiresApproval)
		if err != nil {
			fmt.Printf("Could not publish app block: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Published app block, registry entry id: %s\r\n", id)
	},
}

func init() {
	publishBlockCommand.Flags().StringVarP(&blockPublishSlug, "slug", "s", "", "the unique registry slug")
	publishBlockCommand.Flags().StringVarP(&blockPublishDisplayName, "name", "n", "", "the display name shown in the registry")
	publishBlockCommand.Flags().StringVarP(&blockPublishDescription, "description", "d", "", "the registry description")
	publishBlockCommand.Flags().StringVarP(&blockPublishCategory, "category", "c", "", "the registry category")
	publishBlockCommand.Flags().BoolVarP(&blockPublishRequiresApproval, "requires-approval", "a", false, "installs need provider approval before they become active")
	_ = publishBlockCommand.MarkFlagRequired("slug")
	_ = publishBlockCommand.MarkFlagRequired("name")
}
