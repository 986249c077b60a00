package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/manage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var connectorScopeAddDescription string
var connectorScopeAddRequiredRole string

var addConnectorScopeCommand = cobra.Command{
	Use:   "scope-add",
	Short: "Declares a scope on a connector",
	Long:  `this command adds a scope to the connector vocabulary`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 || args[0] == "" || args[1] == "" {
			return errors.New("connector scope-add (connector_id) (scope) - requires a connector id and a scope name")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		connectorID, err := uuid.Parse(args[0])
		if err != nil {
			fmt.Printf("Invalid connector id: %s\r\n", err)
			os.Exit(1)
			return
		}
		dataStore := mustResolveUsableDataStore()
		service := manage.NewConnectorService(
			dataStore,
			TopLevelLogger.Named("manage_connector_service"))
		var description *string
		if connectorScopeAddDescription != "" {
			description = &connectorScopeAddDescription
		}
		var requiredRole *string
		if connectorScopeAddRequiredRole != "" {
			requiredRole = &connectorScopeAddRequiredRole
		}
		id, err := service.AddScope(cmd.Context(), connectorID, args[1], description, requiredRole)
		if err != nil {
			fmt.Printf("Could not add scope: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Added scope %s with id: %s\r\n", args[1], id)
	},
}

func init() {
	addConnectorScopeCommand.Flags().
		StringVarP(&connectorScopeAddDescription, "description", "d", "", "what the scope grants access to")
	addConnectorScopeCommand.Flags().
		StringVarP(&connectorScopeAddRequiredRole, "required-role", "r", "", "role a user session needs to exercise the scope")
}
