package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/manage"
	"github.com/spf13/cobra"
)

var connectorCreateDescription string

var createConnectorCommand = cobra.Command{
	Use:   "create",
	Short: "Registers a platform connector",
	Long:  `this command registers a platform owned connector app blocks can install`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("connector create (name) - requires a name")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		service := manage.NewConnectorService(
			dataStore,
			TopLevelLogger.Named("manage_connector_service"))
		var description *string
		if connectorCreateDescription != "" {
			description = &connectorCreateDescription
		}
		id, err := service.Create(cmd.Context(), args[0], description)
		if err != nil {
			fmt.Printf("Could not create connector: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Created connector with id: %s\r\n", id)
	},
}

func init() {
	createConnectorCommand.Flags().
		StringVarP(&connectorCreateDescription, "description", "d", "", "what the connector offers")
}
