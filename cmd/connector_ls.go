package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/buidl-renaissance/renaissance-create-app-block/manage"
	"github.com/spf13/cobra"
)

var listConnectorsCommand = cobra.Command{
	Use:   "ls",
	Short: "Lists all connectors",
	Long:  `This will list all platform connectors`,
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		service := manage.NewConnectorService(
			dataStore,
			TopLevelLogger.Named("manage_connector_service"))
		lst, err := service.List(context.Background())
		if err != nil {
			fmt.Printf("Unable to load connectors: %s", err)
			os.Exit(1)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%s \r\n",
			"ID",
			"Name",
			"Description",
			"Active",
		)
		for _, v := range lst {
			description := ""
			if v.Description != nil {
				description = *v.Description
			}
			fmt.Fprintf(
				w,
				"%s\t%s\t%s\t%v \r\n",
				v.ID,
				v.Name,
				description,
				v.IsActive,
			)
		}

		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(w, "%d entries loaded", len(lst))
		w.Flush()
	},
}
