package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/buidl-renaissance/renaissance-create-app-block/generator"
	"github.com/buidl-renaissance/renaissance-create-app-block/manage"
	"github.com/spf13/cobra"
)

var listBlocksCommand = cobra.Command{
	Use:   "ls",
	Short: "Lists all app blocks",
	Long:  `This will list all app blocks`,
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		gen := generator.New()
		service := manage.NewAppBlockService(
			dataStore,
			TopLevelLogger.Named("manage_block_service"),
			dispatcher,
			func() string { return string(gen.CreateAPIKey()) })
		lst, total, err := service.List(context.Background(), 1, math.MaxInt)
		if err != nil {
			fmt.Printf("Unable to load app blocks: %s", err)
			os.Exit(1)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%s\t%s \r\n",
			"ID",
			"Name",
			"Owner",
			"Status",
			"CreatedAt",
		)
		for _, v := range lst {
			fmt.Fprintf(
				w,
				"%s\t%s\t%s\t%s\t%s \r\n",
				v.ID,
				v.Name,
				v.OwnerUserID,
				v.Status,
				v.CreatedAt,
			)
		}

		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(w, "%d entries loaded", total)
		w.Flush()
	},
}
