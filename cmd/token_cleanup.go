package cmd

import (
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/tokens"
	"github.com/spf13/cobra"
)

var tokenCleanupCommand = cobra.Command{
	Use:   "cleanup",
	Short: "purges expired access tokens",
	Long: `this command deletes all expired access tokens from the store,
	expired tokens already fail validation so this is pure housekeeping`,
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		revoker := tokens.NewRevoker(TopLevelLogger.Named("token_revoker"), dataStore, dispatcher)
		affected, err := revoker.CleanupExpired(cmd.Context())
		if err != nil {
			fmt.Printf("Could not purge expired tokens: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Purged %d expired tokens\r\n", affected)
	},
}
