package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buidl-renaissance/renaissance-create-app-block/tokens"
	"github.com/spf13/cobra"
)

var tokenRevokeCommand = cobra.Command{
	Use:   "revoke",
	Short: "revokes an access token",
	Long:  `this command revokes a single access token, revoking an already gone token is not an error`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("token revoke (token) - requires the token value")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		revoker := tokens.NewRevoker(TopLevelLogger.Named("token_revoker"), dataStore, dispatcher)
		revoked, err := revoker.Revoke(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Could not revoke token: %s\r\n", err)
			os.Exit(1)
			return
		}
		if revoked {
			fmt.Println("Token revoked")
			return
		}
		fmt.Println("Token was already gone")
	},
}
