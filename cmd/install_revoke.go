package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var installRevokeKind string

var revokeInstallCommand = cobra.Command{
	Use:   "revoke",
	Short: "Revokes an installation",
	Long:  `this command revokes an installation, its scopes stop feeding token issuance immediately`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("install revoke (installation_id) - requires an installation id")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := installationKindFromString(installRevokeKind)
		if err != nil {
			fmt.Printf("%s\r\n", err)
			os.Exit(1)
			return
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			fmt.Printf("Invalid installation id: %s\r\n", err)
			os.Exit(1)
			return
		}
		dataStore := mustResolveUsableDataStore()
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		service := resolveInstallationService(dataStore, dispatcher)
		ins, err := service.Revoke(cmd.Context(), kind, id)
		if err != nil {
			fmt.Printf("Could not revoke installation: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Installation %s revoked\r\n", ins.ID())
	},
}

func init() {
	revokeInstallCommand.Flags().
		StringVarP(&installRevokeKind, "kind", "k", "app_block", "the ledger the grant lives in (connector,app_block)")
}
