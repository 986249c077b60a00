package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var installApproveKind string

var approveInstallCommand = cobra.Command{
	Use:   "approve",
	Short: "Approves a pending installation",
	Long:  `this command flips a pending installation to active`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("install approve (installation_id) - requires an installation id")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := installationKindFromString(installApproveKind)
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
		ins, err := service.Approve(cmd.Context(), kind, id)
		if err != nil {
			fmt.Printf("Could not approve installation: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Installation %s approved, status is %s\r\n", ins.ID(), ins.Status())
	},
}

func init() {
	approveInstallCommand.Flags().
		StringVarP(&installApproveKind, "kind", "k", "app_block", "the ledger the grant lives in (connector,app_block)")
}
