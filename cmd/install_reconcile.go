package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/buidl-renaissance/renaissance-create-app-block/installation"
	"github.com/buidl-renaissance/renaissance-create-app-block/registry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var installReconcileKind string

var reconcileInstallCommand = cobra.Command{
	Use:   "reconcile",
	Short: "Reports grants drifted from the declared scopes",
	Long: `this command lists active installations holding scopes the provider no
	longer declares, it reports only and never mutates the ledger`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("install reconcile (provider_id) - requires a provider id")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := installationKindFromString(installReconcileKind)
		if err != nil {
			fmt.Printf("%s\r\n", err)
			os.Exit(1)
			return
		}
		providerID, err := uuid.Parse(args[0])
		if err != nil {
			fmt.Printf("Invalid provider id: %s\r\n", err)
			os.Exit(1)
			return
		}
		dataStore := mustResolveUsableDataStore()
		scopeRegistry := registry.NewScopeRegistry(TopLevelLogger.Named("scope_registry"), dataStore)
		reconciler := installation.NewReconciler(
			TopLevelLogger.Named("installation_reconciler"),
			dataStore,
			scopeRegistry)
		drifts, err := reconciler.Check(cmd.Context(), kind, providerID)
		if err != nil {
			fmt.Printf("Could not reconcile: %s\r\n", err)
			os.Exit(1)
			return
		}
		if len(drifts) == 0 {
			fmt.Println("No drift, every active grant matches the declared scopes")
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(
			w,
			"%s\t%s\t%s \r\n",
			"Installation",
			"Consumer",
			"UnknownScopes",
		)
		for _, v := range drifts {
			fmt.Fprintf(
				w,
				"%s\t%s\t%v \r\n",
				v.InstallationID,
				v.ConsumerID,
				v.UnknownScopes,
			)
		}
		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(w, "%d drifted grants", len(drifts))
		w.Flush()
	},
}

func init() {
	reconcileInstallCommand.Flags().
		StringVarP(&installReconcileKind, "kind", "k", "app_block", "the ledger to reconcile (connector,app_block)")
}
