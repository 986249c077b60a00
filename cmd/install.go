package cmd

import (
	"github.com/spf13/cobra"
)

var installCommand = cobra.Command{
	Use:   "install",
	Short: "installation commands",
	Long:  `this section harbors the installation ledger commands`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
