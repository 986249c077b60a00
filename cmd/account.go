package cmd

import (
	"github.com/spf13/cobra"
)

var accountCommand = cobra.Command{
	Use:   "account",
	Short: "service account commands",
	Long:  `this section harbors the service account commands`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
