package cmd

import (
	"github.com/spf13/cobra"
)

var connectorCommand = cobra.Command{
	Use:   "connector",
	Short: "connector commands",
	Long:  `this section harbors the platform connector commands`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
