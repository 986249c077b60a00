package cmd

import (
	"github.com/spf13/cobra"
)

var blockCommand = cobra.Command{
	Use:   "block",
	Short: "app block commands",
	Long:  `this section harbors the app block commands`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
