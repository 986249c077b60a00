package cmd

import (
	"github.com/spf13/cobra"
)

var providerCommand = cobra.Command{
	Use:   "provider",
	Short: "provider commands",
	Long:  `this section harbors the provider surface commands`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var providerScopeCommand = cobra.Command{
	Use:   "scope",
	Short: "provider scope commands",
	Long:  `this section harbors the provider scope vocabulary commands`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
