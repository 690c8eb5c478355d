package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wbgen/wbgen/util"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Args:  cobra.NoArgs,
	Short: "Prints the wbgen version",
	Long:  `Prints the wbgen version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(util.WbgenVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
