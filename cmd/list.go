package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wbgen/wbgen/log"
)

var listIPLib string

var listCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "Lists the available slave types in the IP library",
	Long:  `Lists the available slave types in the IP library.`,
	Run:   runList,
}

func init() {
	listCmd.Flags().StringVar(&listIPLib, "ip-lib", "", "IP library JSON file or URL (default: the configured library URL)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	library := loadLibrary(listIPLib)
	log.Log("Available slave types in the IP library:\n")
	for _, name := range library.Names() {
		fmt.Printf("  - %s\n", name)
	}
}
