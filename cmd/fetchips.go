package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wbgen/wbgen/fetch"
	"github.com/wbgen/wbgen/log"
	"github.com/wbgen/wbgen/util"
)

var fetchIPsOutput string

var fetchIPsCmd = &cobra.Command{
	Use:   "fetch-ips <repos.txt>",
	Args:  cobra.ExactArgs(1),
	Short: "Fetches vendor IP YAML files and aggregates them into a library JSON",
	Long: `Fetches vendor IP YAML files from the listed repositories (one URL per
line) and aggregates them into a single IP library JSON document.`,
	Run: runFetchIPs,
}

func init() {
	fetchIPsCmd.Flags().StringVarP(&fetchIPsOutput, "output", "o", "ip-lib.json", "Output JSON file name")
	rootCmd.AddCommand(fetchIPsCmd)
}

func runFetchIPs(cmd *cobra.Command, args []string) {
	content, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal("Failed to read '%s': %s.\n", args[0], err)
	}

	repoURLs := []string{}
	for _, line := range strings.Split(string(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			repoURLs = append(repoURLs, line)
		}
	}

	aggregated, err := fetch.Aggregate(repoURLs)
	if err != nil {
		log.Fatal("Failed to aggregate IP descriptions: %s.\n", err)
	}
	if err := util.WriteFile(fetchIPsOutput, aggregated); err != nil {
		log.Fatal("Failed to write '%s': %s.\n", fetchIPsOutput, err)
	}
	log.Success("Aggregated IP library saved as '%s'.\n", fetchIPsOutput)
}
