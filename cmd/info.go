package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wbgen/wbgen/log"
)

var infoIPLib string
var infoFull bool

var infoCmd = &cobra.Command{
	Use:   "info <ip>",
	Args:  cobra.ExactArgs(1),
	Short: "Shows the capabilities of one IP library entry",
	Long:  `Shows the capabilities of one IP library entry.`,
	Run:   runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&infoIPLib, "ip-lib", "", "IP library JSON file or URL (default: the configured library URL)")
	infoCmd.Flags().BoolVar(&infoFull, "full", false, "Show the full description")
	rootCmd.AddCommand(infoCmd)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func runInfo(cmd *cobra.Command, args []string) {
	library := loadLibrary(infoIPLib)
	entry, ok := library.Lookup(args[0])
	if !ok {
		log.Fatal("Slave type '%s' not found in the IP library.\n", args[0])
	}

	cellCount := "N/A"
	if count, known := entry.WBCellCount(); known {
		cellCount = fmt.Sprintf("%d", count)
	}

	interfaces := "None"
	if len(entry.ExternalInterfaces) > 0 {
		descriptions := []string{}
		for _, iface := range entry.ExternalInterfaces {
			descriptions = append(descriptions, fmt.Sprintf("%s (%s)", iface.Name, iface.Direction))
		}
		interfaces = strings.Join(descriptions, ", ")
	}

	fmt.Printf("Information for %s:\n", entry.Name)
	fmt.Printf("  Cell count: %s\n", cellCount)
	fmt.Printf("  Interrupts Supported: %s\n", yesNo(entry.SupportsInterrupts()))
	fmt.Printf("  FIFO Usage: %s\n", yesNo(entry.UsesFIFOs()))
	fmt.Printf("  External Interfaces: %s\n", interfaces)
	if infoFull {
		fmt.Printf("  Description: %s\n", entry.Info.Description)
	}
}
