package cmd

import (
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wbgen/wbgen/caravel"
	"github.com/wbgen/wbgen/gen"
	"github.com/wbgen/wbgen/log"
	"github.com/wbgen/wbgen/util"
)

const verilogFileName = "wb_bus.v"
const headerFileName = "wb_bus.h"

var generateIPLib string
var generateOutputDir string
var generateVerilogOnly bool
var generateHeaderOnly bool
var generateCaravelRoot string
var generateUpdateOpenLane bool
var generateCreateTest bool
var generateTestName string

var generateCmd = &cobra.Command{
	Use:   "generate <bus.yaml>",
	Args:  cobra.ExactArgs(1),
	Short: "Generates the Verilog interconnect and C header for a bus configuration",
	Long: `Generates the Verilog interconnect and C header for a bus configuration.
Both artifacts are rendered from one resolved address map, so they cannot
diverge. On any validation error nothing is written.`,
	Run: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateIPLib, "ip-lib", "", "IP library JSON file or URL (default: the configured library URL)")
	generateCmd.Flags().StringVarP(&generateOutputDir, "output-dir", "o", ".", "Directory the artifacts are written to")
	generateCmd.Flags().BoolVar(&generateVerilogOnly, "verilog-only", false, "Generate only the Verilog file")
	generateCmd.Flags().BoolVar(&generateHeaderOnly, "header-only", false, "Generate only the C header file")
	generateCmd.Flags().StringVar(&generateCaravelRoot, "caravel-root", "", "Path to a caravel_user_project checkout for direct integration")
	generateCmd.Flags().BoolVar(&generateUpdateOpenLane, "update-openlane", false, "Update the OpenLane config in the Caravel project")
	generateCmd.Flags().BoolVar(&generateCreateTest, "create-test", false, "Create a cocotb test in the Caravel project")
	generateCmd.Flags().StringVar(&generateTestName, "test-name", "wb_bus_test", "Name for the cocotb test")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	if generateVerilogOnly && generateHeaderOnly {
		log.Fatal("--verilog-only and --header-only are mutually exclusive.\n")
	}

	generator := resolveGenerator(args[0], generateIPLib)

	// Render everything before writing anything: either both artifacts are
	// produced consistently, or neither is written.
	var busCode, wrapperCode, headerCode string
	if !generateHeaderOnly {
		code, err := generator.GenerateVerilog()
		if err != nil {
			log.Fatal("%s.\n", err)
		}
		busCode = code
		wrapperCode = generator.GenerateWrapper(busCode)
	}
	if !generateVerilogOnly {
		headerCode = generator.GenerateHeader(headerFileName)
	}

	if wrapperCode != "" {
		verilogFile := path.Join(generateOutputDir, verilogFileName)
		if err := util.WriteFile(verilogFile, []byte(wrapperCode)); err != nil {
			log.Fatal("Failed to write '%s': %s.\n", verilogFile, err)
		}
		log.Success("Generated Verilog file '%s'.\n", verilogFile)
	}
	if headerCode != "" {
		headerFile := path.Join(generateOutputDir, headerFileName)
		if err := util.WriteFile(headerFile, []byte(headerCode)); err != nil {
			log.Fatal("Failed to write '%s': %s.\n", headerFile, err)
		}
		log.Success("Generated C header file '%s'.\n", headerFile)
	}

	if generateCaravelRoot == "" {
		return
	}

	integration, err := caravel.New(generateCaravelRoot)
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	// The checkout keeps its own top-level wrapper; only the bus module is
	// written there, with the instantiation spliced into the existing file.
	if busCode != "" {
		if err := integration.UpdateUserProjectWrapper(busCode); err != nil {
			log.Fatal("%s.\n", err)
		}
	}
	if generateUpdateOpenLane {
		if err := integration.UpdateOpenLaneConfig(slaveTypes(generator), slaveCellCounts(generator)); err != nil {
			log.Fatal("%s.\n", err)
		}
	}
	if generateCreateTest {
		if err := integration.CreateCocotbTest(generateTestName, slaveTypes(generator), baseMacros(generator)); err != nil {
			log.Fatal("%s.\n", err)
		}
	}
}

// slaveTypes returns the distinct IP types of the processed slaves in
// instantiation order.
func slaveTypes(generator *gen.Generator) []string {
	seen := map[string]bool{}
	types := []string{}
	for _, slave := range generator.Processed {
		if !seen[slave.Type] {
			seen[slave.Type] = true
			types = append(types, slave.Type)
		}
	}
	return types
}

func slaveCellCounts(generator *gen.Generator) map[string]int {
	counts := map[string]int{}
	for _, slave := range generator.Processed {
		if slave.CellCountKnown {
			counts[slave.Type] = slave.CellCount
		}
	}
	return counts
}

func baseMacros(generator *gen.Generator) []string {
	macros := []string{}
	for _, slave := range generator.Processed {
		macros = append(macros, strings.ToUpper(slave.Name)+"_BASE")
	}
	return macros
}
