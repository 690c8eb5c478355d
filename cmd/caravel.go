package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wbgen/wbgen/caravel"
	"github.com/wbgen/wbgen/log"
)

var caravelCmd = &cobra.Command{
	Use:   "caravel",
	Short: "Caravel user project integration commands",
	Long:  `Caravel user project integration commands.`,
}

var caravelIPLib string
var caravelSimulationType string
var caravelTarget string

func init() {
	updateWrapperCmd := &cobra.Command{
		Use:   "update-wrapper <caravel-root> <verilog-file>",
		Args:  cobra.ExactArgs(2),
		Short: "Splices a generated bus into user_project_wrapper.v",
		Long:  `Splices a generated bus into user_project_wrapper.v.`,
		Run:   runCaravelUpdateWrapper,
	}
	caravelCmd.AddCommand(updateWrapperCmd)

	updateOpenLaneCmd := &cobra.Command{
		Use:   "update-openlane <caravel-root> <bus.yaml>",
		Args:  cobra.ExactArgs(2),
		Short: "Updates the OpenLane config with the generated slave modules",
		Long:  `Updates the OpenLane config with the generated slave modules.`,
		Run:   runCaravelUpdateOpenLane,
	}
	updateOpenLaneCmd.Flags().StringVar(&caravelIPLib, "ip-lib", "", "IP library JSON file or URL (default: the configured library URL)")
	caravelCmd.AddCommand(updateOpenLaneCmd)

	createTestCmd := &cobra.Command{
		Use:   "create-test <caravel-root> <test-name> <bus.yaml>",
		Args:  cobra.ExactArgs(3),
		Short: "Creates a cocotb test exercising the generated bus",
		Long:  `Creates a cocotb test exercising the generated bus.`,
		Run:   runCaravelCreateTest,
	}
	createTestCmd.Flags().StringVar(&caravelIPLib, "ip-lib", "", "IP library JSON file or URL (default: the configured library URL)")
	caravelCmd.AddCommand(createTestCmd)

	runTestCmd := &cobra.Command{
		Use:   "run-test <caravel-root> <test-name>",
		Args:  cobra.ExactArgs(2),
		Short: "Runs a cocotb test in the Caravel project",
		Long:  `Runs a cocotb test in the Caravel project.`,
		Run:   runCaravelRunTest,
	}
	runTestCmd.Flags().StringVar(&caravelSimulationType, "simulation-type", "rtl", "Type of simulation to run (rtl, gl or gl-sdf)")
	caravelCmd.AddCommand(runTestCmd)

	runOpenLaneCmd := &cobra.Command{
		Use:   "run-openlane <caravel-root>",
		Args:  cobra.ExactArgs(1),
		Short: "Hardens a target with OpenLane",
		Long:  `Hardens a target with OpenLane.`,
		Run:   runCaravelRunOpenLane,
	}
	runOpenLaneCmd.Flags().StringVar(&caravelTarget, "target", "user_project_wrapper", "Target to build")
	caravelCmd.AddCommand(runOpenLaneCmd)

	rootCmd.AddCommand(caravelCmd)
}

func openIntegration(root string) *caravel.Integration {
	integration, err := caravel.New(root)
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	return integration
}

func runCaravelUpdateWrapper(cmd *cobra.Command, args []string) {
	verilogCode, err := os.ReadFile(args[1])
	if err != nil {
		log.Fatal("Failed to read '%s': %s.\n", args[1], err)
	}
	if err := openIntegration(args[0]).UpdateUserProjectWrapper(string(verilogCode)); err != nil {
		log.Fatal("%s.\n", err)
	}
}

func runCaravelUpdateOpenLane(cmd *cobra.Command, args []string) {
	generator := resolveGenerator(args[1], caravelIPLib)
	if err := openIntegration(args[0]).UpdateOpenLaneConfig(slaveTypes(generator), slaveCellCounts(generator)); err != nil {
		log.Fatal("%s.\n", err)
	}
}

func runCaravelCreateTest(cmd *cobra.Command, args []string) {
	generator := resolveGenerator(args[2], caravelIPLib)
	if err := openIntegration(args[0]).CreateCocotbTest(args[1], slaveTypes(generator), baseMacros(generator)); err != nil {
		log.Fatal("%s.\n", err)
	}
}

func runCaravelRunTest(cmd *cobra.Command, args []string) {
	if err := openIntegration(args[0]).RunCocotbTest(args[1], caravelSimulationType); err != nil {
		log.Fatal("%s.\n", err)
	}
	log.Success("Test '%s' (%s) passed.\n", args[1], caravelSimulationType)
}

func runCaravelRunOpenLane(cmd *cobra.Command, args []string) {
	if err := openIntegration(args[0]).RunOpenLane(caravelTarget); err != nil {
		log.Fatal("%s.\n", err)
	}
	log.Success("OpenLane run for '%s' completed.\n", caravelTarget)
}
