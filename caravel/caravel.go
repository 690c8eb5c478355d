// Package caravel integrates generated bus artifacts into a Caravel user
// project checkout: it splices the generated wrapper, patches the OpenLane
// configuration and scaffolds/runs cocotb tests. It is a thin wrapper around
// generator output and never re-derives addresses.
package caravel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/wbgen/wbgen/log"
	"github.com/wbgen/wbgen/util"
)

const commandTimeout = 30 * time.Minute

// Integration operates on one Caravel user project checkout.
type Integration struct {
	root        string
	rtlDir      string
	openlaneDir string
	cocotbDir   string
}

// New verifies that `root` looks like a Caravel user project and returns an
// Integration for it.
func New(root string) (*Integration, error) {
	c := &Integration{
		root:        root,
		rtlDir:      path.Join(root, "verilog", "rtl"),
		openlaneDir: path.Join(root, "openlane"),
		cocotbDir:   path.Join(root, "verilog", "dv", "cocotb"),
	}

	if !util.DirExists(c.rtlDir) {
		return nil, fmt.Errorf("%q does not look like a Caravel user project: missing verilog/rtl", root)
	}
	wrapperDir := path.Join(c.openlaneDir, "user_project_wrapper")
	if !util.FileExists(path.Join(wrapperDir, "config.tcl")) && !util.FileExists(path.Join(wrapperDir, "config.json")) {
		return nil, fmt.Errorf("neither config.tcl nor config.json found in %q", wrapperDir)
	}
	return c, nil
}

var userProjPattern = regexp.MustCompile(`(?s)user_proj_example\s+mprj\s*\([^;]*;`)
var userProjectMarker = regexp.MustCompile(`(?s)(/\*.*?User project.*?\*/\s*)(.*?)(\s*endmodule)`)

const busInstantiation = `// Instantiate the wb_bus module
wire [` + "`MPRJ_IO_PADS" + `-1:0] internal_io_oen;

wb_bus u_wb_bus (
    .wb_clk(wb_clk_i),
    .wb_rst(wb_rst_i),
    .wb_adr(wbs_adr_i),
    .wb_dat_o(wbs_dat_o),
    .wb_dat_i(wbs_dat_i),
    .wb_we(wbs_we_i),
    .wb_stb(wbs_stb_i),
    .wb_cyc(wbs_cyc_i),
    .wb_ack(wbs_ack_o),
    .io_in(io_in),
    .io_out(io_out),
    .io_oen(internal_io_oen),
    .user_irq(user_irq)
);

// Convert io_oen to io_oeb (active low to active high)
assign io_oeb = ~internal_io_oen;`

// UpdateUserProjectWrapper replaces the example user-project instantiation
// in verilog/rtl/user_project_wrapper.v with the generated bus instance and
// writes the generated bus module next to it. The original file is kept as
// a .bak backup.
func (c *Integration) UpdateUserProjectWrapper(busCode string) error {
	wrapperFile := path.Join(c.rtlDir, "user_project_wrapper.v")
	original, err := os.ReadFile(wrapperFile)
	if err != nil {
		return fmt.Errorf("reading %q: %s", wrapperFile, err)
	}

	if err := util.WriteFile(wrapperFile+".bak", original); err != nil {
		return fmt.Errorf("backing up %q: %s", wrapperFile, err)
	}
	log.Log("Backed up original user_project_wrapper.v to '%s.bak'.\n", wrapperFile)

	content := string(original)
	var updated string
	switch {
	case userProjPattern.MatchString(content):
		updated = userProjPattern.ReplaceAllString(content, busInstantiation)
	case userProjectMarker.MatchString(content):
		updated = userProjectMarker.ReplaceAllString(content, "${1}"+busInstantiation+"${3}")
	default:
		return fmt.Errorf("could not find the user project instantiation section in %q", wrapperFile)
	}

	if err := util.WriteFile(wrapperFile, []byte(updated)); err != nil {
		return err
	}
	if err := util.WriteFile(path.Join(c.rtlDir, "wb_bus.v"), []byte(busCode)); err != nil {
		return err
	}
	log.Success("Updated '%s'.\n", wrapperFile)
	return nil
}

// UpdateOpenLaneConfig adds the Wishbone-wrapped slave modules to the
// VERILOG_FILES_BLACKBOX list of the OpenLane configuration. Both the tcl
// and the json config layouts are handled. The known cell counts are logged
// as a sizing hint for the hardening run.
func (c *Integration) UpdateOpenLaneConfig(moduleTypes []string, cellCounts map[string]int) error {
	for _, entry := range util.OrderedEntries(cellCounts) {
		log.Debug("Module '%s_WB' contributes %d cells.\n", entry.Key, entry.Value)
	}

	wrapperDir := path.Join(c.openlaneDir, "user_project_wrapper")
	if configTCL := path.Join(wrapperDir, "config.tcl"); util.FileExists(configTCL) {
		return c.updateConfigTCL(configTCL, moduleTypes)
	}
	return c.updateConfigJSON(path.Join(wrapperDir, "config.json"), moduleTypes)
}

var blackboxPattern = regexp.MustCompile(`set ::env\(VERILOG_FILES_BLACKBOX\)\s+"([^"]+)"`)

func moduleFile(moduleType string) string {
	return fmt.Sprintf("$::env(DESIGN_DIR)/../../verilog/rtl/%s_WB.v", moduleType)
}

func (c *Integration) updateConfigTCL(configFile string, moduleTypes []string) error {
	original, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	if err := util.WriteFile(configFile+".bak", original); err != nil {
		return err
	}

	content := string(original)
	match := blackboxPattern.FindStringSubmatch(content)
	if match == nil {
		return fmt.Errorf("no VERILOG_FILES_BLACKBOX setting found in %q", configFile)
	}

	files := match[1]
	for _, moduleType := range moduleTypes {
		if !strings.Contains(files, moduleFile(moduleType)) {
			files += " " + moduleFile(moduleType)
		}
	}
	content = blackboxPattern.ReplaceAllString(content,
		fmt.Sprintf("set ::env(VERILOG_FILES_BLACKBOX) %q", files))

	if err := util.WriteFile(configFile, []byte(content)); err != nil {
		return err
	}
	log.Success("Updated OpenLane config '%s'.\n", configFile)
	return nil
}

func (c *Integration) updateConfigJSON(configFile string, moduleTypes []string) error {
	original, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	if err := util.WriteFile(configFile+".bak", original); err != nil {
		return err
	}

	var config map[string]interface{}
	if err := json.Unmarshal(original, &config); err != nil {
		return fmt.Errorf("parsing %q: %s", configFile, err)
	}

	var files []string
	switch existing := config["VERILOG_FILES_BLACKBOX"].(type) {
	case string:
		files = strings.Fields(existing)
	case []interface{}:
		for _, f := range existing {
			files = append(files, fmt.Sprintf("%v", f))
		}
	}
	for _, moduleType := range moduleTypes {
		found := false
		for _, f := range files {
			if f == moduleFile(moduleType) {
				found = true
				break
			}
		}
		if !found {
			files = append(files, moduleFile(moduleType))
		}
	}
	config["VERILOG_FILES_BLACKBOX"] = files

	updated, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	if err := util.WriteFile(configFile, updated); err != nil {
		return err
	}
	log.Success("Updated OpenLane config '%s'.\n", configFile)
	return nil
}

// RunCocotbTest runs `make verify-<test>-<simType>` in the project root.
func (c *Integration) RunCocotbTest(testName, simType string) error {
	return c.runMake(fmt.Sprintf("verify-%s-%s", testName, simType))
}

// RunOpenLane hardens `target` by running `make <target>` in the project root.
func (c *Integration) RunOpenLane(target string) error {
	return c.runMake(target)
}

func (c *Integration) runMake(target string) error {
	log.Log("Running 'make %s' in '%s'.\n", target, c.root)
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "make", target)
	cmd.Dir = c.root
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout
	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("'make %s' timed out after %s", target, commandTimeout)
	}
	if err != nil {
		return fmt.Errorf("'make %s' failed: %s", target, err)
	}
	return nil
}
