package caravel

import (
	"path"
	"strings"
	"text/template"

	"github.com/wbgen/wbgen/log"
	"github.com/wbgen/wbgen/util"
)

var cocotbTestTemplate = template.Must(template.New("cocotb").Parse(
	`from caravel_cocotb.caravel_interfaces import test_configure, report_test
import cocotb


@cocotb.test()
@report_test
async def {{.TestName}}(dut):
    """Exercise the generated Wishbone bus with {{.Modules}}."""
    caravelEnv = await test_configure(dut, timeout_cycles=1000000)

    cocotb.log.info("[TEST] Waiting for the firmware to configure the bus")
    await caravelEnv.release_csb()
    await caravelEnv.wait_mgmt_gpio(1)
    cocotb.log.info("[TEST] Firmware reports completion")
`))

var cocotbFirmwareTemplate = template.Must(template.New("firmware").Parse(
	`#include <firmware_apis.h>
#include "wb_bus.h"

void main(void)
{
    ManagmentGpio_outputEnable();
    ManagmentGpio_write(0);
    enableHkSpi(0);

    // Touch every slave base so the bus decode is exercised.
{{- range .Bases}}
    (void)*(volatile unsigned int *)({{.}});
{{- end}}

    ManagmentGpio_write(1);
}
`))

type cocotbData struct {
	TestName string
	Modules  string
	Bases    []string
}

// CreateCocotbTest scaffolds a cocotb test directory with a Python test and
// a firmware stub that reads every slave base address from the header the
// generator emitted.
func (c *Integration) CreateCocotbTest(testName string, moduleTypes []string, baseMacros []string) error {
	testDir := path.Join(c.cocotbDir, testName)

	data := cocotbData{
		TestName: testName,
		Modules:  strings.Join(moduleTypes, ", "),
		Bases:    baseMacros,
	}

	var pySource strings.Builder
	if err := cocotbTestTemplate.Execute(&pySource, data); err != nil {
		return err
	}
	if err := util.WriteFile(path.Join(testDir, testName+".py"), []byte(pySource.String())); err != nil {
		return err
	}

	var cSource strings.Builder
	if err := cocotbFirmwareTemplate.Execute(&cSource, data); err != nil {
		return err
	}
	if err := util.WriteFile(path.Join(testDir, testName+".c"), []byte(cSource.String())); err != nil {
		return err
	}

	log.Success("Created cocotb test '%s' in '%s'.\n", testName, testDir)
	return nil
}
