package gen

import (
	"errors"
	"strings"
	"testing"

	"github.com/wbgen/wbgen/project"
	"github.com/wbgen/wbgen/schema"
)

func generateVerilog(t *testing.T, slaves ...project.BusSlave) string {
	t.Helper()
	code, err := resolve(t, slaves...).GenerateVerilog()
	if err != nil {
		t.Fatalf("unexpected generation error: %s", err)
	}
	return code
}

func TestVerilogChipSelects(t *testing.T) {
	code := generateVerilog(t,
		project.BusSlave{Name: "u0", Type: "uart", BaseAddress: "32'h30000000", IOPins: uartPins()},
		project.BusSlave{Name: "u1", Type: "uart", BaseAddress: "32'h30010000", IOPins: map[string]int{"rx": 7, "tx": 8}},
	)

	for _, want := range []string{
		"assign cs0 = ((wb_adr >= 32'h30000000) && (wb_adr < 32'h30010000)) ? 1'b1 : 1'b0;",
		"assign cs1 = ((wb_adr >= 32'h30010000) && (wb_adr < 32'h30020000)) ? 1'b1 : 1'b0;",
	} {
		if !strings.Contains(code, want) {
			t.Fatalf("generated code should contain %q", want)
		}
	}
}

func TestVerilogInstantiationOrder(t *testing.T) {
	code := generateVerilog(t,
		project.BusSlave{Name: "u0", Type: "uart", BaseAddress: "32'h30000000", IOPins: uartPins()},
		project.BusSlave{Name: "g0", Type: "gpio", BaseAddress: "32'h30010000", IOPins: map[string]int{"pins": 10}},
	)

	u0 := strings.Index(code, "uart_WB u0 (")
	g0 := strings.Index(code, "gpio_WB g0 (")
	if u0 < 0 || g0 < 0 {
		t.Fatal("both instantiations should be present")
	}
	if u0 > g0 {
		t.Fatal("instantiation order must follow the input order")
	}
}

func TestVerilogSlavePorts(t *testing.T) {
	code := generateVerilog(t, project.BusSlave{Name: "u0", Type: "uart", BaseAddress: "32'h30000000", IOPins: uartPins()})

	for _, want := range []string{
		".stb_i(wb_stb & cs0)",
		".cyc_i(wb_cyc & cs0)",
		".dat_o(slave0_dat)",
		".ack_o(slave0_ack)",
		".rx(io_in[5:5])",
		".tx(io_out[6:6])",
	} {
		if !strings.Contains(code, want) {
			t.Fatalf("generated code should contain %q", want)
		}
	}
}

func TestVerilogMuxHasExplicitDefault(t *testing.T) {
	code := generateVerilog(t, project.BusSlave{Name: "u0", Type: "uart", BaseAddress: "32'h30000000", IOPins: uartPins()})
	if !strings.Contains(code, "else begin") {
		t.Fatal("the mux needs an explicit no-match branch")
	}
	if !strings.Contains(code, "selected_dat = 32'h0;") || !strings.Contains(code, "selected_ack = 1'b0;") {
		t.Fatal("the no-match branch must drive defined zeros")
	}
}

func TestVerilogEmptyBus(t *testing.T) {
	code := generateVerilog(t)
	if !strings.Contains(code, "selected_dat = 32'h0;") {
		t.Fatal("an empty bus must still drive defined read data")
	}
	if !strings.Contains(code, "assign user_irq[0] = 1'b0;") {
		t.Fatal("an empty bus must idle all IRQ lines low")
	}
}

func TestVerilogIRQVector(t *testing.T) {
	code := generateVerilog(t,
		project.BusSlave{Name: "u0", Type: "uart", BaseAddress: "32'h30000000", IRQ: intPtr(1), IOPins: uartPins()},
		project.BusSlave{Name: "u1", Type: "uart", BaseAddress: "32'h30010000", IRQ: intPtr(1), IOPins: map[string]int{"rx": 7, "tx": 8}},
	)
	if !strings.Contains(code, "assign user_irq[1] = slave0_irq | slave1_irq;") {
		t.Fatal("slaves sharing a line must be OR-combined")
	}
	if !strings.Contains(code, "assign user_irq[0] = 1'b0;") || !strings.Contains(code, "assign user_irq[2] = 1'b0;") {
		t.Fatal("unassigned lines must idle low")
	}
}

func TestVerilogMissingPinMapping(t *testing.T) {
	generator := resolve(t, project.BusSlave{Name: "u0", Type: "uart", BaseAddress: "32'h30000000", IOPins: map[string]int{"rx": 5}})
	_, err := generator.GenerateVerilog()
	var schemaErr *schema.Error
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected a schema error, got %v", err)
	}
	if schemaErr.Entry != "u0" || schemaErr.Field != "io_pins" {
		t.Fatalf("error should name the slave and field, got %+v", schemaErr)
	}
}

func TestVerilogPinOutOfRange(t *testing.T) {
	generator := resolve(t, project.BusSlave{Name: "u0", Type: "uart", BaseAddress: "32'h30000000", IOPins: map[string]int{"rx": 5, "tx": 38}})
	_, err := generator.GenerateVerilog()
	var schemaErr *schema.Error
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected a schema error, got %v", err)
	}
}

func TestVerilogIsDeterministic(t *testing.T) {
	build := func() string {
		return generateVerilog(t,
			project.BusSlave{Name: "u0", Type: "uart", BaseAddress: "32'h30000000", IRQ: intPtr(0), IOPins: uartPins()},
			project.BusSlave{Name: "g0", Type: "gpio", IOPins: map[string]int{"pins": 10}},
		)
	}
	if build() != build() {
		t.Fatal("two runs over the same plan must be byte-identical")
	}
}

func TestWrapperInvertsOutputEnables(t *testing.T) {
	generator := resolve(t, project.BusSlave{Name: "u0", Type: "uart", BaseAddress: "32'h30000000", IOPins: uartPins()})
	busCode, err := generator.GenerateVerilog()
	if err != nil {
		t.Fatalf("unexpected generation error: %s", err)
	}
	wrapper := generator.GenerateWrapper(busCode)
	if !strings.HasPrefix(wrapper, busCode) {
		t.Fatal("the wrapper must carry the bus module")
	}
	if !strings.Contains(wrapper, "assign io_oeb = ~internal_io_oen;") {
		t.Fatal("pad-level io_oeb is active low and must be inverted")
	}
	if !strings.Contains(wrapper, "module user_project_wrapper") {
		t.Fatal("the wrapper module is missing")
	}
}
