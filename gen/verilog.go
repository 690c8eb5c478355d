package gen

import (
	"fmt"
	"strings"

	"github.com/wbgen/wbgen/project"
	"github.com/wbgen/wbgen/schema"
	"github.com/wbgen/wbgen/util"
)

// pad roles while collecting external-interface bindings
const (
	padInput = iota
	padOutput
	padOutputControl
)

// GenerateVerilog renders the wb_bus interconnect module from the resolved
// plan. The output is a pure function of the plan: no timestamps, no
// unordered-map iteration.
func (g *Generator) GenerateVerilog() (string, error) {
	var b strings.Builder
	line := func(format string, a ...interface{}) {
		fmt.Fprintf(&b, format+"\n", a...)
	}

	padRoles := map[int]int{}
	irqSources := make([][]string, g.Params.IRQWidth)

	line("// Wishbone bus interconnect with address decode, IO pad mapping and IRQ vector.")
	line("// Generated by wbgen %s. Do not edit.", util.WbgenVersion)
	line("")
	line("module wb_bus(")
	line("    input         wb_clk,")
	line("    input         wb_rst,")
	line("    input  [31:0] wb_adr,")
	line("    input  [31:0] wb_dat_i,")
	line("    input         wb_we,")
	line("    input         wb_stb,")
	line("    input         wb_cyc,")
	line("    output [31:0] wb_dat_o,")
	line("    output        wb_ack,")
	line("    input  [%d:0] io_in,", g.Params.IOPadCount-1)
	line("    output [%d:0] io_out,", g.Params.IOPadCount-1)
	line("    output [%d:0] io_oen,", g.Params.IOPadCount-1)
	line("    output [%d:0]  user_irq", g.Params.IRQWidth-1)
	line(");")
	line("")
	line("    localparam TOTAL_WB_CELL_COUNT = %d;", g.TotalCellCount())
	line("")

	for idx, slave := range g.Processed {
		line("    // Wires for slave %d: %s", idx, slave.Name)
		line("    wire [31:0] slave%d_dat;", idx)
		line("    wire        slave%d_ack;", idx)
		line("    wire        cs%d;", idx)
		if slave.IRQ != nil {
			line("    wire        slave%d_irq;", idx)
		}
		line("")
	}

	for idx, slave := range g.Processed {
		line("    assign cs%d = ((wb_adr >= %s) && (wb_adr < %s)) ? 1'b1 : 1'b0;",
			idx, util.VerilogHex(slave.Base), util.VerilogHex(uint32(slave.End())))
	}
	line("")

	for idx, slave := range g.Processed {
		line("    // Instantiate slave %s of type %s_WB", slave.Name, slave.Type)
		ports := []string{
			".clk_i(wb_clk)",
			".rst_i(wb_rst)",
			".adr_i(wb_adr)",
			fmt.Sprintf(".dat_o(slave%d_dat)", idx),
			".dat_i(wb_dat_i)",
			".we_i(wb_we)",
			fmt.Sprintf(".stb_i(wb_stb & cs%d)", idx),
			fmt.Sprintf(".cyc_i(wb_cyc & cs%d)", idx),
			fmt.Sprintf(".ack_o(slave%d_ack)", idx),
		}

		for _, iface := range slave.Entry.ExternalInterfaces {
			pinStart, ok := slave.IOPins[iface.Name]
			if !ok {
				return "", schema.Errorf(project.DocumentName, slave.Name, "io_pins",
					"no pin mapping for interface %q of type %q", iface.Name, slave.Type)
			}
			pinEnd := pinStart + iface.Width - 1
			if pinStart < 0 || pinEnd >= g.Params.IOPadCount {
				return "", schema.Errorf(project.DocumentName, slave.Name, "io_pins",
					"pins %d..%d for interface %q are out of range (0-%d)",
					pinStart, pinEnd, iface.Name, g.Params.IOPadCount-1)
			}

			switch iface.Direction {
			case "input":
				ports = append(ports, fmt.Sprintf(".%s(io_in[%d:%d])", iface.Port, pinEnd, pinStart))
				for p := pinStart; p <= pinEnd; p++ {
					if _, taken := padRoles[p]; !taken {
						padRoles[p] = padInput
					}
				}
			case "output":
				if iface.OutputControl {
					ports = append(ports, fmt.Sprintf(".%s(io_oen[%d:%d])", iface.Port, pinEnd, pinStart))
					for p := pinStart; p <= pinEnd; p++ {
						padRoles[p] = padOutputControl
					}
				} else {
					ports = append(ports, fmt.Sprintf(".%s(io_out[%d:%d])", iface.Port, pinEnd, pinStart))
					for p := pinStart; p <= pinEnd; p++ {
						if _, taken := padRoles[p]; !taken {
							padRoles[p] = padOutput
						}
					}
				}
			}
		}

		if slave.IRQ != nil {
			ports = append(ports, fmt.Sprintf(".IRQ(slave%d_irq)", idx))
			irqSources[*slave.IRQ] = append(irqSources[*slave.IRQ], fmt.Sprintf("slave%d_irq", idx))
		}

		line("    %s_WB %s (", slave.Type, slave.Name)
		line("        %s", strings.Join(ports, ",\n        "))
		line("    );")
		line("")
	}

	line("    // Read-data / ack mux: exactly the addressed slave responds,")
	line("    // defined zero when no window matches.")
	line("    reg [31:0] selected_dat;")
	line("    reg        selected_ack;")
	line("    always @(*) begin")
	for idx := range g.Processed {
		if idx == 0 {
			line("        if (cs%d) begin", idx)
		} else {
			line("        else if (cs%d) begin", idx)
		}
		line("            selected_dat = slave%d_dat;", idx)
		line("            selected_ack = slave%d_ack;", idx)
		line("        end")
	}
	if len(g.Processed) == 0 {
		line("        selected_dat = 32'h0;")
		line("        selected_ack = 1'b0;")
	} else {
		line("        else begin")
		line("            selected_dat = 32'h0;")
		line("            selected_ack = 1'b0;")
		line("        end")
	}
	line("    end")
	line("")
	line("    assign wb_dat_o = selected_dat;")
	line("    assign wb_ack = selected_ack;")
	line("")

	line("    // IRQ vector: interrupt outputs are OR-combined per assigned line,")
	line("    // unused lines idle low.")
	for irq := 0; irq < g.Params.IRQWidth; irq++ {
		if len(irqSources[irq]) == 0 {
			line("    assign user_irq[%d] = 1'b0;", irq)
		} else {
			line("    assign user_irq[%d] = %s;", irq, strings.Join(irqSources[irq], " | "))
		}
	}
	line("")

	line("    // Defaults for pads not claimed by any external interface.")
	for pin := 0; pin < g.Params.IOPadCount; pin++ {
		role, assigned := padRoles[pin]
		switch {
		case !assigned:
			line("    assign io_oen[%d] = 1'b1;", pin)
			line("    assign io_out[%d] = 1'b0;", pin)
		case role == padInput:
			line("    assign io_oen[%d] = 1'b0;", pin)
		case role == padOutput:
			line("    assign io_oen[%d] = 1'b1;", pin)
		}
	}
	line("")
	line("endmodule")

	return b.String(), nil
}

// GenerateWrapper embeds the bus module inside the complete top-level
// user_project_wrapper with the full Wishbone slave port list. The internal
// active-high output enables are inverted into the pad-level active-low
// io_oeb convention.
func (g *Generator) GenerateWrapper(busCode string) string {
	var b strings.Builder
	line := func(format string, a ...interface{}) {
		fmt.Fprintf(&b, format+"\n", a...)
	}

	b.WriteString(busCode)
	line("")
	line("module user_project_wrapper #(")
	line("    parameter BITS = 32")
	line(") (")
	line("`ifdef USE_POWER_PINS")
	line("    inout vdda1,")
	line("    inout vdda2,")
	line("    inout vssa1,")
	line("    inout vssa2,")
	line("    inout vccd1,")
	line("    inout vccd2,")
	line("    inout vssd1,")
	line("    inout vssd2,")
	line("`endif")
	line("    input wb_clk_i,")
	line("    input wb_rst_i,")
	line("    input wbs_stb_i,")
	line("    input wbs_cyc_i,")
	line("    input wbs_we_i,")
	line("    input [3:0] wbs_sel_i,")
	line("    input [31:0] wbs_dat_i,")
	line("    input [31:0] wbs_adr_i,")
	line("    output wbs_ack_o,")
	line("    output [31:0] wbs_dat_o,")
	line("    input  [127:0] la_data_in,")
	line("    output [127:0] la_data_out,")
	line("    input  [127:0] la_oenb,")
	line("    input  [`MPRJ_IO_PADS-1:0] io_in,")
	line("    output [`MPRJ_IO_PADS-1:0] io_out,")
	line("    output [`MPRJ_IO_PADS-1:0] io_oeb,")
	line("    inout [`MPRJ_IO_PADS-10:0] analog_io,")
	line("    input   user_clock2,")
	line("    output [%d:0] user_irq", g.Params.IRQWidth-1)
	line(");")
	line("    wire [`MPRJ_IO_PADS-1:0] internal_io_oen;")
	line("    wb_bus u_wb_bus (")
	line("        .wb_clk(wb_clk_i),")
	line("        .wb_rst(wb_rst_i),")
	line("        .wb_adr(wbs_adr_i),")
	line("        .wb_dat_o(wbs_dat_o),")
	line("        .wb_dat_i(wbs_dat_i),")
	line("        .wb_we(wbs_we_i),")
	line("        .wb_stb(wbs_stb_i),")
	line("        .wb_cyc(wbs_cyc_i),")
	line("        .wb_ack(wbs_ack_o),")
	line("        .io_in(io_in),")
	line("        .io_out(io_out),")
	line("        .io_oen(internal_io_oen),")
	line("        .user_irq(user_irq)")
	line("    );")
	line("    assign io_oeb = ~internal_io_oen;")
	line("endmodule")
	return b.String()
}
