package iplib

import (
	"errors"
	"testing"

	"github.com/wbgen/wbgen/schema"
)

const keyedLibrary = `{
	"uart": {
		"description": "Serial transceiver",
		"cell_count": [{"WB": 1200}, {"AHB": 1500}],
		"external_interface": [
			{"name": "rx", "direction": "input"},
			{"name": "tx", "direction": "OUTPUT", "port": "txd"}
		],
		"flags": [{"name": "tx_empty"}],
		"fifos": [{"name": "txdata", "depth": 16}, {"name": "rxdata", "depth": 16}]
	},
	"gpio": {
		"description": "General purpose IO",
		"cell_count": [{"WB": "300"}],
		"window_size": "0x1000"
	}
}`

const aggregatedLibrary = `{
	"slaves": [
		{
			"info": {
				"name": "spi",
				"description": "SPI master",
				"bus": ["WB"],
				"cell_count": [{"WB": 800}]
			},
			"external_interface": [
				{"name": "sck", "direction": "output", "output_control": true}
			]
		}
	]
}`

func TestParseKeyedLibrary(t *testing.T) {
	library, err := ParseLibrary([]byte(keyedLibrary))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	if library.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", library.Len())
	}

	uart, ok := library.Lookup("uart")
	if !ok {
		t.Fatal("uart entry missing")
	}
	if !uart.SupportsInterrupts() {
		t.Fatal("uart should support interrupts")
	}
	if !uart.UsesFIFOs() {
		t.Fatal("uart should use FIFOs")
	}
	if count, known := uart.WBCellCount(); !known || count != 1200 {
		t.Fatalf("unexpected WB cell count %d (known=%v)", count, known)
	}
	if len(uart.ExternalInterfaces) != 2 {
		t.Fatal("unexpected interface count")
	}
	if uart.ExternalInterfaces[0].Port != "rx" {
		t.Fatal("port should default to the interface name")
	}
	if uart.ExternalInterfaces[1].Direction != "output" {
		t.Fatal("direction should be normalized to lower case")
	}
	if uart.ExternalInterfaces[1].Port != "txd" {
		t.Fatal("explicit port name should be kept")
	}

	gpio, _ := library.Lookup("gpio")
	if gpio.SupportsInterrupts() {
		t.Fatal("gpio should not support interrupts")
	}
	if count, known := gpio.WBCellCount(); !known || count != 300 {
		t.Fatal("quoted cell count figures should be accepted")
	}
	if gpio.Info.WindowSize != 0x1000 {
		t.Fatalf("unexpected window size 0x%X", gpio.Info.WindowSize)
	}
}

func TestParseAggregatedLibrary(t *testing.T) {
	library, err := ParseLibrary([]byte(aggregatedLibrary))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	spi, ok := library.Lookup("spi")
	if !ok {
		t.Fatal("spi entry missing")
	}
	if spi.Info.Description != "SPI master" {
		t.Fatal("unexpected description")
	}
	if !spi.ExternalInterfaces[0].OutputControl {
		t.Fatal("output_control should be kept")
	}
	if spi.SupportsInterrupts() {
		t.Fatal("spi should not support interrupts")
	}
}

func TestBusSupport(t *testing.T) {
	library, err := ParseLibrary([]byte(`{
		"uart": {"description": "x", "bus": ["wb"], "cell_count": []},
		"gpio": {"description": "x", "bus": ["Generic", "AHB"], "cell_count": []},
		"dma":  {"description": "x", "bus": ["AHB"], "cell_count": []},
		"spi":  {"description": "x", "cell_count": []}
	}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}

	for name, supported := range map[string]bool{
		"uart": true,  // bus names are case-insensitive
		"gpio": true,  // GENERIC counts as Wishbone-compatible
		"dma":  false, // AHB only
		"spi":  false, // no bus list at all
	} {
		entry, _ := library.Lookup(name)
		if entry.SupportsWishbone() != supported {
			t.Fatalf("unexpected bus support for %q", name)
		}
	}
}

func TestEmptyLibraryIsLegal(t *testing.T) {
	library, err := ParseLibrary([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	if library.Len() != 0 {
		t.Fatal("expected an empty library")
	}
}

func TestNamesAreSorted(t *testing.T) {
	library, err := ParseLibrary([]byte(keyedLibrary))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	names := library.Names()
	if len(names) != 2 || names[0] != "gpio" || names[1] != "uart" {
		t.Fatalf("unexpected name order: %v", names)
	}
}

func expectSchemaError(t *testing.T, document string, entry, field string) {
	t.Helper()
	_, err := ParseLibrary([]byte(document))
	if err == nil {
		t.Fatal("parse should have failed")
	}
	var schemaErr *schema.Error
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected a schema error, got %T", err)
	}
	if schemaErr.Entry != entry {
		t.Fatalf("expected entry %q, got %q", entry, schemaErr.Entry)
	}
	if schemaErr.Field != field {
		t.Fatalf("expected field %q, got %q", field, schemaErr.Field)
	}
}

func TestMissingDescription(t *testing.T) {
	expectSchemaError(t, `{"uart": {"cell_count": []}}`, "uart", "description")
}

func TestMissingCellCount(t *testing.T) {
	expectSchemaError(t, `{"uart": {"description": "x"}}`, "uart", "cell_count")
}

func TestNonNumericCellCount(t *testing.T) {
	expectSchemaError(t, `{"uart": {"description": "x", "cell_count": [{"WB": "many"}]}}`, "uart", "cell_count")
}

func TestDuplicateCellCountTool(t *testing.T) {
	expectSchemaError(t, `{"uart": {"description": "x", "cell_count": [{"WB": 1}, {"WB": 2}]}}`, "uart", "cell_count")
}

func TestInterfaceWithoutName(t *testing.T) {
	expectSchemaError(t,
		`{"uart": {"description": "x", "cell_count": [], "external_interface": [{"direction": "input"}]}}`,
		"uart", "external_interface[0].name")
}

func TestInterfaceWithBadDirection(t *testing.T) {
	expectSchemaError(t,
		`{"uart": {"description": "x", "cell_count": [], "external_interface": [{"name": "rx", "direction": "sideways"}]}}`,
		"uart", "external_interface[0].direction")
}

func TestDuplicateInterfaceName(t *testing.T) {
	expectSchemaError(t,
		`{"uart": {"description": "x", "cell_count": [], "external_interface": [
			{"name": "rx", "direction": "input"}, {"name": "rx", "direction": "output"}]}}`,
		"uart", "external_interface")
}
