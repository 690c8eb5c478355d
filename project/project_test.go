package project

import (
	"errors"
	"testing"

	"github.com/wbgen/wbgen/schema"
)

const slavesDocument = `
slaves:
  - name: u0
    type: uart
    base_address: "32'h30000000"
    irq: 0
    io_pins:
      rx: 5
      tx: "6"
  - name: g0
    type: gpio
    base_address: 0x30010000
  - name: s0
    type: spi
`

func TestParseSlavesPreservesOrder(t *testing.T) {
	slaves, err := ParseSlaves([]byte(slavesDocument))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	if len(slaves.Slaves) != 3 {
		t.Fatalf("expected 3 slaves, got %d", len(slaves.Slaves))
	}
	expected := []string{"u0", "g0", "s0"}
	for i, name := range expected {
		if slaves.Slaves[i].Name != name {
			t.Fatalf("unexpected slave at index %d: %q", i, slaves.Slaves[i].Name)
		}
	}
}

func TestParseSlaveFields(t *testing.T) {
	slaves, err := ParseSlaves([]byte(slavesDocument))
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}

	u0 := slaves.Slaves[0]
	if u0.Type != "uart" {
		t.Fatal("unexpected type")
	}
	if u0.BaseAddress != "32'h30000000" {
		t.Fatal("requested base address literal should be kept")
	}
	if u0.IRQ == nil || *u0.IRQ != 0 {
		t.Fatal("unexpected IRQ")
	}
	if u0.IOPins["rx"] != 5 || u0.IOPins["tx"] != 6 {
		t.Fatal("io_pins values should be converted to integers")
	}

	g0 := slaves.Slaves[1]
	if g0.BaseAddress != "0x30010000" {
		t.Fatalf("integer base addresses should be normalized, got %q", g0.BaseAddress)
	}
	if g0.IRQ != nil {
		t.Fatal("g0 should have no IRQ")
	}

	if slaves.Slaves[2].BaseAddress != "" {
		t.Fatal("s0 should have no requested base address")
	}
}

func expectSchemaError(t *testing.T, document string, field string) {
	t.Helper()
	_, err := ParseSlaves([]byte(document))
	if err == nil {
		t.Fatal("parse should have failed")
	}
	var schemaErr *schema.Error
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected a schema error, got %T", err)
	}
	if schemaErr.Field != field {
		t.Fatalf("expected field %q, got %q", field, schemaErr.Field)
	}
}

func TestMissingName(t *testing.T) {
	expectSchemaError(t, "slaves:\n  - type: uart\n", "name")
}

func TestMissingType(t *testing.T) {
	expectSchemaError(t, "slaves:\n  - name: u0\n", "type")
}

func TestBadBaseAddress(t *testing.T) {
	expectSchemaError(t, "slaves:\n  - name: u0\n    type: uart\n    base_address: banana\n", "base_address")
}

func TestNegativeIRQ(t *testing.T) {
	expectSchemaError(t, "slaves:\n  - name: u0\n    type: uart\n    irq: -1\n", "irq")
}

func TestBadIOPinValue(t *testing.T) {
	expectSchemaError(t, "slaves:\n  - name: u0\n    type: uart\n    io_pins:\n      rx: lots\n", "io_pins")
}
