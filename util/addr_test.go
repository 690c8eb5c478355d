package util

import "testing"

func TestParseAddress(t *testing.T) {
	cases := []struct {
		literal string
		value   uint32
	}{
		{"32'h30000000", 0x30000000},
		{"32'H3000_0000", 0x30000000},
		{"0x30010000", 0x30010000},
		{"0X1000", 0x1000},
		{"4096", 4096},
		{" 32'hFFFFFFFF ", 0xFFFFFFFF},
	}
	for _, c := range cases {
		value, err := ParseAddress(c.literal)
		if err != nil {
			t.Fatalf("failed to parse %q: %s", c.literal, err)
		}
		if value != c.value {
			t.Fatalf("parsed %q to 0x%X, expected 0x%X", c.literal, value, c.value)
		}
	}
}

func TestParseAddressRejectsGarbage(t *testing.T) {
	for _, literal := range []string{"", "32'hXYZ", "0xGG", "banana", "32'h100000000"} {
		if _, err := ParseAddress(literal); err == nil {
			t.Fatalf("parsing %q should have failed", literal)
		}
	}
}

func TestAddressFormatting(t *testing.T) {
	if VerilogHex(0x30000000) != "32'h30000000" {
		t.Fatal("unexpected Verilog literal")
	}
	if CHex(0x30000000) != "0x30000000" {
		t.Fatal("unexpected C literal")
	}
	if VerilogHex(0x10) != "32'h00000010" {
		t.Fatal("Verilog literal should be zero-padded")
	}
}
