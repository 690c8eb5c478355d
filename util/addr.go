package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAddress parses a 32-bit address literal. Both Verilog-style literals
// (32'h3000_0000) and ordinary integer literals (0x30000000, 805306368) are
// accepted.
func ParseAddress(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty address literal")
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "32'h") {
		hex := strings.ReplaceAll(s[4:], "_", "")
		value, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid Verilog address literal %q", s)
		}
		return uint32(value), nil
	}

	value, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address literal %q", s)
	}
	return uint32(value), nil
}

// VerilogHex formats an address as a 32-bit Verilog hex literal.
func VerilogHex(addr uint32) string {
	return fmt.Sprintf("32'h%08X", addr)
}

// CHex formats an address as a C hex literal.
func CHex(addr uint32) string {
	return fmt.Sprintf("0x%08X", addr)
}
