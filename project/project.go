// Package project models the per-project list of bus slave instances,
// loaded from a YAML document.
package project

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/wbgen/wbgen/schema"
	"github.com/wbgen/wbgen/util"
)

// DocumentName identifies the bus slave document in validation errors.
const DocumentName = "bus-slaves"

// BusSlave is one configured peripheral instance on the bus.
type BusSlave struct {
	Name string
	// Type must resolve to an IP library entry. The cross-reference is
	// checked by the allocator, not here.
	Type string
	// BaseAddress is the requested base address literal. Empty means the
	// allocator picks the next free window.
	BaseAddress string
	IRQ         *int
	IOPins      map[string]int
}

// BusSlaves is the ordered list of slave instances. The order defines the
// decode priority and the instantiation order of the generated bus.
type BusSlaves struct {
	Slaves []BusSlave
}

type rawSlave struct {
	Name        string                 `yaml:"name"`
	Type        string                 `yaml:"type"`
	BaseAddress interface{}            `yaml:"base_address"`
	IRQ         *int                   `yaml:"irq"`
	IOPins      map[string]interface{} `yaml:"io_pins"`
}

type rawDocument struct {
	Slaves []rawSlave `yaml:"slaves"`
}

// ParseSlaves parses and validates a bus slave YAML document. Order is
// preserved. Cross-references into the IP library are not checked here so
// that both documents stay independently testable.
func ParseSlaves(data []byte) (BusSlaves, error) {
	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return BusSlaves{}, schema.Errorf(DocumentName, "", "", "invalid YAML document: %s", err)
	}

	result := BusSlaves{}
	for i, raw := range doc.Slaves {
		entryKey := raw.Name
		if entryKey == "" {
			entryKey = "slaves[" + strconv.Itoa(i) + "]"
		}
		if raw.Name == "" {
			return BusSlaves{}, schema.Errorf(DocumentName, entryKey, "name", "missing required field")
		}
		if raw.Type == "" {
			return BusSlaves{}, schema.Errorf(DocumentName, entryKey, "type", "missing required field")
		}

		slave := BusSlave{
			Name: raw.Name,
			Type: raw.Type,
			IRQ:  raw.IRQ,
		}

		if raw.BaseAddress != nil {
			literal, err := asAddressLiteral(raw.BaseAddress)
			if err != nil {
				return BusSlaves{}, schema.Errorf(DocumentName, entryKey, "base_address", "%s", err)
			}
			slave.BaseAddress = literal
		}

		if raw.IRQ != nil && *raw.IRQ < 0 {
			return BusSlaves{}, schema.Errorf(DocumentName, entryKey, "irq", "must be non-negative, got %d", *raw.IRQ)
		}

		if raw.IOPins != nil {
			slave.IOPins = map[string]int{}
			for pinName, pinValue := range raw.IOPins {
				pin, err := asPinNumber(pinValue)
				if err != nil {
					return BusSlaves{}, schema.Errorf(DocumentName, entryKey, "io_pins", "value for %q: %s", pinName, err)
				}
				slave.IOPins[pinName] = pin
			}
		}

		result.Slaves = append(result.Slaves, slave)
	}
	return result, nil
}

// asAddressLiteral normalizes a base address to a literal string, verifying
// that it parses as an unsigned 32-bit value. YAML may already have decoded
// plain hex/decimal forms into an integer.
func asAddressLiteral(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		if _, err := util.ParseAddress(v); err != nil {
			return "", err
		}
		return v, nil
	case int:
		if v < 0 || int64(v) > math.MaxUint32 {
			return "", fmt.Errorf("address %d is outside the 32-bit range", v)
		}
		return util.CHex(uint32(v)), nil
	default:
		return "", fmt.Errorf("address must be a string literal or an integer, got %T", value)
	}
}

func asPinNumber(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case string:
		pin, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("must be an integer, got %q", v)
		}
		return pin, nil
	default:
		return 0, fmt.Errorf("must be an integer, got %T", value)
	}
}
