// Package iplib models the catalog of reusable peripheral-core types and
// their capabilities, loaded from a JSON document.
package iplib

import (
	"strings"

	"github.com/wbgen/wbgen/util"
)

// CellCount is the synthesis area cost of an IP under one synthesis target.
type CellCount struct {
	Tool  string
	Count int
}

// IPInfo holds the basic information about an IP type.
type IPInfo struct {
	Description string
	Bus         []string
	CellCounts  []CellCount

	// WindowSize is the explicit address-window size of the IP. Zero means
	// the configured default window size applies.
	WindowSize uint32
}

// ExternalInterface is an I/O signal exposed through the top-level wrapper.
type ExternalInterface struct {
	Name        string
	Port        string
	Direction   string
	Width       int
	Description string

	// OutputControl marks outputs that drive the pad output-enable directly
	// instead of the pad data line.
	OutputControl bool
}

// FIFO describes one FIFO of an IP. A named FIFO contributes a data-register
// offset to the generated C header.
type FIFO struct {
	Name  string
	Depth int
	Width int
}

// Entry is one IP library entry, identified by its peripheral-type name.
// The presence of a "flags" marker in the source document is folded into the
// Interrupts field during parsing.
type Entry struct {
	Name               string
	Info               IPInfo
	ExternalInterfaces []ExternalInterface
	Interrupts         bool
	FIFOs              []FIFO
}

// SupportsInterrupts reports whether the IP declares an interrupt output.
func (e *Entry) SupportsInterrupts() bool {
	return e.Interrupts
}

// SupportsWishbone reports whether the IP lists "WB" or "GENERIC" among its
// supported bus types.
func (e *Entry) SupportsWishbone() bool {
	for _, bus := range e.Info.Bus {
		if upper := strings.ToUpper(bus); upper == "WB" || upper == "GENERIC" {
			return true
		}
	}
	return false
}

// UsesFIFOs reports whether the IP declares any FIFOs.
func (e *Entry) UsesFIFOs() bool {
	return len(e.FIFOs) > 0
}

// WBCellCount returns the cell count of the Wishbone-wrapped variant of the
// IP. The second return value is false when no "WB" figure is declared.
func (e *Entry) WBCellCount() (int, bool) {
	for _, cc := range e.Info.CellCounts {
		if cc.Tool == "WB" {
			return cc.Count, true
		}
	}
	return 0, false
}

// Library maps peripheral-type names to their entries. It is immutable once
// loaded for a generation run.
type Library struct {
	entries map[string]*Entry
}

// Lookup resolves a peripheral-type name.
func (l *Library) Lookup(name string) (*Entry, bool) {
	entry, ok := l.entries[name]
	return entry, ok
}

// Names returns all peripheral-type names in sorted order.
func (l *Library) Names() []string {
	return util.OrderedKeys(l.entries)
}

// Len returns the number of entries in the library.
func (l *Library) Len() int {
	return len(l.entries)
}
