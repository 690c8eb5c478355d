// Package gen joins the IP library against the bus slave list, computes the
// address map and interrupt wiring, and renders the Verilog interconnect and
// the C header from the same resolved plan.
package gen

import (
	"fmt"

	"github.com/wbgen/wbgen/iplib"
	"github.com/wbgen/wbgen/log"
	"github.com/wbgen/wbgen/project"
	"github.com/wbgen/wbgen/util"
)

// Params are the platform parameters of a generation run. They are passed
// in explicitly so that a run is a pure function of its inputs.
type Params struct {
	// DefaultWindowSize is the address-window size for IP types without an
	// explicit window_size.
	DefaultWindowSize uint32
	// BaseAddressStart is where auto-allocated base addresses begin.
	BaseAddressStart uint32
	// IRQWidth is the width of the project IRQ vector. Requested indices are
	// folded modulo this width.
	IRQWidth int
	// IOPadCount is the number of IO pads on the target platform.
	IOPadCount int
}

// DefaultParams returns the Caravel user-project parameters.
func DefaultParams() Params {
	return Params{
		DefaultWindowSize: 0x10000,
		BaseAddressStart:  0x10000000,
		IRQWidth:          3,
		IOPadCount:        38,
	}
}

// ProcessedSlave is the fully resolved form of one bus slave. It is created
// once per generation run and consumed read-only by both emitters.
type ProcessedSlave struct {
	Name  string
	Type  string
	Entry *iplib.Entry

	// Base and Size describe the slave's address window [Base, Base+Size).
	Base uint32
	Size uint32

	// IRQ is the resolved interrupt line index, nil when unassigned.
	IRQ *int

	// CellCount is the "WB" figure of the IP's cell_count list.
	// CellCountKnown is false when the IP declares none; presentation
	// layers show "N/A" in that case.
	CellCount      int
	CellCountKnown bool

	// IOPins carries the instance's pin bindings verbatim, including names
	// that match no declared interface.
	IOPins map[string]int
}

// End returns the first address past the slave's window.
func (s *ProcessedSlave) End() uint64 {
	return uint64(s.Base) + uint64(s.Size)
}

// Generator orchestrates one generation run. It is stateless across runs:
// resolving the same inputs twice yields the same plan.
type Generator struct {
	Library *iplib.Library
	Slaves  project.BusSlaves
	Params  Params

	Processed []*ProcessedSlave
}

// New creates a Generator for the given inputs.
func New(library *iplib.Library, slaves project.BusSlaves, params Params) *Generator {
	return &Generator{
		Library: library,
		Slaves:  slaves,
		Params:  params,
	}
}

// Resolve joins the slave list against the IP library and computes the
// address map and IRQ assignment. It walks the slaves in input order; that
// order becomes the decode priority and the instantiation order of the
// emitted bus. Any failure aborts the run before anything is emitted.
func (g *Generator) Resolve() error {
	g.Processed = nil

	// Params flow in from the user configuration, so they are not trusted.
	if g.Params.DefaultWindowSize < 1 || g.Params.IRQWidth < 1 || g.Params.IOPadCount < 1 {
		return fmt.Errorf("generation parameters must be positive (window size 0x%X, IRQ width %d, pad count %d)",
			g.Params.DefaultWindowSize, g.Params.IRQWidth, g.Params.IOPadCount)
	}

	seenNames := map[string]bool{}
	// Auto-allocated windows are placed past everything allocated so far.
	cursor := uint64(g.Params.BaseAddressStart)

	for _, slave := range g.Slaves.Slaves {
		if seenNames[slave.Name] {
			return &NameCollisionError{Name: slave.Name}
		}
		seenNames[slave.Name] = true

		entry, ok := g.Library.Lookup(slave.Type)
		if !ok {
			return &UnknownTypeError{Type: slave.Type, Slave: slave.Name}
		}

		size := entry.Info.WindowSize
		if size == 0 {
			size = g.Params.DefaultWindowSize
		}

		var base uint32
		if slave.BaseAddress != "" {
			parsed, err := util.ParseAddress(slave.BaseAddress)
			if err != nil {
				// The loader already validated the literal; this guards
				// against callers constructing slaves by hand.
				return err
			}
			base = parsed
		} else {
			if cursor+uint64(size) > 1<<32 {
				return fmt.Errorf("no room left in the 32-bit address space for slave %q (window size 0x%X)",
					slave.Name, size)
			}
			base = uint32(cursor)
			log.Debug("Auto-allocated base address %s for slave '%s'.\n", util.CHex(base), slave.Name)
		}

		processed := &ProcessedSlave{
			Name:   slave.Name,
			Type:   slave.Type,
			Entry:  entry,
			Base:   base,
			Size:   size,
			IOPins: slave.IOPins,
		}

		if processed.End() > 1<<32 {
			return fmt.Errorf("address window %s+0x%X of slave %q exceeds the 32-bit address space",
				util.CHex(processed.Base), processed.Size, processed.Name)
		}

		for _, prior := range g.Processed {
			if uint64(processed.Base) < prior.End() && uint64(prior.Base) < processed.End() {
				return &AddressOverlapError{
					SlaveA: prior.Name,
					SlaveB: processed.Name,
					Base:   processed.Base,
					Size:   processed.Size,
				}
			}
		}

		if slave.IRQ != nil {
			if !entry.SupportsInterrupts() {
				log.Warning("Slave '%s' of type '%s' requests IRQ %d but the IP declares no interrupt support. Leaving it unassigned.\n",
					slave.Name, slave.Type, *slave.IRQ)
			} else {
				line := *slave.IRQ % g.Params.IRQWidth
				if line != *slave.IRQ {
					log.Warning("IRQ %d of slave '%s' folded to line %d (vector width %d).\n",
						*slave.IRQ, slave.Name, line, g.Params.IRQWidth)
				}
				processed.IRQ = &line
			}
		}

		processed.CellCount, processed.CellCountKnown = entry.WBCellCount()
		if !entry.SupportsWishbone() {
			log.Warning("IP '%s' of slave '%s' does not list WB bus support (bus: %v). Using 0 cell count.\n",
				slave.Type, slave.Name, entry.Info.Bus)
			processed.CellCount, processed.CellCountKnown = 0, false
		} else if !processed.CellCountKnown {
			log.Debug("IP '%s' declares no WB cell count.\n", slave.Type)
		}

		if processed.End() > cursor {
			cursor = processed.End()
		}
		g.Processed = append(g.Processed, processed)
	}

	return nil
}

// TotalCellCount sums the known WB cell counts of all processed slaves.
func (g *Generator) TotalCellCount() int {
	total := 0
	for _, slave := range g.Processed {
		if slave.CellCountKnown {
			total += slave.CellCount
		}
	}
	return total
}

// IRQVectorWidth returns the minimum vector width covering the highest
// assigned interrupt line. A project without interrupts still gets a one
// bit wide vector so the port list stays well-formed.
func (g *Generator) IRQVectorWidth() int {
	width := 1
	for _, slave := range g.Processed {
		if slave.IRQ != nil && *slave.IRQ+1 > width {
			width = *slave.IRQ + 1
		}
	}
	return width
}
