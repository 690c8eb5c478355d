package gen

import (
	"fmt"
	"path"
	"strings"

	"github.com/wbgen/wbgen/util"
)

// GenerateHeader renders the C header from the resolved plan. Every address
// comes from the allocator's computation, never from re-parsed HDL text, so
// the header and the interconnect cannot drift apart.
func (g *Generator) GenerateHeader(headerFileName string) string {
	guard := "__" + strings.ToUpper(strings.ReplaceAll(path.Base(headerFileName), ".", "_")) + "__"

	var b strings.Builder
	line := func(format string, a ...interface{}) {
		fmt.Fprintf(&b, format+"\n", a...)
	}

	line("// Register map generated by wbgen %s. Do not edit.", util.WbgenVersion)
	line("#ifndef %s", guard)
	line("#define %s", guard)
	line("")
	line("#define WB_BUS_SLAVE_COUNT %d", len(g.Processed))
	line("#define WB_BUS_IRQ_WIDTH %d", g.Params.IRQWidth)
	line("")

	for _, slave := range g.Processed {
		macro := strings.ToUpper(slave.Name)
		line("#define %s_BASE %s", macro, util.CHex(slave.Base))
		line("#define %s_SIZE %s", macro, util.CHex(slave.Size))
		// Named FIFOs get word-sized data registers allocated sequentially
		// from the slave base.
		offset := uint32(0)
		for _, fifo := range slave.Entry.FIFOs {
			if fifo.Name == "" {
				continue
			}
			line("#define %s_%s_REG (%s_BASE + %s)", macro, strings.ToUpper(fifo.Name), macro, util.CHex(offset))
			offset += 4
		}
	}
	line("")
	line("#endif // %s", guard)
	return b.String()
}
