package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wbgen/wbgen/config"
	"github.com/wbgen/wbgen/fetch"
	"github.com/wbgen/wbgen/gen"
	"github.com/wbgen/wbgen/iplib"
	"github.com/wbgen/wbgen/log"
	"github.com/wbgen/wbgen/project"
	"github.com/wbgen/wbgen/util"
)

var rootCmd = &cobra.Command{
	Use:   "wbgen",
	Short: "The Wishbone bus generator (wbgen)",
	Long: `The Wishbone bus generator (wbgen) turns a declarative bus slave
configuration and an IP capability library into a synthesizable Wishbone
interconnect and a matching C register-map header, and integrates the
results into a Caravel user project.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}

// loadDocument materializes an input document from a local file or an
// HTTP(S) URL. The generator core only ever sees the bytes.
func loadDocument(source string) []byte {
	if util.FileExists(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			log.Fatal("Failed to read '%s': %s.\n", source, err)
		}
		return data
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		log.Debug("Fetching remote document '%s'.\n", source)
		data, err := fetch.Download(source)
		if err != nil {
			log.Fatal("Failed to fetch '%s': %s.\n", source, err)
		}
		return data
	}

	log.Fatal("Input document '%s' does not exist.\n", source)
	return nil
}

// loadLibrary loads and validates an IP library. An empty source falls back
// to the configured library URL.
func loadLibrary(source string) *iplib.Library {
	if source == "" {
		source = config.GetConfig().IPLibraryURL
	}
	library, err := iplib.ParseLibrary(loadDocument(source))
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	return library
}

// loadSlaves loads and validates a bus slave configuration file.
func loadSlaves(file string) project.BusSlaves {
	slaves, err := project.ParseSlaves(loadDocument(file))
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	return slaves
}

func generationParams() gen.Params {
	cfg := config.GetConfig()
	return gen.Params{
		DefaultWindowSize: cfg.DefaultWindowSize,
		BaseAddressStart:  cfg.BaseAddressStart,
		IRQWidth:          cfg.IRQWidth,
		IOPadCount:        cfg.IOPadCount,
	}
}

// resolveGenerator runs the full load → parse → resolve pipeline and aborts
// on the first error.
func resolveGenerator(busFile, ipSource string) *gen.Generator {
	generator := gen.New(loadLibrary(ipSource), loadSlaves(busFile), generationParams())
	if err := generator.Resolve(); err != nil {
		log.Fatal("%s.\n", err)
	}
	return generator
}
