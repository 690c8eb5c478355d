package config

import (
	"fmt"
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/wbgen/wbgen/log"
)

// Config holds the user-adjustable generation parameters. All of them have
// working defaults so that running without a configuration file is fine.
type Config struct {
	// IPLibraryURL is the source used for the IP library when none is given
	// on the command line.
	IPLibraryURL string

	// DefaultWindowSize is the address-window size used for IP types that do
	// not declare an explicit window_size.
	DefaultWindowSize uint32

	// BaseAddressStart is where auto-allocated base addresses begin.
	BaseAddressStart uint32

	// IRQWidth is the width of the project IRQ vector. Requested IRQ indices
	// are folded modulo this width.
	IRQWidth int

	// IOPadCount is the number of IO pads available on the target platform.
	IOPadCount int
}

const defaultIPLibraryURL = "https://raw.githubusercontent.com/shalan/cuprj-cli/refs/heads/main/ip-lib.json"

var config *Config

func getConfigDir() (string, error) {
	if configDir, ok := os.LookupEnv("WBGEN_CONFIG_DIR"); ok {
		return configDir, nil
	}

	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return path.Join(xdgConfigHome, "wbgen"), nil
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("unable to locate the configuration directory: %s", err)
	}
	return path.Join(homeDir, ".config", "wbgen"), nil
}

func loadConfiguration() Config {
	v := viper.New()
	v.SetDefault("ip-library-url", defaultIPLibraryURL)
	v.SetDefault("default-window-size", 0x10000)
	v.SetDefault("base-address-start", 0x10000000)
	v.SetDefault("irq-width", 3)
	v.SetDefault("io-pad-count", 38)

	configDir, err := getConfigDir()
	if err != nil {
		log.Debug("Unable to find wbgen config directory. Using default configuration.\n")
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			log.Debug("No configuration file loaded: %s. Using default configuration.\n", err)
		} else {
			log.Debug("Loaded configuration from '%s'.\n", v.ConfigFileUsed())
		}
	}

	config := Config{
		IPLibraryURL:      v.GetString("ip-library-url"),
		DefaultWindowSize: v.GetUint32("default-window-size"),
		BaseAddressStart:  v.GetUint32("base-address-start"),
		IRQWidth:          v.GetInt("irq-width"),
		IOPadCount:        v.GetInt("io-pad-count"),
	}
	log.Debug("Running with configuration: %+v\n", config)
	return config
}

// GetConfig loads the user configuration once and returns it on every call.
func GetConfig() Config {
	if config == nil {
		loadedConfig := loadConfiguration()
		config = &loadedConfig
	}

	return *config
}
