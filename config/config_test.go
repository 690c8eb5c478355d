package config

import (
	"os"
	"path"
	"testing"
)

func TestDefaultsWithoutConfigFile(t *testing.T) {
	os.Setenv("WBGEN_CONFIG_DIR", t.TempDir())
	defer os.Unsetenv("WBGEN_CONFIG_DIR")

	config := loadConfiguration()
	if config.IPLibraryURL == "" {
		t.Fatal("the IP library URL needs a default")
	}
	if config.DefaultWindowSize != 0x10000 {
		t.Fatalf("unexpected default window size 0x%X", config.DefaultWindowSize)
	}
	if config.BaseAddressStart != 0x10000000 {
		t.Fatalf("unexpected base address start 0x%X", config.BaseAddressStart)
	}
	if config.IRQWidth != 3 || config.IOPadCount != 38 {
		t.Fatal("unexpected platform defaults")
	}
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	configDir := t.TempDir()
	content := "irq-width: 4\nio-pad-count: 16\ndefault-window-size: 4096\n"
	if err := os.WriteFile(path.Join(configDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	os.Setenv("WBGEN_CONFIG_DIR", configDir)
	defer os.Unsetenv("WBGEN_CONFIG_DIR")

	config := loadConfiguration()
	if config.IRQWidth != 4 {
		t.Fatalf("unexpected IRQ width %d", config.IRQWidth)
	}
	if config.IOPadCount != 16 {
		t.Fatalf("unexpected pad count %d", config.IOPadCount)
	}
	if config.DefaultWindowSize != 4096 {
		t.Fatalf("unexpected window size %d", config.DefaultWindowSize)
	}
	if config.BaseAddressStart != 0x10000000 {
		t.Fatal("unset keys should keep their defaults")
	}
}
