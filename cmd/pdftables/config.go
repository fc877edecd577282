package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/Hanaasagi/pdftables/internal/output"
	"github.com/Hanaasagi/pdftables/pkg/tablerecon"
)

type Config struct {
	Detection tablerecon.Config `toml:"detection"`
	Output    OutputConfig      `toml:"output"`
	Colors    ColorConfig       `toml:"colors"`
	Log       LogConfig         `toml:"log"`
}

type OutputConfig struct {
	Format string `toml:"format"` // json, yaml or text
	Indent int    `toml:"indent"`
}

type ColorConfig struct {
	Title  string `toml:"title"`
	Header string `toml:"header"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func NewDefaultConfig() *Config {
	opts := output.DefaultOptions()
	return &Config{
		Detection: tablerecon.DefaultConfig(),
		Output: OutputConfig{
			Format: output.FormatJSON,
			Indent: opts.Indent,
		},
		Colors: ColorConfig{
			Title:  opts.TitleColor,
			Header: opts.HeaderColor,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/pdftables/config.toml.
func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// LoadConfigFromFile reads a TOML config on top of the defaults. A missing
// file yields the defaults.
func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // no config file, return defaults
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	return config, nil
}

// OutputOptions returns the writer options for this config.
func (c *Config) OutputOptions(colored bool) output.Options {
	return output.Options{
		Indent:      c.Output.Indent,
		Color:       colored,
		TitleColor:  c.Colors.Title,
		HeaderColor: c.Colors.Header,
	}
}
