package tether

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigEnv names the environment variable holding an explicit config file
// path.
const ConfigEnv = "TETHER_CONFIG"

// FileConfig is the on-disk configuration of tether tools.
//
//	log_level = "info"
//
//	[store]
//	preserve_location_on_reset = true
//
//	[persist]
//	dsn = "file:tips.yaml"
//
//	[server]
//	addr = ":8080"
//
//	[tip.position]
//	my = "top-center"
//	at = "bottom-center"
//	adjust = { method = { flip = ["bottom-center", "top-center"] } }
//
//	[tip.show]
//	delay = 250
type FileConfig struct {
	LogLevel string         `toml:"log_level"`
	Store    StoreSettings  `toml:"store"`
	Persist  PersistConfig  `toml:"persist"`
	Server   ServerSettings `toml:"server"`
	// Tip is merged over DefaultConfig for every tip the tools create.
	Tip Values `toml:"tip"`
}

// StoreSettings holds the file form of the StoreConfig switches.
type StoreSettings struct {
	PreserveLocationOnReset bool `toml:"preserve_location_on_reset"`
	Disabled                bool `toml:"disabled"`
}

// PersistConfig selects the stored-tips backend.
type PersistConfig struct {
	DSN string `toml:"dsn"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string `toml:"addr"`
}

// DefaultFileConfig returns the configuration used when no file exists.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		LogLevel: "warn",
		Persist:  PersistConfig{DSN: "file:tips.yaml"},
		Server:   ServerSettings{Addr: ":8080"},
	}
}

// TipConfig decodes the [tip] table over DefaultConfig.
func (f *FileConfig) TipConfig() (Config, error) {
	cfg, err := MergeConfig(f.Tip)
	if err != nil {
		return Config{}, fmt.Errorf("tip config: %w", err)
	}
	return cfg, nil
}

// ConfigSearchPaths returns the config file locations in lookup order:
// $TETHER_CONFIG, $XDG_CONFIG_HOME/tether/config.toml,
// ~/.config/tether/config.toml, ./tether.toml.
func ConfigSearchPaths() []string {
	var paths []string
	if p := os.Getenv(ConfigEnv); p != "" {
		paths = append(paths, p)
	}
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		paths = append(paths, filepath.Join(x, "tether", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tether", "config.toml"))
	}
	return append(paths, "tether.toml")
}

// LoadConfig reads the first config file found on the search path, or
// returns DefaultFileConfig when there is none.
func LoadConfig() (*FileConfig, error) {
	for _, p := range ConfigSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadConfigFile(p)
		}
	}
	return DefaultFileConfig(), nil
}

// LoadConfigFile reads the config file at path. A missing file yields
// DefaultFileConfig.
func LoadConfigFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultFileConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	cfg, err := LoadConfigReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigReader decodes TOML from r over DefaultFileConfig and checks
// the tip table.
func LoadConfigReader(r io.Reader) (*FileConfig, error) {
	cfg := DefaultFileConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if _, err := cfg.TipConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}
