// Package config loads the optional server configuration file.
//
// The file is TOML:
//
//	log_level = "info"
//
//	[defaults]
//	pixels = 400
//	board_format = "svg"
//	engine = "stockfish"
//	depth = 20
//
// Anything left out keeps its built-in value.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/dwcoates/pgn-mode/pkg/protocol"
)

// EnvPath names the environment variable holding an explicit config path.
const EnvPath = "PGN_SERVER_CONFIG"

// Config holds process-level settings read once at startup.
type Config struct {
	LogLevel string           `toml:"log_level"`
	Defaults protocol.Options `toml:"defaults"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Defaults: protocol.DefaultOptions(),
	}
}

// DefaultPath returns the config path used when EnvPath is unset.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pgn-mode", "server.toml")
}

// Load reads the file named by EnvPath, or DefaultPath. A missing file at
// the default location is not an error; a missing explicit file is.
func Load() (Config, error) {
	if path := os.Getenv(EnvPath); path != "" {
		return LoadFile(path)
	}
	path := DefaultPath()
	if path == "" {
		return Default(), nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile decodes path over the built-in defaults and validates the result.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Defaults.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
