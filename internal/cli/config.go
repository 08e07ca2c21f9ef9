package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds user preferences read from the config file. All fields are
// optional; missing ones keep their defaults.
type Config struct {
	// ConfirmBulkRemove asks before removing more than one node at once.
	ConfirmBulkRemove bool `toml:"confirm_bulk_remove"`

	// GridSnap rounds node positions to multiples of this many canvas units
	// when dragging ends. Zero disables snapping.
	GridSnap float64 `toml:"grid_snap"`

	// ExportScale is the raster scale factor used by "export --format png".
	ExportScale float64 `toml:"export_scale"`

	// ServeAddr is the default listen address of the serve command.
	ServeAddr string `toml:"serve_addr"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		ConfirmBulkRemove: true,
		GridSnap:          0,
		ExportScale:       2.0,
		ServeAddr:         "localhost:8421",
	}
}

// LoadConfig reads a TOML config file, applying defaults for missing fields.
// A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
