// internal/config/write.go
package config

import (
	"io"

	"github.com/pelletier/go-toml/v2"
)

// Write serialises c as TOML.
func Write(w io.Writer, c *Config) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}

// WriteDefault writes the built-in configuration, ready to be saved as
// config.toml.
func WriteDefault(w io.Writer) error { return Write(w, Default()) }
