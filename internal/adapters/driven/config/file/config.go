// Package file provides the TOML-based service configuration.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/caselib/internal/core/domain"
)

// Config is the caselib service configuration.
type Config struct {
	// Listen is the HTTP listen address, e.g. ":8330".
	Listen string `toml:"listen"`

	// BaseAddress is the externally reachable prefix document references
	// are built from, e.g. "https://caselib.example.org/libraries/".
	BaseAddress string `toml:"base_address"`

	// DataDir is the SQLite index location. Empty means the default
	// under the user's home directory.
	DataDir string `toml:"data_dir"`

	// Libraries are the hosted document libraries.
	Libraries []LibraryConfig `toml:"libraries"`
}

// LibraryConfig is one hosted library.
type LibraryConfig struct {
	ID      string `toml:"id"`
	Title   string `toml:"title"`
	Tagline string `toml:"tagline"`
	Mode    string `toml:"mode"`
}

// DefaultPath returns the default config file location,
// ~/.caselib/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".caselib", "config.toml"), nil
}

// Load reads and parses the config file at path. If path is empty the
// default location is used. A missing file yields the zero Config with
// defaults applied, so a fresh install starts without ceremony.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fall through to defaults.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8330"
	}
	if c.BaseAddress == "" {
		c.BaseAddress = "http://localhost:8330/libraries/"
	}
}

// DomainLibraries converts the configured libraries to domain values.
// A mode other than "open" is treated as closed.
func (c *Config) DomainLibraries() []domain.Library {
	out := make([]domain.Library, 0, len(c.Libraries))
	for _, lc := range c.Libraries {
		mode := domain.ModeClosed
		if lc.Mode == string(domain.ModeOpen) {
			mode = domain.ModeOpen
		}
		out = append(out, domain.Library{
			ID:      lc.ID,
			Title:   lc.Title,
			Tagline: lc.Tagline,
			Mode:    mode,
		})
	}
	return out
}
