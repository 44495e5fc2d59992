package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/altuslabsxyz/near-client/internal/output"
)

// Loader is responsible for loading and merging configuration.
type Loader struct {
	homeDir    string
	configPath string // Explicit --config path
	logger     *output.Logger
}

// NewLoader creates a new Loader. homeDir is the nearctl data directory
// (normally ~/.nearctl).
func NewLoader(homeDir, configPath string, logger *output.Logger) *Loader {
	return &Loader{
		homeDir:    homeDir,
		configPath: configPath,
		logger:     logger,
	}
}

// Load parses config files and merges them in priority order:
// explicit path > ./nearctl.toml > <home>/config.toml. Higher priority
// values overwrite lower ones. A missing config file is not an error;
// an explicitly named one that is missing is.
func (l *Loader) Load() (*FileConfig, error) {
	var files []string

	homePath := filepath.Join(l.homeDir, "config.toml")
	if _, err := os.Stat(homePath); err == nil {
		files = append(files, homePath)
	}
	if _, err := os.Stat("./nearctl.toml"); err == nil {
		files = append(files, "./nearctl.toml")
	}
	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", l.configPath)
		}
		files = append(files, l.configPath)
	}

	merged := &FileConfig{}
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		var cfg FileConfig
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		merge(merged, &cfg)
		l.logger.Debug("loaded config file: %s", path)
	}
	return merged, nil
}

// merge overlays set fields of higher priority onto base.
func merge(base, higher *FileConfig) {
	if higher.NoColor != nil {
		base.NoColor = higher.NoColor
	}
	if higher.Verbose != nil {
		base.Verbose = higher.Verbose
	}
	if higher.JSON != nil {
		base.JSON = higher.JSON
	}
	if higher.Network != nil {
		base.Network = higher.Network
	}
	if higher.RPCURL != nil {
		base.RPCURL = higher.RPCURL
	}
	if higher.CredentialsDir != nil {
		base.CredentialsDir = higher.CredentialsDir
	}
	if higher.SignerID != nil {
		base.SignerID = higher.SignerID
	}
}
