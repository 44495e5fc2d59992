package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Known networks and their public RPC endpoints.
var networkEndpoints = map[string]string{
	"mainnet":  "https://rpc.mainnet.near.org",
	"testnet":  "https://rpc.testnet.near.org",
	"localnet": "http://127.0.0.1:3030",
}

// DefaultNetwork is used when neither a network nor an endpoint is
// configured.
const DefaultNetwork = "testnet"

// Config is the effective configuration after merging files, defaults,
// and flags.
type Config struct {
	Network        string
	RPCURL         string
	CredentialsDir string
	SignerID       string
	NoColor        bool
	Verbose        bool
	JSON           bool
}

// Resolve turns a merged FileConfig into an effective Config, applying
// defaults for everything unset.
func Resolve(file *FileConfig) (*Config, error) {
	cfg := &Config{Network: DefaultNetwork}

	if file.Network != nil {
		cfg.Network = *file.Network
	}
	if file.RPCURL != nil {
		cfg.RPCURL = *file.RPCURL
	} else {
		endpoint, ok := networkEndpoints[cfg.Network]
		if !ok {
			return nil, fmt.Errorf("unknown network %q and no rpc_url configured", cfg.Network)
		}
		cfg.RPCURL = endpoint
	}

	if file.CredentialsDir != nil {
		cfg.CredentialsDir = *file.CredentialsDir
	} else {
		cfg.CredentialsDir = DefaultCredentialsDir()
	}
	if file.SignerID != nil {
		cfg.SignerID = *file.SignerID
	}
	if file.NoColor != nil {
		cfg.NoColor = *file.NoColor
	}
	if file.Verbose != nil {
		cfg.Verbose = *file.Verbose
	}
	if file.JSON != nil {
		cfg.JSON = *file.JSON
	}
	return cfg, nil
}

// DefaultHomeDir returns the nearctl data directory.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nearctl"
	}
	return filepath.Join(home, ".nearctl")
}

// DefaultCredentialsDir returns the conventional NEAR credential
// location shared with other NEAR tooling.
func DefaultCredentialsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".near-credentials"
	}
	return filepath.Join(home, ".near-credentials")
}
