// Package config loads nearctl configuration: TOML config files,
// network endpoint defaults, and NEAR credential files.
package config

// FileConfig represents the raw config.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	// Global settings
	NoColor *bool `toml:"no_color"`
	Verbose *bool `toml:"verbose"`
	JSON    *bool `toml:"json"`

	// Network selection: a named network ("mainnet", "testnet",
	// "localnet") or an explicit RPC endpoint overriding it.
	Network *string `toml:"network"`
	RPCURL  *string `toml:"rpc_url"`

	// CredentialsDir is where account key files live.
	CredentialsDir *string `toml:"credentials_dir"`

	// SignerID is the default account used to sign transactions.
	SignerID *string `toml:"signer_id"`
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.NoColor == nil &&
		f.Verbose == nil &&
		f.JSON == nil &&
		f.Network == nil &&
		f.RPCURL == nil &&
		f.CredentialsDir == nil &&
		f.SignerID == nil
}
