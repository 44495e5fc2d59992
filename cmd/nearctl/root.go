package main

import (
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/near-client/internal/config"
	"github.com/altuslabsxyz/near-client/internal/output"
)

// Global configuration variables
var (
	configPath  string
	flagNetwork string
	flagRPCURL  string
	flagSigner  string
	noColor     bool
	verbose     bool
	jsonMode    bool

	// cfg holds the effective configuration after PersistentPreRunE.
	cfg *config.Config

	logger = output.DefaultLogger
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nearctl",
		Short: "CLI for interacting with NEAR accounts and contracts",
		Long: `nearctl talks to a NEAR node over JSON-RPC to query accounts and
contracts and to sign and submit transactions.

Account keys are read from NEAR credential files
(~/.near-credentials/<network>/<account>.json by default).

Examples:
  # Check an account's balance on testnet
  nearctl balance alice.testnet

  # Send tokens
  nearctl send bob.testnet 1000000000000000000000000 --signer alice.testnet

  # Call a contract method
  nearctl call counter.testnet increment --args '{"by":2}' --signer alice.testnet

  # Read-only contract view
  nearctl view counter.testnet get_count`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader(config.DefaultHomeDir(), configPath, logger)
			file, err := loader.Load()
			if err != nil {
				return err
			}

			// Flags override config file values.
			if cmd.Flags().Changed("network") {
				file.Network = &flagNetwork
			}
			if cmd.Flags().Changed("rpc-url") {
				file.RPCURL = &flagRPCURL
			}
			if cmd.Flags().Changed("signer") {
				file.SignerID = &flagSigner
			}
			if cmd.Flags().Changed("no-color") {
				file.NoColor = &noColor
			}
			if cmd.Flags().Changed("verbose") {
				file.Verbose = &verbose
			}
			if cmd.Flags().Changed("json") {
				file.JSON = &jsonMode
			}

			cfg, err = config.Resolve(file)
			if err != nil {
				return err
			}
			logger.SetNoColor(cfg.NoColor)
			logger.SetVerbose(cfg.Verbose)
			logger.SetJSONMode(cfg.JSON)
			logger.Debug("using RPC endpoint %s (network %s)", cfg.RPCURL, cfg.Network)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a nearctl config file")
	cmd.PersistentFlags().StringVar(&flagNetwork, "network", "", "Named network: mainnet, testnet, localnet")
	cmd.PersistentFlags().StringVar(&flagRPCURL, "rpc-url", "", "Node RPC endpoint (overrides --network)")
	cmd.PersistentFlags().StringVar(&flagSigner, "signer", "", "Account that signs transactions")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false, "Print results as JSON")

	cmd.AddCommand(
		NewStatusCmd(),
		NewBalanceCmd(),
		NewSendCmd(),
		NewCallCmd(),
		NewViewCmd(),
		NewStateCmd(),
		NewDeployCmd(),
		NewCreateAccountCmd(),
		NewDeleteAccountCmd(),
		NewKeysCmd(),
		NewTxStatusCmd(),
	)
	return cmd
}
