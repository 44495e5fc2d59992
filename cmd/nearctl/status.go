package main

import (
	"context"

	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show node and network status",
		Long: `Show the node's version, chain, sync state, and current validators.

Examples:
  # Status of the configured network
  nearctl status

  # Status of a specific node
  nearctl status --rpc-url http://127.0.0.1:3030`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := newClient().NetworkStatus(context.Background())
	if err != nil {
		return err
	}
	if cfg.JSON {
		return logger.JSON(status)
	}
	logger.Bold("chain: %s", status.ChainID)
	logger.Info("node version: %s", status.Version.Version)
	logger.Info("protocol version: %d (latest %d)", status.ProtocolVersion, status.LatestProtocolVersion)
	logger.Info("latest block: %d (%s)", status.SyncInfo.LatestBlockHeight, status.SyncInfo.LatestBlockHash)
	if status.SyncInfo.Syncing {
		logger.Warn("node is still syncing")
	}
	logger.Info("validators: %d", len(status.Validators))
	return nil
}
