package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/near-client/pkg/types"
)

func NewTxStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "Look up a transaction by hash",
		Long: `Fetch the final outcome of a previously submitted transaction. The
signer account is used to route the lookup to the right shard.

Examples:
  nearctl tx 7WYieGiLE7WdFrAXzbPWUbXjeVZJdpsCqJyfBEFcy7AQ --signer alice.testnet`,
		Args: cobra.ExactArgs(1),
		RunE: runTxStatus,
	}
}

func runTxStatus(cmd *cobra.Command, args []string) error {
	id, err := types.ParseCryptoHash(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	c := newClient()
	signer, err := loadSigner(ctx, c)
	if err != nil {
		return err
	}

	out, err := c.ViewTransaction(ctx, id, signer)
	if err != nil {
		return err
	}
	return printOutput(out)
}
