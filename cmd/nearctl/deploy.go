package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/near-client/pkg/types"
)

func NewDeployCmd() *cobra.Command {
	var retries int
	cmd := &cobra.Command{
		Use:   "deploy <wasm-file>",
		Short: "Deploy a contract to the signer's account",
		Long: `Deploy a compiled WebAssembly contract to the signer's account,
replacing any code already there. Account state is untouched.

Examples:
  nearctl deploy ./target/counter.wasm --signer counter.testnet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(args, retries)
		},
	}
	cmd.Flags().IntVar(&retries, "retry", 0, "Extra submission attempts after a nonce conflict (0-2)")
	return cmd
}

func runDeploy(args []string, retries int) error {
	retry, err := retryPolicy(retries)
	if err != nil {
		return err
	}
	wasm, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read contract code: %w", err)
	}
	if len(wasm) == 0 {
		return fmt.Errorf("contract file %s is empty", args[0])
	}

	ctx := context.Background()
	c := newClient()
	signer, err := loadSigner(ctx, c)
	if err != nil {
		return err
	}
	logger.Debug("deploying %d bytes of code to %s", len(wasm), signer.AccountID())

	out, err := c.DeployContract(signer, signer.AccountID(), wasm).
		Retry(retry).
		Commit(ctx, types.FinalityFinal)
	if err != nil {
		return err
	}
	logger.Success("deployed contract to %s", signer.AccountID())
	return printOutput(out)
}
