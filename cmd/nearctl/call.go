package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/near-client/pkg/types"
)

// DefaultCallGas is attached to contract calls unless --gas is given.
const DefaultCallGas types.Gas = 30_000_000_000_000

func NewCallCmd() *cobra.Command {
	var (
		argsJSON string
		gas      uint64
		deposit  string
		retries  int
	)
	cmd := &cobra.Command{
		Use:   "call <contract> <method>",
		Short: "Execute a contract method in a transaction",
		Long: `Call a state-changing contract method. Arguments are passed as a JSON
document; gas and an optional deposit are attached to the call.

Examples:
  nearctl call counter.testnet increment --args '{"by":2}' --signer alice.testnet

  # Attach 1 yoctoNEAR, as many token standards require
  nearctl call token.testnet ft_transfer --args '{"receiver_id":"bob.testnet","amount":"1"}' \
    --deposit 1 --signer alice.testnet`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(args, argsJSON, gas, deposit, retries)
		},
	}
	cmd.Flags().StringVar(&argsJSON, "args", "", "Method arguments as a JSON document")
	cmd.Flags().Uint64Var(&gas, "gas", DefaultCallGas, "Prepaid gas for the call")
	cmd.Flags().StringVar(&deposit, "deposit", "0", "Attached deposit in yoctoNEAR")
	cmd.Flags().IntVar(&retries, "retry", 0, "Extra submission attempts after a nonce conflict (0-2)")
	return cmd
}

func runCall(args []string, argsJSON string, gas uint64, deposit string, retries int) error {
	contractID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	method := args[1]
	amount, err := parseAmount(deposit)
	if err != nil {
		return err
	}
	retry, err := retryPolicy(retries)
	if err != nil {
		return err
	}
	callArgs, err := parseCallArgs(argsJSON)
	if err != nil {
		return err
	}

	ctx := context.Background()
	c := newClient()
	signer, err := loadSigner(ctx, c)
	if err != nil {
		return err
	}

	out, err := c.FunctionCall(signer, contractID, method).
		Args(callArgs).
		Gas(gas).
		Deposit(amount).
		Retry(retry).
		Commit(ctx, types.FinalityFinal)
	if err != nil {
		return err
	}
	return printOutput(out)
}

// parseCallArgs validates the --args document and keeps it as raw JSON
// so it is forwarded byte-for-byte.
func parseCallArgs(argsJSON string) (any, error) {
	if argsJSON == "" {
		return nil, nil
	}
	if !json.Valid([]byte(argsJSON)) {
		return nil, fmt.Errorf("--args must be valid JSON")
	}
	return json.RawMessage(argsJSON), nil
}
