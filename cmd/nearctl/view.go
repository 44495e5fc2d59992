package main

import (
	"context"
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/near-client/pkg/types"
)

func NewViewCmd() *cobra.Command {
	var argsJSON string
	cmd := &cobra.Command{
		Use:   "view <contract> <method>",
		Short: "Call a read-only contract method",
		Long: `Call a contract method as a view function. No transaction is sent and
no signer is needed.

Examples:
  nearctl view counter.testnet get_count
  nearctl view token.testnet ft_balance_of --args '{"account_id":"alice.testnet"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(args, argsJSON)
		},
	}
	cmd.Flags().StringVar(&argsJSON, "args", "", "Method arguments as a JSON document")
	return cmd
}

func runView(args []string, argsJSON string) error {
	contractID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	callArgs, err := parseCallArgs(argsJSON)
	if err != nil {
		return err
	}

	out, err := newClient().View(context.Background(), contractID, types.FinalityFinal, args[1], callArgs)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return logger.JSON(map[string]any{
			"result": string(out.Data),
			"logs":   out.Logs,
		})
	}
	for _, line := range out.Logs {
		logger.Info("log: %s", line)
	}
	logger.Println("%s", out.Data)
	return nil
}

func NewStateCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "state <contract>",
		Short: "Dump a contract's raw state",
		Long: `List a contract's state as key-value pairs, hex encoded. An optional
prefix restricts the listing to keys that start with it.

Examples:
  nearctl state counter.testnet
  nearctl state registry.testnet --prefix accounts/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(args, prefix)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix to filter on")
	return cmd
}

func runState(args []string, prefix string) error {
	contractID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	state, err := newClient().ViewContractState(context.Background(), contractID, []byte(prefix))
	if err != nil {
		return err
	}
	if cfg.JSON {
		return logger.JSON(state)
	}
	for _, item := range state.Values {
		logger.Info("%s = %s", hex.EncodeToString(item.Key), hex.EncodeToString(item.Value))
	}
	logger.Info("%d entries", len(state.Values))
	return nil
}
