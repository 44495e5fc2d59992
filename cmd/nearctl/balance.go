package main

import (
	"context"

	"github.com/spf13/cobra"
)

func NewBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show an account's balance",
		Long: `Show an account's liquid and staked balance in yoctoNEAR, together
with its storage usage.

Examples:
  nearctl balance alice.testnet`,
		Args: cobra.ExactArgs(1),
		RunE: runBalance,
	}
}

func runBalance(cmd *cobra.Command, args []string) error {
	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	account, err := newClient().ViewAccount(context.Background(), accountID)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return logger.JSON(map[string]any{
			"account_id":    accountID,
			"amount":        account.Amount.String(),
			"locked":        account.Locked.String(),
			"storage_usage": account.StorageUsage,
		})
	}
	logger.Bold("%s", accountID)
	logger.Info("balance: %s yoctoNEAR", account.Amount)
	logger.Info("locked:  %s yoctoNEAR", account.Locked)
	logger.Info("storage: %d bytes", account.StorageUsage)
	return nil
}
