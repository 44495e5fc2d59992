package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/near-client/internal/config"
	"github.com/altuslabsxyz/near-client/internal/output"
	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

func NewCreateAccountCmd() *cobra.Command {
	var (
		balance string
		retries int
	)
	cmd := &cobra.Command{
		Use:   "create-account <new-account>",
		Short: "Create a sub-account with a fresh key",
		Long: `Create a new account, register a freshly generated full access key on
it, and fund it with an initial balance. The new key is written to the
credentials directory.

The signer must be authorized to create the name, e.g. creating
app.alice.testnet requires signing as alice.testnet.

Examples:
  nearctl create-account app.alice.testnet --balance 1000000000000000000000000 --signer alice.testnet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateAccount(args, balance, retries)
		},
	}
	cmd.Flags().StringVar(&balance, "balance", "0", "Initial balance in yoctoNEAR")
	cmd.Flags().IntVar(&retries, "retry", 0, "Extra submission attempts after a nonce conflict (0-2)")
	return cmd
}

func runCreateAccount(args []string, balance string, retries int) error {
	newAccountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmount(balance)
	if err != nil {
		return err
	}
	retry, err := retryPolicy(retries)
	if err != nil {
		return err
	}

	kp, err := key.GenerateKeypair()
	if err != nil {
		return err
	}
	credPath, err := config.SaveCredential(cfg.CredentialsDir, cfg.Network, config.NewCredential(newAccountID, kp))
	if err != nil {
		return err
	}
	logger.Debug("wrote credential %s", credPath)

	ctx := context.Background()
	c := newClient()
	signer, err := loadSigner(ctx, c)
	if err != nil {
		return err
	}

	out, err := c.CreateAccount(signer, newAccountID, kp.PublicKey(), amount).
		Retry(retry).
		Commit(ctx, types.FinalityFinal)
	if err != nil {
		// The key file is already on disk; keep it and tell the user.
		logger.Warn("account creation failed, generated key kept at %s", credPath)
		return err
	}
	logger.Success("created %s with key %s", newAccountID, kp.PublicKey())
	return printOutput(out)
}

func NewDeleteAccountCmd() *cobra.Command {
	var (
		yes     bool
		retries int
	)
	cmd := &cobra.Command{
		Use:   "delete-account <account> <beneficiary>",
		Short: "Delete an account and transfer its balance",
		Long: `Delete the signer's account, sending the remaining balance to the
beneficiary. This is irreversible.

Examples:
  nearctl delete-account app.alice.testnet alice.testnet --signer app.alice.testnet`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteAccount(args, yes, retries)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&retries, "retry", 0, "Extra submission attempts after a nonce conflict (0-2)")
	return cmd
}

func runDeleteAccount(args []string, yes bool, retries int) error {
	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	beneficiaryID, err := parseAccountID(args[1])
	if err != nil {
		return err
	}
	retry, err := retryPolicy(retries)
	if err != nil {
		return err
	}

	if !yes {
		confirmed, err := output.Confirm(fmt.Sprintf("Permanently delete %s and send its balance to %s", accountID, beneficiaryID))
		if err != nil {
			return err
		}
		if !confirmed {
			logger.Info("aborted")
			return nil
		}
	}

	ctx := context.Background()
	c := newClient()
	signer, err := loadSigner(ctx, c)
	if err != nil {
		return err
	}

	out, err := c.DeleteAccount(signer, accountID, beneficiaryID).
		Retry(retry).
		Commit(ctx, types.FinalityFinal)
	if err != nil {
		return err
	}
	logger.Success("deleted %s", accountID)
	return printOutput(out)
}
