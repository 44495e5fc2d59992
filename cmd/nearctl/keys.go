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

func NewKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage account access keys",
	}
	cmd.AddCommand(
		newKeysListCmd(),
		newKeysAddCmd(),
		newKeysDeleteCmd(),
		newKeysImportCmd(),
	)
	return cmd
}

func newKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <account>",
		Short: "List an account's access keys",
		Args:  cobra.ExactArgs(1),
		RunE:  runKeysList,
	}
}

func runKeysList(cmd *cobra.Command, args []string) error {
	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	list, err := newClient().ViewAccessKeyList(context.Background(), accountID, types.FinalityFinal)
	if err != nil {
		return err
	}
	if cfg.JSON {
		return logger.JSON(list)
	}
	for _, entry := range list.Keys {
		scope := "full access"
		if fc := entry.AccessKey.Permission.FunctionCall(); fc != nil {
			scope = fmt.Sprintf("function call on %s %v", fc.ReceiverID, fc.MethodNames)
		}
		logger.Info("%s  nonce=%d  %s", entry.PublicKey, entry.AccessKey.Nonce, scope)
	}
	logger.Info("%d keys", len(list.Keys))
	return nil
}

func newKeysAddCmd() *cobra.Command {
	var (
		receiver  string
		methods   []string
		allowance string
		retries   int
	)
	cmd := &cobra.Command{
		Use:   "add <public-key>",
		Short: "Add an access key to the signer's account",
		Long: `Add an access key to the signer's account. Without flags the key gets
full access; with --receiver it is restricted to function calls on that
contract, optionally limited to --methods and a gas --allowance.

Examples:
  # Full access key
  nearctl keys add ed25519:H9k5... --signer alice.testnet

  # Restricted key
  nearctl keys add ed25519:H9k5... --receiver app.testnet --methods get,set \
    --allowance 250000000000000000000000 --signer alice.testnet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysAdd(args, receiver, methods, allowance, retries)
		},
	}
	cmd.Flags().StringVar(&receiver, "receiver", "", "Restrict the key to calls on this contract")
	cmd.Flags().StringSliceVar(&methods, "methods", nil, "Methods the key may call (requires --receiver)")
	cmd.Flags().StringVar(&allowance, "allowance", "", "Gas allowance in yoctoNEAR (requires --receiver)")
	cmd.Flags().IntVar(&retries, "retry", 0, "Extra submission attempts after a nonce conflict (0-2)")
	return cmd
}

func runKeysAdd(args []string, receiver string, methods []string, allowance string, retries int) error {
	publicKey, err := key.ParsePublicKey(args[0])
	if err != nil {
		return err
	}
	retry, err := retryPolicy(retries)
	if err != nil {
		return err
	}
	permission, err := buildPermission(receiver, methods, allowance)
	if err != nil {
		return err
	}

	ctx := context.Background()
	c := newClient()
	signer, err := loadSigner(ctx, c)
	if err != nil {
		return err
	}

	out, err := c.AddAccessKey(signer, signer.AccountID(), publicKey, permission).
		Retry(retry).
		Commit(ctx, types.FinalityFinal)
	if err != nil {
		return err
	}
	logger.Success("added key %s to %s", publicKey, signer.AccountID())
	return printOutput(out)
}

func buildPermission(receiver string, methods []string, allowance string) (types.AccessKeyPermission, error) {
	if receiver == "" {
		if len(methods) > 0 || allowance != "" {
			return types.AccessKeyPermission{}, fmt.Errorf("--methods and --allowance require --receiver")
		}
		return types.FullAccessPermission(), nil
	}
	permission := types.FunctionCallPermission{
		ReceiverID:  receiver,
		MethodNames: methods,
	}
	if allowance != "" {
		amount, err := parseAmount(allowance)
		if err != nil {
			return types.AccessKeyPermission{}, err
		}
		permission.Allowance = &amount
	}
	return types.FunctionCallAccess(permission), nil
}

func newKeysDeleteCmd() *cobra.Command {
	var (
		yes     bool
		retries int
	)
	cmd := &cobra.Command{
		Use:   "delete <public-key>",
		Short: "Remove an access key from the signer's account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysDelete(args, yes, retries)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&retries, "retry", 0, "Extra submission attempts after a nonce conflict (0-2)")
	return cmd
}

func runKeysDelete(args []string, yes bool, retries int) error {
	publicKey, err := key.ParsePublicKey(args[0])
	if err != nil {
		return err
	}
	retry, err := retryPolicy(retries)
	if err != nil {
		return err
	}

	if !yes {
		confirmed, err := output.Confirm(fmt.Sprintf("Delete access key %s", publicKey))
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

	out, err := c.DeleteAccessKey(signer, signer.AccountID(), publicKey).
		Retry(retry).
		Commit(ctx, types.FinalityFinal)
	if err != nil {
		return err
	}
	logger.Success("deleted key %s", publicKey)
	return printOutput(out)
}

func newKeysImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <account>",
		Short: "Import an account key into the credentials directory",
		Long: `Import an account's private key. The key is read from the terminal
without echo and written to the credentials directory in the standard
NEAR credential file format.

Examples:
  nearctl keys import alice.testnet`,
		Args: cobra.ExactArgs(1),
		RunE: runKeysImport,
	}
}

func runKeysImport(cmd *cobra.Command, args []string) error {
	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	secret, err := output.ReadSecret(fmt.Sprintf("Private key for %s", accountID))
	if err != nil {
		return err
	}
	kp, err := key.ParseKeypair(secret)
	if err != nil {
		return err
	}
	path, err := config.SaveCredential(cfg.CredentialsDir, cfg.Network, config.NewCredential(accountID, kp))
	if err != nil {
		return err
	}
	logger.Success("imported %s (public key %s) to %s", accountID, kp.PublicKey(), path)
	return nil
}
