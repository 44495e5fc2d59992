package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/near-client/internal/output"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

func NewSendCmd() *cobra.Command {
	var (
		retries int
		yes     bool
	)
	cmd := &cobra.Command{
		Use:   "send <receiver> <amount>",
		Short: "Send tokens to another account",
		Long: `Send tokens from the signer's account to a receiver. The amount is
given in yoctoNEAR (1 NEAR = 10^24 yoctoNEAR).

Examples:
  # Send 1 NEAR
  nearctl send bob.testnet 1000000000000000000000000 --signer alice.testnet

  # Retry once on a nonce conflict, skip confirmation
  nearctl send bob.testnet 500 --signer alice.testnet --retry 1 --yes`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(args, retries, yes)
		},
	}
	cmd.Flags().IntVar(&retries, "retry", 0, "Extra submission attempts after a nonce conflict (0-2)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func runSend(args []string, retries int, yes bool) error {
	receiver, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	retry, err := retryPolicy(retries)
	if err != nil {
		return err
	}

	if !yes {
		confirmed, err := output.Confirm(fmt.Sprintf("Send %s yoctoNEAR to %s", amount, receiver))
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

	out, err := c.Send(signer, receiver, amount).
		Retry(retry).
		Commit(ctx, types.FinalityFinal)
	if err != nil {
		return err
	}
	return printOutput(out)
}
