package main

import (
	"context"
	"fmt"
	"os"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/near-client/internal/config"
	"github.com/altuslabsxyz/near-client/pkg/client"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

func newClient() *client.Client {
	c := client.New(cfg.RPCURL)
	if cfg.Verbose {
		c = c.WithLogger(log.NewLogger(os.Stderr))
	}
	return c
}

// signerID resolves the signing account from --signer or the config
// file.
func signerID() (types.AccountID, error) {
	if cfg.SignerID == "" {
		return "", fmt.Errorf("no signer configured, pass --signer or set signer_id in the config file")
	}
	id := types.AccountID(cfg.SignerID)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// loadSigner reads the signer's credential file and syncs its nonce
// from the chain.
func loadSigner(ctx context.Context, c *client.Client) (*client.Signer, error) {
	accountID, err := signerID()
	if err != nil {
		return nil, err
	}
	cred, err := config.LoadCredential(cfg.CredentialsDir, cfg.Network, accountID)
	if err != nil {
		return nil, err
	}
	kp, err := cred.Keypair()
	if err != nil {
		return nil, err
	}
	view, err := c.ViewAccessKey(ctx, accountID, kp.PublicKey(), types.FinalityFinal)
	if err != nil {
		return nil, fmt.Errorf("fetch access key nonce: %w", err)
	}
	return client.NewSigner(accountID, kp, view.Nonce)
}

func parseAccountID(arg string) (types.AccountID, error) {
	return types.NewAccountID(arg)
}

func parseAmount(arg string) (types.Balance, error) {
	amount, err := types.NewBalanceFromString(arg)
	if err != nil {
		return types.Balance{}, fmt.Errorf("amount must be a decimal yoctoNEAR value: %w", err)
	}
	return amount, nil
}

// retryPolicy maps the --retry flag (extra attempts after a nonce
// conflict) onto the client policy.
func retryPolicy(retries int) (client.Retry, error) {
	switch retries {
	case 0:
		return client.RetryNone, nil
	case 1:
		return client.RetryOnce, nil
	case 2:
		return client.RetryTwice, nil
	default:
		return client.RetryNone, fmt.Errorf("--retry accepts 0, 1, or 2")
	}
}

// printOutput renders a transaction result.
func printOutput(out *client.Output) error {
	if cfg.JSON {
		return logger.JSON(map[string]any{
			"transaction_id": out.ID().String(),
			"gas_burnt":      out.GasBurnt(),
			"logs":           out.Logs,
			"result":         string(out.Data),
		})
	}
	logger.Success("transaction %s", out.ID())
	logger.Info("gas burnt: %d", out.GasBurnt())
	for _, line := range out.Logs {
		logger.Info("log: %s", line)
	}
	if len(out.Data) > 0 {
		logger.Info("result: %s", out.Data)
	}
	return nil
}
