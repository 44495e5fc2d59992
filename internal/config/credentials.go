package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

// Credential is one account key file in the format NEAR tooling writes
// under ~/.near-credentials/<network>/<account>.json.
type Credential struct {
	AccountID  types.AccountID `json:"account_id"`
	PublicKey  string          `json:"public_key"`
	PrivateKey string          `json:"private_key"`
}

// credentialPath returns the key file location for an account.
func credentialPath(credentialsDir, network string, accountID types.AccountID) string {
	return filepath.Join(credentialsDir, network, string(accountID)+".json")
}

// LoadCredential reads an account's key file.
func LoadCredential(credentialsDir, network string, accountID types.AccountID) (*Credential, error) {
	path := credentialPath(credentialsDir, network, accountID)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credential for %s: %w", accountID, err)
	}
	var cred Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, fmt.Errorf("parse credential %s: %w", path, err)
	}
	if cred.AccountID == "" {
		cred.AccountID = accountID
	}
	return &cred, nil
}

// SaveCredential writes an account's key file with owner-only
// permissions, creating the network directory as needed.
func SaveCredential(credentialsDir, network string, cred *Credential) (string, error) {
	if err := cred.AccountID.Validate(); err != nil {
		return "", err
	}
	dir := filepath.Join(credentialsDir, network)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create credentials dir: %w", err)
	}
	raw, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return "", err
	}
	path := credentialPath(credentialsDir, network, cred.AccountID)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("write credential %s: %w", path, err)
	}
	return path, nil
}

// Keypair parses the credential's private key.
func (c *Credential) Keypair() (*key.Keypair, error) {
	return key.ParseKeypair(c.PrivateKey)
}

// NewCredential derives a credential file from a keypair.
func NewCredential(accountID types.AccountID, kp *key.Keypair) *Credential {
	return &Credential{
		AccountID:  accountID,
		PublicKey:  kp.PublicKey().String(),
		PrivateKey: kp.SecretString(),
	}
}
