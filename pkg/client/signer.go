package client

import (
	"fmt"
	"sync/atomic"

	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

// Signer holds the key material and the access key nonce used to sign
// transactions for one account. The nonce is tracked atomically, so a
// single Signer can be shared by concurrent submissions without a lock:
// each reservation and each resync is a single atomic operation.
type Signer struct {
	accountID types.AccountID
	keypair   *key.Keypair
	nonce     atomic.Uint64
}

// NewSigner creates a signer from an existing keypair and the access
// key's current nonce (typically read via Client.ViewAccessKey).
func NewSigner(accountID types.AccountID, kp *key.Keypair, nonce types.Nonce) (*Signer, error) {
	if err := accountID.Validate(); err != nil {
		return nil, &CreateSignerError{AccountID: accountID, Err: err}
	}
	s := &Signer{accountID: accountID, keypair: kp}
	s.nonce.Store(nonce)
	return s, nil
}

// NewSignerFromSecret creates a signer from an "ed25519:<base58>" secret
// key string.
func NewSignerFromSecret(accountID types.AccountID, secret string, nonce types.Nonce) (*Signer, error) {
	kp, err := key.ParseKeypair(secret)
	if err != nil {
		return nil, &CreateSignerError{AccountID: accountID, Err: err}
	}
	return NewSigner(accountID, kp, nonce)
}

// AccountID returns the signing account.
func (s *Signer) AccountID() types.AccountID {
	return s.accountID
}

// PublicKey returns the access key's public half.
func (s *Signer) PublicKey() key.PublicKey {
	return s.keypair.PublicKey()
}

// Sign signs data, normally a 32-byte transaction hash.
func (s *Signer) Sign(data []byte) key.Signature {
	return s.keypair.Sign(data)
}

// Nonce returns the tracked access key nonce. The next transaction uses
// this value plus one.
func (s *Signer) Nonce() types.Nonce {
	return s.nonce.Load()
}

// UpdateNonce overwrites the tracked nonce, typically with the value
// the chain reports in an outcome or a nonce conflict.
func (s *Signer) UpdateNonce(nonce types.Nonce) {
	s.nonce.Store(nonce)
}

// IncrementNonce advances the tracked nonce by delta and returns the
// new value.
func (s *Signer) IncrementNonce(delta uint64) types.Nonce {
	return s.nonce.Add(delta)
}

// CreateSignerError reports a failure to construct a Signer.
type CreateSignerError struct {
	AccountID types.AccountID
	Err       error
}

func (e *CreateSignerError) Error() string {
	return fmt.Sprintf("create signer for %q: %v", e.AccountID, e.Err)
}

func (e *CreateSignerError) Unwrap() error {
	return e.Err
}
