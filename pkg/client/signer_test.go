package client

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

func TestNewSignerFromSecret(t *testing.T) {
	kp, err := key.NewKeypairFromSeed(bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)

	signer, err := NewSignerFromSecret("alice.test", kp.SecretString(), 10)
	require.NoError(t, err)
	require.Equal(t, types.AccountID("alice.test"), signer.AccountID())
	require.Equal(t, kp.PublicKey(), signer.PublicKey())
	require.Equal(t, types.Nonce(10), signer.Nonce())

	// Signatures from the reconstructed key verify against the original.
	sig := signer.Sign([]byte("payload"))
	require.True(t, kp.PublicKey().Verify([]byte("payload"), sig))
}

func TestNewSignerRejectsBadInput(t *testing.T) {
	kp, err := key.NewKeypairFromSeed(bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)

	var createErr *CreateSignerError

	_, err = NewSigner("UPPERCASE", kp, 0)
	require.ErrorAs(t, err, &createErr)

	_, err = NewSignerFromSecret("alice.test", "ed25519:not-base58-0OIl", 0)
	require.ErrorAs(t, err, &createErr)
}

func TestSignerNonceIsConcurrencySafe(t *testing.T) {
	kp, err := key.NewKeypairFromSeed(bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)
	signer, err := NewSigner("alice.test", kp, 0)
	require.NoError(t, err)

	const workers = 16
	const perWorker = 100

	var wg sync.WaitGroup
	seen := make(chan types.Nonce, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				seen <- signer.IncrementNonce(1)
			}
		}()
	}
	wg.Wait()
	close(seen)

	// Every reservation must be unique.
	unique := make(map[types.Nonce]struct{}, workers*perWorker)
	for nonce := range seen {
		_, dup := unique[nonce]
		require.False(t, dup, "nonce %d reserved twice", nonce)
		unique[nonce] = struct{}{}
	}
	require.Equal(t, types.Nonce(workers*perWorker), signer.Nonce())
}
