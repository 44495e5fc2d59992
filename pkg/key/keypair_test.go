package key

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeypairSignVerify(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	data := []byte("transaction bytes")
	sig := kp.Sign(data)
	require.True(t, kp.Verify(data, sig))
	require.True(t, kp.PublicKey().Verify(data, sig))
	require.False(t, kp.Verify([]byte("tampered"), sig))

	other, err := GenerateKeypair()
	require.NoError(t, err)
	require.False(t, other.Verify(data, sig))
}

func TestNewKeypairFromSeedIsDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0x2a}, SecretKeySize)
	a, err := NewKeypairFromSeed(seed)
	require.NoError(t, err)
	b, err := NewKeypairFromSeed(seed)
	require.NoError(t, err)
	require.Equal(t, a.PublicKey(), b.PublicKey())

	_, err = NewKeypairFromSeed(seed[:16])
	require.ErrorContains(t, err, "want 32")
}

func TestParseKeypairAcceptsSeedAndExpandedForms(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	// The credential-file form carries the 64-byte expanded secret.
	fromExpanded, err := ParseKeypair(kp.SecretString())
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey(), fromExpanded.PublicKey())

	sig := fromExpanded.Sign([]byte("data"))
	require.True(t, kp.Verify([]byte("data"), sig))

	_, err = ParseKeypair("ed25519:abc")
	require.Error(t, err)
	_, err = ParseKeypair("secp256k1:abc")
	require.ErrorContains(t, err, "unsupported curve")
}
