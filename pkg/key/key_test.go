package key

import (
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKeyForms(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	encoded := kp.PublicKey().String()
	require.True(t, strings.HasPrefix(encoded, "ed25519:"))

	parsed, err := ParsePublicKey(encoded)
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey(), parsed)

	// Bare base58 without the curve prefix is accepted.
	bare := strings.TrimPrefix(encoded, "ed25519:")
	parsed, err = ParsePublicKey(bare)
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey(), parsed)
}

func TestParsePublicKeyRejectsBadInput(t *testing.T) {
	_, err := ParsePublicKey("secp256k1:abc")
	require.ErrorContains(t, err, "unsupported curve")

	_, err = ParsePublicKey("ed25519:not!base58")
	require.ErrorContains(t, err, "invalid base58")

	short := "ed25519:" + base58.Encode([]byte{1, 2, 3})
	_, err = ParsePublicKey(short)
	require.ErrorContains(t, err, "want 32")
}

func TestSignatureStringRoundtrip(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	sig := kp.Sign([]byte("payload"))

	parsed, err := ParseSignature(sig.String())
	require.NoError(t, err)
	require.Equal(t, sig, parsed)
}
