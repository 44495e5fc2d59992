package key

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Keypair owns an ed25519 signing key and its derived public key.
// Signing is a pure function of the private key and is safe for
// concurrent use.
type Keypair struct {
	private ed25519.PrivateKey
	public  PublicKey
}

// GenerateKeypair creates a new random keypair.
func GenerateKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return fromPrivate(priv), nil
}

// NewKeypairFromSeed builds a keypair from a 32-byte ed25519 seed.
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SecretKeySize {
		return nil, fmt.Errorf("secret seed is %d bytes, want %d", len(seed), SecretKeySize)
	}
	return fromPrivate(ed25519.NewKeyFromSeed(seed)), nil
}

// ParseKeypair decodes an "ed25519:<base58>" secret. Both the 64-byte
// expanded form written by NEAR credential files (seed followed by
// public key) and the bare 32-byte seed are accepted.
func ParseKeypair(secret string) (*Keypair, error) {
	curve, encoded, found := strings.Cut(secret, ":")
	if !found {
		encoded = secret
	} else if curve != ed25519Prefix {
		return nil, fmt.Errorf("parse secret key: unsupported curve %q", curve)
	}
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("parse secret key: invalid base58: %w", err)
	}
	switch len(raw) {
	case SecretKeySize:
		return NewKeypairFromSeed(raw)
	case ExpandedSecretKeySize:
		return NewKeypairFromSeed(raw[:SecretKeySize])
	default:
		return nil, fmt.Errorf("parse secret key: got %d bytes, want %d or %d", len(raw), SecretKeySize, ExpandedSecretKeySize)
	}
}

func fromPrivate(priv ed25519.PrivateKey) *Keypair {
	var pub PublicKey
	copy(pub[:], priv.Public().(ed25519.PublicKey))
	return &Keypair{private: priv, public: pub}
}

// Sign returns the ed25519 signature of data.
func (k *Keypair) Sign(data []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(k.private, data))
	return sig
}

// Verify reports whether sig is a valid signature of data by this
// keypair's public key.
func (k *Keypair) Verify(data []byte, sig Signature) bool {
	return k.public.Verify(data, sig)
}

// PublicKey returns the derived public key.
func (k *Keypair) PublicKey() PublicKey {
	return k.public
}

// SecretString exports the expanded secret in the credential-file form
// "ed25519:<base58(seed || public key)>".
func (k *Keypair) SecretString() string {
	return encodePrefixed(k.private)
}
