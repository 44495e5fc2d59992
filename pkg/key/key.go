// Package key holds the ed25519 key material used to identify and sign
// for a NEAR account: public keys, signatures, and keypairs. String
// forms follow the protocol convention "ed25519:<base58>".
package key

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Sizes of the raw key material in bytes.
const (
	PublicKeySize = ed25519.PublicKeySize
	SecretKeySize = ed25519.SeedSize
	// ExpandedSecretKeySize is seed followed by the derived public key,
	// the layout NEAR credential files store.
	ExpandedSecretKeySize = ed25519.PrivateKeySize
	SignatureSize         = ed25519.SignatureSize
)

// CurveTagED25519 is the 1-byte curve discriminant that prefixes keys
// and signatures in the Borsh wire encoding.
const CurveTagED25519 byte = 0

const ed25519Prefix = "ed25519"

// PublicKey is a raw ed25519 public key.
type PublicKey [PublicKeySize]byte

// ParsePublicKey decodes the "ed25519:<base58>" form.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	raw, err := decodePrefixed(s, PublicKeySize)
	if err != nil {
		return pk, fmt.Errorf("parse public key: %w", err)
	}
	copy(pk[:], raw)
	return pk, nil
}

// String returns the "ed25519:<base58>" form.
func (pk PublicKey) String() string {
	return encodePrefixed(pk[:])
}

// Verify reports whether sig is a valid signature of data by this key.
func (pk PublicKey) Verify(data []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pk[:]), data, sig[:])
}

// MarshalJSON encodes the key in its prefixed string form.
func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.String())
}

// UnmarshalJSON decodes the prefixed string form.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePublicKey(s)
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// Signature is a raw ed25519 signature.
type Signature [SignatureSize]byte

// ParseSignature decodes the "ed25519:<base58>" form.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	raw, err := decodePrefixed(s, SignatureSize)
	if err != nil {
		return sig, fmt.Errorf("parse signature: %w", err)
	}
	copy(sig[:], raw)
	return sig, nil
}

// String returns the "ed25519:<base58>" form.
func (s Signature) String() string {
	return encodePrefixed(s[:])
}

// MarshalJSON encodes the signature in its prefixed string form.
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the prefixed string form.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSignature(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func encodePrefixed(raw []byte) string {
	return ed25519Prefix + ":" + base58.Encode(raw)
}

func decodePrefixed(s string, wantLen int) ([]byte, error) {
	curve, encoded, found := strings.Cut(s, ":")
	if !found {
		// Bare base58 without a curve prefix is accepted for
		// compatibility with older tooling output.
		encoded = s
	} else if curve != ed25519Prefix {
		return nil, fmt.Errorf("unsupported curve %q", curve)
	}
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base58: %w", err)
	}
	if len(raw) != wantLen {
		return nil, fmt.Errorf("got %d bytes, want %d", len(raw), wantLen)
	}
	return raw, nil
}
