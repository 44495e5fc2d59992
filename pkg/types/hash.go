package types

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// HashLen is the byte length of a CryptoHash.
const HashLen = 32

// CryptoHash is a 32-byte content hash, rendered as base58 in JSON and
// in log output, matching the node's representation.
type CryptoHash [HashLen]byte

// Sha256 hashes data and returns the digest as a CryptoHash.
func Sha256(data []byte) CryptoHash {
	return CryptoHash(sha256.Sum256(data))
}

// ParseCryptoHash decodes a base58-encoded 32-byte hash.
func ParseCryptoHash(s string) (CryptoHash, error) {
	var h CryptoHash
	raw, err := base58.Decode(s)
	if err != nil {
		return h, fmt.Errorf("decode hash %q: %w", s, err)
	}
	if len(raw) != HashLen {
		return h, fmt.Errorf("hash %q is %d bytes, want %d", s, len(raw), HashLen)
	}
	copy(h[:], raw)
	return h, nil
}

// String returns the base58 form.
func (h CryptoHash) String() string {
	return base58.Encode(h[:])
}

// IsZero reports whether the hash is all zero bytes.
func (h CryptoHash) IsZero() bool {
	return h == CryptoHash{}
}

// MarshalJSON encodes the hash as a base58 string.
func (h CryptoHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a base58 string into the hash.
func (h *CryptoHash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCryptoHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
