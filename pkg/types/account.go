// Package types defines the core value types of the NEAR client:
// account identifiers, hashes, token balances, gas, nonces, finality
// levels, and access keys.
package types

import "fmt"

// Account ID length bounds enforced by the protocol.
const (
	MinAccountIDLen = 2
	MaxAccountIDLen = 64
)

// AccountID is a validated, human-readable NEAR account name such as
// "alice.near". The zero value is invalid; construct one with
// NewAccountID. Equality is plain string equality: account IDs are
// already lowercase by construction.
type AccountID string

// NewAccountID validates s against the protocol's account naming rules
// and returns it as an AccountID.
func NewAccountID(s string) (AccountID, error) {
	if err := ValidateAccountID(s); err != nil {
		return "", err
	}
	return AccountID(s), nil
}

// String returns the raw account name.
func (a AccountID) String() string {
	return string(a)
}

// Validate re-checks the account ID. Useful for IDs decoded from JSON.
func (a AccountID) Validate() error {
	return ValidateAccountID(string(a))
}

// ValidateAccountID checks the protocol account naming rules: 2-64
// characters, lowercase alphanumerics separated by single '.', '-' or
// '_' characters, with separators neither leading, trailing, nor
// adjacent.
func ValidateAccountID(s string) error {
	if len(s) < MinAccountIDLen || len(s) > MaxAccountIDLen {
		return fmt.Errorf("account ID %q must be between %d and %d characters", s, MinAccountIDLen, MaxAccountIDLen)
	}
	prevSeparator := true // a separator may not appear first
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			prevSeparator = false
		case c == '.' || c == '-' || c == '_':
			if prevSeparator {
				return fmt.Errorf("account ID %q has a misplaced separator at position %d", s, i)
			}
			prevSeparator = true
		default:
			return fmt.Errorf("account ID %q contains invalid character %q", s, c)
		}
	}
	if prevSeparator {
		return fmt.Errorf("account ID %q may not end with a separator", s)
	}
	return nil
}
