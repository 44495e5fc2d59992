package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAccountIDAcceptsProtocolNames(t *testing.T) {
	valid := []string{
		"ok",
		"alice.near",
		"app.alice.testnet",
		"bowen",
		"ek-2",
		"ek.near",
		"com",
		"b-o_w_e-n",
		"no_lols",
		"0123456789012345678901234567890123456789012345678901234567890123",
	}
	for _, name := range valid {
		id, err := NewAccountID(name)
		require.NoError(t, err, name)
		require.Equal(t, name, id.String())
	}
}

func TestNewAccountIDRejectsInvalidNames(t *testing.T) {
	invalid := []string{
		"",
		"a",
		strings.Repeat("a", 65),
		"Alice.near",
		"alice@near",
		"alice near",
		".alice",
		"alice.",
		"alice..near",
		"alice.-near",
		"-alice",
		"alice_",
		"a__b",
	}
	for _, name := range invalid {
		_, err := NewAccountID(name)
		require.Error(t, err, name)
	}
}

func TestAccountIDValidateRechecksDecodedValues(t *testing.T) {
	// JSON decoding bypasses the constructor, so Validate must catch
	// malformed IDs after the fact.
	require.Error(t, AccountID("Bad.Name").Validate())
	require.NoError(t, AccountID("good.name").Validate())
}
