package tx

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

func testBlockHash(fill byte) types.CryptoHash {
	var h types.CryptoHash
	for i := range h {
		h[i] = fill
	}
	return h
}

func testPublicKey(fill byte) key.PublicKey {
	var pk key.PublicKey
	for i := range pk {
		pk[i] = fill
	}
	return pk
}

func TestTransferEncodingGolden(t *testing.T) {
	txn := Transaction{
		SignerID:   "alice.test",
		PublicKey:  testPublicKey(0x01),
		Nonce:      5,
		ReceiverID: "bob.test",
		BlockHash:  testBlockHash(0x02),
		Actions:    []Action{Transfer{Deposit: types.NewBalance(1)}},
	}

	want, err := hex.DecodeString(
		"0a000000" + hex.EncodeToString([]byte("alice.test")) +
			"00" + strings.Repeat("01", 32) +
			"0500000000000000" +
			"08000000" + hex.EncodeToString([]byte("bob.test")) +
			strings.Repeat("02", 32) +
			"01000000" +
			"03" + "01" + strings.Repeat("00", 15))
	require.NoError(t, err)

	got, err := txn.Encode()
	require.NoError(t, err)
	require.Equal(t, want, got)

	hash, size, err := txn.Hash()
	require.NoError(t, err)
	require.Equal(t, uint64(len(want)), size)
	require.Equal(t, types.CryptoHash(sha256.Sum256(want)), hash)
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	kp, err := key.NewKeypairFromSeed(bytes.Repeat([]byte{0x2a}, 32))
	require.NoError(t, err)

	txn := Transaction{
		SignerID:   "alice.test",
		PublicKey:  kp.PublicKey(),
		Nonce:      7,
		ReceiverID: "bob.test",
		BlockHash:  testBlockHash(0x03),
		Actions:    []Action{Transfer{Deposit: types.NewBalance(100)}},
	}

	st, err := Sign(txn, kp)
	require.NoError(t, err)
	require.True(t, st.Verify())

	// The signature covers the SHA-256 digest of the transaction bytes,
	// not the bytes themselves.
	encoded, err := txn.Encode()
	require.NoError(t, err)
	digest := sha256.Sum256(encoded)
	require.True(t, kp.PublicKey().Verify(digest[:], st.Signature))
	require.False(t, kp.PublicKey().Verify(encoded, st.Signature))
}

func TestSignedTransactionEncodeAppendsSignature(t *testing.T) {
	kp, err := key.NewKeypairFromSeed(bytes.Repeat([]byte{0x11}, 32))
	require.NoError(t, err)

	txn := Transaction{
		SignerID:   "alice.test",
		PublicKey:  kp.PublicKey(),
		Nonce:      1,
		ReceiverID: "bob.test",
		BlockHash:  testBlockHash(0x04),
		Actions:    []Action{Transfer{Deposit: types.NewBalance(1)}},
	}
	st, err := Sign(txn, kp)
	require.NoError(t, err)

	txBytes, err := txn.Encode()
	require.NoError(t, err)
	full, err := st.Encode()
	require.NoError(t, err)

	require.Equal(t, txBytes, full[:len(txBytes)])
	require.Equal(t, key.CurveTagED25519, full[len(txBytes)])
	require.Equal(t, st.Signature[:], full[len(txBytes)+1:])
	require.Equal(t, uint64(len(txBytes)), st.Size())
}

func TestHashChangesWithContent(t *testing.T) {
	base := Transaction{
		SignerID:   "alice.test",
		PublicKey:  testPublicKey(0x01),
		Nonce:      5,
		ReceiverID: "bob.test",
		BlockHash:  testBlockHash(0x02),
		Actions:    []Action{Transfer{Deposit: types.NewBalance(1)}},
	}

	baseHash, _, err := base.Hash()
	require.NoError(t, err)

	again, _, err := base.Hash()
	require.NoError(t, err)
	require.Equal(t, baseHash, again)

	bumped := base
	bumped.Nonce = 6
	bumpedHash, _, err := bumped.Hash()
	require.NoError(t, err)
	require.NotEqual(t, baseHash, bumpedHash)
}

func TestSignedTransactionEqual(t *testing.T) {
	kp, err := key.NewKeypairFromSeed(bytes.Repeat([]byte{0x2a}, 32))
	require.NoError(t, err)

	txn := Transaction{
		SignerID:   "alice.test",
		PublicKey:  kp.PublicKey(),
		Nonce:      9,
		ReceiverID: "bob.test",
		BlockHash:  testBlockHash(0x05),
		Actions:    []Action{Transfer{Deposit: types.NewBalance(3)}},
	}

	a, err := Sign(txn, kp)
	require.NoError(t, err)
	b, err := Sign(txn, kp)
	require.NoError(t, err)
	require.True(t, a.Equal(b))

	txn.Nonce = 10
	c, err := Sign(txn, kp)
	require.NoError(t, err)
	require.False(t, a.Equal(c))
}

func TestActionDiscriminants(t *testing.T) {
	allowance := types.NewBalance(250)
	cases := []struct {
		name   string
		action Action
		tag    byte
	}{
		{"create account", CreateAccount{}, 0},
		{"deploy contract", DeployContract{Code: []byte{0x00, 0x61, 0x73, 0x6d}}, 1},
		{"function call", FunctionCall{MethodName: "mint", Args: []byte(`{}`), Gas: 30_000_000_000_000, Deposit: types.ZeroBalance()}, 2},
		{"transfer", Transfer{Deposit: types.NewBalance(1)}, 3},
		{"stake", Stake{Stake: types.NewBalance(50), PublicKey: testPublicKey(0x07)}, 4},
		{"add full access key", AddKey{PublicKey: testPublicKey(0x07), AccessKey: types.FullAccessKey()}, 5},
		{"add function call key", AddKey{PublicKey: testPublicKey(0x07), AccessKey: types.AccessKey{
			Permission: types.FunctionCallAccess(types.FunctionCallPermission{
				Allowance:   &allowance,
				ReceiverID:  "contract.test",
				MethodNames: []string{"get", "set"},
			}),
		}}, 5},
		{"delete key", DeleteKey{PublicKey: testPublicKey(0x07)}, 6},
		{"delete account", DeleteAccount{BeneficiaryID: "bob.test"}, 7},
	}

	txn := Transaction{
		SignerID:   "alice.test",
		PublicKey:  testPublicKey(0x01),
		Nonce:      1,
		ReceiverID: "bob.test",
		BlockHash:  testBlockHash(0x02),
	}
	// Offset of the first action tag: signer string, tagged key, nonce,
	// receiver string, block hash, vector length.
	tagOffset := 4 + len("alice.test") + 33 + 8 + 4 + len("bob.test") + 32 + 4

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txn.Actions = []Action{tc.action}
			encoded, err := txn.Encode()
			require.NoError(t, err)
			require.Equal(t, tc.tag, encoded[tagOffset])
		})
	}
}

func TestAccessKeyPermissionEncoding(t *testing.T) {
	encode := func(ak types.AccessKey) []byte {
		txn := Transaction{
			SignerID:   "a.test",
			PublicKey:  testPublicKey(0x01),
			Nonce:      1,
			ReceiverID: "a.test",
			BlockHash:  testBlockHash(0x02),
			Actions:    []Action{AddKey{PublicKey: testPublicKey(0x07), AccessKey: ak}},
		}
		encoded, err := txn.Encode()
		require.NoError(t, err)
		// Permission bytes start after the envelope, the AddKey tag, the
		// tagged key, and the access key nonce.
		offset := 4 + len("a.test") + 33 + 8 + 4 + len("a.test") + 32 + 4 + 1 + 33 + 8
		return encoded[offset:]
	}

	full := encode(types.FullAccessKey())
	require.Equal(t, []byte{0x01}, full)

	allowance := types.NewBalance(2)
	restricted := encode(types.AccessKey{
		Permission: types.FunctionCallAccess(types.FunctionCallPermission{
			Allowance:   &allowance,
			ReceiverID:  "c.test",
			MethodNames: []string{"get"},
		}),
	})
	want := append([]byte{0x00, 0x01}, 0x02)
	want = append(want, bytes.Repeat([]byte{0x00}, 15)...)
	want = append(want, 0x06, 0x00, 0x00, 0x00)
	want = append(want, []byte("c.test")...)
	want = append(want, 0x01, 0x00, 0x00, 0x00)
	want = append(want, 0x03, 0x00, 0x00, 0x00)
	want = append(want, []byte("get")...)
	require.Equal(t, want, restricted)

	unlimited := encode(types.AccessKey{
		Permission: types.FunctionCallAccess(types.FunctionCallPermission{
			ReceiverID: "c.test",
		}),
	})
	// No allowance collapses the Option to a single absent tag.
	require.Equal(t, []byte{0x00, 0x00}, unlimited[:2])
}
