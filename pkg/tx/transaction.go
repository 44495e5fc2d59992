package tx

import (
	"github.com/altuslabsxyz/near-client/pkg/borsh"
	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

// Transaction is the unsigned envelope: who signs, with which key and
// nonce, who receives, which recent block anchors it, and the ordered
// actions to execute.
type Transaction struct {
	SignerID   types.AccountID
	PublicKey  key.PublicKey
	Nonce      types.Nonce
	ReceiverID types.AccountID
	BlockHash  types.CryptoHash
	Actions    []Action
}

// Encode returns the canonical Borsh encoding of the transaction.
func (t *Transaction) Encode() ([]byte, error) {
	w := borsh.NewWriter()
	if err := encodeTransaction(w, t); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Hash returns the transaction's content hash, the SHA-256 digest of
// its canonical encoding, together with the encoded size in bytes. The
// hash is what gets signed and is the ID the chain tracks the
// transaction under.
func (t *Transaction) Hash() (types.CryptoHash, uint64, error) {
	encoded, err := t.Encode()
	if err != nil {
		return types.CryptoHash{}, 0, err
	}
	return types.Sha256(encoded), uint64(len(encoded)), nil
}

// Signer produces signatures over transaction hashes. Implemented by
// key.Keypair and by the client-level nonce-tracking signer.
type Signer interface {
	Sign(data []byte) key.Signature
}

// SignedTransaction pairs a transaction with a signature over its
// content hash. Hash and size are computed once at construction and
// never recomputed.
type SignedTransaction struct {
	Transaction Transaction
	Signature   key.Signature

	txBytes []byte
	hash    types.CryptoHash
}

// Sign encodes the transaction, hashes it, and signs the 32-byte hash.
func Sign(t Transaction, signer Signer) (*SignedTransaction, error) {
	encoded, err := t.Encode()
	if err != nil {
		return nil, err
	}
	hash := types.Sha256(encoded)
	return &SignedTransaction{
		Transaction: t,
		Signature:   signer.Sign(hash[:]),
		txBytes:     encoded,
		hash:        hash,
	}, nil
}

// NewSignedTransaction wraps a transaction with an externally produced
// signature, caching the content hash and encoded size.
func NewSignedTransaction(t Transaction, sig key.Signature) (*SignedTransaction, error) {
	encoded, err := t.Encode()
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{
		Transaction: t,
		Signature:   sig,
		txBytes:     encoded,
		hash:        types.Sha256(encoded),
	}, nil
}

// Hash returns the cached content hash of the inner transaction.
func (st *SignedTransaction) Hash() types.CryptoHash {
	return st.hash
}

// Size returns the Borsh-encoded size of the inner transaction in bytes.
func (st *SignedTransaction) Size() uint64 {
	return uint64(len(st.txBytes))
}

// Encode returns the canonical Borsh encoding of the signed
// transaction: the transaction bytes followed by the tagged signature.
func (st *SignedTransaction) Encode() ([]byte, error) {
	w := borsh.NewWriter()
	w.FixedBytes(st.txBytes)
	w.U8(key.CurveTagED25519)
	w.FixedBytes(st.Signature[:])
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Verify reports whether the signature is valid for the cached content
// hash under the transaction's public key.
func (st *SignedTransaction) Verify() bool {
	return st.Transaction.PublicKey.Verify(st.hash[:], st.Signature)
}

// Equal reports whether two signed transactions have the same content
// hash and signature.
func (st *SignedTransaction) Equal(other *SignedTransaction) bool {
	if st == nil || other == nil {
		return st == other
	}
	return st.hash == other.hash && st.Signature == other.Signature
}
