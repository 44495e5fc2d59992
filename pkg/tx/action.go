// Package tx defines the NEAR transaction model: the closed action
// vocabulary, the transaction envelope, the canonical Borsh encoding
// the chain deserializes byte-for-byte, and the typed execution-error
// taxonomy the node reports.
package tx

import (
	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

// Action is one operation inside a transaction. The set of variants is
// closed: each carries a wire discriminant, and the order actions
// appear in a transaction is semantically meaningful and preserved. A
// DeleteAccount action must be positioned last by the caller; the
// library never reorders.
type Action interface {
	// actionTag returns the Borsh enum discriminant. Unexported to
	// seal the variant set.
	actionTag() byte
}

// Wire discriminants, fixed by the protocol.
const (
	tagCreateAccount byte = iota
	tagDeployContract
	tagFunctionCall
	tagTransfer
	tagStake
	tagAddKey
	tagDeleteKey
	tagDeleteAccount
)

// CreateAccount creates the account named by the transaction's
// receiver ID.
type CreateAccount struct{}

func (CreateAccount) actionTag() byte { return tagCreateAccount }

// DeployContract sets the receiver's contract code.
type DeployContract struct {
	// Code is the compiled WebAssembly binary.
	Code []byte
}

func (DeployContract) actionTag() byte { return tagDeployContract }

// FunctionCall invokes a method on the receiver's contract.
type FunctionCall struct {
	MethodName string
	// Args is the raw argument blob, conventionally JSON.
	Args []byte
	// Gas prepaid for the call.
	Gas types.Gas
	// Deposit attached to the call.
	Deposit types.Balance
}

func (FunctionCall) actionTag() byte { return tagFunctionCall }

// Transfer moves tokens to the receiver.
type Transfer struct {
	Deposit types.Balance
}

func (Transfer) actionTag() byte { return tagTransfer }

// Stake locks tokens and registers a validator key for the signer.
type Stake struct {
	Stake     types.Balance
	PublicKey key.PublicKey
}

func (Stake) actionTag() byte { return tagStake }

// AddKey registers a new access key on the receiver account.
type AddKey struct {
	PublicKey key.PublicKey
	AccessKey types.AccessKey
}

func (AddKey) actionTag() byte { return tagAddKey }

// DeleteKey removes an access key from the receiver account.
type DeleteKey struct {
	PublicKey key.PublicKey
}

func (DeleteKey) actionTag() byte { return tagDeleteKey }

// DeleteAccount deletes the receiver account, sending its remaining
// balance to the beneficiary.
type DeleteAccount struct {
	BeneficiaryID types.AccountID
}

func (DeleteAccount) actionTag() byte { return tagDeleteAccount }
