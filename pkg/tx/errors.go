package tx

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/altuslabsxyz/near-client/pkg/types"
)

// The node reports execution failures as externally tagged JSON enums:
// unit variants as bare strings ("InvalidSignature"), struct variants
// as single-key objects ({"InvalidNonce": {...}}). The decoders below
// turn that shape into typed Go errors so callers can match with
// errors.As instead of string inspection.

// ExecutionError is a transaction failure reported by the chain, either
// a validation-time rejection of the whole envelope or a failure of one
// action during execution. Exactly one of the two fields is set.
type ExecutionError struct {
	Action    *ActionError
	InvalidTx InvalidTxCause
}

func (e *ExecutionError) Error() string {
	switch {
	case e.Action != nil:
		return e.Action.Error()
	case e.InvalidTx != nil:
		return e.InvalidTx.Error()
	default:
		return "unknown execution error"
	}
}

// Unwrap exposes the inner cause so errors.As can match the concrete
// variant, e.g. *InvalidNonce.
func (e *ExecutionError) Unwrap() error {
	switch {
	case e.Action != nil:
		return e.Action
	case e.InvalidTx != nil:
		return e.InvalidTx
	default:
		return nil
	}
}

// UnmarshalJSON decodes the externally tagged TxExecutionError enum.
func (e *ExecutionError) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("execution error: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("execution error: expected one variant, got %d", len(tagged))
	}
	for name, payload := range tagged {
		switch name {
		case "ActionError":
			var ae ActionError
			if err := json.Unmarshal(payload, &ae); err != nil {
				return fmt.Errorf("execution error: action error: %w", err)
			}
			*e = ExecutionError{Action: &ae}
		case "InvalidTxError":
			cause, err := unmarshalInvalidTxCause(payload)
			if err != nil {
				return fmt.Errorf("execution error: %w", err)
			}
			*e = ExecutionError{InvalidTx: cause}
		default:
			return fmt.Errorf("execution error: unknown variant %q", name)
		}
	}
	return nil
}

// ParseExecutionError decodes the {"TxExecutionError": {...}} container
// the node embeds in RPC error payloads.
func ParseExecutionError(data []byte) (*ExecutionError, error) {
	var container struct {
		Inner *ExecutionError `json:"TxExecutionError"`
	}
	if err := json.Unmarshal(data, &container); err != nil {
		return nil, err
	}
	if container.Inner == nil {
		return nil, fmt.Errorf("no TxExecutionError in payload")
	}
	return container.Inner, nil
}

// ActionError is a failure of one action during execution, identified
// by its index in the transaction's action list.
type ActionError struct {
	// Index of the failing action, or nil when the failure is not
	// attributable to a single action.
	Index *uint64         `json:"index"`
	Kind  ActionErrorKind `json:"kind"`
}

func (e *ActionError) Error() string {
	if e.Index != nil {
		return fmt.Sprintf("action #%d: %s", *e.Index, e.Kind)
	}
	return fmt.Sprintf("action error: %s", e.Kind)
}

// ActionErrorKind names which per-action failure occurred, keeping the
// variant payload as raw JSON. The kind set is large and evolves with
// the protocol, so payload fields are decoded on demand via Decode.
type ActionErrorKind struct {
	// Name is the variant name, e.g. "AccountAlreadyExists" or
	// "FunctionCallError".
	Name string
	// Details is the variant payload, empty for unit variants.
	Details json.RawMessage
}

// Decode unmarshals the variant payload into v.
func (k ActionErrorKind) Decode(v any) error {
	if len(k.Details) == 0 {
		return fmt.Errorf("action error kind %s carries no payload", k.Name)
	}
	return json.Unmarshal(k.Details, v)
}

// AccountID extracts the account_id field present on most kinds, or ""
// when absent.
func (k ActionErrorKind) AccountID() types.AccountID {
	var payload struct {
		AccountID types.AccountID `json:"account_id"`
	}
	if len(k.Details) == 0 || json.Unmarshal(k.Details, &payload) != nil {
		return ""
	}
	return payload.AccountID
}

func (k ActionErrorKind) String() string {
	if len(k.Details) == 0 {
		return k.Name
	}
	return fmt.Sprintf("%s %s", k.Name, k.Details)
}

// UnmarshalJSON decodes the externally tagged ActionErrorKind enum.
func (k *ActionErrorKind) UnmarshalJSON(data []byte) error {
	name, payload, err := splitVariant(data)
	if err != nil {
		return fmt.Errorf("action error kind: %w", err)
	}
	k.Name = name
	k.Details = payload
	return nil
}

// InvalidTxCause is a validation-time rejection of the whole
// transaction. The variant set is closed and mirrors the node's
// InvalidTxError enum.
type InvalidTxCause interface {
	error
	invalidTxCause()
}

// InvalidNonce means the transaction nonce was not strictly greater
// than the access key's recorded nonce. AkNonce is the key's current
// value, so AkNonce+1 is the smallest nonce the chain will accept.
type InvalidNonce struct {
	TxNonce types.Nonce `json:"tx_nonce"`
	AkNonce types.Nonce `json:"ak_nonce"`
}

func (e *InvalidNonce) Error() string {
	return fmt.Sprintf("transaction nonce %d must be larger than nonce %d of the used access key", e.TxNonce, e.AkNonce)
}

// NonceTooLarge means the nonce exceeded the upper bound derived from
// the block height.
type NonceTooLarge struct {
	TxNonce    types.Nonce `json:"tx_nonce"`
	UpperBound types.Nonce `json:"upper_bound"`
}

func (e *NonceTooLarge) Error() string {
	return fmt.Sprintf("transaction nonce %d exceeds upper bound %d", e.TxNonce, e.UpperBound)
}

// InvalidSignerID means the signer ID is not a syntactically valid
// account ID. The offending value is kept as a plain string.
type InvalidSignerID struct {
	SignerID string `json:"signer_id"`
}

func (e *InvalidSignerID) Error() string {
	return fmt.Sprintf("invalid signer account id %q", e.SignerID)
}

// SignerDoesNotExist means the signer account is not in chain state.
type SignerDoesNotExist struct {
	SignerID types.AccountID `json:"signer_id"`
}

func (e *SignerDoesNotExist) Error() string {
	return fmt.Sprintf("signer %q does not exist", e.SignerID)
}

// InvalidReceiverID means the receiver ID is not a syntactically valid
// account ID.
type InvalidReceiverID struct {
	ReceiverID string `json:"receiver_id"`
}

func (e *InvalidReceiverID) Error() string {
	return fmt.Sprintf("invalid receiver account id %q", e.ReceiverID)
}

// InvalidSignature means the signature does not verify for the signer's
// public key.
type InvalidSignature struct{}

func (e *InvalidSignature) Error() string { return "transaction signature is invalid" }

// NotEnoughBalance means the signer cannot cover the transaction cost.
type NotEnoughBalance struct {
	SignerID types.AccountID `json:"signer_id"`
	Balance  types.Balance   `json:"balance"`
	Cost     types.Balance   `json:"cost"`
}

func (e *NotEnoughBalance) Error() string {
	return fmt.Sprintf("signer %q balance %s is not enough to cover cost %s", e.SignerID, e.Balance, e.Cost)
}

// LackBalanceForState means the signer would be left unable to pay for
// its storage after the transaction.
type LackBalanceForState struct {
	SignerID types.AccountID `json:"signer_id"`
	Amount   types.Balance   `json:"amount"`
}

func (e *LackBalanceForState) Error() string {
	return fmt.Sprintf("signer %q lacks %s to cover account storage", e.SignerID, e.Amount)
}

// CostOverflow means transaction cost estimation overflowed.
type CostOverflow struct{}

func (e *CostOverflow) Error() string { return "transaction cost overflowed during estimation" }

// InvalidChain means the anchored block hash does not belong to the
// node's chain.
type InvalidChain struct{}

func (e *InvalidChain) Error() string { return "transaction block hash does not belong to the chain" }

// Expired means the anchored block is too old.
type Expired struct{}

func (e *Expired) Error() string { return "transaction has expired" }

// TransactionSizeExceeded means the encoded transaction is over the
// protocol size limit.
type TransactionSizeExceeded struct {
	Size  uint64 `json:"size"`
	Limit uint64 `json:"limit"`
}

func (e *TransactionSizeExceeded) Error() string {
	return fmt.Sprintf("transaction size %d exceeds limit %d", e.Size, e.Limit)
}

// InvalidAccessKey means the access key used to sign lacks the required
// permission. Kind names the node's variant; the payload stays raw.
type InvalidAccessKey struct {
	Kind    string
	Details json.RawMessage
}

func (e *InvalidAccessKey) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("invalid access key: %s", e.Kind)
	}
	return fmt.Sprintf("invalid access key: %s %s", e.Kind, e.Details)
}

// Decode unmarshals the variant payload into v.
func (e *InvalidAccessKey) Decode(v any) error {
	if len(e.Details) == 0 {
		return fmt.Errorf("access key error %s carries no payload", e.Kind)
	}
	return json.Unmarshal(e.Details, v)
}

// ActionsValidation means the action list failed static validation
// before execution. Kind names the node's variant; the payload stays
// raw.
type ActionsValidation struct {
	Kind    string
	Details json.RawMessage
}

func (e *ActionsValidation) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("actions validation failed: %s", e.Kind)
	}
	return fmt.Sprintf("actions validation failed: %s %s", e.Kind, e.Details)
}

// Decode unmarshals the variant payload into v.
func (e *ActionsValidation) Decode(v any) error {
	if len(e.Details) == 0 {
		return fmt.Errorf("actions validation error %s carries no payload", e.Kind)
	}
	return json.Unmarshal(e.Details, v)
}

func (*InvalidNonce) invalidTxCause()            {}
func (*NonceTooLarge) invalidTxCause()           {}
func (*InvalidSignerID) invalidTxCause()         {}
func (*SignerDoesNotExist) invalidTxCause()      {}
func (*InvalidReceiverID) invalidTxCause()       {}
func (*InvalidSignature) invalidTxCause()        {}
func (*NotEnoughBalance) invalidTxCause()        {}
func (*LackBalanceForState) invalidTxCause()     {}
func (*CostOverflow) invalidTxCause()            {}
func (*InvalidChain) invalidTxCause()            {}
func (*Expired) invalidTxCause()                 {}
func (*TransactionSizeExceeded) invalidTxCause() {}
func (*InvalidAccessKey) invalidTxCause()        {}
func (*ActionsValidation) invalidTxCause()       {}

func unmarshalInvalidTxCause(data []byte) (InvalidTxCause, error) {
	name, payload, err := splitVariant(data)
	if err != nil {
		return nil, fmt.Errorf("invalid tx error: %w", err)
	}
	var cause InvalidTxCause
	switch name {
	case "InvalidNonce":
		cause = &InvalidNonce{}
	case "NonceTooLarge":
		cause = &NonceTooLarge{}
	case "InvalidSignerId":
		cause = &InvalidSignerID{}
	case "SignerDoesNotExist":
		cause = &SignerDoesNotExist{}
	case "InvalidReceiverId":
		cause = &InvalidReceiverID{}
	case "InvalidSignature":
		return &InvalidSignature{}, nil
	case "NotEnoughBalance":
		cause = &NotEnoughBalance{}
	case "LackBalanceForState":
		cause = &LackBalanceForState{}
	case "CostOverflow":
		return &CostOverflow{}, nil
	case "InvalidChain":
		return &InvalidChain{}, nil
	case "Expired":
		return &Expired{}, nil
	case "TransactionSizeExceeded":
		cause = &TransactionSizeExceeded{}
	case "InvalidAccessKeyError":
		inner, innerPayload, err := splitVariant(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid access key error: %w", err)
		}
		return &InvalidAccessKey{Kind: inner, Details: innerPayload}, nil
	case "ActionsValidation":
		inner, innerPayload, err := splitVariant(payload)
		if err != nil {
			return nil, fmt.Errorf("actions validation error: %w", err)
		}
		return &ActionsValidation{Kind: inner, Details: innerPayload}, nil
	default:
		return nil, fmt.Errorf("invalid tx error: unknown variant %q", name)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("invalid tx error: variant %q missing payload", name)
	}
	if err := json.Unmarshal(payload, cause); err != nil {
		return nil, fmt.Errorf("invalid tx error: variant %q: %w", name, err)
	}
	return cause, nil
}

// splitVariant decodes one level of a serde externally tagged enum: a
// bare string is a unit variant with no payload, a single-key object is
// a variant name with its payload.
func splitVariant(data []byte) (string, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", nil, fmt.Errorf("empty variant")
	}
	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return "", nil, err
		}
		return name, nil, nil
	}
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &tagged); err != nil {
		return "", nil, err
	}
	if len(tagged) != 1 {
		return "", nil, fmt.Errorf("expected one variant key, got %d", len(tagged))
	}
	for name, payload := range tagged {
		return name, payload, nil
	}
	return "", nil, fmt.Errorf("unreachable")
}
