package client

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/tx"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

// Base64Bytes is a byte slice the node transports as a base64 string.
// Both padded and unpadded encodings are accepted.
type Base64Bytes []byte

// MarshalJSON encodes the bytes as an unpadded base64 string, the form
// the node expects on requests.
func (b Base64Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.RawStdEncoding.EncodeToString(b))
}

// UnmarshalJSON decodes a base64 string, padded or not.
func (b *Base64Bytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := decodeBase64(s)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

func decodeBase64(s string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// BlockHeaderView is the subset of a block header the client consumes.
type BlockHeaderView struct {
	Height     types.BlockHeight  `json:"height"`
	PrevHeight *types.BlockHeight `json:"prev_height"`
	EpochID    types.CryptoHash   `json:"epoch_id"`
	Hash       types.CryptoHash   `json:"hash"`
	PrevHash   types.CryptoHash   `json:"prev_hash"`
	Timestamp  uint64             `json:"timestamp"`
	GasPrice   types.Balance      `json:"gas_price"`
}

// BlockView is the response of the block RPC method.
type BlockView struct {
	Author types.AccountID `json:"author"`
	Header BlockHeaderView `json:"header"`
}

// AccessKeyView is one access key as reported by the node.
type AccessKeyView struct {
	Nonce      types.Nonce               `json:"nonce"`
	Permission types.AccessKeyPermission `json:"permission"`

	BlockHeight types.BlockHeight `json:"block_height"`
	BlockHash   types.CryptoHash  `json:"block_hash"`
}

// AccessKeyInfoView pairs an access key with its public key.
type AccessKeyInfoView struct {
	PublicKey key.PublicKey `json:"public_key"`
	AccessKey AccessKeyView `json:"access_key"`
}

// AccessKeyListView is the response of a view_access_key_list query.
type AccessKeyListView struct {
	Keys []AccessKeyInfoView `json:"keys"`

	BlockHeight types.BlockHeight `json:"block_height"`
	BlockHash   types.CryptoHash  `json:"block_hash"`
}

// AccountView is the response of a view_account query.
type AccountView struct {
	Amount        types.Balance      `json:"amount"`
	Locked        types.Balance      `json:"locked"`
	CodeHash      types.CryptoHash   `json:"code_hash"`
	StorageUsage  types.StorageUsage `json:"storage_usage"`
	StoragePaidAt types.BlockHeight  `json:"storage_paid_at"`

	BlockHeight types.BlockHeight `json:"block_height"`
	BlockHash   types.CryptoHash  `json:"block_hash"`
}

// StateItem is one key-value pair of contract state.
type StateItem struct {
	Key   Base64Bytes `json:"key"`
	Value Base64Bytes `json:"value"`
}

// ViewStateResult is the response of a view_state query.
type ViewStateResult struct {
	Values []StateItem `json:"values"`

	BlockHeight types.BlockHeight `json:"block_height"`
	BlockHash   types.CryptoHash  `json:"block_hash"`
}

// NodeVersion identifies the nearcore build a node runs.
type NodeVersion struct {
	Version string `json:"version"`
	Build   string `json:"build"`
}

// SyncInfo describes the node's position relative to the chain head.
type SyncInfo struct {
	LatestBlockHash   types.CryptoHash  `json:"latest_block_hash"`
	LatestBlockHeight types.BlockHeight `json:"latest_block_height"`
	LatestBlockTime   time.Time         `json:"latest_block_time"`
	Syncing           bool              `json:"syncing"`
}

// ValidatorInfo names one current validator.
type ValidatorInfo struct {
	AccountID types.AccountID `json:"account_id"`
}

// NetworkStatus is the response of the status RPC method.
type NetworkStatus struct {
	Version               NodeVersion     `json:"version"`
	ChainID               string          `json:"chain_id"`
	ProtocolVersion       uint32          `json:"protocol_version"`
	LatestProtocolVersion uint32          `json:"latest_protocol_version"`
	Validators            []ValidatorInfo `json:"validators"`
	SyncInfo              SyncInfo        `json:"sync_info"`
	UptimeSec             int64           `json:"uptime_sec"`
}

// FinalExecutionStatusKind enumerates the terminal states of a
// submitted transaction.
type FinalExecutionStatusKind int

const (
	// StatusNotStarted means the transaction has not begun executing.
	StatusNotStarted FinalExecutionStatusKind = iota
	// StatusStarted means execution is underway and no result exists yet.
	StatusStarted
	// StatusFailure means execution failed.
	StatusFailure
	// StatusSuccessValue means execution succeeded with a return value,
	// possibly empty.
	StatusSuccessValue
)

// FinalExecutionStatus is the terminal state of a transaction together
// with its payload: a return value on success, a typed execution error
// on failure.
type FinalExecutionStatus struct {
	Kind         FinalExecutionStatusKind
	SuccessValue []byte
	Failure      *tx.ExecutionError
}

// UnmarshalJSON decodes the node's externally tagged form: the strings
// "NotStarted" and "Started", or the objects {"SuccessValue": base64}
// and {"Failure": {...}}.
func (s *FinalExecutionStatus) UnmarshalJSON(data []byte) error {
	var unit string
	if err := json.Unmarshal(data, &unit); err == nil {
		switch unit {
		case "NotStarted":
			*s = FinalExecutionStatus{Kind: StatusNotStarted}
		case "Started":
			*s = FinalExecutionStatus{Kind: StatusStarted}
		default:
			return fmt.Errorf("unknown execution status %q", unit)
		}
		return nil
	}
	var tagged struct {
		SuccessValue *string            `json:"SuccessValue"`
		Failure      *tx.ExecutionError `json:"Failure"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("execution status: %w", err)
	}
	switch {
	case tagged.SuccessValue != nil:
		value, err := decodeBase64(*tagged.SuccessValue)
		if err != nil {
			return fmt.Errorf("execution status value: %w", err)
		}
		*s = FinalExecutionStatus{Kind: StatusSuccessValue, SuccessValue: value}
	case tagged.Failure != nil:
		*s = FinalExecutionStatus{Kind: StatusFailure, Failure: tagged.Failure}
	default:
		return fmt.Errorf("unknown execution status %s", data)
	}
	return nil
}

// ExecutionStatusView is the per-outcome status of a transaction or
// receipt. Kind names the node's variant; the payload stays raw.
type ExecutionStatusView struct {
	Kind    string
	Payload json.RawMessage
}

// UnmarshalJSON decodes the externally tagged form.
func (s *ExecutionStatusView) UnmarshalJSON(data []byte) error {
	var unit string
	if err := json.Unmarshal(data, &unit); err == nil {
		*s = ExecutionStatusView{Kind: unit}
		return nil
	}
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("outcome status: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("outcome status: expected one variant, got %d", len(tagged))
	}
	for name, payload := range tagged {
		*s = ExecutionStatusView{Kind: name, Payload: payload}
	}
	return nil
}

// ExecutionOutcomeView describes what one transaction or receipt did.
type ExecutionOutcomeView struct {
	Logs        []string            `json:"logs"`
	ReceiptIDs  []types.CryptoHash  `json:"receipt_ids"`
	GasBurnt    types.Gas           `json:"gas_burnt"`
	TokensBurnt types.Balance       `json:"tokens_burnt"`
	ExecutorID  types.AccountID     `json:"executor_id"`
	Status      ExecutionStatusView `json:"status"`
}

// ExecutionOutcomeWithIDView ties an outcome to the hash it belongs to
// and the block it was recorded in.
type ExecutionOutcomeWithIDView struct {
	BlockHash types.CryptoHash     `json:"block_hash"`
	ID        types.CryptoHash     `json:"id"`
	Outcome   ExecutionOutcomeView `json:"outcome"`
}

// SignedTransactionView is the node's rendering of the submitted
// transaction inside an outcome.
type SignedTransactionView struct {
	SignerID   types.AccountID  `json:"signer_id"`
	PublicKey  key.PublicKey    `json:"public_key"`
	Nonce      types.Nonce      `json:"nonce"`
	ReceiverID types.AccountID  `json:"receiver_id"`
	Signature  key.Signature    `json:"signature"`
	Hash       types.CryptoHash `json:"hash"`
}

// FinalExecutionOutcomeView is the full result of a transaction and all
// receipts it spawned.
type FinalExecutionOutcomeView struct {
	Status             FinalExecutionStatus         `json:"status"`
	Transaction        SignedTransactionView        `json:"transaction"`
	TransactionOutcome ExecutionOutcomeWithIDView   `json:"transaction_outcome"`
	ReceiptsOutcome    []ExecutionOutcomeWithIDView `json:"receipts_outcome"`
}
