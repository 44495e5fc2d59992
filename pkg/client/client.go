// Package client is the high-level NEAR client: account and contract
// queries, transaction construction, and reliable submission with
// nonce-conflict retry.
package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/rpc"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

// Client talks to one NEAR node. It is safe for concurrent use.
type Client struct {
	rpc    *rpc.Client
	logger log.Logger
}

// New creates a client for the given node URL.
func New(endpoint string) *Client {
	return &Client{
		rpc:    rpc.NewClient(endpoint),
		logger: log.NewNopLogger(),
	}
}

// WithLogger sets the structured logger. Logging is off by default.
func (c *Client) WithLogger(logger log.Logger) *Client {
	c.logger = logger
	return c
}

// WithRPC replaces the underlying transport.
func (c *Client) WithRPC(rpcClient *rpc.Client) *Client {
	c.rpc = rpcClient
	return c
}

// RPC exposes the underlying JSON-RPC transport.
func (c *Client) RPC() *rpc.Client {
	return c.rpc
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	raw, err := c.rpc.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

type blockParams struct {
	Finality types.Finality `json:"finality"`
}

// Block returns the block selected by finality.
func (c *Client) Block(ctx context.Context, finality types.Finality) (*BlockView, error) {
	var block BlockView
	if err := c.call(ctx, "block", blockParams{Finality: finality}, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// BlockHash returns the hash of the block selected by finality, used to
// anchor transactions.
func (c *Client) BlockHash(ctx context.Context, finality types.Finality) (types.CryptoHash, error) {
	block, err := c.Block(ctx, finality)
	if err != nil {
		return types.CryptoHash{}, err
	}
	return block.Header.Hash, nil
}

type viewCallParams struct {
	RequestType string          `json:"request_type"`
	Finality    types.Finality  `json:"finality"`
	AccountID   types.AccountID `json:"account_id"`
	MethodName  string          `json:"method_name"`
	ArgsBase64  string          `json:"args_base64"`
}

// View calls a contract method as a read-only view function. Args is
// marshaled to JSON; nil sends an empty argument blob.
func (c *Client) View(ctx context.Context, contractID types.AccountID, finality types.Finality, method string, args any) (*ViewOutput, error) {
	encodedArgs, err := serializeArguments(args)
	if err != nil {
		return nil, err
	}
	var result struct {
		Result []byte   `json:"result"`
		Logs   []string `json:"logs"`
		Error  string   `json:"error"`
	}
	err = c.call(ctx, "query", viewCallParams{
		RequestType: "call_function",
		Finality:    finality,
		AccountID:   contractID,
		MethodName:  method,
		ArgsBase64:  base64.RawStdEncoding.EncodeToString(encodedArgs),
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, &QueryError{Reason: result.Error, Logs: result.Logs}
	}
	return &ViewOutput{Logs: result.Logs, Data: result.Result}, nil
}

type viewAccessKeyParams struct {
	RequestType string          `json:"request_type"`
	Finality    types.Finality  `json:"finality"`
	AccountID   types.AccountID `json:"account_id"`
	PublicKey   key.PublicKey   `json:"public_key"`
}

// ViewAccessKey returns one access key of an account. The returned
// nonce seeds a Signer for that key.
func (c *Client) ViewAccessKey(ctx context.Context, accountID types.AccountID, publicKey key.PublicKey, finality types.Finality) (*AccessKeyView, error) {
	var result struct {
		AccessKeyView
		Error string   `json:"error"`
		Logs  []string `json:"logs"`
	}
	err := c.call(ctx, "query", viewAccessKeyParams{
		RequestType: "view_access_key",
		Finality:    finality,
		AccountID:   accountID,
		PublicKey:   publicKey,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, &QueryError{Reason: result.Error, Logs: result.Logs}
	}
	return &result.AccessKeyView, nil
}

type viewAccessKeyListParams struct {
	RequestType string          `json:"request_type"`
	Finality    types.Finality  `json:"finality"`
	AccountID   types.AccountID `json:"account_id"`
}

// ViewAccessKeyList returns all access keys of an account.
func (c *Client) ViewAccessKeyList(ctx context.Context, accountID types.AccountID, finality types.Finality) (*AccessKeyListView, error) {
	var result struct {
		AccessKeyListView
		Error string   `json:"error"`
		Logs  []string `json:"logs"`
	}
	err := c.call(ctx, "query", viewAccessKeyListParams{
		RequestType: "view_access_key_list",
		Finality:    finality,
		AccountID:   accountID,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, &QueryError{Reason: result.Error, Logs: result.Logs}
	}
	return &result.AccessKeyListView, nil
}

type viewStateParams struct {
	RequestType  string          `json:"request_type"`
	Finality     types.Finality  `json:"finality"`
	AccountID    types.AccountID `json:"account_id"`
	PrefixBase64 string          `json:"prefix_base64"`
}

// ViewContractState returns the contract's state entries whose keys
// start with prefix. An empty prefix returns the whole state.
func (c *Client) ViewContractState(ctx context.Context, accountID types.AccountID, prefix []byte) (*ViewStateResult, error) {
	var result ViewStateResult
	err := c.call(ctx, "query", viewStateParams{
		RequestType:  "view_state",
		Finality:     types.FinalityFinal,
		AccountID:    accountID,
		PrefixBase64: base64.RawStdEncoding.EncodeToString(prefix),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type viewAccountParams struct {
	RequestType string          `json:"request_type"`
	Finality    types.Finality  `json:"finality"`
	AccountID   types.AccountID `json:"account_id"`
}

// ViewAccount returns basic account information, including balance.
func (c *Client) ViewAccount(ctx context.Context, accountID types.AccountID) (*AccountView, error) {
	var result AccountView
	err := c.call(ctx, "query", viewAccountParams{
		RequestType: "view_account",
		Finality:    types.FinalityFinal,
		AccountID:   accountID,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// NetworkStatus returns the node's status: version, chain, sync state,
// and current validators.
func (c *Client) NetworkStatus(ctx context.Context) (*NetworkStatus, error) {
	var status NetworkStatus
	if err := c.call(ctx, "status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ViewTransaction queries the outcome of a previously submitted
// transaction by hash and resolves it the same way Commit does,
// including resyncing the signer's nonce. A TxNotStartedError means
// execution has not begun and the call can be repeated.
func (c *Client) ViewTransaction(ctx context.Context, id types.CryptoHash, signer *Signer) (*Output, error) {
	params := []any{id, signer.AccountID()}
	var outcome FinalExecutionOutcomeView
	if err := c.call(ctx, "EXPERIMENTAL_tx_status", params, &outcome); err != nil {
		return nil, err
	}
	return proceedOutcome(signer, &outcome)
}

func serializeArguments(args any) ([]byte, error) {
	if args == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode call arguments: %w", err)
	}
	return encoded, nil
}
