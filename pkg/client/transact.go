package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/tx"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

// Retry bounds how many times a submission is re-signed and re-sent
// after the chain rejects it with a nonce conflict. Only nonce
// conflicts are retried; every other failure returns immediately.
type Retry int

const (
	// RetryNone submits once.
	RetryNone Retry = 1
	// RetryOnce allows one extra submission after a nonce conflict.
	RetryOnce Retry = 2
	// RetryTwice allows two extra submissions.
	RetryTwice Retry = 3
)

// budget returns the total number of submissions the policy permits.
func (r Retry) budget() int {
	if r < RetryNone {
		return int(RetryNone)
	}
	return int(r)
}

// PendingTransaction is a fully specified transaction awaiting
// submission. Build one with the Client constructors, optionally set a
// Retry policy, then Commit or CommitAsync it.
type PendingTransaction struct {
	client   *Client
	signer   *Signer
	receiver types.AccountID
	actions  []tx.Action
	retry    Retry
}

func (c *Client) newPending(signer *Signer, receiver types.AccountID, actions ...tx.Action) *PendingTransaction {
	return &PendingTransaction{
		client:   c,
		signer:   signer,
		receiver: receiver,
		actions:  actions,
		retry:    RetryNone,
	}
}

// Retry sets the nonce-conflict retry policy.
func (p *PendingTransaction) Retry(retry Retry) *PendingTransaction {
	p.retry = retry
	return p
}

// Commit submits the transaction and waits for its final outcome.
func (p *PendingTransaction) Commit(ctx context.Context, finality types.Finality) (*Output, error) {
	raw, err := p.client.commitWithRetry(ctx, p, finality, "broadcast_tx_commit")
	if err != nil {
		return nil, err
	}
	var outcome FinalExecutionOutcomeView
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return nil, fmt.Errorf("decode execution outcome: %w", err)
	}
	return proceedOutcome(p.signer, &outcome)
}

// CommitAsync submits the transaction and returns its hash without
// waiting for execution. Use Client.ViewTransaction to resolve it.
func (p *PendingTransaction) CommitAsync(ctx context.Context, finality types.Finality) (types.CryptoHash, error) {
	raw, err := p.client.commitWithRetry(ctx, p, finality, "broadcast_tx_async")
	if err != nil {
		return types.CryptoHash{}, err
	}
	var id types.CryptoHash
	if err := json.Unmarshal(raw, &id); err != nil {
		return types.CryptoHash{}, fmt.Errorf("decode transaction id: %w", err)
	}
	return id, nil
}

// commitWithRetry is the submission engine. Each attempt re-anchors the
// transaction to a fresh block hash, reserves the next nonce from the
// signer, signs, and broadcasts. A nonce conflict resyncs the signer to
// the chain's recorded value and retries within the budget; any other
// error ends the loop.
func (c *Client) commitWithRetry(ctx context.Context, p *PendingTransaction, finality types.Finality, method string) (json.RawMessage, error) {
	budget := p.retry.budget()
	for execution := 1; ; execution++ {
		encoded, err := c.serializeTransaction(ctx, p, finality)
		if err != nil {
			return nil, err
		}

		c.logger.Debug("broadcasting transaction",
			"method", method,
			"signer", p.signer.AccountID(),
			"receiver", p.receiver,
			"execution", execution,
		)
		raw, err := c.rpc.Call(ctx, method, []string{base64.RawStdEncoding.EncodeToString(encoded)})

		var nonceErr *tx.InvalidNonce
		if errors.As(err, &nonceErr) && execution < budget {
			c.logger.Info("nonce conflict, resyncing and retrying",
				"signer", p.signer.AccountID(),
				"tx_nonce", nonceErr.TxNonce,
				"ak_nonce", nonceErr.AkNonce,
			)
			p.signer.UpdateNonce(nonceErr.AkNonce + 1)
			continue
		}
		return raw, err
	}
}

// serializeTransaction anchors, signs, and encodes one submission
// attempt. The nonce is the signer's tracked value plus one; the signer
// itself is only advanced once the chain confirms a nonce in an
// outcome.
func (c *Client) serializeTransaction(ctx context.Context, p *PendingTransaction, finality types.Finality) ([]byte, error) {
	blockHash, err := c.BlockHash(ctx, finality)
	if err != nil {
		return nil, err
	}
	signed, err := tx.Sign(tx.Transaction{
		SignerID:   p.signer.AccountID(),
		PublicKey:  p.signer.PublicKey(),
		Nonce:      p.signer.Nonce() + 1,
		ReceiverID: p.receiver,
		BlockHash:  blockHash,
		Actions:    p.actions,
	}, p.signer)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	encoded, err := signed.Encode()
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	return encoded, nil
}

// proceedOutcome resolves a final outcome into an Output or a typed
// error. The signer's nonce is always resynced to the nonce the chain
// recorded, whatever the outcome.
func proceedOutcome(signer *Signer, outcome *FinalExecutionOutcomeView) (*Output, error) {
	signer.UpdateNonce(outcome.Transaction.Nonce)
	logs := extractLogs(outcome.ReceiptsOutcome)

	switch outcome.Status.Kind {
	case StatusFailure:
		return nil, &ExecutionFailure{Cause: outcome.Status.Failure, Logs: logs}
	case StatusSuccessValue:
		return &Output{Transaction: outcome.TransactionOutcome, Logs: logs, Data: outcome.Status.SuccessValue}, nil
	case StatusNotStarted:
		return nil, &TxNotStartedError{Logs: logs}
	case StatusStarted:
		// Still executing. Report success with no data; the caller can
		// poll ViewTransaction for the final result.
		return &Output{Transaction: outcome.TransactionOutcome, Logs: logs}, nil
	default:
		return nil, fmt.Errorf("unknown execution status %d", outcome.Status.Kind)
	}
}

// FunctionCallBuilder assembles a single-action contract call.
type FunctionCallBuilder struct {
	client     *Client
	signer     *Signer
	contractID types.AccountID
	method     string
	args       any
	gas        types.Gas
	deposit    types.Balance
	retry      Retry
}

// FunctionCall starts building a contract call transaction.
func (c *Client) FunctionCall(signer *Signer, contractID types.AccountID, method string) *FunctionCallBuilder {
	return &FunctionCallBuilder{
		client:     c,
		signer:     signer,
		contractID: contractID,
		method:     method,
		retry:      RetryNone,
	}
}

// Args sets the call arguments, marshaled to JSON at build time.
func (b *FunctionCallBuilder) Args(args any) *FunctionCallBuilder {
	b.args = args
	return b
}

// Gas sets the prepaid gas for the call.
func (b *FunctionCallBuilder) Gas(gas types.Gas) *FunctionCallBuilder {
	b.gas = gas
	return b
}

// Deposit sets the attached deposit.
func (b *FunctionCallBuilder) Deposit(deposit types.Balance) *FunctionCallBuilder {
	b.deposit = deposit
	return b
}

// Retry sets the nonce-conflict retry policy.
func (b *FunctionCallBuilder) Retry(retry Retry) *FunctionCallBuilder {
	b.retry = retry
	return b
}

// Build finalizes the call into a pending transaction.
func (b *FunctionCallBuilder) Build() (*PendingTransaction, error) {
	args, err := serializeArguments(b.args)
	if err != nil {
		return nil, err
	}
	pending := b.client.newPending(b.signer, b.contractID, tx.FunctionCall{
		MethodName: b.method,
		Args:       args,
		Gas:        b.gas,
		Deposit:    b.deposit,
	})
	pending.retry = b.retry
	return pending, nil
}

// Commit builds, submits, and waits for the final outcome.
func (b *FunctionCallBuilder) Commit(ctx context.Context, finality types.Finality) (*Output, error) {
	pending, err := b.Build()
	if err != nil {
		return nil, err
	}
	return pending.Commit(ctx, finality)
}

// CommitAsync builds and submits, returning the transaction hash.
func (b *FunctionCallBuilder) CommitAsync(ctx context.Context, finality types.Finality) (types.CryptoHash, error) {
	pending, err := b.Build()
	if err != nil {
		return types.CryptoHash{}, err
	}
	return pending.CommitAsync(ctx, finality)
}

// Send transfers deposit from the signer's account to receiver.
func (c *Client) Send(signer *Signer, receiver types.AccountID, deposit types.Balance) *PendingTransaction {
	return c.newPending(signer, receiver, tx.Transfer{Deposit: deposit})
}

// CreateAccount creates a named account, registers a full access key
// for it, and funds it with amount. The three actions execute in that
// order within one transaction.
func (c *Client) CreateAccount(signer *Signer, newAccountID types.AccountID, newAccountPK key.PublicKey, amount types.Balance) *PendingTransaction {
	return c.newPending(signer, newAccountID,
		tx.CreateAccount{},
		tx.AddKey{PublicKey: newAccountPK, AccessKey: types.FullAccessKey()},
		tx.Transfer{Deposit: amount},
	)
}

// DeleteAccount deletes accountID, sending its remaining balance to
// beneficiaryID.
func (c *Client) DeleteAccount(signer *Signer, accountID, beneficiaryID types.AccountID) *PendingTransaction {
	return c.newPending(signer, accountID, tx.DeleteAccount{BeneficiaryID: beneficiaryID})
}

// AddAccessKey registers a new access key on accountID with the given
// permission. The key starts at a random nonce so its transactions
// cannot collide with an earlier key's.
func (c *Client) AddAccessKey(signer *Signer, accountID types.AccountID, newKey key.PublicKey, permission types.AccessKeyPermission) *PendingTransaction {
	return c.newPending(signer, accountID, tx.AddKey{
		PublicKey: newKey,
		AccessKey: types.AccessKey{
			Nonce:      rand.Uint64(),
			Permission: permission,
		},
	})
}

// DeleteAccessKey removes an access key from accountID.
func (c *Client) DeleteAccessKey(signer *Signer, accountID types.AccountID, publicKey key.PublicKey) *PendingTransaction {
	return c.newPending(signer, accountID, tx.DeleteKey{PublicKey: publicKey})
}

// DeployContract deploys compiled WebAssembly code to contractID.
func (c *Client) DeployContract(signer *Signer, contractID types.AccountID, wasm []byte) *PendingTransaction {
	return c.newPending(signer, contractID, tx.DeployContract{Code: wasm})
}

// Stake locks amount on accountID and registers validatorKey as its
// validator key. A zero amount unstakes.
func (c *Client) Stake(signer *Signer, accountID types.AccountID, amount types.Balance, validatorKey key.PublicKey) *PendingTransaction {
	return c.newPending(signer, accountID, tx.Stake{Stake: amount, PublicKey: validatorKey})
}
