package client

import (
	"fmt"
	"strings"

	"github.com/altuslabsxyz/near-client/pkg/tx"
)

// ExecutionFailure is a transaction the chain accepted and then failed
// to execute, carrying the typed cause and any contract logs emitted
// before the failure.
type ExecutionFailure struct {
	Cause *tx.ExecutionError
	Logs  []string
}

func (e *ExecutionFailure) Error() string {
	if len(e.Logs) == 0 {
		return fmt.Sprintf("transaction failed: %v", e.Cause)
	}
	return fmt.Sprintf("transaction failed: %v (logs: %s)", e.Cause, strings.Join(e.Logs, "; "))
}

// Unwrap exposes the typed execution error for errors.As.
func (e *ExecutionFailure) Unwrap() error {
	return e.Cause
}

// TxNotStartedError means the node reported the transaction before its
// execution began. The submission may still complete; poll the outcome
// with Client.ViewTransaction.
type TxNotStartedError struct {
	Logs []string
}

func (e *TxNotStartedError) Error() string {
	return "transaction execution has not started"
}

// SerializationError is a local failure to encode a transaction or its
// arguments. Nothing was sent to the node.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize transaction: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// QueryError is a contract-level failure of a view query, reported in
// the query result body rather than the RPC error envelope.
type QueryError struct {
	Reason string
	Logs   []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %s", e.Reason)
}
