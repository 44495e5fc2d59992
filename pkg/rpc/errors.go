package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/altuslabsxyz/near-client/pkg/tx"
)

// Node error envelope names.
const (
	NameRequestValidationError = "REQUEST_VALIDATION_ERROR"
	NameHandlerError           = "HANDLER_ERROR"
	NameInternalError          = "INTERNAL_ERROR"
)

// Node error cause names.
const (
	CauseInvalidTransaction = "INVALID_TRANSACTION"
	CauseParseError         = "PARSE_ERROR"
	CauseTimeoutError       = "TIMEOUT_ERROR"
	CauseInternalError      = "INTERNAL_ERROR"
)

// TransportError is a failure of the HTTP round trip itself: the node
// was never reached, replied with a non-200 status, or the response
// body was not valid JSON-RPC.
type TransportError struct {
	Endpoint string
	Method   string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rpc %s to %s failed: %v", e.Method, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Cause is the inner layer of a node error envelope.
type Cause struct {
	Name string          `json:"name"`
	Info json.RawMessage `json:"info"`
}

// NodeError is the structured error envelope a NEAR node returns inside
// a JSON-RPC error object. Name and Cause carry the node's two-level
// classification; Data and Message are legacy fields older nodes
// populate instead.
type NodeError struct {
	Name    string          `json:"name"`
	Cause   Cause           `json:"cause"`
	Code    int64           `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (e *NodeError) Error() string {
	msg := fmt.Sprintf("node error %s/%s", e.Name, e.Cause.Name)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Data) > 0 {
		msg += fmt.Sprintf(" (data: %s)", e.Data)
	}
	return msg
}

// Classify inspects a node error and extracts the typed transaction
// failure when one is present. Only two envelope shapes can carry one:
// a request validation error whose cause is a parse failure, and a
// handler error whose cause is an invalid transaction. For those the
// execution error is read from cause.info first and, on older nodes,
// from the legacy data field. Everything else, and any payload that
// does not decode, is returned as the opaque NodeError.
func Classify(nodeErr *NodeError) error {
	carriesExecution := (nodeErr.Name == NameRequestValidationError && nodeErr.Cause.Name == CauseParseError) ||
		(nodeErr.Name == NameHandlerError && nodeErr.Cause.Name == CauseInvalidTransaction)
	if !carriesExecution {
		return nodeErr
	}
	if len(nodeErr.Cause.Info) > 0 {
		if execErr, err := tx.ParseExecutionError(nodeErr.Cause.Info); err == nil {
			return execErr
		}
	}
	if len(nodeErr.Data) > 0 {
		if execErr, err := tx.ParseExecutionError(nodeErr.Data); err == nil {
			return execErr
		}
	}
	return nodeErr
}
