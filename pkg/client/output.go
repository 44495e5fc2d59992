package client

import (
	"encoding/json"
	"fmt"

	"github.com/altuslabsxyz/near-client/pkg/types"
)

// Output is the result of a committed transaction: the transaction's
// own outcome, the contract logs gathered from receipts, and the raw
// return value.
type Output struct {
	Transaction ExecutionOutcomeWithIDView
	Logs        []string
	Data        []byte
}

// ID returns the transaction hash the chain recorded.
func (o *Output) ID() types.CryptoHash {
	return o.Transaction.ID
}

// GasBurnt returns the gas burnt by the transaction itself, excluding
// receipts.
func (o *Output) GasBurnt() types.Gas {
	return o.Transaction.Outcome.GasBurnt
}

// Decode unmarshals the JSON return value into v. Fails when the call
// returned nothing or v does not match the payload shape.
func (o *Output) Decode(v any) error {
	if err := json.Unmarshal(o.Data, v); err != nil {
		return fmt.Errorf("decode transaction output: %w", err)
	}
	return nil
}

// ViewOutput is the result of a view call: the raw return value plus
// the logs the contract emitted.
type ViewOutput struct {
	Logs []string
	Data []byte
}

// Decode unmarshals the JSON return value into v.
func (o *ViewOutput) Decode(v any) error {
	if err := json.Unmarshal(o.Data, v); err != nil {
		return fmt.Errorf("decode view output: %w", err)
	}
	return nil
}

// extractLogs returns the logs of the first receipt outcome that
// produced any. Receipts echo the same contract logs, so the first
// non-empty set is the complete picture.
func extractLogs(outcomes []ExecutionOutcomeWithIDView) []string {
	for _, outcome := range outcomes {
		if len(outcome.Outcome.Logs) > 0 {
			return outcome.Outcome.Logs
		}
	}
	return nil
}
