package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AccessKey is the permission record the chain stores for a public key
// registered to an account.
type AccessKey struct {
	// Nonce of the last transaction signed with this key.
	Nonce Nonce `json:"nonce"`
	// Permission scope granted to the key.
	Permission AccessKeyPermission `json:"permission"`
}

// FullAccessKey returns an access key with full permissions and a zero
// starting nonce.
func FullAccessKey() AccessKey {
	return AccessKey{Permission: FullAccessPermission()}
}

// FunctionCallPermission restricts an access key to calling a set of
// methods on one receiver, optionally bounded by a spend allowance.
type FunctionCallPermission struct {
	// Allowance is the remaining yoctoNEAR the key may spend on gas.
	// Nil means unlimited.
	Allowance *Balance `json:"allowance"`
	// ReceiverID is the only account the key may address. Kept as a
	// plain string: the chain historically stored invalid IDs here.
	ReceiverID string `json:"receiver_id"`
	// MethodNames whitelists callable methods; empty means any method.
	MethodNames []string `json:"method_names"`
}

// AccessKeyPermission is the closed permission variant set: full access
// or a function-call restriction. The zero value is full access.
type AccessKeyPermission struct {
	functionCall *FunctionCallPermission
}

// FullAccessPermission returns the unrestricted permission.
func FullAccessPermission() AccessKeyPermission {
	return AccessKeyPermission{}
}

// FunctionCallAccess returns a permission restricted to function calls.
func FunctionCallAccess(p FunctionCallPermission) AccessKeyPermission {
	return AccessKeyPermission{functionCall: &p}
}

// IsFullAccess reports whether the permission is unrestricted.
func (p AccessKeyPermission) IsFullAccess() bool {
	return p.functionCall == nil
}

// FunctionCall returns the restriction details, or nil for full access.
func (p AccessKeyPermission) FunctionCall() *FunctionCallPermission {
	return p.functionCall
}

// MarshalJSON renders the node's externally tagged form: the string
// "FullAccess" or {"FunctionCall": {...}}.
func (p AccessKeyPermission) MarshalJSON() ([]byte, error) {
	if p.functionCall == nil {
		return json.Marshal("FullAccess")
	}
	return json.Marshal(map[string]*FunctionCallPermission{"FunctionCall": p.functionCall})
}

// UnmarshalJSON accepts both shapes produced by the node.
func (p *AccessKeyPermission) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s != "FullAccess" {
			return fmt.Errorf("unknown access key permission %q", s)
		}
		p.functionCall = nil
		return nil
	}
	var tagged struct {
		FunctionCall *FunctionCallPermission `json:"FunctionCall"`
	}
	if err := json.Unmarshal(trimmed, &tagged); err != nil {
		return err
	}
	if tagged.FunctionCall == nil {
		return fmt.Errorf("unknown access key permission %s", trimmed)
	}
	p.functionCall = tagged.FunctionCall
	return nil
}
