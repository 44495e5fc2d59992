// Package rpc implements the JSON-RPC 2.0 transport used to talk to a
// NEAR node, together with the classifier that turns the node's layered
// error payloads into typed errors.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the default HTTP timeout for a single call.
const DefaultTimeout = 30 * time.Second

// requestID is the fixed JSON-RPC request ID. Calls run over a single
// HTTP round trip each, so correlation is not needed.
const requestID = "dontcare"

// Client is a JSON-RPC 2.0 client bound to one node endpoint. It is
// safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the given node URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Endpoint returns the node URL the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *NodeError      `json:"error"`
}

// Call performs one JSON-RPC call and returns the raw result payload.
// Node-reported errors are run through Classify so callers receive
// typed execution errors where the payload allows it.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      requestID,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Method: method, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Method: method, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Method: method, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Method: method, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Endpoint: c.endpoint, Method: method, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(raw))}
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &TransportError{Endpoint: c.endpoint, Method: method, Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Error != nil {
		return nil, Classify(parsed.Error)
	}
	return parsed.Result, nil
}
