package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/tx"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

// mockNode scripts a JSON-RPC node: block queries return a fixed hash,
// broadcasts are recorded and answered by the configured responder.
type mockNode struct {
	t         *testing.T
	server    *httptest.Server
	blockHash types.CryptoHash

	mu         sync.Mutex
	broadcasts [][]byte
	respond    func(call int) string
}

func newMockNode(t *testing.T, respond func(call int) string) *mockNode {
	t.Helper()
	node := &mockNode{t: t, respond: respond}
	for i := range node.blockHash {
		node.blockHash[i] = 0x0b
	}
	node.server = httptest.NewServer(http.HandlerFunc(node.handle))
	t.Cleanup(node.server.Close)
	return node
}

func (n *mockNode) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	require.NoError(n.t, json.NewDecoder(r.Body).Decode(&req))

	switch req.Method {
	case "block":
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":"dontcare","result":{"author":"node0","header":{"height":100,"hash":"%s","timestamp":1}}}`, n.blockHash)
	case "broadcast_tx_commit", "broadcast_tx_async":
		var params []string
		require.NoError(n.t, json.Unmarshal(req.Params, &params))
		require.Len(n.t, params, 1)
		decoded, err := base64.RawStdEncoding.DecodeString(params[0])
		require.NoError(n.t, err)

		n.mu.Lock()
		n.broadcasts = append(n.broadcasts, decoded)
		call := len(n.broadcasts)
		n.mu.Unlock()
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":"dontcare",%s}`, n.respond(call))
	default:
		n.t.Fatalf("unexpected method %s", req.Method)
	}
}

func (n *mockNode) broadcastCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.broadcasts)
}

// txNonce reads the nonce field out of a recorded signed transaction:
// it sits after the signer string and the tagged public key.
func txNonce(t *testing.T, signedTx []byte, signerID string) types.Nonce {
	t.Helper()
	offset := 4 + len(signerID) + 33
	return binary.LittleEndian.Uint64(signedTx[offset : offset+8])
}

func testSigner(t *testing.T, nonce types.Nonce) *Signer {
	t.Helper()
	kp, err := key.NewKeypairFromSeed(bytes.Repeat([]byte{0x2a}, 32))
	require.NoError(t, err)
	signer, err := NewSigner("alice.test", kp, nonce)
	require.NoError(t, err)
	return signer
}

func invalidNonceError(akNonce types.Nonce) string {
	return fmt.Sprintf(`"error":{"name":"HANDLER_ERROR","cause":{"name":"INVALID_TRANSACTION","info":{"TxExecutionError":{"InvalidTxError":{"InvalidNonce":{"tx_nonce":1,"ak_nonce":%d}}}}},"code":-32000,"message":""}`, akNonce)
}

func successOutcome(txNonce types.Nonce, value string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(value))
	return fmt.Sprintf(`"result":{
		"status":{"SuccessValue":"%s"},
		"transaction":{"signer_id":"alice.test","receiver_id":"bob.test","nonce":%d},
		"transaction_outcome":{"id":"%s","outcome":{"logs":[],"gas_burnt":400,"tokens_burnt":"0","executor_id":"alice.test","status":"Unknown"}},
		"receipts_outcome":[{"id":"%s","outcome":{"logs":["minted"],"gas_burnt":100,"tokens_burnt":"0","executor_id":"bob.test","status":"Unknown"}}]
	}`, encoded, txNonce, types.Sha256([]byte("tx")), types.Sha256([]byte("receipt")))
}

func TestSendCommitHappyPath(t *testing.T) {
	node := newMockNode(t, func(call int) string {
		return successOutcome(6, `"ok"`)
	})
	signer := testSigner(t, 5)

	output, err := New(node.server.URL).
		Send(signer, "bob.test", types.NewBalance(10)).
		Commit(context.Background(), types.FinalityFinal)
	require.NoError(t, err)

	var result string
	require.NoError(t, output.Decode(&result))
	require.Equal(t, "ok", result)
	require.Equal(t, []string{"minted"}, output.Logs)
	require.Equal(t, types.Gas(400), output.GasBurnt())

	// One broadcast, carrying the reserved nonce, and the signer synced
	// to the nonce the chain recorded.
	require.Equal(t, 1, node.broadcastCount())
	require.Equal(t, types.Nonce(6), txNonce(t, node.broadcasts[0], "alice.test"))
	require.Equal(t, types.Nonce(6), signer.Nonce())
}

func TestCommitRetriesOnNonceConflict(t *testing.T) {
	node := newMockNode(t, func(call int) string {
		if call == 1 {
			return invalidNonceError(41)
		}
		return successOutcome(43, `null`)
	})
	signer := testSigner(t, 5)

	_, err := New(node.server.URL).
		Send(signer, "bob.test", types.NewBalance(10)).
		Retry(RetryOnce).
		Commit(context.Background(), types.FinalityFinal)
	require.NoError(t, err)

	require.Equal(t, 2, node.broadcastCount())
	// First attempt used the stale local nonce. The conflict resynced
	// the signer to the chain's 41, so the retry reserved a fresh nonce
	// above it.
	require.Equal(t, types.Nonce(6), txNonce(t, node.broadcasts[0], "alice.test"))
	require.Equal(t, types.Nonce(43), txNonce(t, node.broadcasts[1], "alice.test"))
	require.Equal(t, types.Nonce(43), signer.Nonce())
}

func TestCommitWithoutRetryFailsOnNonceConflict(t *testing.T) {
	node := newMockNode(t, func(call int) string {
		return invalidNonceError(41)
	})
	signer := testSigner(t, 5)

	_, err := New(node.server.URL).
		Send(signer, "bob.test", types.NewBalance(10)).
		Commit(context.Background(), types.FinalityFinal)

	var nonceErr *tx.InvalidNonce
	require.True(t, errors.As(err, &nonceErr))
	require.Equal(t, types.Nonce(41), nonceErr.AkNonce)
	require.Equal(t, 1, node.broadcastCount())
	// Without an outcome the signer keeps its local value.
	require.Equal(t, types.Nonce(5), signer.Nonce())
}

func TestCommitRetryBudgetExhausted(t *testing.T) {
	node := newMockNode(t, func(call int) string {
		return invalidNonceError(types.Nonce(40 + call))
	})
	signer := testSigner(t, 5)

	_, err := New(node.server.URL).
		Send(signer, "bob.test", types.NewBalance(10)).
		Retry(RetryOnce).
		Commit(context.Background(), types.FinalityFinal)

	var nonceErr *tx.InvalidNonce
	require.True(t, errors.As(err, &nonceErr))
	// One retry means two submissions in total; the second conflict is
	// surfaced, not swallowed by another attempt.
	require.Equal(t, 2, node.broadcastCount())
	require.Equal(t, types.Nonce(42), nonceErr.AkNonce)
}

func TestCommitAsyncReturnsHash(t *testing.T) {
	want := types.Sha256([]byte("pending"))
	node := newMockNode(t, func(call int) string {
		return fmt.Sprintf(`"result":"%s"`, want)
	})
	signer := testSigner(t, 5)

	id, err := New(node.server.URL).
		Send(signer, "bob.test", types.NewBalance(1)).
		CommitAsync(context.Background(), types.FinalityFinal)
	require.NoError(t, err)
	require.Equal(t, want, id)
}

func TestCommitSignsVerifiably(t *testing.T) {
	node := newMockNode(t, func(call int) string {
		return successOutcome(6, `null`)
	})
	signer := testSigner(t, 5)

	_, err := New(node.server.URL).
		FunctionCall(signer, "contract.test", "mint").
		Args(map[string]string{"token": "1"}).
		Gas(30_000_000_000_000).
		Deposit(types.NewBalance(1)).
		Commit(context.Background(), types.FinalityFinal)
	require.NoError(t, err)

	signedTx := node.broadcasts[0]
	// The last 65 bytes are the tagged signature over the SHA-256 of
	// the preceding transaction bytes.
	txBytes := signedTx[:len(signedTx)-65]
	require.Equal(t, key.CurveTagED25519, signedTx[len(signedTx)-65])
	var sig key.Signature
	copy(sig[:], signedTx[len(signedTx)-64:])
	digest := types.Sha256(txBytes)
	require.True(t, signer.PublicKey().Verify(digest[:], sig))
}

func TestProceedOutcomeMapping(t *testing.T) {
	makeOutcome := func(status string) *FinalExecutionOutcomeView {
		raw := fmt.Sprintf(`{
			"status":%s,
			"transaction":{"signer_id":"alice.test","receiver_id":"bob.test","nonce":9},
			"transaction_outcome":{"id":"%s","outcome":{"logs":[],"gas_burnt":1,"tokens_burnt":"0","executor_id":"alice.test","status":"Unknown"}},
			"receipts_outcome":[{"id":"%s","outcome":{"logs":["log line"],"gas_burnt":1,"tokens_burnt":"0","executor_id":"bob.test","status":"Unknown"}}]
		}`, status, types.Sha256([]byte("a")), types.Sha256([]byte("b")))
		var outcome FinalExecutionOutcomeView
		require.NoError(t, json.Unmarshal([]byte(raw), &outcome))
		return &outcome
	}

	t.Run("success value", func(t *testing.T) {
		signer := testSigner(t, 1)
		output, err := proceedOutcome(signer, makeOutcome(`{"SuccessValue":"dHJ1ZQ=="}`))
		require.NoError(t, err)
		require.Equal(t, []byte("true"), output.Data)
		require.Equal(t, types.Nonce(9), signer.Nonce())
	})

	t.Run("failure", func(t *testing.T) {
		signer := testSigner(t, 1)
		_, err := proceedOutcome(signer, makeOutcome(`{"Failure":{"ActionError":{"index":0,"kind":{"AccountAlreadyExists":{"account_id":"bob.test"}}}}}`))
		var failure *ExecutionFailure
		require.True(t, errors.As(err, &failure))
		require.Equal(t, []string{"log line"}, failure.Logs)
		var actionErr *tx.ActionError
		require.True(t, errors.As(err, &actionErr))
		require.Equal(t, types.Nonce(9), signer.Nonce())
	})

	t.Run("not started", func(t *testing.T) {
		signer := testSigner(t, 1)
		_, err := proceedOutcome(signer, makeOutcome(`"NotStarted"`))
		var notStarted *TxNotStartedError
		require.True(t, errors.As(err, &notStarted))
	})

	t.Run("started yields empty output", func(t *testing.T) {
		signer := testSigner(t, 1)
		output, err := proceedOutcome(signer, makeOutcome(`"Started"`))
		require.NoError(t, err)
		require.Empty(t, output.Data)
		require.Equal(t, []string{"log line"}, output.Logs)
	})
}

func TestCreateAccountActionOrder(t *testing.T) {
	node := newMockNode(t, func(call int) string {
		return successOutcome(6, `null`)
	})
	signer := testSigner(t, 5)
	newKey := testPublicKey()

	_, err := New(node.server.URL).
		CreateAccount(signer, "carol.alice.test", newKey, types.NewBalance(100)).
		Commit(context.Background(), types.FinalityFinal)
	require.NoError(t, err)

	signedTx := node.broadcasts[0]
	// Three actions: CreateAccount, AddKey, Transfer, in that order.
	countOffset := 4 + len("alice.test") + 33 + 8 + 4 + len("carol.alice.test") + 32
	require.Equal(t, uint32(3), binary.LittleEndian.Uint32(signedTx[countOffset:countOffset+4]))
	require.Equal(t, byte(0), signedTx[countOffset+4])
	addKeyOffset := countOffset + 4 + 1
	require.Equal(t, byte(5), signedTx[addKeyOffset])
	// AddKey payload: tagged key, nonce, full access tag, then Transfer.
	transferOffset := addKeyOffset + 1 + 33 + 8 + 1
	require.Equal(t, byte(3), signedTx[transferOffset])
}

func testPublicKey() key.PublicKey {
	var pk key.PublicKey
	for i := range pk {
		pk[i] = 0x0c
	}
	return pk
}

// TestConcurrentCommitsRecoverFromNonceConflicts races commits sharing
// one signer against a node that accepts each nonce at most once and
// rejects anything not above its recorded value. The first wave of
// broadcasts is held until every worker has submitted, so all of them
// reserve the same stale nonce and every worker but one has to recover
// through the nonce the node reports in the conflict.
func TestConcurrentCommitsRecoverFromNonceConflicts(t *testing.T) {
	const workers = 2

	var (
		mu        sync.Mutex
		arrivals  int
		chain     types.Nonce = 5
		accepted  []types.Nonce
		conflicts int
	)
	barrier := make(chan struct{})
	blockHash := types.Sha256([]byte("head"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Method == "block" {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":"dontcare","result":{"author":"node0","header":{"height":100,"hash":"%s","timestamp":1}}}`, blockHash)
			return
		}
		require.Equal(t, "broadcast_tx_commit", req.Method)

		var params []string
		require.NoError(t, json.Unmarshal(req.Params, &params))
		decoded, err := base64.RawStdEncoding.DecodeString(params[0])
		require.NoError(t, err)
		nonce := txNonce(t, decoded, "alice.test")

		mu.Lock()
		arrivals++
		firstWave := arrivals <= workers
		if arrivals == workers {
			close(barrier)
		}
		mu.Unlock()
		if firstWave {
			<-barrier
		}

		mu.Lock()
		var body string
		if nonce > chain {
			chain = nonce
			accepted = append(accepted, nonce)
			body = successOutcome(nonce, `null`)
		} else {
			conflicts++
			body = invalidNonceError(chain)
		}
		mu.Unlock()
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":"dontcare",%s}`, body)
	}))
	t.Cleanup(server.Close)

	signer := testSigner(t, 5)
	c := New(server.URL)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.Send(signer, "bob.test", types.NewBalance(1)).
				Retry(RetryTwice).
				Commit(context.Background(), types.FinalityFinal)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, accepted, workers)
	seen := make(map[types.Nonce]struct{}, workers)
	for i, nonce := range accepted {
		_, dup := seen[nonce]
		require.False(t, dup, "nonce %d accepted twice", nonce)
		seen[nonce] = struct{}{}
		if i > 0 {
			require.Greater(t, nonce, accepted[i-1])
		}
	}
	// All first-wave submissions carried the same reservation, so every
	// worker but the winner went through a conflict.
	require.GreaterOrEqual(t, conflicts, workers-1)
	// The signer's last resync came from a confirmed outcome.
	_, ok := seen[signer.Nonce()]
	require.True(t, ok)
}
