package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/stretchr/testify/require"

	"custody-keys/internal/config"
)

func newTestNode(t *testing.T, handler http.HandlerFunc) *Node {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config.CustodyConfig.Oracle = &config.Oracle{Host: server.URL, Token: "test-token"}
	return NewNode(context.Background(), NewOracleApi())
}

func rpcResult(t *testing.T, w http.ResponseWriter, result interface{}) {
	t.Helper()
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"result":  json.RawMessage(raw),
		"id":      1,
	}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestWaitTxReturnsReceipt(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Custody.WaitTx", req.Method)

		rpcResult(t, w, TxReceipt{
			ExitCode: 0,
			Height:   321,
			Amount:   abi.NewTokenAmount(5),
		})
	})

	c, err := abi.CidBuilder.Sum([]byte("tx-1"))
	require.NoError(t, err)

	receipt, err := node.WaitTx(c, DefaultConfidence)
	require.NoError(t, err)
	require.Equal(t, abi.ChainEpoch(321), receipt.Height)
}

func TestWaitTxRejectsFailedExecution(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, TxReceipt{ExitCode: 16, Height: 321})
	})

	c, err := abi.CidBuilder.Sum([]byte("tx-1"))
	require.NoError(t, err)

	_, err = node.WaitTx(c, DefaultConfidence)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exit code")
}

func TestCallSurfacesRPCError(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			"id":      1,
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	err := node.Call(context.Background(), "Bogus", nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "method not found")
}

func TestCallSurfacesHTTPError(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	err := node.Call(context.Background(), "ChainHead", nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP error 401")
}

func TestWaitProofBuildsConfirmationProof(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, TxReceipt{
			ExitCode:  0,
			Height:    100,
			Amount:    abi.NewTokenAmount(9),
			Signature: []byte("attestation"),
		})
	})

	c, err := abi.CidBuilder.Sum([]byte("tx-1"))
	require.NoError(t, err)

	pf, err := node.WaitProof(c, DefaultConfidence)
	require.NoError(t, err)
	require.True(t, c.Equals(pf.TxID))
	require.Equal(t, abi.ChainEpoch(100), pf.Height)
	require.True(t, abi.NewTokenAmount(9).Equals(pf.Amount))
	require.Equal(t, []byte("attestation"), pf.Signature)
}

func TestChainHead(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, abi.ChainEpoch(777))
	})

	height, err := node.ChainHead()
	require.NoError(t, err)
	require.Equal(t, abi.ChainEpoch(777), height)
}
