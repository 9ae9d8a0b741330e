package proof

import (
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/stretchr/testify/require"
)

func testProof(t *testing.T, tx string, height int64) *ConfirmationProof {
	t.Helper()
	txCid, err := abi.CidBuilder.Sum([]byte(tx))
	require.NoError(t, err)
	return &ConfirmationProof{
		TxID:      txCid,
		Height:    abi.ChainEpoch(height),
		ExitCode:  0,
		Amount:    abi.NewTokenAmount(42),
		Signature: []byte("oracle attestation"),
	}
}

func TestProofRoundTrip(t *testing.T) {
	p := testProof(t, "tx-1", 100)

	data, err := p.Encode()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.True(t, p.TxID.Equals(got.TxID))
	require.Equal(t, p.Height, got.Height)
	require.Equal(t, p.ExitCode, got.ExitCode)
	require.True(t, p.Amount.Equals(got.Amount))
	require.Equal(t, p.Signature, got.Signature)
}

func TestProofCidIsStable(t *testing.T) {
	a := testProof(t, "tx-1", 100)
	b := testProof(t, "tx-1", 100)

	ca, err := a.Cid()
	require.NoError(t, err)
	cb, err := b.Cid()
	require.NoError(t, err)
	require.True(t, ca.Equals(cb))
}

func TestProofCidDistinguishesProofs(t *testing.T) {
	a := testProof(t, "tx-1", 100)
	b := testProof(t, "tx-2", 100)
	c := testProof(t, "tx-1", 101)

	ca, err := a.Cid()
	require.NoError(t, err)
	cb, err := b.Cid()
	require.NoError(t, err)
	cc, err := c.Cid()
	require.NoError(t, err)

	require.False(t, ca.Equals(cb))
	require.False(t, ca.Equals(cc))
}

func TestToStorageBlock(t *testing.T) {
	p := testProof(t, "tx-1", 100)

	blk, err := p.ToStorageBlock()
	require.NoError(t, err)

	c, err := p.Cid()
	require.NoError(t, err)
	require.True(t, c.Equals(blk.Cid()))

	got, err := Decode(blk.RawData())
	require.NoError(t, err)
	require.True(t, p.TxID.Equals(got.TxID))
}
