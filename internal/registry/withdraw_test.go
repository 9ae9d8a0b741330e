package registry

import (
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/stretchr/testify/require"

	"custody-keys/internal/keyring"
	"custody-keys/internal/models"
	"custody-keys/internal/proof"
)

func testProof(t *testing.T, tx string) *proof.ConfirmationProof {
	t.Helper()
	txCid, err := abi.CidBuilder.Sum([]byte(tx))
	require.NoError(t, err)
	return &proof.ConfirmationProof{
		TxID:      txCid,
		Height:    200,
		ExitCode:  0,
		Amount:    abi.NewTokenAmount(7),
		Signature: []byte("oracle attestation"),
	}
}

func TestInitiateWithdrawal(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	issued, kp, err := deposits.Issue("BTC")
	require.NoError(t, err)

	item, err := withdraws.Initiate("tok-1", kp, "BTC")
	require.NoError(t, err)
	require.Equal(t, "tok-1", item.TokenKeyID)
	require.Equal(t, issued.DepositPublicKey, item.DepositPublicKey)
	require.Equal(t, "BTC", item.AssetID)
	require.Equal(t, models.WithdrawStatusPending, item.Status)
}

func TestInitiateDuplicateToken(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	_, kp, err := deposits.Issue("BTC")
	require.NoError(t, err)

	_, err = withdraws.Initiate("tok-1", kp, "BTC")
	require.NoError(t, err)

	// 同一 token 至多提现一次
	_, err = withdraws.Initiate("tok-1", kp, "BTC")
	require.ErrorIs(t, err, ErrDuplicateToken)
}

func TestInitiateAssetMismatch(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	_, kp, err := deposits.Issue("BTC")
	require.NoError(t, err)

	_, err = withdraws.Initiate("tok-1", kp, "SOL")
	require.ErrorIs(t, err, ErrAssetMismatch)
}

func TestInitiateUnknownAsset(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	_, kp, err := deposits.Issue("BTC")
	require.NoError(t, err)

	_, err = withdraws.Initiate("tok-1", kp, "DOGE")
	require.ErrorIs(t, err, ErrInvalidAsset)
}

func TestInitiateUnknownDeposit(t *testing.T) {
	_, withdraws := newTestRegistries(t)

	// 密钥对未经存款登记处签发
	kp, err := keyring.NewKeyPair(keyring.KTSecp256k1)
	require.NoError(t, err)

	_, err = withdraws.Initiate("tok-1", kp, "BTC")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmWithdrawal(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	_, kp, err := deposits.Issue("BTC")
	require.NoError(t, err)
	_, err = withdraws.Initiate("tok-1", kp, "BTC")
	require.NoError(t, err)

	confirmed, err := withdraws.IsConfirmed("tok-1")
	require.NoError(t, err)
	require.False(t, confirmed)

	require.NoError(t, withdraws.Confirm("tok-1", testProof(t, "tx-a")))

	confirmed, err = withdraws.IsConfirmed("tok-1")
	require.NoError(t, err)
	require.True(t, confirmed)
}

func TestConfirmIsIdempotentForSameProof(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	_, kp, err := deposits.Issue("BTC")
	require.NoError(t, err)
	_, err = withdraws.Initiate("tok-1", kp, "BTC")
	require.NoError(t, err)

	require.NoError(t, withdraws.Confirm("tok-1", testProof(t, "tx-a")))
	// 同一确认事件的重试幂等成功
	require.NoError(t, withdraws.Confirm("tok-1", testProof(t, "tx-a")))

	items, err := withdraws.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestConfirmRejectsDifferentProof(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	_, kp, err := deposits.Issue("BTC")
	require.NoError(t, err)
	_, err = withdraws.Initiate("tok-1", kp, "BTC")
	require.NoError(t, err)

	require.NoError(t, withdraws.Confirm("tok-1", testProof(t, "tx-a")))
	err = withdraws.Confirm("tok-1", testProof(t, "tx-b"))
	require.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestConfirmUnknownWithdrawal(t *testing.T) {
	_, withdraws := newTestRegistries(t)

	err := withdraws.Confirm("tok-missing", testProof(t, "tx-a"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIsConfirmedUnknownWithdrawal(t *testing.T) {
	_, withdraws := newTestRegistries(t)

	_, err := withdraws.IsConfirmed("tok-missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProofAccessor(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	_, kp, err := deposits.Issue("BTC")
	require.NoError(t, err)
	_, err = withdraws.Initiate("tok-1", kp, "BTC")
	require.NoError(t, err)

	_, err = withdraws.Proof("tok-1")
	require.ErrorIs(t, err, ErrNotFound)

	sent := testProof(t, "tx-a")
	require.NoError(t, withdraws.Confirm("tok-1", sent))

	got, err := withdraws.Proof("tok-1")
	require.NoError(t, err)
	require.True(t, sent.TxID.Equals(got.TxID))
	require.Equal(t, sent.Height, got.Height)
}

func TestWithdrawalRecordsRetainedAfterConfirm(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	_, kp, err := deposits.Issue("BTC")
	require.NoError(t, err)
	_, err = withdraws.Initiate("tok-1", kp, "BTC")
	require.NoError(t, err)
	require.NoError(t, withdraws.Confirm("tok-1", testProof(t, "tx-a")))

	// 确认后的记录保留用于审计
	items, err := withdraws.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, models.WithdrawStatusConfirmed, items[0].Status)
	require.Nil(t, items[0].DepositPrivateKey)
}

func TestListWithdrawalsAcrossAssets(t *testing.T) {
	deposits, withdraws := newTestRegistries(t)

	_, btcKP, err := deposits.Issue("BTC")
	require.NoError(t, err)
	_, solKP, err := deposits.Issue("SOL")
	require.NoError(t, err)

	_, err = withdraws.Initiate("tok-btc", btcKP, "BTC")
	require.NoError(t, err)
	_, err = withdraws.Initiate("tok-sol", solKP, "SOL")
	require.NoError(t, err)

	items, err := withdraws.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
}
