package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"custody-keys/internal/config"
	"custody-keys/internal/models"
)

func TestMain(m *testing.M) {
	config.CustodyConfig.Security = &config.Security{Seed: "repository-test-seed"}
	InitEncryptionKey()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "custody.db"))
	require.NoError(t, err)
	return store
}

func TestCreateDepositKeyTranslatesDuplicate(t *testing.T) {
	store := newTestStore(t)

	item := &models.DepositKeyPair{
		DepositPublicKey: "f1qqqq",
		TokenPublicKey:   []byte{1, 2, 3},
		AssetID:          "BTC",
		KeyType:          "secp256k1",
	}
	require.NoError(t, store.CreateDepositKey(item, []byte("priv")))

	dup := &models.DepositKeyPair{
		DepositPublicKey: "f1qqqq",
		TokenPublicKey:   []byte{4, 5, 6},
		AssetID:          "BTC",
		KeyType:          "secp256k1",
	}
	err := store.CreateDepositKey(dup, []byte("priv"))
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDepositKeySealedAtRest(t *testing.T) {
	store := newTestStore(t)

	item := &models.DepositKeyPair{
		DepositPublicKey: "f1qqqq",
		TokenPublicKey:   []byte{1, 2, 3},
		AssetID:          "BTC",
		KeyType:          "secp256k1",
	}
	require.NoError(t, store.CreateDepositKey(item, []byte("token-priv")))

	// 落库的是密文
	var raw models.DepositKeyPair
	require.NoError(t, store.DB.Where("deposit_public_key = ?", "f1qqqq").First(&raw).Error)
	require.NotEqual(t, []byte("token-priv"), raw.TokenPrivateKey)

	got, err := store.GetDepositKey("f1qqqq")
	require.NoError(t, err)
	require.Equal(t, []byte("token-priv"), got.TokenPrivateKey)
}

func TestRevokeDepositKeyClearsMaterial(t *testing.T) {
	store := newTestStore(t)

	item := &models.DepositKeyPair{
		DepositPublicKey: "f1qqqq",
		TokenPublicKey:   []byte{1, 2, 3},
		AssetID:          "BTC",
		KeyType:          "secp256k1",
	}
	require.NoError(t, store.CreateDepositKey(item, []byte("token-priv")))

	found, err := store.RevokeDepositKey("f1qqqq")
	require.NoError(t, err)
	require.True(t, found)

	got, err := store.GetDepositKey("f1qqqq")
	require.NoError(t, err)
	require.True(t, got.Revoked)
	require.NotNil(t, got.RevokedAt)
	require.Empty(t, got.TokenPrivateKey)

	found, err = store.RevokeDepositKey("f1qqqq")
	require.NoError(t, err)
	require.True(t, found)

	found, err = store.RevokeDepositKey("f1missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestCreateWithdrawKeyTranslatesDuplicate(t *testing.T) {
	store := newTestStore(t)

	item := &models.WithdrawKeyPair{
		TokenKeyID:       "tok-1",
		DepositPublicKey: "f1qqqq",
		AssetID:          "BTC",
	}
	require.NoError(t, store.CreateWithdrawKey(item, []byte("priv")))
	require.Equal(t, models.WithdrawStatusPending, item.Status)

	dup := &models.WithdrawKeyPair{
		TokenKeyID:       "tok-1",
		DepositPublicKey: "f1qqqq",
		AssetID:          "BTC",
	}
	err := store.CreateWithdrawKey(dup, []byte("priv"))
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestConfirmWithdrawKeyIsCompareAndSet(t *testing.T) {
	store := newTestStore(t)

	item := &models.WithdrawKeyPair{
		TokenKeyID:       "tok-1",
		DepositPublicKey: "f1qqqq",
		AssetID:          "BTC",
	}
	require.NoError(t, store.CreateWithdrawKey(item, []byte("priv")))

	rows, err := store.ConfirmWithdrawKey("tok-1", []byte("proof-a"))
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	// 已确认的记录不再可写
	rows, err = store.ConfirmWithdrawKey("tok-1", []byte("proof-b"))
	require.NoError(t, err)
	require.Equal(t, int64(0), rows)

	got, err := store.GetWithdrawKey("tok-1")
	require.NoError(t, err)
	require.Equal(t, models.WithdrawStatusConfirmed, got.Status)
	require.Equal(t, []byte("proof-a"), got.Confirm)
}

func TestConfirmWithdrawKeyUnknownToken(t *testing.T) {
	store := newTestStore(t)

	rows, err := store.ConfirmWithdrawKey("tok-missing", []byte("proof"))
	require.NoError(t, err)
	require.Equal(t, int64(0), rows)
}
