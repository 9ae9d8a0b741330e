package keyring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewKeyPairSecp256k1(t *testing.T) {
	kp, err := NewKeyPair(KTSecp256k1)
	require.NoError(t, err)
	require.Equal(t, KTSecp256k1, kp.Type)
	require.NotEmpty(t, kp.PrivateKey)
	require.NotEmpty(t, kp.PublicKey)

	addr, err := PublicKeyAddress(kp.Type, kp.PublicKey)
	require.NoError(t, err)
	require.NotEmpty(t, addr.String())
}

func TestNewKeyPairBLS(t *testing.T) {
	kp, err := NewKeyPair(KTBLS)
	require.NoError(t, err)
	require.Equal(t, KTBLS, kp.Type)
	require.Len(t, kp.PrivateKey, BLSPrivateKeyBytes)
	require.Len(t, kp.PublicKey, BLSPublicKeyBytes)

	addr, err := PublicKeyAddress(kp.Type, kp.PublicKey)
	require.NoError(t, err)
	require.NotEmpty(t, addr.String())
}

func TestNewKeyPairsAreDistinct(t *testing.T) {
	a, err := NewKeyPair(KTSecp256k1)
	require.NoError(t, err)
	b, err := NewKeyPair(KTSecp256k1)
	require.NoError(t, err)

	require.NotEqual(t, a.PrivateKey, b.PrivateKey)
	require.NotEqual(t, a.PublicKey, b.PublicKey)
}

func TestKeyPairFromPrivate(t *testing.T) {
	kp, err := NewKeyPair(KTSecp256k1)
	require.NoError(t, err)

	derived, err := KeyPairFromPrivate(kp.Type, kp.PrivateKey)
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey, derived.PublicKey)
}

func TestKeyPairFromPrivateBLS(t *testing.T) {
	kp, err := NewKeyPair(KTBLS)
	require.NoError(t, err)

	derived, err := KeyPairFromPrivate(kp.Type, kp.PrivateKey)
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey, derived.PublicKey)
}

func TestSignBytesSecp256k1(t *testing.T) {
	kp, err := NewKeyPair(KTSecp256k1)
	require.NoError(t, err)

	sig, err := SignBytes([]byte("withdrawal receipt"), kp.PrivateKey, kp.Type)
	require.NoError(t, err)
	require.NotEmpty(t, sig.Data)
}

func TestSignBytesBLS(t *testing.T) {
	kp, err := NewKeyPair(KTBLS)
	require.NoError(t, err)

	sig, err := SignBytes([]byte("withdrawal receipt"), kp.PrivateKey, kp.Type)
	require.NoError(t, err)
	require.Len(t, sig.Data, BLSSignatureBytes)
}

func TestUnsupportedKeyType(t *testing.T) {
	_, err := NewKeyPair(KeyType("ed25519"))
	require.Error(t, err)

	_, err = PublicKeyAddress(KeyType("ed25519"), []byte{1, 2, 3})
	require.Error(t, err)
}

func TestBLSRejectsShortKey(t *testing.T) {
	_, err := BLSPrivateKeyToPublicKey([]byte{1, 2, 3})
	require.Error(t, err)

	_, err = BLSSign([]byte{1, 2, 3}, []byte("msg"))
	require.Error(t, err)

	_, err = BLSGeneratePrivateKeyWithSeed([]byte("short"))
	require.Error(t, err)
}
