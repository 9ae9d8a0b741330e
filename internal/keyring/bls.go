package keyring

import (
	"crypto/sha256"
	"fmt"
	"io"

	bls12381 "github.com/kilic/bls12-381"
	"golang.org/x/crypto/hkdf"
)

const (
	// BLSPrivateKeyBytes BLS12-381 私钥字节长度
	BLSPrivateKeyBytes = 32
	// BLSPublicKeyBytes BLS12-381 公钥字节长度
	BLSPublicKeyBytes = 48
	// BLSSignatureBytes BLS12-381 签名字节长度
	BLSSignatureBytes = 96

	// BLSDST BLS 签名的域分离标签
	BLSDST = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_"
)

// blsScalar 将小端序私钥字节转换为 Fr 标量
// 私钥按小端序存储，库需要大端序，因此先反转字节
func blsScalar(privKey []byte) *bls12381.Fr {
	reversed := make([]byte, BLSPrivateKeyBytes)
	for i := 0; i < BLSPrivateKeyBytes; i++ {
		reversed[i] = privKey[BLSPrivateKeyBytes-1-i]
	}
	scalar := new(bls12381.Fr)
	scalar.FromBytes(reversed)
	return scalar
}

// BLSPrivateKeyToPublicKey 从私钥派生 BLS 公钥
func BLSPrivateKeyToPublicKey(privKey []byte) ([]byte, error) {
	log.Debug("BLSPrivateKeyToPublicKey: deriving BLS public key from private key")

	if len(privKey) != BLSPrivateKeyBytes {
		log.Errorf("BLSPrivateKeyToPublicKey: invalid private key length: expected %d, got %d", BLSPrivateKeyBytes, len(privKey))
		return nil, fmt.Errorf("invalid BLS private key length: expected %d, got %d", BLSPrivateKeyBytes, len(privKey))
	}

	g1 := bls12381.NewG1()

	// 公钥 = 生成元 * 私钥标量
	publicKeyPoint := g1.New()
	g1.MulScalar(publicKeyPoint, g1.One(), blsScalar(privKey))

	return g1.ToCompressed(publicKeyPoint), nil
}

// BLSSign 使用 BLS 私钥签名消息
// signature = privKey * H(message)
func BLSSign(privKey []byte, message []byte) ([]byte, error) {
	log.Debugf("BLSSign: signing message of length %d bytes", len(message))

	if len(privKey) != BLSPrivateKeyBytes {
		log.Errorf("BLSSign: invalid private key length: expected %d, got %d", BLSPrivateKeyBytes, len(privKey))
		return nil, fmt.Errorf("invalid BLS private key length: expected %d, got %d", BLSPrivateKeyBytes, len(privKey))
	}

	g2 := bls12381.NewG2()

	// 使用 DST 将消息哈希到 G2 点
	messagePoint, err := g2.HashToCurve(message, []byte(BLSDST))
	if err != nil {
		log.Errorf("BLSSign: failed to hash message to curve: %v", err)
		return nil, fmt.Errorf("failed to hash message to curve: %w", err)
	}

	signaturePoint := g2.New()
	g2.MulScalar(signaturePoint, messagePoint, blsScalar(privKey))

	return g2.ToCompressed(signaturePoint), nil
}

// BLSGeneratePrivateKeyWithSeed 从种子（IKM）生成 BLS 私钥
// 使用 HKDF 从种子派生，遵循 BLS 密钥生成标准
func BLSGeneratePrivateKeyWithSeed(ikm []byte) ([]byte, error) {
	log.Debugf("BLSGeneratePrivateKeyWithSeed: generating BLS private key from seed of length %d bytes", len(ikm))

	if len(ikm) < 32 {
		log.Errorf("BLSGeneratePrivateKeyWithSeed: seed too short: got %d bytes, need at least 32", len(ikm))
		return nil, fmt.Errorf("seed must be at least 32 bytes, got %d", len(ikm))
	}

	salt := []byte("BLS-SIG-KEYGEN-SALT-")
	hkdfReader := hkdf.New(sha256.New, ikm, salt, nil)

	privKey := make([]byte, BLSPrivateKeyBytes)
	if _, err := io.ReadFull(hkdfReader, privKey); err != nil {
		log.Errorf("BLSGeneratePrivateKeyWithSeed: failed to derive private key: %v", err)
		return nil, fmt.Errorf("failed to derive private key: %w", err)
	}

	return privKey, nil
}
