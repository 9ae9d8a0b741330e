package crypto2

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"
)

// 加密参数常量
const (
	// Scrypt 参数 (N=2^17, r=8, p=1) - 高安全性配置
	ScryptN      = 1 << 17 // 131072
	ScryptR      = 8
	ScryptP      = 1
	ScryptKeyLen = 32

	// Argon2id 参数
	Argon2Time    = 3
	Argon2Memory  = 64 * 1024 // 64 MB
	Argon2Threads = 4
	Argon2KeyLen  = 32

	// sealVersion 密文封装格式版本号，位于密文首字节
	sealVersion = 0x01
)

var (
	ErrInvalidSealedBlob = errors.New("invalid sealed blob")
	ErrSealVersion       = errors.New("unsupported sealed blob version")
	ErrUnsealFailed      = errors.New("unseal failed: authentication error")
)

// DeriveKey derives a sealing key using Scrypt + Argon2id.
// 双重密钥派生：Scrypt 抗 ASIC，Argon2id 抗 GPU
func DeriveKey(password, salt []byte) ([]byte, error) {
	// 第一层：Scrypt 派生
	scryptKey, err := scrypt.Key(password, salt, ScryptN, ScryptR, ScryptP, ScryptKeyLen)
	if err != nil {
		return nil, err
	}
	// 第二层：Argon2id 派生
	return argon2.IDKey(scryptKey, salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen), nil
}

// Hash256 computes SHA-256 hash of data
func Hash256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Seal encrypts key material using AES-256-GCM (authenticated encryption).
// Layout: version (1 byte) + nonce (12 bytes) + ciphertext + tag (16 bytes)
func Seal(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	blob := make([]byte, 1, 1+gcm.NonceSize()+len(plaintext)+gcm.Overhead())
	blob[0] = sealVersion
	blob = append(blob, nonce...)
	return gcm.Seal(blob, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal.
func Open(sealed, key []byte) ([]byte, error) {
	if len(sealed) < 1 {
		return nil, ErrInvalidSealedBlob
	}
	if sealed[0] != sealVersion {
		return nil, ErrSealVersion
	}
	sealed = sealed[1:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, ErrInvalidSealedBlob
	}

	nonce := sealed[:gcm.NonceSize()]
	ciphertext := sealed[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrUnsealFailed
	}

	return plaintext, nil
}

// Zeroize overwrites key material in place.
// 用于吊销后清除内存中的私钥
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
