package keyring

import (
	"fmt"

	"github.com/filecoin-project/go-state-types/crypto"
)

// KeyType defines a type of key.
type KeyType string

const (
	KTSecp256k1 KeyType = "secp256k1"
	KTBLS       KeyType = "bls"
)

// KeyPair 一对密钥材料
// 存款密钥对和 token 签名密钥对都用它表示
type KeyPair struct {
	Type       KeyType
	PrivateKey []byte
	PublicKey  []byte
}

// sigTypeForKeyType 将密钥类型转换为签名类型
// 支持 Secp256k1 和 BLS 两种密钥类型
func sigTypeForKeyType(kt KeyType) (crypto.SigType, error) {
	log.Debugf("sigTypeForKeyType: converting key type %s to signature type", kt)

	switch kt {
	case KTSecp256k1:
		return crypto.SigTypeSecp256k1, nil
	case KTBLS:
		return crypto.SigTypeBLS, nil
	default:
		log.Errorf("sigTypeForKeyType: unsupported key type: %s", kt)
		return crypto.SigTypeUnknown, fmt.Errorf("unsupported key type: %s", kt)
	}
}
