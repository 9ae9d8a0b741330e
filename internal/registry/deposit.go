package registry

import (
	"errors"
	"fmt"

	"github.com/filecoin-project/go-state-types/crypto"
	logging "github.com/ipfs/go-log/v2"
	"gorm.io/gorm"

	"custody-keys/internal/assets"
	crypto2 "custody-keys/internal/crypto"
	"custody-keys/internal/keyring"
	"custody-keys/internal/models"
	"custody-keys/internal/repository"
)

var log = logging.Logger("registry")

// DepositRegistry 存款登记处
// 为资产铸造存款密钥对并托管 token 签名私钥
type DepositRegistry struct {
	store   *repository.Store
	catalog *assets.Catalog
}

// NewDepositRegistry 创建存款登记处
func NewDepositRegistry(store *repository.Store, catalog *assets.Catalog) *DepositRegistry {
	return &DepositRegistry{store: store, catalog: catalog}
}

// Issue 为指定资产签发一个新的存款密钥对
// 生成两对密钥：存款密钥对交还调用方（私钥不落库），
// token 签名密钥对由登记处托管，存款公钥地址作为记录主键
func (r *DepositRegistry) Issue(assetID string) (*models.DepositKeyPair, *keyring.KeyPair, error) {
	log.Infof("Issue: issuing deposit key pair for asset %s", assetID)

	asset, ok := r.catalog.Lookup(assetID)
	if !ok {
		log.Errorf("Issue: asset %s not in catalog", assetID)
		return nil, nil, fmt.Errorf("asset %s: %w", assetID, ErrInvalidAsset)
	}

	depositKP, err := keyring.NewKeyPair(keyring.KeyType(asset.KeyType))
	if err != nil {
		log.Errorf("Issue: failed to generate deposit key pair: %v", err)
		return nil, nil, err
	}

	tokenKP, err := keyring.NewKeyPair(keyring.KeyType(asset.KeyType))
	if err != nil {
		log.Errorf("Issue: failed to generate token key pair: %v", err)
		return nil, nil, err
	}
	defer crypto2.Zeroize(tokenKP.PrivateKey)

	addr, err := keyring.PublicKeyAddress(depositKP.Type, depositKP.PublicKey)
	if err != nil {
		log.Errorf("Issue: failed to derive deposit address: %v", err)
		return nil, nil, err
	}

	item := &models.DepositKeyPair{
		DepositPublicKey: addr.String(),
		TokenPublicKey:   tokenKP.PublicKey,
		AssetID:          asset.ID,
		KeyType:          string(depositKP.Type),
	}

	if err := r.store.CreateDepositKey(item, tokenKP.PrivateKey); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 随机生成的密钥撞上已有主键，按硬故障处理
			log.Errorf("Issue: deposit public key collision for %s", item.DepositPublicKey)
			return nil, nil, fmt.Errorf("%s: %w", item.DepositPublicKey, ErrDuplicateKey)
		}
		return nil, nil, err
	}
	item.TokenPrivateKey = nil

	log.Infof("Issue: issued deposit key %s for asset %s", item.DepositPublicKey, asset.ID)
	return item, depositKP, nil
}

// Lookup 按存款公钥查找记录
// 已吊销的记录视同不存在，不会返回清零后的密钥材料
func (r *DepositRegistry) Lookup(depositPublicKey string) (*models.DepositKeyPair, error) {
	log.Debugf("Lookup: looking up deposit key %s", depositPublicKey)

	item, err := r.store.GetDepositKey(depositPublicKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("deposit %s: %w", depositPublicKey, ErrNotFound)
		}
		return nil, err
	}

	if item.Revoked {
		log.Debugf("Lookup: deposit key %s is revoked", depositPublicKey)
		return nil, fmt.Errorf("deposit %s: %w", depositPublicKey, ErrNotFound)
	}

	return item, nil
}

// Revoke 吊销存款密钥的 token 签名能力
// 不可逆；重复吊销是空操作，不报错
func (r *DepositRegistry) Revoke(depositPublicKey string) error {
	log.Infof("Revoke: revoking deposit key %s", depositPublicKey)

	found, err := r.store.RevokeDepositKey(depositPublicKey)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("deposit %s: %w", depositPublicKey, ErrNotFound)
	}
	return nil
}

// SignWithToken 使用托管的 token 私钥签名消息
// 私钥只在签名期间驻留内存，用后立即清零
func (r *DepositRegistry) SignWithToken(depositPublicKey string, msg []byte) (*crypto.Signature, error) {
	log.Infof("SignWithToken: signing message for deposit %s", depositPublicKey)

	item, err := r.Lookup(depositPublicKey)
	if err != nil {
		return nil, err
	}
	defer crypto2.Zeroize(item.TokenPrivateKey)

	sig, err := keyring.SignBytes(msg, item.TokenPrivateKey, keyring.KeyType(item.KeyType))
	if err != nil {
		log.Errorf("SignWithToken: failed to sign for %s: %v", depositPublicKey, err)
		return nil, err
	}

	return sig, nil
}

// List 列出所有存款密钥对记录，不含私钥材料
func (r *DepositRegistry) List() ([]*models.DepositKeyPair, error) {
	return r.store.ListDepositKeys()
}
