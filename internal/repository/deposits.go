package repository

import (
	"time"

	crypto2 "custody-keys/internal/crypto"
	"custody-keys/internal/models"
)

// CreateDepositKey 持久化一条新的存款密钥对记录
// tokenPriv 明文在写入前加密，唯一索引冲突原样返回 gorm.ErrDuplicatedKey
func (s *Store) CreateDepositKey(item *models.DepositKeyPair, tokenPriv []byte) error {
	log.Infof("CreateDepositKey: saving deposit key %s for asset %s", item.DepositPublicKey, item.AssetID)

	sealed, err := crypto2.Seal(tokenPriv, sealingKey)
	if err != nil {
		log.Errorf("CreateDepositKey: failed to seal token private key: %v", err)
		return err
	}
	item.TokenPrivateKey = sealed

	if err := s.DB.Create(item).Error; err != nil {
		log.Errorf("CreateDepositKey: failed to create record for %s: %v", item.DepositPublicKey, err)
		return err
	}

	log.Infof("CreateDepositKey: successfully saved deposit key %s", item.DepositPublicKey)
	return nil
}

// GetDepositKey 按存款公钥查找记录
// 返回的记录中 TokenPrivateKey 已解密；吊销的记录不解密
func (s *Store) GetDepositKey(depositPublicKey string) (*models.DepositKeyPair, error) {
	log.Debugf("GetDepositKey: retrieving deposit key %s", depositPublicKey)

	item := &models.DepositKeyPair{}
	if err := s.DB.Where("deposit_public_key = ?", depositPublicKey).First(item).Error; err != nil {
		log.Warnf("GetDepositKey: deposit key not found for %s: %v", depositPublicKey, err)
		return nil, err
	}

	if item.Revoked {
		item.TokenPrivateKey = nil
		return item, nil
	}

	plain, err := crypto2.Open(item.TokenPrivateKey, sealingKey)
	if err != nil {
		log.Errorf("GetDepositKey: failed to unseal token private key for %s: %v", depositPublicKey, err)
		return nil, err
	}
	item.TokenPrivateKey = plain

	return item, nil
}

// RevokeDepositKey 吊销存款密钥
// 私钥密文被清零后置空，重复吊销不报错
// 返回值表示记录是否存在
func (s *Store) RevokeDepositKey(depositPublicKey string) (bool, error) {
	log.Infof("RevokeDepositKey: revoking deposit key %s", depositPublicKey)

	item := &models.DepositKeyPair{}
	if err := s.DB.Where("deposit_public_key = ?", depositPublicKey).First(item).Error; err != nil {
		log.Warnf("RevokeDepositKey: deposit key not found for %s: %v", depositPublicKey, err)
		return false, nil
	}

	if item.Revoked {
		log.Infof("RevokeDepositKey: deposit key %s already revoked", depositPublicKey)
		return true, nil
	}

	crypto2.Zeroize(item.TokenPrivateKey)

	now := time.Now()
	updates := map[string]interface{}{
		"token_private_key": []byte{},
		"revoked":           true,
		"revoked_at":        &now,
	}
	if err := s.DB.Model(item).Updates(updates).Error; err != nil {
		log.Errorf("RevokeDepositKey: failed to revoke %s: %v", depositPublicKey, err)
		return true, err
	}

	log.Infof("RevokeDepositKey: successfully revoked deposit key %s", depositPublicKey)
	return true, nil
}

// ListDepositKeys 列出所有存款密钥对记录
// 私钥密文不解密也不返回
func (s *Store) ListDepositKeys() ([]*models.DepositKeyPair, error) {
	log.Debug("ListDepositKeys: retrieving all deposit keys")

	var items []models.DepositKeyPair
	if err := s.DB.Find(&items).Error; err != nil {
		log.Errorf("ListDepositKeys: failed to query deposit keys: %v", err)
		return nil, err
	}

	result := make([]*models.DepositKeyPair, 0, len(items))
	for _, t := range items {
		dk := t
		dk.TokenPrivateKey = nil
		result = append(result, &dk)
	}

	log.Infof("ListDepositKeys: found %d deposit keys", len(result))
	return result, nil
}
