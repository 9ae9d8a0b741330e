package repository

import (
	crypto2 "custody-keys/internal/crypto"
	"custody-keys/internal/models"
)

// CreateWithdrawKey 持久化一条待确认的提现密钥对记录
// depositPriv 明文在写入前加密，tokenKeyId 冲突原样返回 gorm.ErrDuplicatedKey
func (s *Store) CreateWithdrawKey(item *models.WithdrawKeyPair, depositPriv []byte) error {
	log.Infof("CreateWithdrawKey: saving withdrawal %s for asset %s", item.TokenKeyID, item.AssetID)

	sealed, err := crypto2.Seal(depositPriv, sealingKey)
	if err != nil {
		log.Errorf("CreateWithdrawKey: failed to seal deposit private key: %v", err)
		return err
	}
	item.DepositPrivateKey = sealed
	item.Status = models.WithdrawStatusPending

	if err := s.DB.Create(item).Error; err != nil {
		log.Errorf("CreateWithdrawKey: failed to create record for %s: %v", item.TokenKeyID, err)
		return err
	}

	log.Infof("CreateWithdrawKey: successfully saved withdrawal %s", item.TokenKeyID)
	return nil
}

// GetWithdrawKey 按 tokenKeyId 查找提现记录
// 私钥列保持密文，审计读取不需要明文
func (s *Store) GetWithdrawKey(tokenKeyID string) (*models.WithdrawKeyPair, error) {
	log.Debugf("GetWithdrawKey: retrieving withdrawal %s", tokenKeyID)

	item := &models.WithdrawKeyPair{}
	if err := s.DB.Where("token_key_id = ?", tokenKeyID).First(item).Error; err != nil {
		log.Warnf("GetWithdrawKey: withdrawal not found for %s: %v", tokenKeyID, err)
		return nil, err
	}

	return item, nil
}

// ConfirmWithdrawKey 以 CAS 方式写入确认凭证
// 只有状态仍为 pending 的记录会被更新，返回受影响行数
// 并发确认同一笔提现时恰好一个调用方会观察到 1
func (s *Store) ConfirmWithdrawKey(tokenKeyID string, confirm []byte) (int64, error) {
	log.Infof("ConfirmWithdrawKey: confirming withdrawal %s", tokenKeyID)

	res := s.DB.Model(&models.WithdrawKeyPair{}).
		Where("token_key_id = ? AND status = ?", tokenKeyID, models.WithdrawStatusPending).
		Updates(map[string]interface{}{
			"confirm": confirm,
			"status":  models.WithdrawStatusConfirmed,
		})
	if res.Error != nil {
		log.Errorf("ConfirmWithdrawKey: failed to confirm %s: %v", tokenKeyID, res.Error)
		return 0, res.Error
	}

	log.Infof("ConfirmWithdrawKey: confirm update for %s affected %d rows", tokenKeyID, res.RowsAffected)
	return res.RowsAffected, nil
}

// ListWithdrawKeys 列出所有提现记录
// 私钥密文不返回
func (s *Store) ListWithdrawKeys() ([]*models.WithdrawKeyPair, error) {
	log.Debug("ListWithdrawKeys: retrieving all withdrawals")

	var items []models.WithdrawKeyPair
	if err := s.DB.Find(&items).Error; err != nil {
		log.Errorf("ListWithdrawKeys: failed to query withdrawals: %v", err)
		return nil, err
	}

	result := make([]*models.WithdrawKeyPair, 0, len(items))
	for _, t := range items {
		wk := t
		wk.DepositPrivateKey = nil
		result = append(result, &wk)
	}

	log.Infof("ListWithdrawKeys: found %d withdrawals", len(result))
	return result, nil
}
