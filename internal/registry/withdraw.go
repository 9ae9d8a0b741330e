package registry

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"custody-keys/internal/assets"
	crypto2 "custody-keys/internal/crypto"
	"custody-keys/internal/keyring"
	"custody-keys/internal/models"
	"custody-keys/internal/proof"
	"custody-keys/internal/repository"
)

// WithdrawRegistry 提现登记处
// 记录用于赎回的存款密钥对并跟踪外部最终性确认
// 状态机：pending -> confirmed，confirmed 为终态
type WithdrawRegistry struct {
	store    *repository.Store
	catalog  *assets.Catalog
	deposits *DepositRegistry
}

// NewWithdrawRegistry 创建提现登记处
func NewWithdrawRegistry(store *repository.Store, catalog *assets.Catalog, deposits *DepositRegistry) *WithdrawRegistry {
	return &WithdrawRegistry{store: store, catalog: catalog, deposits: deposits}
}

// Initiate 登记一笔待确认的提现
// 表结构没有外键，存款引用和资产一致性在这里显式校验
// tokenKeyId 的唯一索引保证同一 token 至多提现一次
func (r *WithdrawRegistry) Initiate(tokenKeyID string, kp *keyring.KeyPair, assetID string) (*models.WithdrawKeyPair, error) {
	log.Infof("Initiate: initiating withdrawal %s for asset %s", tokenKeyID, assetID)

	asset, ok := r.catalog.Lookup(assetID)
	if !ok {
		log.Errorf("Initiate: asset %s not in catalog", assetID)
		return nil, fmt.Errorf("asset %s: %w", assetID, ErrInvalidAsset)
	}

	addr, err := keyring.PublicKeyAddress(kp.Type, kp.PublicKey)
	if err != nil {
		log.Errorf("Initiate: failed to derive deposit address: %v", err)
		return nil, err
	}
	depositPublicKey := addr.String()

	// 引用的存款记录必须存在
	dep, err := r.deposits.Lookup(depositPublicKey)
	if err != nil {
		log.Errorf("Initiate: referenced deposit %s not found", depositPublicKey)
		return nil, err
	}
	crypto2.Zeroize(dep.TokenPrivateKey)

	if dep.AssetID != asset.ID {
		log.Errorf("Initiate: asset %s does not match deposit asset %s", asset.ID, dep.AssetID)
		return nil, fmt.Errorf("withdrawal asset %s, deposit asset %s: %w", asset.ID, dep.AssetID, ErrAssetMismatch)
	}

	item := &models.WithdrawKeyPair{
		TokenKeyID:       tokenKeyID,
		DepositPublicKey: depositPublicKey,
		AssetID:          asset.ID,
	}

	if err := r.store.CreateWithdrawKey(item, kp.PrivateKey); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Errorf("Initiate: token key id %s already withdrawn", tokenKeyID)
			return nil, fmt.Errorf("%s: %w", tokenKeyID, ErrDuplicateToken)
		}
		return nil, err
	}
	item.DepositPrivateKey = nil

	log.Infof("Initiate: withdrawal %s registered as pending", tokenKeyID)
	return item, nil
}

// Confirm 附加外部最终性确认凭证
// 写一次语义：首个确认者胜出；以相同凭证重试是幂等成功，
// 不同凭证返回 ErrAlreadyConfirmed
func (r *WithdrawRegistry) Confirm(tokenKeyID string, pf *proof.ConfirmationProof) error {
	log.Infof("Confirm: confirming withdrawal %s", tokenKeyID)

	confirm, err := pf.Encode()
	if err != nil {
		log.Errorf("Confirm: failed to encode proof: %v", err)
		return err
	}
	proofCid, err := pf.Cid()
	if err != nil {
		return err
	}

	for {
		item, err := r.store.GetWithdrawKey(tokenKeyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("withdrawal %s: %w", tokenKeyID, ErrNotFound)
			}
			return err
		}

		if item.Status == models.WithdrawStatusConfirmed {
			existing, err := proof.Decode(item.Confirm)
			if err != nil {
				log.Errorf("Confirm: stored proof for %s is unreadable: %v", tokenKeyID, err)
				return fmt.Errorf("withdrawal %s: %w", tokenKeyID, ErrAlreadyConfirmed)
			}
			existingCid, err := existing.Cid()
			if err != nil {
				return err
			}
			if existingCid.Equals(proofCid) {
				// 同一确认事件的重试，幂等成功
				log.Infof("Confirm: withdrawal %s already confirmed with same proof", tokenKeyID)
				return nil
			}
			log.Errorf("Confirm: withdrawal %s already confirmed with different proof", tokenKeyID)
			return fmt.Errorf("withdrawal %s: %w", tokenKeyID, ErrAlreadyConfirmed)
		}

		rows, err := r.store.ConfirmWithdrawKey(tokenKeyID, confirm)
		if err != nil {
			return err
		}
		if rows > 0 {
			log.Infof("Confirm: withdrawal %s confirmed at height %d", tokenKeyID, pf.Height)
			return nil
		}
		// CAS 失败说明有并发确认者刚刚胜出，重读比较凭证
	}
}

// IsConfirmed 查询提现是否已确认
func (r *WithdrawRegistry) IsConfirmed(tokenKeyID string) (bool, error) {
	item, err := r.store.GetWithdrawKey(tokenKeyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("withdrawal %s: %w", tokenKeyID, ErrNotFound)
		}
		return false, err
	}
	return item.Status == models.WithdrawStatusConfirmed, nil
}

// Proof 返回已确认提现的确认凭证
func (r *WithdrawRegistry) Proof(tokenKeyID string) (*proof.ConfirmationProof, error) {
	item, err := r.store.GetWithdrawKey(tokenKeyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("withdrawal %s: %w", tokenKeyID, ErrNotFound)
		}
		return nil, err
	}
	if item.Status != models.WithdrawStatusConfirmed {
		return nil, fmt.Errorf("withdrawal %s not confirmed: %w", tokenKeyID, ErrNotFound)
	}
	return proof.Decode(item.Confirm)
}

// List 列出所有提现记录，不含私钥材料
func (r *WithdrawRegistry) List() ([]*models.WithdrawKeyPair, error) {
	return r.store.ListWithdrawKeys()
}
