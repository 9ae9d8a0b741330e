package models

import (
	"time"
)

// 提现状态常量
const (
	WithdrawStatusPending   = "pending"
	WithdrawStatusConfirmed = "confirmed"
)

// DepositKeyPair 存款密钥对记录
// 每条记录绑定一种资产，token 私钥以密文形式存储
type DepositKeyPair struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	DepositPublicKey string     `gorm:"size:128;uniqueIndex;not null" json:"depositPublicKey"`
	TokenPrivateKey  []byte     `gorm:"type:blob;not null" json:"-"`
	TokenPublicKey   []byte     `gorm:"type:blob;not null" json:"tokenPublicKey"`
	AssetID          string     `gorm:"size:32;not null" json:"assetId"`
	KeyType          string     `gorm:"size:32" json:"keyType"`
	Revoked          bool       `json:"revoked"`
	RevokedAt        *time.Time `json:"revokedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (DepositKeyPair) TableName() string { return "deposit_keypairs" }

// WithdrawKeyPair 提现密钥对记录
// Confirm 在外部最终性确认前为空，确认后只写一次
type WithdrawKeyPair struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	TokenKeyID        string    `gorm:"size:128;uniqueIndex;not null" json:"tokenKeyId"`
	DepositPrivateKey []byte    `gorm:"type:blob;not null" json:"-"`
	DepositPublicKey  string    `gorm:"size:128;not null" json:"depositPublicKey"`
	AssetID           string    `gorm:"size:32;not null" json:"assetId"`
	Confirm           []byte    `gorm:"type:blob" json:"-"`
	Status            string    `gorm:"size:16;not null" json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (WithdrawKeyPair) TableName() string { return "withdraw_keypairs" }
