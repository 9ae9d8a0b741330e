package service

import (
	"github.com/ipfs/go-cid"
)

type Payload struct {
	Type             string  `json:"type"`
	AssetID          string  `json:"asset_id"`
	DepositPublicKey string  `json:"deposit_public_key"`
	TokenKeyID       string  `json:"token_key_id"`
	KeyType          string  `json:"key_type"`
	DepositPrivKey   []byte  `json:"deposit_priv_key"`
	TxID             cid.Cid `json:"tx_id"`
	Confidence       uint64  `json:"confidence"`
}

type DepositIssuePayload struct {
	AssetID string `json:"asset_id"`
}

type DepositRevokePayload struct {
	DepositPublicKey string `json:"deposit_public_key"`
}

type WithdrawInitiatePayload struct {
	TokenKeyID     string `json:"token_key_id"`
	KeyType        string `json:"key_type"`
	DepositPrivKey []byte `json:"deposit_priv_key"`
	AssetID        string `json:"asset_id"`
}

type WithdrawConfirmPayload struct {
	TokenKeyID string  `json:"token_key_id"`
	TxID       cid.Cid `json:"tx_id"`
	Confidence uint64  `json:"confidence"`
}
