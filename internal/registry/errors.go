package registry

import "errors"

// 登记处错误分类
// 所有错误直接上抛，由编排层决定重试策略
var (
	// ErrDuplicateKey 新生成的存款公钥与已有记录冲突
	// 密码学上可忽略的概率，视为硬故障，不静默重试
	ErrDuplicateKey = errors.New("deposit public key already exists")

	// ErrDuplicateToken tokenKeyId 已存在
	// 一个 token 至多提现一次，这是防双花的核心约束
	ErrDuplicateToken = errors.New("token key id already exists")

	// ErrInvalidAsset assetId 不在资产目录中
	ErrInvalidAsset = errors.New("unknown asset")

	// ErrAssetMismatch 提现资产与其存款记录绑定的资产不一致
	ErrAssetMismatch = errors.New("asset does not match deposit record")

	// ErrNotFound 引用的记录不存在（或已吊销）
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyConfirmed 提现已附加不同的确认凭证
	ErrAlreadyConfirmed = errors.New("withdrawal already confirmed")
)
