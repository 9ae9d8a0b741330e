package assets

import (
	"strings"

	logging "github.com/ipfs/go-log/v2"

	"custody-keys/internal/config"
)

var log = logging.Logger("assets")

// Asset 目录中的一种资产
type Asset struct {
	ID      string // 资产标识
	Name    string // 资产名称
	KeyType string // 存款密钥算法
}

// Catalog 资产目录
// 校验 assetId 是否为已知资产，外部协作者角色
type Catalog struct {
	byID map[string]Asset
}

// FromConfig 从全局配置构建资产目录
// 未配置 keyType 的资产默认使用 secp256k1
func FromConfig() *Catalog {
	entries := make([]Asset, 0, len(config.CustodyConfig.Assets))
	for _, a := range config.CustodyConfig.Assets {
		kt := a.KeyType
		if kt == "" {
			kt = "secp256k1"
		}
		entries = append(entries, Asset{ID: a.ID, Name: a.Name, KeyType: kt})
	}
	return New(entries)
}

// New 使用给定的资产条目构建目录
func New(entries []Asset) *Catalog {
	byID := make(map[string]Asset, len(entries))
	for _, a := range entries {
		byID[strings.ToUpper(a.ID)] = a
	}
	log.Debugf("New: catalog built with %d assets", len(byID))
	return &Catalog{byID: byID}
}

// Lookup 查找资产
// 资产标识不区分大小写
func (c *Catalog) Lookup(assetID string) (Asset, bool) {
	a, ok := c.byID[strings.ToUpper(assetID)]
	return a, ok
}

// List 返回目录中的所有资产
func (c *Catalog) List() []Asset {
	out := make([]Asset, 0, len(c.byID))
	for _, a := range c.byID {
		out = append(out, a)
	}
	return out
}
