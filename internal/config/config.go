package config

import (
	"os"
	"path/filepath"
)

// CustodyConfig 全局配置实例（从 TOML 文件加载）
var CustodyConfig struct {
	Oracle   *Oracle   // 最终性预言机节点配置
	Security *Security // 安全配置
	Database *Database // 数据库配置
	Assets   []Asset   // 资产目录
}

// Security 安全相关配置
type Security struct {
	Seed string // 加密种子
}

// Database 数据库配置
type Database struct {
	Path string // SQLite 数据库路径
}

// Oracle 最终性预言机连接配置
type Oracle struct {
	Host  string // 预言机节点地址
	Token string // API 访问令牌
}

// Asset 资产目录条目
// 每个条目描述一种可托管的资产及其存款密钥算法
type Asset struct {
	ID      string // 资产标识（如 "BTC"）
	Name    string // 资产名称
	KeyType string // 存款密钥算法（secp256k1 或 bls）
}

// Config 应用程序运行时配置
type Config struct {
	DBDSN string // SQLite 数据库路径
}

// LoadConfig 加载配置
// 优先使用配置文件，否则使用默认值
func LoadConfig() (*Config, error) {
	// 获取数据库路径
	var dbPath string
	if CustodyConfig.Database != nil && CustodyConfig.Database.Path != "" {
		dbPath = expandPath(CustodyConfig.Database.Path)
	} else {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			dbPath = filepath.Join(homeDir, ".custody-keys", "custody.db")
		}
	}

	return &Config{
		DBDSN: dbPath,
	}, nil
}

// expandPath 展开路径中的 ~ 为用户主目录
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
