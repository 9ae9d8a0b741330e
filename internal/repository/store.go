package repository

import (
	"os"
	"path/filepath"

	"custody-keys/internal/config"
	crypto2 "custody-keys/internal/crypto"
	"custody-keys/internal/models"

	logging "github.com/ipfs/go-log/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var log = logging.Logger("repository")

// 密钥列加密密钥（使用 Scrypt + Argon2id 双重派生）
var sealingKey []byte

// InitEncryptionKey 初始化加密密钥
// 从配置的种子派生，所有私钥列写入前都用它加密
func InitEncryptionKey() {
	var seed []byte
	if config.CustodyConfig.Security != nil {
		seed = []byte(config.CustodyConfig.Security.Seed)
	}
	salt := crypto2.Hash256(seed)
	key, err := crypto2.DeriveKey(seed, salt)
	if err != nil {
		panic("failed to derive sealing key: " + err.Error())
	}
	sealingKey = key
}

// Store 数据存储结构
// 封装了 GORM 数据库连接，提供两张密钥表的数据访问
type Store struct {
	DB *gorm.DB // GORM 数据库实例
}

// OpenStore 打开数据库存储
// 使用 SQLite 数据库，自动创建数据库文件并迁移表结构
// 参数：
//   - dbPath: SQLite 数据库文件路径
//
// 返回：Store 实例或错误
func OpenStore(dbPath string) (*Store, error) {
	log.Debug("OpenStore: opening SQLite database connection")

	// 如果路径为空，使用默认路径
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Errorf("OpenStore: failed to get home directory: %v", err)
			return nil, err
		}
		dbPath = filepath.Join(homeDir, ".custody-keys", "custody.db")
	}

	// 确保目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Errorf("OpenStore: failed to create directory %s: %v", dir, err)
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Silent)

	// 打开 SQLite 数据库连接
	// TranslateError 开启后唯一索引冲突统一映射为 gorm.ErrDuplicatedKey
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		log.Errorf("OpenStore: failed to open database: %v", err)
		return nil, err
	}

	// 自动迁移所有数据表
	if err = db.AutoMigrate(
		&models.DepositKeyPair{},
		&models.WithdrawKeyPair{},
	); err != nil {
		log.Errorf("OpenStore: auto migration failed: %v", err)
		return nil, err
	}

	log.Debugf("OpenStore: SQLite database opened successfully at %s", dbPath)
	return &Store{DB: db}, nil
}
