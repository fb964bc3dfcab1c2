// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/haierkeys/note-revision-service/pkg/fileurl"
	"github.com/haierkeys/note-revision-service/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库连接配置
type DatabaseConfig struct {
	Type         string
	Path         string
	UserName     string
	Password     string
	Host         string
	Name         string
	Charset      string
	ParseTime    bool
	TablePrefix  string
	MaxIdleConns int
	MaxOpenConns int
	RunMode      string
}

// Dao 数据访问对象，持有数据库连接和按笔记串行化的写队列
type Dao struct {
	db     *gorm.DB
	logger *zap.Logger
	wq     *writequeue.Manager
}

// New 创建 Dao 实例
func New(db *gorm.DB, wq *writequeue.Manager, logger *zap.Logger) *Dao {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dao{db: db, wq: wq, logger: logger}
}

// DB 返回底层数据库连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// WithTx 返回绑定到事务连接的 Dao 副本
// 用于在 ExecuteWrite 回调中以事务执行仓储操作
func (d *Dao) WithTx(tx *gorm.DB) *Dao {
	return &Dao{db: tx, wq: nil, logger: d.logger}
}

// Transaction 在事务中执行 fn
func (d *Dao) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.db.WithContext(ctx).Transaction(fn)
}

// ExecuteWrite 以笔记为键串行执行事务写操作
// 同一笔记的折叠、清理、导入等写操作经由写队列排队，互不交叉
func (d *Dao) ExecuteWrite(ctx context.Context, noteID int64, fn func(tx *gorm.DB) error) error {
	if d.wq == nil {
		return d.Transaction(ctx, fn)
	}
	return d.wq.Submit(ctx, noteID, func() error {
		return d.Transaction(ctx, fn)
	})
}

// NewDBEngine 创建数据库引擎
func NewDBEngine(c *DatabaseConfig) (*gorm.DB, error) {
	dialector := newDialector(c)
	if dialector == nil {
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true, // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}
	if c.RunMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 连接池参数
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Minute * 10)

	return db, nil
}

func newDialector(c *DatabaseConfig) gorm.Dialector {
	switch c.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		))
	case "sqlite":
		if !fileurl.IsExist(c.Path) {
			_ = fileurl.CreatePath(c.Path, os.ModePerm)
		}
		return sqlite.Open(c.Path)
	}
	return nil
}
