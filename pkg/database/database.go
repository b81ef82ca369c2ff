// Package database 数据库操作
package database

import (
	"database/sql"
	"fmt"

	"tarot-trader/pkg/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 对象
var DB *gorm.DB
var SQLDB *sql.DB

// Connect 连接数据库
func Connect(dbConfig gorm.Dialector, _logger gormlogger.Interface) {
	var err error
	DB, SQLDB, err = Open(dbConfig, _logger)
	if err != nil {
		logger.ErrorString("数据库", "连接", err.Error())
		panic(err)
	}
}

// Open 打开一个独立的连接，不修改全局对象，测试中使用
func Open(dbConfig gorm.Dialector, _logger gormlogger.Interface) (*gorm.DB, *sql.DB, error) {
	db, err := gorm.Open(dbConfig, &gorm.Config{
		Logger: _logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	// 获取底层的 sqlDB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db: %w", err)
	}
	return db, sqlDB, nil
}

// AutoMigrate 自动迁移所有数据表
func AutoMigrate(db *gorm.DB, tables []interface{}) error {
	return db.AutoMigrate(tables...)
}
