package db

import (
	"github.com/Syarif-H55/smart-cashier/internal/domain/model"

	"gorm.io/gorm"
)

// テーブル作成（親 → 子の順）
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.User{},
		&model.Menu{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.AuditLog{},
	)
}
