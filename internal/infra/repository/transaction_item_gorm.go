package repository

import (
	"context"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"

	"gorm.io/gorm"
)

type TransactionItemGormRepository struct {
	db *gorm.DB
}

func NewTransactionItemGormRepository(db *gorm.DB) *TransactionItemGormRepository {
	return &TransactionItemGormRepository{db: db}
}

func (r *TransactionItemGormRepository) Create(ctx context.Context, item model.TransactionItem) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return 0, err
	}
	return item.ID, nil
}

// 論理削除済みのメニューも名前は出す
func (r *TransactionItemGormRepository) ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionItemDetail, error) {
	var items []model.TransactionItemDetail
	err := r.db.WithContext(ctx).
		Table("transaction_items AS ti").
		Select("ti.id, ti.transaction_id, ti.menu_id, ti.quantity, ti.unit_price, ti.subtotal, m.name AS menu_name").
		Joins("JOIN menus AS m ON m.id = ti.menu_id").
		Where("ti.transaction_id = ?", transactionID).
		Order("ti.id asc").
		Scan(&items).Error
	if err != nil {
		return []model.TransactionItemDetail{}, err
	}
	return items, nil
}
