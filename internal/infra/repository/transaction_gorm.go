package repository

import (
	"context"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	repo "github.com/Syarif-H55/smart-cashier/internal/repository"

	"gorm.io/gorm"
)

type TransactionGormRepository struct {
	db *gorm.DB
}

func NewTransactionGormRepository(db *gorm.DB) *TransactionGormRepository {
	return &TransactionGormRepository{db: db}
}

func (r *TransactionGormRepository) Create(ctx context.Context, t model.Transaction) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (r *TransactionGormRepository) FindByID(ctx context.Context, id int64) (model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if isNotFound(err) {
		return model.Transaction{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

func (r *TransactionGormRepository) ListAll(ctx context.Context) ([]model.Transaction, error) {
	var items []model.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.Transaction{}, err
	}
	return items, nil
}

func (r *TransactionGormRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("transaction_code = ?", code).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
