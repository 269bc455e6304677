package repository

import (
	"context"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	repo "github.com/Syarif-H55/smart-cashier/internal/repository"

	"gorm.io/gorm"
)

type MenuGormRepository struct {
	db *gorm.DB
}

// DI
func NewMenuGormRepository(db *gorm.DB) *MenuGormRepository {
	return &MenuGormRepository{db: db}
}

// 販売中のメニューだけを category, name 順で返す
func (r *MenuGormRepository) ListAvailable(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("category asc").
		Order("name asc").
		Find(&menus).Error
	if err != nil {
		return []model.Menu{}, err
	}
	return menus, nil
}

// 販売中のメニューをIDで取得
func (r *MenuGormRepository) FindAvailableByID(ctx context.Context, id int64) (model.Menu, error) {
	var m model.Menu
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_available = ?", id, true).
		First(&m).Error
	if isNotFound(err) {
		return model.Menu{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Menu{}, err
	}
	return m, nil
}

// IDでメニューを取得（販売停止中も含む）
func (r *MenuGormRepository) FindByID(ctx context.Context, id int64) (model.Menu, error) {
	var m model.Menu
	err := r.db.WithContext(ctx).First(&m, id).Error
	if isNotFound(err) {
		return model.Menu{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Menu{}, err
	}
	return m, nil
}

// メニューの作成
func (r *MenuGormRepository) Create(ctx context.Context, m model.Menu) (model.Menu, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Menu{}, err
	}
	return m, nil
}

// 販売状態の更新
func (r *MenuGormRepository) UpdateAvailability(ctx context.Context, id int64, isAvailable bool) error {
	res := r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("id = ?", id).
		Update("is_available", isAvailable)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// メニュー削除（論理削除）
func (r *MenuGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Menu{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
