package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuCategory string

const (
	MenuCategoryFood     MenuCategory = "food"
	MenuCategoryBeverage MenuCategory = "beverage"
	MenuCategoryDessert  MenuCategory = "dessert"
)

func (c MenuCategory) Valid() bool {
	switch c {
	case MenuCategoryFood, MenuCategoryBeverage, MenuCategoryDessert:
		return true
	}
	return false
}

// 販売できる商品（メニュー）
// 削除は論理削除。過去の明細からメニュー名を引けるようにする。
type Menu struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Category    MenuCategory    `gorm:"type:varchar(20);not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	ImageURL    *string         `gorm:"type:varchar(512)" json:"image_url"`
	IsAvailable bool            `gorm:"not null;default:true;index" json:"is_available"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
