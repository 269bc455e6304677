package model

import "github.com/shopspring/decimal"

// 売上明細
// 販売時点の単価を必ず保存（メニューの現在価格とは独立）。
type TransactionItem struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID int64           `gorm:"not null;index" json:"transaction_id"`
	MenuID        int64           `gorm:"not null;index" json:"menu_id"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`

	Transaction *Transaction `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
}

// 参照用（メニュー名付き）
type TransactionItemDetail struct {
	TransactionItem
	MenuName string `json:"menu_name"`
}
