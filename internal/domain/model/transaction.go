package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodQRIS PaymentMethod = "qris"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodQRIS:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

// 売上（ヘッダ）。作成後は更新しない。
// TransactionCodeは表示用のラベルで、一意キーはID。
type Transaction struct {
	ID              int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionCode string            `gorm:"type:varchar(32);not null;index" json:"transaction_code"`
	UserID          int64             `gorm:"not null;index" json:"user_id"`
	TotalAmount     decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentMethod   PaymentMethod     `gorm:"type:varchar(10);not null" json:"payment_method"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt       time.Time         `gorm:"not null;index" json:"created_at"`
}
