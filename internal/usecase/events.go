package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const EventTransactionCreated = "transaction.created"

// commit後に通知する内容
type TransactionCreatedEvent struct {
	TransactionID   int64           `json:"transaction_id"`
	TransactionCode string          `json:"transaction_code"`
	UserID          int64           `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	ItemCount       int             `json:"item_count"`
	CreatedAt       time.Time       `json:"created_at"`
}

// 通知の失敗は取引の結果に影響させない
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, ev TransactionCreatedEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishTransactionCreated(context.Context, TransactionCreatedEvent) error {
	return nil
}
