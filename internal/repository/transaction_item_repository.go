package repository

import (
	"context"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
)

type TransactionItemRepository interface {
	// 明細を1件作成してIDを返す
	Create(ctx context.Context, item model.TransactionItem) (int64, error)

	// 投入順（id asc）。メニュー名付き
	ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionItemDetail, error)
}
