package repository

import (
	"context"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
)

type TransactionRepository interface {
	// ヘッダを作成して採番されたIDを返す
	Create(ctx context.Context, t model.Transaction) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Transaction, error)

	// 新しい順（created_at desc, id desc）
	ListAll(ctx context.Context) ([]model.Transaction, error)

	// 表示用コードの重複確認
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
