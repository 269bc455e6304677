package repository

import (
	"context"

	repo "github.com/Syarif-H55/smart-cashier/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	transactions     repo.TransactionRepository
	transactionItems repo.TransactionItemRepository
}

func (r *txReposGorm) Transactions() repo.TransactionRepository         { return r.transactions }
func (r *txReposGorm) TransactionItems() repo.TransactionItemRepository { return r.transactionItems }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがnilを返したらcommit、エラーかpanicならrollback
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			transactions:     NewTransactionGormRepository(tx),
			transactionItems: NewTransactionItemGormRepository(tx),
		}
		return fn(r)
	})
}
