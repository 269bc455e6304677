package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Transactions() TransactionRepository
	TransactionItems() TransactionItemRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全部rollback、nilならcommit。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
