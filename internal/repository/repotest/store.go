// Package repotest はテスト用のインメモリrepository。
// WithinTxはステージングに書き、fnがnilを返したときだけ反映する。
package repotest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	repo "github.com/Syarif-H55/smart-cashier/internal/repository"
)

var ErrInjected = errors.New("injected failure")

type Store struct {
	mu sync.Mutex

	menus        map[int64]menuRow
	transactions []model.Transaction
	items        []model.TransactionItem

	nextMenuID int64
	nextTxID   int64
	nextItemID int64

	// 1始まり。スコープ内のN件目の明細insertを失敗させる
	FailItemInsertAt int
	// ヘッダinsertを失敗させる
	FailHeaderInsert bool
	// 読み取り系を失敗させる
	FailReads bool
}

type menuRow struct {
	menu    model.Menu
	deleted bool
}

func NewStore() *Store {
	return &Store{menus: map[int64]menuRow{}}
}

// テスト用にメニューを直接入れる
func (s *Store) AddMenu(m model.Menu) model.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMenuID++
	if m.ID == 0 {
		m.ID = s.nextMenuID
	}
	s.menus[m.ID] = menuRow{menu: m}
	return m
}

func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// コミット済みの明細（id順）
func (s *Store) Items() []model.TransactionItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TransactionItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Menus() repo.MenuRepository                       { return &menuRepo{s: s} }
func (s *Store) Transactions() repo.TransactionRepository         { return &transactionRepo{s: s} }
func (s *Store) TransactionItems() repo.TransactionItemRepository { return &itemRepo{s: s} }
func (s *Store) TxManager() repo.TransactionManager               { return &txManager{s: s} }

type txManager struct {
	s *Store
}

// 全体をロックして直列に実行する
func (m *txManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	scope := &txScope{s: m.s}
	if err := fn(scope); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.s.transactions = append(m.s.transactions, scope.transactions...)
	m.s.items = append(m.s.items, scope.items...)
	return nil
}

type txScope struct {
	s            *Store
	transactions []model.Transaction
	items        []model.TransactionItem
	itemInserts  int
}

func (t *txScope) Transactions() repo.TransactionRepository         { return &scopedTransactions{t: t} }
func (t *txScope) TransactionItems() repo.TransactionItemRepository { return &scopedItems{t: t} }

// コミット済み＋このスコープで書いたもの
func (t *txScope) all() []model.Transaction {
	out := make([]model.Transaction, 0, len(t.s.transactions)+len(t.transactions))
	out = append(out, t.s.transactions...)
	return append(out, t.transactions...)
}

type scopedTransactions struct {
	t *txScope
}

func (r *scopedTransactions) Create(ctx context.Context, tr model.Transaction) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r.t.s.FailHeaderInsert {
		return 0, ErrInjected
	}
	r.t.s.nextTxID++
	tr.ID = r.t.s.nextTxID
	r.t.transactions = append(r.t.transactions, tr)
	return tr.ID, nil
}

func (r *scopedTransactions) FindByID(_ context.Context, id int64) (model.Transaction, error) {
	for _, tr := range r.t.all() {
		if tr.ID == id {
			return tr, nil
		}
	}
	return model.Transaction{}, repo.ErrNotFound
}

func (r *scopedTransactions) ListAll(context.Context) ([]model.Transaction, error) {
	return sortNewestFirst(r.t.all()), nil
}

func (r *scopedTransactions) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, tr := range r.t.all() {
		if tr.TransactionCode == code {
			return true, nil
		}
	}
	return false, nil
}

type scopedItems struct {
	t *txScope
}

func (r *scopedItems) Create(ctx context.Context, item model.TransactionItem) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.t.itemInserts++
	if r.t.s.FailItemInsertAt > 0 && r.t.itemInserts == r.t.s.FailItemInsertAt {
		return 0, ErrInjected
	}
	r.t.s.nextItemID++
	item.ID = r.t.s.nextItemID
	r.t.items = append(r.t.items, item)
	return item.ID, nil
}

func (r *scopedItems) ListByTransactionID(_ context.Context, transactionID int64) ([]model.TransactionItemDetail, error) {
	return r.t.s.details(append(append([]model.TransactionItem{}, r.t.s.items...), r.t.items...), transactionID), nil
}

type transactionRepo struct {
	s *Store
}

func (r *transactionRepo) Create(ctx context.Context, tr model.Transaction) (int64, error) {
	var id int64
	err := r.s.TxManager().WithinTx(ctx, func(tx repo.TxRepos) error {
		var err error
		id, err = tx.Transactions().Create(ctx, tr)
		return err
	})
	return id, err
}

func (r *transactionRepo) FindByID(_ context.Context, id int64) (model.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailReads {
		return model.Transaction{}, ErrInjected
	}
	for _, tr := range r.s.transactions {
		if tr.ID == id {
			return tr, nil
		}
	}
	return model.Transaction{}, repo.ErrNotFound
}

func (r *transactionRepo) ListAll(context.Context) ([]model.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailReads {
		return nil, ErrInjected
	}
	return sortNewestFirst(append([]model.Transaction{}, r.s.transactions...)), nil
}

func (r *transactionRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, tr := range r.s.transactions {
		if tr.TransactionCode == code {
			return true, nil
		}
	}
	return false, nil
}

type itemRepo struct {
	s *Store
}

func (r *itemRepo) Create(ctx context.Context, item model.TransactionItem) (int64, error) {
	var id int64
	err := r.s.TxManager().WithinTx(ctx, func(tx repo.TxRepos) error {
		var err error
		id, err = tx.TransactionItems().Create(ctx, item)
		return err
	})
	return id, err
}

func (r *itemRepo) ListByTransactionID(_ context.Context, transactionID int64) ([]model.TransactionItemDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailReads {
		return nil, ErrInjected
	}
	return r.s.details(r.s.items, transactionID), nil
}

// 呼び出し側でロック済み。削除済みメニューの名前も返す
func (s *Store) details(items []model.TransactionItem, transactionID int64) []model.TransactionItemDetail {
	out := []model.TransactionItemDetail{}
	for _, it := range items {
		if it.TransactionID != transactionID {
			continue
		}
		row, ok := s.menus[it.MenuID]
		if !ok {
			continue
		}
		out = append(out, model.TransactionItemDetail{TransactionItem: it, MenuName: row.menu.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortNewestFirst(list []model.Transaction) []model.Transaction {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list
}
